// Package rest adds typed JSON decoding on top of httpclient.
//
//	resp, err := rest.Get[User](ctx, c, "/auth/me", rest.WithAuth(httpclient.BearerAuth(token)))
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kbukum/lyrebird/httpclient"
)

// Client is a JSON REST client.
type Client struct {
	http *httpclient.Client
}

// New creates a REST client that asks for JSON responses.
func New(cfg httpclient.Config) (*Client, error) {
	headers := make(map[string]string, len(cfg.Headers)+1)
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	if _, ok := headers["Accept"]; !ok {
		headers["Accept"] = "application/json"
	}
	cfg.Headers = headers

	c, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// HTTP returns the underlying client.
func (c *Client) HTTP() *httpclient.Client {
	return c.http
}

// RequestOption configures a single request.
type RequestOption func(*httpclient.Request)

// WithQuery sets query parameters.
func WithQuery(params map[string]string) RequestOption {
	return func(r *httpclient.Request) { r.Query = params }
}

// WithAuth overrides authentication for the request.
func WithAuth(auth *httpclient.AuthConfig) RequestOption {
	return func(r *httpclient.Request) { r.Auth = auth }
}

// Response is a decoded response.
type Response[T any] struct {
	StatusCode int
	Headers    map[string]string
	Data       T
}

// Get performs a GET and decodes the JSON body into T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodGet, path, nil, opts...)
}

// Post performs a POST. body is encoded as httpclient.Request documents.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodPost, path, body, opts...)
}

func do[T any](ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) (*Response[T], error) {
	req := httpclient.Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	var data T
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			return nil, fmt.Errorf("httpclient/rest: decode response: %w", err)
		}
	}
	return &Response[T]{StatusCode: resp.StatusCode, Headers: resp.Headers, Data: data}, nil
}
