package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/lyrebird/httpclient"
	"github.com/kbukum/lyrebird/httpclient/rest"
)

// ErrNoDialect is returned by NewWithDialect for a nil dialect.
var ErrNoDialect = errors.New("llm: dialect is required")

// Completer is anything that can run a chat completion. Adapter implements
// it and tests substitute fakes.
type Completer interface {
	Execute(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

// Adapter is a chat-completion client for any provider with a Dialect.
type Adapter struct {
	rest      *rest.Client
	dialect   Dialect
	model     string
	temp      float64
	maxTokens int
}

var _ Completer = (*Adapter)(nil)

// New creates an adapter using the dialect registered under cfg.Dialect.
func New(cfg Config) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dialect, err := GetDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return newAdapter(dialect, cfg)
}

// NewWithDialect creates an adapter with an explicit dialect instance.
func NewWithDialect(dialect Dialect, cfg Config) (*Adapter, error) {
	if dialect == nil {
		return nil, ErrNoDialect
	}
	cfg.Dialect = dialect.Name()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newAdapter(dialect, cfg)
}

func newAdapter(dialect Dialect, cfg Config) (*Adapter, error) {
	retry := httpclient.DefaultRetryConfig()
	retry.MaxAttempts = cfg.MaxAttempts
	restCfg := httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Headers: cfg.Headers,
		Retry:   retry,
		Breaker: httpclient.DefaultBreakerConfig(dialect.Name() + "-llm"),
	}
	if cfg.APIKey != "" {
		restCfg.Auth = httpclient.BearerAuth(cfg.APIKey)
	}
	client, err := rest.New(restCfg)
	if err != nil {
		return nil, fmt.Errorf("llm: create rest client: %w", err)
	}

	return &Adapter{
		rest:      client,
		dialect:   dialect,
		model:     cfg.Model,
		temp:      cfg.Temperature,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Name returns the adapter name.
func (a *Adapter) Name() string { return a.dialect.Name() + "-llm" }

// Model returns the default model.
func (a *Adapter) Model() string { return a.model }

// Dialect returns the dialect used by this adapter.
func (a *Adapter) Dialect() Dialect { return a.dialect }

// IsAvailable reports whether the provider answers its health endpoint.
// Dialects without one are assumed available.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	hp := a.dialect.HealthPath()
	if hp == "" {
		return true
	}
	_, err := rest.Get[json.RawMessage](ctx, a.rest, hp)
	return err == nil
}

// Execute sends a completion request and returns the full response.
func (a *Adapter) Execute(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	a.applyDefaults(&req)

	body, err := a.dialect.BuildRequest(req)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: build request: %w", err)
	}

	resp, err := rest.Post[json.RawMessage](ctx, a.rest, a.dialect.ChatPath(), body)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: execute: %w", err)
	}

	result, err := a.dialect.ParseResponse(resp.Data)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: parse response: %w", err)
	}
	return *result, nil
}

func (a *Adapter) applyDefaults(req *CompletionRequest) {
	if req.Model == "" {
		req.Model = a.model
	}
	if req.Temperature == 0 {
		req.Temperature = a.temp
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = a.maxTokens
	}
}
