// Package client is a typed client for the Lyrebird API and the session
// state the command-line dashboard keeps between invocations.
package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kbukum/lyrebird/httpclient"
	"github.com/kbukum/lyrebird/httpclient/rest"
)

// DefaultBaseURL is the API address used when none is configured.
const DefaultBaseURL = "http://localhost:8000"

// ErrNotAuthenticated is returned by calls that need a token when none is set.
var ErrNotAuthenticated = errors.New("client: not authenticated")

// User is the API view of an account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Token is a login result.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Dictation is a transcribed and formatted upload.
type Dictation struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	Text          string `json:"text"`
	FormattedText string `json:"formatted_text"`
}

// PreferenceResult is the outcome of submitting an edit. ID is nil when
// the edit taught nothing new.
type PreferenceResult struct {
	ID          *string `json:"id"`
	UserID      string  `json:"user_id"`
	Rules       string  `json:"rules"`
	UserEditsID string  `json:"user_edits_id"`
}

// Client calls the Lyrebird API.
type Client struct {
	rest  *rest.Client
	token string
}

// Option configures a Client.
type Option func(*httpclient.Config)

// WithTimeout bounds each request. Uploads and formatting can be slow.
func WithTimeout(d time.Duration) Option {
	return func(c *httpclient.Config) { c.Timeout = d }
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cfg := httpclient.Config{BaseURL: baseURL, Timeout: 2 * time.Minute}
	for _, opt := range opts {
		opt(&cfg)
	}
	rc, err := rest.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{rest: rc}, nil
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) auth() (rest.RequestOption, error) {
	if c.token == "" {
		return nil, ErrNotAuthenticated
	}
	return rest.WithAuth(httpclient.BearerAuth(c.token)), nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password string) (*User, error) {
	resp, err := rest.Post[User](ctx, c.rest, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	form := url.Values{"username": {email}, "password": {password}}
	resp, err := rest.Post[Token](ctx, c.rest, "/auth/login", form)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	auth, err := c.auth()
	if err != nil {
		return nil, err
	}
	resp, err := rest.Get[User](ctx, c.rest, "/auth/me", auth)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CreateDictation uploads audio. When progress is non-nil every byte read
// from data is also written to it.
func (c *Client) CreateDictation(ctx context.Context, fileName string, data []byte, progress io.Writer) (*Dictation, error) {
	auth, err := c.auth()
	if err != nil {
		return nil, err
	}
	var src io.Reader = bytes.NewReader(data)
	if progress != nil {
		src = io.TeeReader(src, progress)
	}
	body := &httpclient.MultipartBody{Files: []httpclient.FileField{{
		FieldName:   "audio",
		FileName:    filepath.Base(fileName),
		ContentType: ContentType(fileName, data),
		Reader:      src,
	}}}
	resp, err := rest.Post[Dictation](ctx, c.rest, "/dictations/", body, auth)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Dictations lists the user's dictations, newest first.
func (c *Client) Dictations(ctx context.Context) ([]Dictation, error) {
	auth, err := c.auth()
	if err != nil {
		return nil, err
	}
	resp, err := rest.Get[[]Dictation](ctx, c.rest, "/dictations/", auth)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// SubmitEdit sends the formatted text and the user's revision of it.
func (c *Client) SubmitEdit(ctx context.Context, original, edited string) (*PreferenceResult, error) {
	auth, err := c.auth()
	if err != nil {
		return nil, err
	}
	resp, err := rest.Post[PreferenceResult](ctx, c.rest, "/dictations/preference_extract", nil, auth,
		rest.WithQuery(map[string]string{"original_text": original, "edited_text": edited}))
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Preferences returns the user's rules with duplicates removed, first
// occurrence kept.
func (c *Client) Preferences(ctx context.Context) ([]string, error) {
	auth, err := c.auth()
	if err != nil {
		return nil, err
	}
	resp, err := rest.Get[[]PreferenceResult](ctx, c.rest, "/dictations/preferences", auth)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(resp.Data))
	rules := make([]string, 0, len(resp.Data))
	for _, p := range resp.Data {
		if p.Rules == "" || seen[p.Rules] {
			continue
		}
		seen[p.Rules] = true
		rules = append(rules, p.Rules)
	}
	return rules, nil
}

var extensionTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".mpeg": "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".mp4":  "audio/mp4",
	".m4a":  "audio/mp4",
}

// ContentType picks the upload type from the file extension, then from
// the content, and falls back to audio/wav.
func ContentType(fileName string, data []byte) string {
	if ct, ok := extensionTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
		return ct
	}
	detected := mimetype.Detect(data)
	for _, ct := range []string{"audio/mpeg", "audio/wav", "audio/ogg", "audio/mp4"} {
		if detected.Is(ct) {
			return ct
		}
	}
	return "audio/wav"
}

// ErrorMessage returns the server's message for an API error, or err's text.
func ErrorMessage(err error) string {
	if e, ok := httpclient.AsError(err); ok && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
