// Package whisper transcribes audio through an OpenAI-compatible
// /audio/transcriptions endpoint.
package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/lyrebird/httpclient"
	"github.com/kbukum/lyrebird/transcription"
)

// ProviderName is the provider's name.
const ProviderName = "whisper"

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "whisper-1"
	defaultTimeout = 120 * time.Second
)

// Config holds configuration for the Whisper provider.
type Config struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
	// ResponseFormat is "json" or "verbose_json"; the latter adds segments.
	ResponseFormat string `mapstructure:"response_format"`
	MaxAttempts    int    `mapstructure:"max_attempts"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.ResponseFormat == "" {
		c.ResponseFormat = "json"
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 2
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.ResponseFormat {
	case "json", "verbose_json":
	default:
		return fmt.Errorf("whisper: unsupported response_format %q", c.ResponseFormat)
	}
	return nil
}

// Provider implements transcription.Provider.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a Whisper provider.
func NewProvider(cfg Config) (*Provider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	retry := httpclient.DefaultRetryConfig()
	retry.MaxAttempts = cfg.MaxAttempts
	hc := httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Retry:   retry,
		Breaker: httpclient.DefaultBreakerConfig(ProviderName),
	}
	if cfg.APIKey != "" {
		hc.Auth = httpclient.BearerAuth(cfg.APIKey)
	}
	client, err := httpclient.New(hc)
	if err != nil {
		return nil, fmt.Errorf("whisper: create client: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// Transcribe uploads the audio as multipart fields "file" and "model".
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if len(req.Audio) == 0 {
		return nil, fmt.Errorf("whisper: audio is empty")
	}

	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	lang := p.cfg.Language
	if req.Language != "" {
		lang = req.Language
	}
	fileName := req.FileName
	if fileName == "" {
		fileName = "audio.mpga"
	}

	fields := map[string]string{
		"model":           model,
		"response_format": p.cfg.ResponseFormat,
	}
	if lang != "" {
		fields["language"] = lang
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/audio/transcriptions",
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "file",
				FileName:    fileName,
				ContentType: req.ContentType,
				Data:        req.Audio,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("whisper: transcribe: %w", err)
	}

	var result whisperResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("whisper: decode response: %w", err)
	}
	return toResponse(&result), nil
}

type whisperResponse struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
	Segments []whisperSegment `json:"segments"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func toResponse(resp *whisperResponse) *transcription.Response {
	segments := make([]transcription.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		segments[i] = transcription.Segment{Start: seg.Start, End: seg.End, Text: seg.Text}
	}

	duration := resp.Duration
	if duration == 0 && len(resp.Segments) > 0 {
		duration = resp.Segments[len(resp.Segments)-1].End
	}

	return &transcription.Response{
		Text:     resp.Text,
		Segments: segments,
		Duration: duration,
		Language: resp.Language,
	}
}
