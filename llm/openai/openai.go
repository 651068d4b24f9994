// Package openai is the llm dialect for the OpenAI chat completions API.
// Importing it registers the "openai" dialect.
package openai

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/lyrebird/llm"
)

// DialectName is the registry key.
const DialectName = "openai"

// ErrRefusal is returned when the model refuses to answer.
var ErrRefusal = errors.New("openai: model refused the request")

func init() {
	llm.RegisterDialect(DialectName, &Dialect{})
}

// Dialect maps llm requests onto /chat/completions.
type Dialect struct{}

var _ llm.Dialect = (*Dialect)(nil)

func (d *Dialect) Name() string       { return DialectName }
func (d *Dialect) ChatPath() string   { return "/chat/completions" }
func (d *Dialect) HealthPath() string { return "/models" }

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []llm.Message   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
			Refusal *string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage llm.Usage `json:"usage"`
}

// BuildRequest builds the chat completions body. A ResponseFormat without a
// schema falls back to plain JSON mode.
func (d *Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("openai: model is required")
	}
	body := chatRequest{
		Model:       req.Model,
		Messages:    req.AllMessages(),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if rf := req.ResponseFormat; rf != nil {
		if rf.Schema == nil {
			body.ResponseFormat = &responseFormat{Type: "json_object"}
		} else {
			name := rf.Name
			if name == "" {
				name = "response"
			}
			body.ResponseFormat = &responseFormat{
				Type:       "json_schema",
				JSONSchema: &jsonSchema{Name: name, Strict: rf.Strict, Schema: rf.Schema},
			}
		}
	}
	return body, nil
}

// ParseResponse reads the first choice.
func (d *Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: response has no choices")
	}
	choice := resp.Choices[0]
	if choice.Message.Refusal != nil && *choice.Message.Refusal != "" {
		return nil, fmt.Errorf("%w: %s", ErrRefusal, *choice.Message.Refusal)
	}
	var content string
	if choice.Message.Content != nil {
		content = *choice.Message.Content
	}
	return &llm.CompletionResponse{
		Content:      content,
		Model:        resp.Model,
		FinishReason: choice.FinishReason,
		Usage:        resp.Usage,
	}, nil
}
