// Package ollama is the llm dialect for a local Ollama server's /api/chat.
// Importing it registers the "ollama" dialect.
package ollama

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/lyrebird/llm"
)

// DialectName is the registry key.
const DialectName = "ollama"

func init() {
	llm.RegisterDialect(DialectName, &Dialect{})
}

// Dialect maps llm requests onto Ollama's native chat API.
type Dialect struct{}

var _ llm.Dialect = (*Dialect)(nil)

func (d *Dialect) Name() string       { return DialectName }
func (d *Dialect) ChatPath() string   { return "/api/chat" }
func (d *Dialect) HealthPath() string { return "/api/tags" }

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
	// Format is "json" or a JSON schema object.
	Format  any            `json:"format,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         llm.Message `json:"message"`
	Done            bool        `json:"done"`
	DoneReason      string      `json:"done_reason,omitempty"`
	PromptEvalCount int         `json:"prompt_eval_count,omitempty"`
	EvalCount       int         `json:"eval_count,omitempty"`
}

// BuildRequest builds a non-streaming chat request.
func (d *Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	body := chatRequest{
		Model:    req.Model,
		Messages: req.AllMessages(),
	}
	if rf := req.ResponseFormat; rf != nil {
		if rf.Schema != nil {
			body.Format = rf.Schema
		} else {
			body.Format = "json"
		}
	}
	opts := map[string]any{}
	if req.Temperature != 0 {
		opts["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		opts["num_predict"] = req.MaxTokens
	}
	if len(opts) > 0 {
		body.Options = opts
	}
	return body, nil
}

// ParseResponse maps Ollama's reply and token counters.
func (d *Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}
	return &llm.CompletionResponse{
		Content:      resp.Message.Content,
		Model:        resp.Model,
		FinishReason: resp.DoneReason,
		Usage: llm.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}, nil
}
