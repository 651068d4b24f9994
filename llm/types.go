package llm

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the provider-neutral input for a chat completion.
type CompletionRequest struct {
	// Model overrides the adapter's default model.
	Model    string    `json:"model,omitempty"`
	Messages []Message `json:"messages"`
	// SystemPrompt is prepended as a system message.
	SystemPrompt string  `json:"system_prompt,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
	// MaxTokens of 0 means provider default.
	MaxTokens int `json:"max_tokens,omitempty"`
	// ResponseFormat asks for JSON output matching a schema.
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ResponseFormat describes structured output. Schema is a JSON Schema object.
type ResponseFormat struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	// Strict makes the provider guarantee the reply matches Schema.
	Strict bool `json:"strict"`
}

// CompletionResponse is the provider-neutral output of a chat completion.
type CompletionResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	// FinishReason is empty when the provider does not report one.
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        Usage  `json:"usage"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// AllMessages returns req's messages with the system prompt first.
func (req CompletionRequest) AllMessages() []Message {
	msgs := make([]Message, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: req.SystemPrompt})
	}
	return append(msgs, req.Messages...)
}
