package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Complete sends a system and a user prompt and returns the reply text.
func Complete(ctx context.Context, c Completer, system, user string) (string, error) {
	resp, err := c.Execute(ctx, CompletionRequest{
		SystemPrompt: system,
		Messages:     []Message{{Role: RoleUser, Content: user}},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// CompleteStructured asks for a JSON reply matching format and decodes it
// into result. Fields not in result are rejected.
func CompleteStructured(ctx context.Context, c Completer, system, user string, format *ResponseFormat, result any) error {
	resp, err := c.Execute(ctx, CompletionRequest{
		SystemPrompt:   system,
		Messages:       []Message{{Role: RoleUser, Content: user}},
		ResponseFormat: format,
	})
	if err != nil {
		return err
	}
	return DecodeStrict(resp.Content, result)
}

// DecodeStrict decodes a single JSON object from s into v, tolerating
// markdown fences around it.
func DecodeStrict(s string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(extractJSON(s))))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("llm: unmarshal structured response: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("llm: unmarshal structured response: trailing data")
	}
	return nil
}

// extractJSON pulls a JSON object out of model output that may be wrapped in
// markdown fences.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s[3:], "\n"); idx >= 0 {
			s = s[3+idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
