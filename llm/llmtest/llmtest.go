// Package llmtest provides a scripted llm.Completer for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/kbukum/lyrebird/llm"
)

// ErrNoReply is returned when a Completer runs out of scripted replies.
var ErrNoReply = errors.New("llmtest: no scripted reply")

// Reply is one scripted answer. A non-nil Err is returned instead of Content.
type Reply struct {
	Content string
	Err     error
}

// Completer answers requests with scripted replies in order and records
// every request it sees.
type Completer struct {
	mu       sync.Mutex
	replies  []Reply
	requests []llm.CompletionRequest
}

// New returns a Completer that answers with replies in order.
func New(replies ...Reply) *Completer {
	return &Completer{replies: replies}
}

// Text returns a Completer whose replies are the given contents.
func Text(contents ...string) *Completer {
	replies := make([]Reply, len(contents))
	for i, c := range contents {
		replies[i] = Reply{Content: c}
	}
	return New(replies...)
}

// Execute implements llm.Completer.
func (c *Completer) Execute(_ context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = append(c.requests, req)
	if len(c.replies) == 0 {
		return llm.CompletionResponse{}, ErrNoReply
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	if r.Err != nil {
		return llm.CompletionResponse{}, r.Err
	}
	return llm.CompletionResponse{Content: r.Content, Model: "scripted", FinishReason: "stop"}, nil
}

// Requests returns a copy of the requests seen so far.
func (c *Completer) Requests() []llm.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]llm.CompletionRequest(nil), c.requests...)
}

var _ llm.Completer = (*Completer)(nil)
