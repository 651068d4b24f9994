package preference

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/lyrebird/internal/prompt"
	"github.com/kbukum/lyrebird/llm"
	"github.com/kbukum/lyrebird/observability"
)

// Formatter rewrites a raw transcript according to a user's preferences.
// It makes one model call and does not retry.
type Formatter struct {
	llm     llm.Completer
	prompts *prompt.Catalog
	metrics *observability.Metrics
}

// NewFormatter creates a Formatter. metrics may be nil.
func NewFormatter(completer llm.Completer, prompts *prompt.Catalog, metrics *observability.Metrics) *Formatter {
	return &Formatter{llm: completer, prompts: prompts, metrics: metrics}
}

// Format returns the formatted transcript. Every error is returned.
func (f *Formatter) Format(ctx context.Context, transcript string, preferences []string) (out string, err error) {
	ctx, op := observability.StartOperation(ctx, f.metrics, "dictation.format",
		attribute.Int("preferences.count", len(preferences)))
	defer func() { op.End(ctx, err) }()

	system, err := f.prompts.Format()
	if err != nil {
		return "", err
	}
	user, err := prompt.FormatMessage(preferences, transcript)
	if err != nil {
		return "", err
	}
	out, err = llm.Complete(ctx, f.llm, system, user)
	if err != nil {
		return "", fmt.Errorf("format transcript: %w", err)
	}
	return out, nil
}
