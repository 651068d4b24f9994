package preference

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/lyrebird/internal/prompt"
	"github.com/kbukum/lyrebird/llm"
	"github.com/kbukum/lyrebird/logger"
	"github.com/kbukum/lyrebird/observability"
	"github.com/kbukum/lyrebird/validation"
)

// MaxRuleLength bounds an extracted rule.
const MaxRuleLength = 1000

// memoryFormat is the strict JSON schema the extraction reply must follow.
var memoryFormat = &llm.ResponseFormat{
	Name:   "memory",
	Strict: true,
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"memory_to_write": map[string]any{
				"type":        []string{"string", "null"},
				"description": "One new formatting preference, or null when the edit teaches nothing new.",
			},
		},
		"required":             []string{"memory_to_write"},
		"additionalProperties": false,
	},
}

type memoryReply struct {
	MemoryToWrite *string `json:"memory_to_write" validate:"omitempty,max=1000"`
}

// Extractor asks the model for a new preference implied by an edit.
type Extractor struct {
	llm     llm.Completer
	prompts *prompt.Catalog
	metrics *observability.Metrics
	log     *logger.Logger
}

// NewExtractor creates an Extractor. metrics may be nil.
func NewExtractor(completer llm.Completer, prompts *prompt.Catalog, metrics *observability.Metrics, log *logger.Logger) *Extractor {
	return &Extractor{
		llm:     completer,
		prompts: prompts,
		metrics: metrics,
		log:     log.WithComponent("preference-extractor"),
	}
}

// Extract returns the new rule and true, or "" and false when there is
// none. It never fails: every error is logged at warn and counted.
func (e *Extractor) Extract(ctx context.Context, original, edited string, existing []string) (string, bool) {
	ctx, op := observability.StartOperation(ctx, e.metrics, "preference.extract",
		attribute.Int("preferences.existing", len(existing)))

	rule, err := e.extract(ctx, original, edited, existing)
	op.End(ctx, err)
	if err != nil {
		e.metrics.ExtractionFailed(ctx)
		e.log.WithContext(ctx).Warn("Preference extraction failed, continuing without a new preference",
			logger.Fields(logger.FieldError, err.Error()))
		return "", false
	}
	if rule == "" {
		e.log.WithContext(ctx).Debug("No new preference in edit")
		return "", false
	}
	return rule, true
}

func (e *Extractor) extract(ctx context.Context, original, edited string, existing []string) (string, error) {
	system, err := e.prompts.Extract()
	if err != nil {
		return "", err
	}
	user, err := prompt.ExtractMessage(original, edited, existing)
	if err != nil {
		return "", err
	}

	var reply memoryReply
	if err := llm.CompleteStructured(ctx, e.llm, system, user, memoryFormat, &reply); err != nil {
		return "", err
	}
	if err := validation.Validate(reply); err != nil {
		return "", fmt.Errorf("invalid extraction reply: %w", err)
	}
	if reply.MemoryToWrite == nil {
		return "", nil
	}
	return strings.TrimSpace(*reply.MemoryToWrite), nil
}
