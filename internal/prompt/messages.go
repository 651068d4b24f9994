package prompt

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

var (
	formatMessage = prompts.NewPromptTemplate(
		"### USER FORMATTING PREFERENCES\n{{.preferences}}\n\n### TRANSCRIPT TO PROCESS\n{{.transcript}}",
		[]string{"preferences", "transcript"},
	)
	extractMessage = prompts.NewPromptTemplate(
		"### ORIGINAL AI VERSION\n{{.original}}\n\n### USER-EDITED VERSION\n{{.edited}}\n\n### EXISTING USER PREFERENCES\n{{.existing}}",
		[]string{"original", "edited", "existing"},
	)
)

// FormatMessage renders the formatter's user message. Every preference
// appears on its own line.
func FormatMessage(preferences []string, transcript string) (string, error) {
	out, err := formatMessage.Format(map[string]any{
		"preferences": strings.Join(preferences, "\n"),
		"transcript":  transcript,
	})
	if err != nil {
		return "", fmt.Errorf("prompt: render format message: %w", err)
	}
	return out, nil
}

// ExtractMessage renders the preference extractor's user message.
func ExtractMessage(original, edited string, existing []string) (string, error) {
	out, err := extractMessage.Format(map[string]any{
		"original": original,
		"edited":   edited,
		"existing": strings.Join(existing, "\n"),
	})
	if err != nil {
		return "", fmt.Errorf("prompt: render extract message: %w", err)
	}
	return out, nil
}
