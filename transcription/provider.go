package transcription

import "context"

// Provider is the interface speech-to-text backends implement.
type Provider interface {
	Name() string

	// Transcribe sends audio and returns the recognized text.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}
