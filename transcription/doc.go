// Package transcription defines the speech-to-text provider interface and
// its request and response types. Backends live in sub-packages:
//
//   - transcription/whisper: the OpenAI-compatible /audio/transcriptions API
package transcription
