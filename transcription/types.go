package transcription

// Request holds the audio and parameters for a transcription call.
type Request struct {
	Audio []byte
	// FileName is sent to the backend, which uses its extension to detect the format.
	FileName    string
	ContentType string
	// Language is an ISO-639-1 hint such as "en". Empty lets the model detect it.
	Language string
	// Model overrides the provider default.
	Model string
}

// Response holds the result of a transcription call.
type Response struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments,omitempty"`
	// Duration is in seconds.
	Duration float64 `json:"duration,omitempty"`
	Language string  `json:"language,omitempty"`
}

// Segment is a time-aligned portion of a transcript. Times are in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
