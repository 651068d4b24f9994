package dictation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kbukum/lyrebird/util"
)

// DefaultMaxUploadSize is the default upload limit.
const DefaultMaxUploadSize = "10MB"

// DefaultAllowedTypes are the accepted audio content types.
var DefaultAllowedTypes = []string{"audio/mpeg", "audio/wav", "audio/mp4", "audio/ogg"}

// Config controls upload validation and the pipeline.
type Config struct {
	MaxUploadSize string   `mapstructure:"max_upload_size"`
	AllowedTypes  []string `mapstructure:"allowed_types"`
	// Language is passed to the transcription provider as a hint.
	Language string `mapstructure:"language"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = DefaultMaxUploadSize
	}
	if len(c.AllowedTypes) == 0 {
		c.AllowedTypes = append([]string(nil), DefaultAllowedTypes...)
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MaxBytes() <= 0 {
		return fmt.Errorf("dictation: invalid max_upload_size %q", c.MaxUploadSize)
	}
	for _, t := range c.AllowedTypes {
		if !strings.Contains(t, "/") {
			return fmt.Errorf("dictation: invalid allowed type %q", t)
		}
	}
	if len(c.AllowedTypes) == 0 {
		return errors.New("dictation: allowed_types must not be empty")
	}
	return nil
}

// MaxBytes returns the upload limit in bytes.
func (c *Config) MaxBytes() int64 {
	return util.ParseSize(c.MaxUploadSize, -1)
}
