package llm

import (
	"fmt"
	"time"
)

// Config holds configuration for an LLM adapter.
type Config struct {
	// Dialect selects the provider mapping ("openai", "ollama").
	Dialect string `mapstructure:"dialect"`
	BaseURL string `mapstructure:"base_url"`
	// APIKey is sent as a bearer token when set.
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	// Headers are sent with every request.
	Headers map[string]string `mapstructure:"headers"`
	// MaxAttempts bounds tries per request on 429, 5xx and network errors.
	// Defaults to 1 so a failed formatting pass surfaces immediately.
	MaxAttempts int `mapstructure:"max_attempts"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Dialect == "" {
		c.Dialect = "openai"
	}
	if c.BaseURL == "" {
		switch c.Dialect {
		case "ollama":
			c.BaseURL = "http://localhost:11434"
		default:
			c.BaseURL = "https://api.openai.com/v1"
		}
	}
	if c.Model == "" {
		c.Model = "gpt-4o"
	}
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Dialect == "" {
		return fmt.Errorf("llm: dialect is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("llm: base_url is required")
	}
	if c.Model == "" {
		return fmt.Errorf("llm: model is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("llm: timeout must be positive")
	}
	return nil
}
