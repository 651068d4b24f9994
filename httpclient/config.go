package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/lyrebird/resilience"
)

const defaultTimeout = 30 * time.Second

// Config configures the HTTP client.
type Config struct {
	// BaseURL is prepended to relative request paths.
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds each request, including reading the body. Defaults to 30s.
	Timeout time.Duration `mapstructure:"timeout"`

	// Headers are sent with every request.
	Headers map[string]string `mapstructure:"headers"`

	// Auth is applied to every request unless the request overrides it.
	Auth *AuthConfig `mapstructure:"-"`

	// Retry re-sends requests that fail with a retryable *Error. Nil
	// disables it. Bodies given as a Reader are not replayed.
	Retry *resilience.RetryConfig `mapstructure:"-"`

	// Breaker stops calling an upstream after repeated failures. Nil disables it.
	Breaker *resilience.BreakerConfig `mapstructure:"-"`
}

// DefaultRetryConfig retries timeouts, connection errors, 429 and 5xx.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}

// DefaultBreakerConfig opens after five consecutive failures.
func DefaultBreakerConfig(name string) *resilience.BreakerConfig {
	return &resilience.BreakerConfig{Name: name, MaxFailures: 5, Cooldown: 30 * time.Second}
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	return nil
}
