package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod is an HMAC signing algorithm.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// Config configures the token service.
type Config struct {
	// Secret is the HMAC signing key.
	Secret string `mapstructure:"secret"`

	// Method is the signing algorithm (default: HS256).
	Method SigningMethod `mapstructure:"method"`

	Issuer   string   `mapstructure:"issuer"`
	Audience []string `mapstructure:"audience"`

	// AccessTokenTTL is the lifetime of access tokens (default: 30m).
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = 30 * time.Minute
	}
}

// Validate checks the secret and signing method.
func (c *Config) Validate() error {
	switch c.Method {
	case HS256, HS384, HS512:
	default:
		return errors.New("unsupported signing method: " + string(c.Method))
	}
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	if c.AccessTokenTTL < 0 {
		return errors.New("access_token_ttl must not be negative")
	}
	return nil
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return gojwt.SigningMethodHS256
	}
}

func (c *Config) key() []byte {
	return []byte(c.Secret)
}
