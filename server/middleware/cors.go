package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig holds CORS settings. An origin list of just "*" allows any origin.
type CORSConfig struct {
	AllowedOrigins   []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods   []string      `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `yaml:"allowed_headers" mapstructure:"allowed_headers"`
	ExposedHeaders   []string      `yaml:"exposed_headers" mapstructure:"exposed_headers"`
	AllowCredentials bool          `yaml:"allow_credentials" mapstructure:"allow_credentials"`
	MaxAge           time.Duration `yaml:"max_age" mapstructure:"max_age"`
}

// ApplyDefaults fills empty lists with permissive defaults.
func (c *CORSConfig) ApplyDefaults() {
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", HeaderRequestID}
	}
	if len(c.ExposedHeaders) == 0 {
		c.ExposedHeaders = []string{HeaderRequestID}
	}
	if c.MaxAge == 0 {
		c.MaxAge = 12 * time.Hour
	}
}

// CORS returns the gin-contrib/cors handler for cfg.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	return cors.New(toContribConfig(cfg))
}

func toContribConfig(cfg CORSConfig) cors.Config {
	out := cors.Config{
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		// Credentialed requests cannot use a literal "*", so echo the origin back instead.
		if cfg.AllowCredentials {
			out.AllowOriginFunc = func(string) bool { return true }
		} else {
			out.AllowAllOrigins = true
		}
		return out
	}
	out.AllowOrigins = cfg.AllowedOrigins
	return out
}
