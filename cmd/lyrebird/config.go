package main

import (
	"errors"
	"fmt"

	"github.com/kbukum/lyrebird/auth"
	"github.com/kbukum/lyrebird/config"
	"github.com/kbukum/lyrebird/database"
	"github.com/kbukum/lyrebird/internal/dictation"
	"github.com/kbukum/lyrebird/internal/prompt"
	"github.com/kbukum/lyrebird/llm"
	"github.com/kbukum/lyrebird/observability"
	"github.com/kbukum/lyrebird/server"
	"github.com/kbukum/lyrebird/storage"
	"github.com/kbukum/lyrebird/transcription/whisper"
)

// Config is the lyrebird service configuration.
type Config struct {
	config.ServiceConfig `mapstructure:",squash"`

	Server        server.Config        `mapstructure:"server"`
	Database      database.Config      `mapstructure:"database"`
	Auth          auth.Config          `mapstructure:"auth"`
	LLM           llm.Config           `mapstructure:"llm"`
	Transcription whisper.Config       `mapstructure:"transcription"`
	Prompts       prompt.Config        `mapstructure:"prompts"`
	Dictation     dictation.Config     `mapstructure:"dictation"`
	Storage       storage.Config       `mapstructure:"storage"`
	Observability observability.Config `mapstructure:"observability"`
}

// envAliases keeps the environment names existing deployments already set.
var envAliases = map[string]string{
	"OPENAI_API_KEY": "llm.api_key",
	"SECRET_KEY":     "auth.jwt.secret",
	"DATABASE_URL":   "database.dsn",
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "lyrebird"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.LLM.ApplyDefaults()
	// Whisper shares the chat model's OpenAI key unless given its own.
	if c.Transcription.APIKey == "" && c.LLM.Dialect == "openai" {
		c.Transcription.APIKey = c.LLM.APIKey
	}
	c.Transcription.ApplyDefaults()
	c.Prompts.ApplyDefaults()
	c.Dictation.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section and reports all failures together.
func (c *Config) Validate() error {
	var errs []error
	add := func(section string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", section, err))
		}
	}
	add("service", c.ServiceConfig.Validate())
	add("server", c.Server.Validate())
	add("database", c.Database.Validate())
	add("auth", c.Auth.Validate())
	add("llm", c.LLM.Validate())
	add("transcription", c.Transcription.Validate())
	add("prompts", c.Prompts.Validate())
	add("dictation", c.Dictation.Validate())
	if c.Storage.Enabled {
		add("storage", c.Storage.Validate())
	}
	add("observability", c.Observability.Validate())
	return errors.Join(errs...)
}
