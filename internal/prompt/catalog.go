// Package prompt resolves system prompts by name and renders the user
// messages sent alongside them.
//
// Defaults are embedded in the binary. Setting Config.Dir lets an operator
// replace any prompt with a <dir>/<name>.md file without a rebuild.
package prompt

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Default prompt names.
const (
	FormatTranscript = "format-transcript"
	CreateMemory     = "create-memory"
)

// ErrUnknownPrompt is returned for a name with no file on disk and no default.
var ErrUnknownPrompt = errors.New("prompt: unknown prompt")

//go:embed defaults/*.md
var defaults embed.FS

// Config selects prompt names and an optional override directory.
type Config struct {
	Dir         string `mapstructure:"dir"`
	FormatName  string `mapstructure:"format_name"`
	ExtractName string `mapstructure:"extract_name"`
}

// ApplyDefaults fills unset names.
func (c *Config) ApplyDefaults() {
	if c.FormatName == "" {
		c.FormatName = FormatTranscript
	}
	if c.ExtractName == "" {
		c.ExtractName = CreateMemory
	}
}

// Validate rejects names that would escape the override directory.
func (c *Config) Validate() error {
	for _, name := range []string{c.FormatName, c.ExtractName} {
		if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
			return fmt.Errorf("prompt: invalid prompt name %q", name)
		}
	}
	return nil
}

// Catalog loads prompts once and caches them.
type Catalog struct {
	cfg Config

	mu    sync.RWMutex
	cache map[string]string
}

// NewCatalog creates a catalog.
func NewCatalog(cfg Config) (*Catalog, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Catalog{cfg: cfg, cache: make(map[string]string)}, nil
}

// Format returns the formatter's system prompt.
func (c *Catalog) Format() (string, error) { return c.Get(c.cfg.FormatName) }

// Extract returns the preference extractor's system prompt.
func (c *Catalog) Extract() (string, error) { return c.Get(c.cfg.ExtractName) }

// Get returns the prompt called name, preferring the override directory.
func (c *Catalog) Get(name string) (string, error) {
	c.mu.RLock()
	text, ok := c.cache[name]
	c.mu.RUnlock()
	if ok {
		return text, nil
	}

	text, err := c.load(name)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.cache[name] = text
	c.mu.Unlock()
	return text, nil
}

func (c *Catalog) load(name string) (string, error) {
	file := name + ".md"
	if c.cfg.Dir != "" {
		data, err := os.ReadFile(filepath.Join(c.cfg.Dir, file))
		switch {
		case err == nil:
			return strings.TrimSpace(string(data)), nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("prompt: read %s: %w", name, err)
		}
	}

	data, err := defaults.ReadFile("defaults/" + file)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownPrompt, name)
	}
	return strings.TrimSpace(string(data)), nil
}
