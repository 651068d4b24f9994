package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/kbukum/lyrebird/logger"
)

// Factory creates a Storage from config.
type Factory func(ctx context.Context, cfg Config, log *logger.Logger) (Storage, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// RegisterFactory registers a backend. Provider packages call it from init.
func RegisterFactory(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// New creates the Storage selected by cfg.Provider. The provider package
// must have been imported.
func New(ctx context.Context, cfg Config, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported provider %q (not registered)", cfg.Provider)
	}

	log.Info("initializing storage", logger.Fields("provider", cfg.Provider))
	s, err := f(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if cfg.Prefix != "" {
		s = &prefixed{Storage: s, prefix: cfg.Prefix}
	}
	return s, nil
}

type prefixed struct {
	Storage
	prefix string
}

func (p *prefixed) key(k string) string { return p.prefix + k }

func (p *prefixed) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	return p.Storage.Upload(ctx, p.key(key), r, contentType)
}

func (p *prefixed) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return p.Storage.Download(ctx, p.key(key))
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.Storage.Delete(ctx, p.key(key))
}

func (p *prefixed) Exists(ctx context.Context, key string) (bool, error) {
	return p.Storage.Exists(ctx, p.key(key))
}
