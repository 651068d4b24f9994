package storage

import (
	"context"
	"fmt"

	"github.com/kbukum/lyrebird/component"
	"github.com/kbukum/lyrebird/logger"
)

// Component manages the storage lifecycle. When disabled Storage returns nil
// and callers skip archiving.
type Component struct {
	storage Storage
	cfg     Config
	log     *logger.Logger
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a storage component.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("storage")}
}

// Storage returns the backend, or nil if disabled or not started.
func (c *Component) Storage() Storage {
	return c.storage
}

// Name returns the component name.
func (c *Component) Name() string { return "storage" }

// Start initializes the backend.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		c.log.Info("storage component is disabled")
		return nil
	}
	s, err := New(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.storage = s
	return nil
}

// Stop releases the backend.
func (c *Component) Stop(_ context.Context) error {
	c.storage = nil
	return nil
}

// Health probes the backend with an existence check.
func (c *Component) Health(ctx context.Context) component.Health {
	switch {
	case !c.cfg.Enabled:
		return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: "disabled"}
	case c.storage == nil:
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "storage not initialized"}
	}
	if _, err := c.storage.Exists(ctx, ".health"); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: fmt.Sprintf("health probe failed: %v", err)}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns summary info for the startup banner.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = "provider=" + c.cfg.Provider
		switch c.cfg.Provider {
		case ProviderLocal:
			details += " path=" + c.cfg.BasePath
		case ProviderS3:
			details += " bucket=" + c.cfg.Bucket
		}
	}
	return component.Description{Name: "Storage", Type: "storage", Details: details}
}
