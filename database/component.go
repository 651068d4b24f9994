package database

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/kbukum/lyrebird/component"
	"github.com/kbukum/lyrebird/database/migration"
	"github.com/kbukum/lyrebird/logger"
)

// Component wraps DB and implements component.Component.
type Component struct {
	db         *DB
	cfg        Config
	log        *logger.Logger
	migrations fs.FS
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a database component for the registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: log.WithComponent("database"),
	}
}

// WithMigrations sets the migration tree applied on Start when AutoMigrate
// is on. fsys holds one directory per driver, e.g. sqlite/ and postgres/.
func (c *Component) WithMigrations(fsys fs.FS) *Component {
	c.migrations = fsys
	return c
}

// DB returns the underlying *DB, or nil before Start.
func (c *Component) DB() *DB {
	return c.db
}

func (c *Component) Name() string { return "database" }

// Start connects and applies pending migrations.
func (c *Component) Start(ctx context.Context) error {
	db, err := New(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	c.db = db

	if c.cfg.AutoMigrate && c.migrations != nil {
		if err := Migrate(db, c.migrations); err != nil {
			return fmt.Errorf("database migrate: %w", err)
		}
	}
	return nil
}

// Migrate applies the migrations for db's driver from fsys.
func Migrate(db *DB, fsys fs.FS) error {
	driverFunc, err := migration.DriverFor(db.Driver())
	if err != nil {
		return err
	}
	if err := migration.Up(db.GormDB, fsys, db.Driver(), driverFunc); err != nil {
		return err
	}
	version, _, err := migration.Version(db.GormDB, fsys, db.Driver(), driverFunc)
	if err == nil {
		db.log.Info("Database migrations applied", logger.Fields("version", version))
	}
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	if c.db == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "database not initialized"}
	}

	status := c.db.CheckHealth(ctx)
	if !status.Connected {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "ping failed: " + status.Error}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe reports the driver and pool for the startup summary.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("%s pool=%d/%d", c.cfg.Driver, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if c.cfg.AutoMigrate {
		details += " migrate=on"
	}
	return component.Description{Name: "Database", Type: "database", Details: details}
}
