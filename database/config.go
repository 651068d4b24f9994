package database

import (
	"fmt"
	"strings"
	"time"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds database connection configuration.
type Config struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`

	// DSN is a file path for sqlite and a connection string for postgres.
	DSN string `mapstructure:"dsn"`

	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime string `mapstructure:"conn_max_idle_time"`

	// MaxRetries is the number of connection attempts before giving up.
	MaxRetries int `mapstructure:"max_retries"`

	// AutoMigrate applies the embedded SQL migrations on start.
	AutoMigrate bool `mapstructure:"auto_migrate"`

	SlowQueryThreshold string `mapstructure:"slow_query_threshold"`

	// LogLevel is the GORM log level: silent, error, warn or info.
	LogLevel string `mapstructure:"log_level"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverSQLite
	}
	c.Driver = strings.ToLower(c.Driver)
	if c.DSN == "" && c.Driver == DriverSQLite {
		c.DSN = "lyrebird.db"
	}
	if c.MaxOpenConns <= 0 {
		// sqlite serializes writers, and a single connection keeps an
		// in-memory database alive across queries.
		if c.Driver == DriverSQLite {
			c.MaxOpenConns = 1
		} else {
			c.MaxOpenConns = 25
		}
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = min(5, c.MaxOpenConns)
	}
	if c.ConnMaxLifetime == "" {
		c.ConnMaxLifetime = "1h"
		if c.Driver == DriverSQLite {
			c.ConnMaxLifetime = "0s"
		}
	}
	if c.ConnMaxIdleTime == "" {
		c.ConnMaxIdleTime = "5m"
		if c.Driver == DriverSQLite {
			c.ConnMaxIdleTime = "0s"
		}
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
	if c.SlowQueryThreshold == "" {
		c.SlowQueryThreshold = "200ms"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// Validate checks that required fields are present and parseable.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q (want sqlite or postgres)", c.Driver)
	}
	if c.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("max_idle_conns (%d) must be <= max_open_conns (%d)", c.MaxIdleConns, c.MaxOpenConns)
	}
	for _, d := range []struct{ name, value string }{
		{"conn_max_lifetime", c.ConnMaxLifetime},
		{"conn_max_idle_time", c.ConnMaxIdleTime},
		{"slow_query_threshold", c.SlowQueryThreshold},
	} {
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
	}
	return nil
}
