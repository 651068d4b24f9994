// Package schematest opens migrated in-memory sqlite databases for tests.
package schematest

import (
	"context"
	"testing"

	"github.com/kbukum/lyrebird/database"
	"github.com/kbukum/lyrebird/internal/schema"
	"github.com/kbukum/lyrebird/logger"
)

// NewDB returns a fresh in-memory database with every migration applied.
// It is closed when the test ends.
func NewDB(t testing.TB) *database.DB {
	t.Helper()
	db, err := database.New(context.Background(), database.Config{
		Driver:     database.DriverSQLite,
		DSN:        ":memory:",
		MaxRetries: 1,
		LogLevel:   "silent",
	}, logger.NewNop())
	if err != nil {
		t.Fatalf("schematest: open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(db, schema.Migrations()); err != nil {
		t.Fatalf("schematest: migrate: %v", err)
	}
	return db
}
