package database

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"testing/fstest"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/lyrebird/errors"
	"github.com/kbukum/lyrebird/logger"
)

func TestConfig_ApplyDefaults_SQLite(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Driver != DriverSQLite || cfg.DSN != "lyrebird.db" {
		t.Errorf("unexpected driver defaults %+v", cfg)
	}
	if cfg.MaxOpenConns != 1 || cfg.MaxIdleConns != 1 {
		t.Errorf("expected a single sqlite connection, got %d/%d", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != "0s" {
		t.Errorf("expected no connection recycling for sqlite, got %q", cfg.ConnMaxLifetime)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown driver", Config{Driver: "mysql", DSN: "x"}},
		{"postgres without dsn", Config{Driver: DriverPostgres}},
		{"bad duration", Config{Driver: DriverSQLite, SlowQueryThreshold: "soon"}},
		{"idle above open", Config{Driver: DriverPostgres, DSN: "x", MaxOpenConns: 2, MaxIdleConns: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := map[string]string{
		":memory:":                  ":memory:?_foreign_keys=on",
		"data.db?cache=shared":      "data.db?cache=shared&_foreign_keys=on",
		"data.db?_foreign_keys=off": "data.db?_foreign_keys=off",
	}
	for in, want := range tests {
		if got := sqliteDSN(in); got != want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromDatabase(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   apperrors.ErrorCode
		status int
	}{
		{"not found", gorm.ErrRecordNotFound, apperrors.ErrCodeNotFound, http.StatusNotFound},
		{"translated duplicate", gorm.ErrDuplicatedKey, apperrors.ErrCodeAlreadyExists, http.StatusConflict},
		{"sqlite duplicate", fmt.Errorf("UNIQUE constraint failed: users.email"), apperrors.ErrCodeAlreadyExists, http.StatusConflict},
		{"foreign key", fmt.Errorf("FOREIGN KEY constraint failed"), apperrors.ErrCodeInvalidInput, http.StatusBadRequest},
		{"connection", fmt.Errorf("dial tcp: connection refused"), apperrors.ErrCodeDatabaseError, http.StatusServiceUnavailable},
		{"other", fmt.Errorf("syntax error"), apperrors.ErrCodeDatabaseError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDatabase(tt.err, "user")
			if appErr.Code != tt.code || appErr.HTTPStatus != tt.status {
				t.Errorf("got %s/%d, want %s/%d", appErr.Code, appErr.HTTPStatus, tt.code, tt.status)
			}
		})
	}
	if FromDatabase(nil, "user") != nil {
		t.Error("expected nil for nil error")
	}
}

var testMigrations = fstest.MapFS{
	"sqlite/000001_notes.up.sql": &fstest.MapFile{Data: []byte(
		"CREATE TABLE notes (id TEXT PRIMARY KEY, body TEXT NOT NULL, created_at DATETIME, updated_at DATETIME);",
	)},
	"sqlite/000001_notes.down.sql": &fstest.MapFile{Data: []byte("DROP TABLE notes;")},
}

type note struct {
	BaseModel
	Body string
}

func TestComponent_LifecycleWithMigrations(t *testing.T) {
	ctx := context.Background()
	c := NewComponent(Config{DSN: ":memory:", AutoMigrate: true}, logger.NewNop()).
		WithMigrations(testMigrations)

	if h := c.Health(ctx); h.Status != "unhealthy" {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer c.Stop(ctx)

	if h := c.Health(ctx); h.Status != "healthy" {
		t.Fatalf("expected healthy, got %s (%s)", h.Status, h.Message)
	}

	n := note{Body: "hello"}
	if err := c.DB().WithContext(ctx).Create(&n).Error; err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if n.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("expected BeforeCreate to assign an id")
	}

	// Migrating again is a no-op.
	if err := Migrate(c.DB(), testMigrations); err != nil {
		t.Errorf("second migrate failed: %v", err)
	}
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx, Config{DSN: ":memory:"}, logger.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer db.Close()
	if err := Migrate(db, testMigrations); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	boom := stderrors.New("boom")
	err = db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&note{Body: "lost"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !stderrors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int64
	db.WithContext(ctx).Model(&note{}).Count(&count)
	if count != 0 {
		t.Errorf("expected rollback, found %d rows", count)
	}
}
