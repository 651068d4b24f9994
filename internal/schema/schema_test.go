package schema_test

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/lyrebird/database/migration"
	"github.com/kbukum/lyrebird/internal/schema"
	"github.com/kbukum/lyrebird/internal/schema/schematest"
)

func TestMigrations_DriversMatch(t *testing.T) {
	sqlite, err := fs.Glob(schema.Migrations(), "sqlite/*.sql")
	require.NoError(t, err)
	postgres, err := fs.Glob(schema.Migrations(), "postgres/*.sql")
	require.NoError(t, err)

	require.NotEmpty(t, sqlite)
	assert.Len(t, postgres, len(sqlite), "every migration needs a postgres variant")
}

func TestMigrations_ApplyOnSQLite(t *testing.T) {
	db := schematest.NewDB(t)

	for _, table := range []string{"users", "dictations", "user_edits", "user_preferences"} {
		assert.True(t, db.GormDB.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestMigrations_RollBack(t *testing.T) {
	db := schematest.NewDB(t)
	driverFunc, err := migration.DriverFor(db.Driver())
	require.NoError(t, err)

	version, dirty, err := migration.Version(db.GormDB, schema.Migrations(), db.Driver(), driverFunc)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, migration.Down(db.GormDB, schema.Migrations(), db.Driver(), driverFunc))
	for _, table := range []string{"users", "dictations", "user_edits", "user_preferences"} {
		assert.False(t, db.GormDB.Migrator().HasTable(table), "table %s survived rollback", table)
	}
}
