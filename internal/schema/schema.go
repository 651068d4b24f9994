// Package schema holds the versioned SQL migrations for users, dictations,
// user edits and user preferences, one directory per database driver.
package schema

import (
	"embed"
	"io/fs"
)

//go:embed migrations
var migrations embed.FS

// Migrations returns the migration tree rooted so that sqlite/ and
// postgres/ are top-level directories.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}
