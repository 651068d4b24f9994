package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Download for a missing key.
var ErrNotFound = errors.New("storage: object not found")

// Storage is the object storage contract.
type Storage interface {
	// Upload writes r under key. contentType may be empty.
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error

	// Download opens the object under key. The caller closes it.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)
}
