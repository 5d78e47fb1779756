package persistence

import (
	"context"
	"errors"
)

// ErrNotFound is returned by BlobStore.Get when the key holds nothing.
var ErrNotFound = errors.New("blob not found")

// BlobStore is a minimal key/value store for opaque snapshots.
type BlobStore interface {
	// Get returns the stored bytes, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error
	// Close releases the backend connection.
	Close() error
}

// IsNotFound reports whether err means the key held nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
