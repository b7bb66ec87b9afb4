package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has no value
var ErrNotFound = errors.New("key not found")

// Storage is a small key/value store for client state that must survive
// restarts. Values are opaque strings.
type Storage interface {
	// Get returns the value for key, or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Put writes all entries together. Backends that can do so write
	// them atomically.
	Put(ctx context.Context, entries map[string]string) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
