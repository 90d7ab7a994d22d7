package storage

import "context"

// Storage is a key-value store for generic values.
type Storage interface {
	// Get returns the value stored under key. found is false when the key
	// has never been set; err reports read or decode failures.
	Get(ctx context.Context, key string) (value any, found bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value any) error
}
