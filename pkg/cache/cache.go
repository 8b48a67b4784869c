// Package cache stores generated header bytes between builds.
//
// A header is a pure function of the level name and text, so the build
// cache is keyed on both. When the cached bytes match the header already on
// disk the pipeline skips the write and the file keeps its modification
// time, which keeps downstream incremental C++ builds quiet.
//
// Two implementations exist:
//   - [FileCache]: JSON entries under a directory (CLI default)
//   - [NullCache]: never stores anything (--no-cache, tests)
package cache

import (
	"context"
	"time"
)

// TTLHeader bounds how long a cached header is trusted.
const TTLHeader = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}
