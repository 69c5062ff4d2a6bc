// Package cache persists per-layout column caches between runs.
//
// The engine remembers how a layout looked at every column count it has
// been rescaled through, so that going 12 → 1 → 12 restores the original
// placement. That memory lives in the engine and dies with the process;
// this package stores it in a [Cache] keyed by the layout's identity, so
// CLI invocations and API requests can pick it up again.
//
// Three backends are provided:
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for server deployments
//   - [NullCache]: caching disabled
//
// [MemoryCache] keeps entries in process and is useful in tests.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// TTLLayouts is how long a stored column cache lives after its last write.
const TTLLayouts = 30 * 24 * time.Hour
