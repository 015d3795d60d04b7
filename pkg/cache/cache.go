// Package cache provides the storage layer for intermediate planning results.
//
// Two things are worth caching: the bounding box of each mesh file (reading a
// dense OBJ sequence dominates planning time) and fully composed scenes (so
// re-dispatching a render with unchanged settings skips planning entirely).
//
// Backends:
//   - [NullCache] disables caching.
//   - [FileCache] stores entries under the user's cache directory (CLI).
//   - [RedisCache] shares entries between batch workers and API replicas.
//
// Keys are built by a [Keyer] so every backend agrees on the key layout.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. The bool reports whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// TTLs per entry type.
const (
	// TTLBounds covers mesh bounds. Keys include file size and mtime, so
	// stale entries are never hit; the TTL only bounds disk usage.
	TTLBounds = 30 * 24 * time.Hour

	// TTLScene covers composed scenes.
	TTLScene = 7 * 24 * time.Hour
)
