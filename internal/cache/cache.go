// Package cache stores short-lived authentication verdicts.
//
// Two backends are available:
//   - single (Ristretto): local in-memory cache with TinyLFU admission
//   - disabled (Noop): stores nothing, every lookup misses
//
// All implementations are safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// Cache defines the operations the verdict cache needs.
type Cache interface {
	// Get returns ErrNotFound on a miss and ErrClosed after Close.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value for ttl. A zero ttl means no expiration.
	// Admission is best effort: a successful Set may still miss later.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources. It is idempotent.
	Close() error
}

// Stats provides cache statistics for observability.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	KeysAdded uint64 `json:"keys_added"`
	Evictions uint64 `json:"evictions"`
}

// StatsProvider is implemented by caches that track statistics.
type StatsProvider interface {
	Stats() Stats
}
