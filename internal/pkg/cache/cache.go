// Package cache provides a small TTL cache used by list queries.
// Implementations are injected so handlers can be tested with a fresh store.
package cache

import (
	"context"
	"time"
)

// Store is a byte-value cache with per-entry TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
