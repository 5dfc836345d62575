// Package cache provides byte-oriented caches for registry metadata.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under ~/.cache/bumper (CLI default)
//   - [RedisCache]: a shared Redis instance, for CI fleets hitting the same
//     repository many times a day
//   - [NewNullCache]: never stores anything (--no-cache, tests)
//
// [Namespace] scopes any backend to a key prefix so different repositories
// never share entries.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads by key.
//
// Get reports a miss as (nil, false, nil); expired entries are misses.
// A ttl of 0 passed to Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

var (
	_ Clearer = (*FileCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
