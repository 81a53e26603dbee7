// Package cache provides pluggable caching for parsed datasets and
// exported chart artifacts.
//
// Rendering the same upload with the same style and format always yields
// the same bytes, so export results are cached under a key derived from
// the dataset hash plus every style and export knob. Four backends exist:
//
//   - FileCache: directory of JSON entries, the CLI default
//   - RedisCache: shared cache for the HTTP server
//   - MongoCache: durable cache with server-side expiry
//   - NullCache: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with per-entry TTL.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// errors are reserved for backend failures. A ttl of zero means the entry
// never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
