// Package cachemanager wraps patrickmn/go-cache behind a typed interface.
// The locale resolver keeps its process-wide symbol cache here.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a typed, TTL-based key/value cache safe for concurrent use.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
	ItemCount() int
}
