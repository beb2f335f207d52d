package cachemanager

import (
	"context"
	"time"
)

// Loader produces the value for a key on a cache miss.
type Loader[K ~string, V any] func(ctx context.Context, key K) (V, error)

// ReadThroughCache fills a CacheManager from a Loader on misses. Loader
// errors are returned and nothing is cached for that key.
type ReadThroughCache[K ~string, V any] struct {
	cache   CacheManager[K, V]
	load    Loader[K, V]
	ttl     time.Duration
	refresh bool
}

// NewReadThroughCache creates a read-through cache. With refresh set, every
// hit extends the entry's TTL.
func NewReadThroughCache[K ~string, V any](cache CacheManager[K, V], load Loader[K, V], ttl time.Duration, refresh bool) *ReadThroughCache[K, V] {
	return &ReadThroughCache[K, V]{
		cache:   cache,
		load:    load,
		ttl:     ttl,
		refresh: refresh,
	}
}

// Get returns the cached value for key, loading and storing it on a miss.
func (r *ReadThroughCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	var (
		value V
		ok    bool
	)
	if r.refresh {
		value, ok = r.cache.GetWithRefresh(ctx, key, r.ttl)
	} else {
		value, ok = r.cache.Get(ctx, key)
	}
	if ok {
		return value, nil
	}

	value, err := r.load(ctx, key)
	if err != nil {
		return value, err
	}
	r.cache.Set(ctx, key, value, r.ttl)
	return value, nil
}

// Invalidate drops every cached value.
func (r *ReadThroughCache[K, V]) Invalidate(ctx context.Context) error {
	return r.cache.Flush(ctx)
}
