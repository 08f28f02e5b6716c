package cachemanager

import (
	"context"
	"time"
)

// DeriveFunc computes the value for an input on cache miss.
type DeriveFunc[I, V any] func(ctx context.Context, input I) (V, error)

// ReadThroughCache pairs a derivation function with a cache. Get serves
// hits from the cache and stores the derived value on miss; derivation
// errors are never cached.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache  CacheManager[K, V]
	derive DeriveFunc[I, V]
	skip   bool
}

// NewReadThroughCache creates a read-through cache. With skip set, every
// Get derives fresh; useful when the caller wants caching to be a config
// toggle rather than a code path.
func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	derive DeriveFunc[I, V],
	skip bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{cache: cache, derive: derive, skip: skip}
}

// Get returns the cached value for key, deriving and storing it on miss.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, false)
}

// GetWithRefresh is Get with a sliding TTL: a hit re-arms the entry's
// expiry instead of letting it age out.
func (r *ReadThroughCache[K, V, I]) GetWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, true)
}

func (r *ReadThroughCache[K, V, I]) get(ctx context.Context, key K, input I, ttl time.Duration, refresh bool) (V, error) {
	if r.skip {
		return r.derive(ctx, input)
	}

	var value V
	var ok bool
	if refresh {
		value, ok = r.cache.GetWithRefresh(ctx, key, ttl)
	} else {
		value, ok = r.cache.Get(ctx, key)
	}
	if ok {
		return value, nil
	}

	value, err := r.derive(ctx, input)
	if err != nil {
		return value, err
	}
	r.cache.Set(ctx, key, value, ttl)
	return value, nil
}
