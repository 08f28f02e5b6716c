// Package cachemanager provides a generic TTL cache used for memoizing
// expensive derivations: tokenizer scans keyed by content hash and rendered
// markdown keyed by viewport width.
package cachemanager

import (
	"context"
	"time"
)

type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
