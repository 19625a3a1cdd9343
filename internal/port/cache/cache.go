package cache

import (
	"context"
	"time"
)

// CacheRepository stores opaque values under string keys.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrNotFound is returned by Get on a cache miss.
const ErrNotFound = CacheError("key not found in cache")
