package domain

import (
	"context"
	"time"
)

type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the port for the content cache. Implementations map their own miss signal to ErrCacheMiss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key; an expiration of 0 keeps it indefinitely.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// Delete does not fail for a missing key.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
