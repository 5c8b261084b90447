// Package cache stores rendered recipe fragments with a time to live.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for rendered fragments. A zero or negative
// ttl stores nothing.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
