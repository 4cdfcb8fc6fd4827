package service

import (
	"context"
	"time"
)

// Cache is the minimal cache surface the services need. Satisfied by both the
// redis client and the in-memory fallback in pkg/cache.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
