package ports

import (
	"context"
	"time"
)

// Cache stores opaque serialized payloads under string keys. It carries no
// domain knowledge: key layout and payload encoding belong to the service
// layer. Get returns domain.ErrCacheMiss for an absent or expired key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}
