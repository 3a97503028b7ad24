package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkravets/product-catalog/internal/domain"
)

// RedisCache stores opaque payloads with per-key TTLs. It has no knowledge
// of key layout or payload encoding.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: key %q", domain.ErrCacheMiss, key)
		}
		return nil, fmt.Errorf("%w: failed to get key %q from cache: %s", domain.ErrInternalCache, key, err.Error())
	}
	return data, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: failed to store key %q in cache: %s", domain.ErrInternalCache, key, err.Error())
	}
	return nil
}

// Delete is idempotent: evicting absent keys is not an error.
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: failed to delete keys %v from cache: %s", domain.ErrInternalCache, keys, err.Error())
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: cache ping failed: %s", domain.ErrInternalCache, err.Error())
	}
	return nil
}
