package redisinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pugly/api/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Cache is a thin adapter over Redis for transient per-key-TTL state.
// Keys are purpose-scoped by the caller (e.g. "otp:{email}"); no ordering
// guarantees exist across keys.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// SetWithTTL stores value at key, overwriting any prior value and resetting
// the expiry to ttl.
func (c *Cache) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Get returns the value at key, or domain.ErrNotFound when the key is absent
// or has expired.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("cache key %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("cache get %q: %w", key, err)
	}
	return v, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %q: %w", key, err)
	}
	return nil
}
