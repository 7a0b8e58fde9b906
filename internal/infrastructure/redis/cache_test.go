package redisinfra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pugly/api/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCache(rdb), mr
}

func TestCache_SetGetDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetWithTTL(ctx, "otp:a@b.com", "digest", 10*time.Minute))

	v, err := c.Get(ctx, "otp:a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "digest", v)

	require.NoError(t, c.Delete(ctx, "otp:a@b.com"))
	_, err = c.Get(ctx, "otp:a@b.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCache_GetMissingKey(t *testing.T) {
	c, _ := newTestCache(t)
	_, err := c.Get(context.Background(), "otp:never-set")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCache_TTLExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetWithTTL(ctx, "otp:a@b.com", "digest", 10*time.Minute))
	mr.FastForward(10*time.Minute + time.Second)

	_, err := c.Get(ctx, "otp:a@b.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCache_OverwriteResetsTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetWithTTL(ctx, "otp:a@b.com", "first", 10*time.Minute))
	mr.FastForward(9 * time.Minute)
	require.NoError(t, c.SetWithTTL(ctx, "otp:a@b.com", "second", 10*time.Minute))
	mr.FastForward(9 * time.Minute)

	v, err := c.Get(ctx, "otp:a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}

func TestCache_DeleteAbsentKeyIsNoError(t *testing.T) {
	c, _ := newTestCache(t)
	assert.NoError(t, c.Delete(context.Background(), "otp:never-set"))
}
