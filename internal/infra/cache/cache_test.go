package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_TTL(t *testing.T) {
	c := NewMemoryCache()
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "token", "abc", time.Minute))
	v, err := c.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "abc", v)

	current = current.Add(time.Minute)
	_, err = c.Get(ctx, "token")
	require.ErrorIs(t, err, ErrCacheMiss)

	ok, err := c.Exists(ctx, "token")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Delete(ctx, "k"))
	_, err := c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrCacheMiss)
}

// 需要 redis，未設定 SHOP_TEST_REDIS_ADDR 時略過
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("SHOP_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SHOP_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	c := NewRedisCache(client, "test_prefix")
	require.NoError(t, c.Ping(ctx))

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	raw, err := client.Get(ctx, "test_prefix:k").Result()
	require.NoError(t, err)
	require.Equal(t, "v", raw)

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrCacheMiss)
}
