package availability

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, 5*time.Minute, nil), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, _ := newRedisCache(t)

	_, ok := cache.Get(ctx, "2026-09-01_2026-09-30")
	assert.False(t, ok)

	value := sampleMap("2026-09-07")
	cache.Set(ctx, "2026-09-01_2026-09-30", value)

	got, ok := cache.Get(ctx, "2026-09-01_2026-09-30")
	require.True(t, ok)
	assert.Equal(t, value, got)
}

func TestRedisCacheTTL(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t)

	cache.Set(ctx, "key", sampleMap("2026-09-07"))

	mr.FastForward(4 * time.Minute)
	_, ok := cache.Get(ctx, "key")
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	_, ok = cache.Get(ctx, "key")
	assert.False(t, ok, "redis expiry removes stale entries")
}

func TestRedisCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	cache, _ := newRedisCache(t)

	cache.Set(ctx, "a", sampleMap("2026-09-07"))
	cache.Set(ctx, "b", sampleMap("2026-09-08"))

	cache.Invalidate(ctx, "a")
	_, ok := cache.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "b")
	assert.True(t, ok)
}

func TestRedisCacheInvalidateAll(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t)

	cache.Set(ctx, "a", sampleMap("2026-09-07"))
	cache.Set(ctx, "b", sampleMap("2026-09-08"))
	// Unrelated keys survive a full availability invalidation.
	require.NoError(t, mr.Set("other:key", "keep"))

	cache.InvalidateAll(ctx)

	_, ok := cache.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "b")
	assert.False(t, ok)
	assert.True(t, mr.Exists("other:key"))
}

func TestRedisCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t)

	require.NoError(t, mr.Set(redisKeyPrefix+"bad", "not json"))
	_, ok := cache.Get(ctx, "bad")
	assert.False(t, ok)
}
