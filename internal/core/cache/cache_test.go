package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"ingredient-parser/internal/infrastructure/config"
	"ingredient-parser/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, maxSize int, ttl time.Duration) *CacheManager {
	t.Helper()
	m := NewManager(config.CacheConfig{
		Enabled:         true,
		MaxSize:         maxSize,
		TTL:             ttl,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestManagerGetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager(t, 10, time.Hour)

	_, err := m.Get(ctx, "100 ml milk")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, m.Set(ctx, "100 ml milk", `{"quantity":"100"}`))

	got, err := m.Get(ctx, "100 ml milk")
	require.NoError(t, err)
	assert.Equal(t, `{"quantity":"100"}`, got)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 0.5, stats["hit_ratio"])
}

func TestManagerExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager(t, 10, time.Millisecond)

	require.NoError(t, m.Set(ctx, "salt", "v"))
	time.Sleep(5 * time.Millisecond)

	_, err := m.Get(ctx, "salt")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	assert.Equal(t, 0, m.GetStats()["size"])
}

func TestManagerEvictsLeastUsed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager(t, 2, time.Hour)

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))

	// "a" 被訪問過，"b" 應被淘汰
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	_, err = m.Get(ctx, "a")
	assert.NoError(t, err)
	_, err = m.Get(ctx, "c")
	assert.NoError(t, err)

	// 覆寫既有鍵不觸發淘汰
	require.NoError(t, m.Set(ctx, "c", "4"))
	assert.Equal(t, 2, m.GetStats()["size"])
}

func TestManagerDisabled(t *testing.T) {
	t.Parallel()

	m := NewManager(config.CacheConfig{Enabled: false})
	defer m.Close()

	assert.False(t, m.Enabled())
	assert.NoError(t, m.Set(context.Background(), "salt", "v"))
	_, err := m.Get(context.Background(), "salt")
	assert.ErrorIs(t, err, common.ErrCacheDisabled)
}

func TestManagerCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	m := NewManager(config.CacheConfig{Enabled: true, MaxSize: 1, TTL: time.Hour, CleanupInterval: time.Minute})
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}

func TestKeys(t *testing.T) {
	t.Parallel()

	assert.True(t, strings.HasPrefix(redisKey("salt"), redisKeyPrefix))
	assert.Equal(t, redisKey("salt"), redisKey("salt"))
	assert.NotEqual(t, redisKey("salt"), redisKey("Salt"))
	assert.Len(t, generateKey("salt"), len("parse:")+64)
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, config.RedisConfig{Addr: "127.0.0.1:1", TTL: time.Minute})
	assert.Error(t, err)
}
