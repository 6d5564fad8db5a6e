package external

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weathermort.app/internal/config"
	"weathermort.app/internal/ports"
	"weathermort.app/pkg/errors"
)

func TestNewCacheProvider(t *testing.T) {
	t.Run("NilConfig", func(t *testing.T) {
		provider, err := NewCacheProvider(nil)
		assert.Nil(t, provider)
		assert.True(t, errors.IsConfigurationError(err))
	})

	t.Run("MemoryCache", func(t *testing.T) {
		provider, err := NewCacheProvider(&config.CacheConfig{
			Type: config.CacheTypeMemory,
		})
		require.NoError(t, err)
		assert.IsType(t, &MemoryCacheProvider{}, provider)
	})

	t.Run("RedisCache", func(t *testing.T) {
		_, redisConfig := setupMockRedis(t)

		provider, err := NewCacheProvider(&config.CacheConfig{
			Type:  config.CacheTypeRedis,
			Redis: *redisConfig,
		})
		require.NoError(t, err)
		assert.IsType(t, &RedisCacheProviderAdapter{}, provider)
	})

	t.Run("UnknownCacheType", func(t *testing.T) {
		provider, err := NewCacheProvider(&config.CacheConfig{
			Type: config.CacheTypeUnknown,
		})
		assert.Nil(t, provider)
		assert.True(t, errors.IsConfigurationError(err))
	})
}

func TestMemoryCacheProviderOperations(t *testing.T) {
	provider := NewMemoryCacheProvider()
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		key := "observations:Seoul:2026-03"
		value := []byte("serialized-rows")

		require.NoError(t, provider.Set(ctx, key, value, time.Minute))

		retrieved, err := provider.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, value, retrieved)
	})

	t.Run("GetMissingKey", func(t *testing.T) {
		retrieved, err := provider.Get(ctx, "missing")
		assert.Nil(t, retrieved)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("GetExpiredKey", func(t *testing.T) {
		key := "short-lived"
		require.NoError(t, provider.Set(ctx, key, []byte("v"), time.Nanosecond))
		time.Sleep(time.Millisecond)

		_, err := provider.Get(ctx, key)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("DeleteAndExists", func(t *testing.T) {
		key := "forecast-model:Jeju:30:2026-04-01"
		require.NoError(t, provider.Set(ctx, key, []byte("model"), time.Minute))

		exists, err := provider.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, provider.Delete(ctx, key))

		exists, err = provider.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, provider.Set(ctx, "a", []byte("1"), time.Minute))
		require.NoError(t, provider.Set(ctx, "b", []byte("2"), time.Minute))
		require.NoError(t, provider.Clear(ctx))

		_, err := provider.Get(ctx, "a")
		assert.Error(t, err)
		_, err = provider.Get(ctx, "b")
		assert.Error(t, err)
	})

	t.Run("ValidationErrors", func(t *testing.T) {
		assert.True(t, errors.IsValidationError(provider.Set(ctx, "", []byte("v"), time.Minute)))
		assert.True(t, errors.IsValidationError(provider.Set(ctx, "k", nil, time.Minute)))
		assert.True(t, errors.IsValidationError(provider.Set(ctx, "k", []byte("v"), 0)))
	})
}

func TestMemoryCacheProviderStats(t *testing.T) {
	provider := NewMemoryCacheProvider()
	ctx := context.Background()

	require.NoError(t, provider.Set(ctx, "k", []byte("v"), time.Minute))

	_, err := provider.Get(ctx, "k")
	require.NoError(t, err)
	_, err = provider.Get(ctx, "missing")
	assert.Error(t, err)

	stats := provider.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(2), stats.TotalOps)
	assert.InDelta(t, 0.5, stats.HitRatio, 1e-9)

	var _ ports.CacheProvider = provider
	var _ ports.CacheMetrics = provider
}
