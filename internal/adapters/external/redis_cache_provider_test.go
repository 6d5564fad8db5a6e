package external

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weathermort.app/internal/config"
	"weathermort.app/internal/ports"
	"weathermort.app/pkg/errors"
)

// setupMockRedis creates a mock Redis server for testing
func setupMockRedis(t *testing.T) (*miniredis.Miniredis, *config.RedisConfig) {
	t.Helper()

	mockRedis := miniredis.RunT(t)

	redisConfig := &config.RedisConfig{
		Addr:         mockRedis.Addr(),
		Password:     "",
		DB:           0,
		DialTimeout:  5,
		ReadTimeout:  3,
		WriteTimeout: 3,
	}

	return mockRedis, redisConfig
}

func TestNewRedisCacheProviderAdapter(t *testing.T) {
	t.Run("NilConfig", func(t *testing.T) {
		adapter, err := NewRedisCacheProviderAdapter(nil)
		assert.Nil(t, adapter)
		assert.True(t, errors.IsConfigurationError(err))
	})

	t.Run("ValidConfig", func(t *testing.T) {
		_, redisConfig := setupMockRedis(t)

		adapter, err := NewRedisCacheProviderAdapter(redisConfig)
		require.NoError(t, err)
		require.NotNil(t, adapter)
		assert.NoError(t, adapter.Close())
	})

	t.Run("UnreachableAddress", func(t *testing.T) {
		adapter, err := NewRedisCacheProviderAdapter(&config.RedisConfig{
			Addr:         "localhost:1",
			DialTimeout:  1,
			ReadTimeout:  1,
			WriteTimeout: 1,
		})
		assert.Nil(t, adapter)
		assert.True(t, errors.IsExternalAPIError(err))
	})
}

func TestRedisCacheProviderOperations(t *testing.T) {
	mockRedis, redisConfig := setupMockRedis(t)
	defer mockRedis.Close()

	adapter, err := NewRedisCacheProviderAdapter(redisConfig)
	require.NoError(t, err)
	defer func() { _ = adapter.Close() }()

	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		key := "forecast-model:Seoul:30:2026-03-30"
		value := []byte{0x1f, 0x00, 0x42, 0xff}

		require.NoError(t, adapter.Set(ctx, key, value, time.Minute))

		retrieved, err := adapter.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, value, retrieved)
	})

	t.Run("GetMissingKey", func(t *testing.T) {
		retrieved, err := adapter.Get(ctx, "forecast-model:Nowhere:0:never")
		assert.Nil(t, retrieved)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("Delete", func(t *testing.T) {
		key := "observations:Busan:2026-03"
		require.NoError(t, adapter.Set(ctx, key, []byte("rows"), time.Minute))
		require.NoError(t, adapter.Delete(ctx, key))

		_, err := adapter.Get(ctx, key)
		assert.Error(t, err)
	})

	t.Run("Exists", func(t *testing.T) {
		key := "analysis:Daegu:30"

		exists, err := adapter.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, adapter.Set(ctx, key, []byte("report"), time.Minute))

		exists, err = adapter.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("TTLExpiration", func(t *testing.T) {
		key := "ttl-key"
		require.NoError(t, adapter.Set(ctx, key, []byte("v"), 100*time.Millisecond))

		_, err := adapter.Get(ctx, key)
		require.NoError(t, err)

		mockRedis.FastForward(150 * time.Millisecond)

		_, err = adapter.Get(ctx, key)
		assert.Error(t, err)
	})
}

func TestRedisCacheProviderValidation(t *testing.T) {
	mockRedis, redisConfig := setupMockRedis(t)
	defer mockRedis.Close()

	adapter, err := NewRedisCacheProviderAdapter(redisConfig)
	require.NoError(t, err)
	defer func() { _ = adapter.Close() }()

	ctx := context.Background()

	tests := []struct {
		name      string
		operation func() error
	}{
		{"GetEmptyKey", func() error { _, err := adapter.Get(ctx, ""); return err }},
		{"SetEmptyKey", func() error { return adapter.Set(ctx, "", []byte("v"), time.Minute) }},
		{"SetNilValue", func() error { return adapter.Set(ctx, "key", nil, time.Minute) }},
		{"SetZeroTTL", func() error { return adapter.Set(ctx, "key", []byte("v"), 0) }},
		{"DeleteEmptyKey", func() error { return adapter.Delete(ctx, "") }},
		{"ExistsEmptyKey", func() error { _, err := adapter.Exists(ctx, ""); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.IsValidationError(tt.operation()))
		})
	}
}

func TestRedisCacheProviderStats(t *testing.T) {
	mockRedis, redisConfig := setupMockRedis(t)
	defer mockRedis.Close()

	adapter, err := NewRedisCacheProviderAdapter(redisConfig)
	require.NoError(t, err)
	defer func() { _ = adapter.Close() }()

	ctx := context.Background()

	stats := adapter.GetStats()
	assert.Equal(t, int64(0), stats.TotalOps)

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), time.Minute))

	_, err = adapter.Get(ctx, "k")
	require.NoError(t, err)
	_, err = adapter.Get(ctx, "missing")
	assert.Error(t, err)
	_, err = adapter.Get(ctx, "k")
	require.NoError(t, err)

	stats = adapter.GetStats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(3), stats.TotalOps)
	assert.InDelta(t, 2.0/3.0, stats.HitRatio, 1e-9)
}

func TestRedisCacheProviderInterfaces(t *testing.T) {
	mockRedis, redisConfig := setupMockRedis(t)
	defer mockRedis.Close()

	adapter, err := NewRedisCacheProviderAdapter(redisConfig)
	require.NoError(t, err)
	defer func() { _ = adapter.Close() }()

	var _ ports.CacheProvider = adapter
	var _ ports.CacheMetrics = adapter

	assert.NoError(t, adapter.Ping(context.Background()))
}
