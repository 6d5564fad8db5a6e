package external

import (
	"fmt"

	"weathermort.app/internal/config"
	"weathermort.app/internal/ports"
	"weathermort.app/pkg/errors"
)

// NewCacheProvider builds the cache provider selected by configuration.
// The memory provider needs no external service; the Redis provider
// dials the configured instance and fails fast when it is unreachable.
func NewCacheProvider(cfg *config.CacheConfig) (ports.CacheProvider, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("cache config cannot be nil", nil)
	}

	switch cfg.Type {
	case config.CacheTypeMemory:
		return NewMemoryCacheProvider(), nil
	case config.CacheTypeRedis:
		return NewRedisCacheProviderAdapter(&cfg.Redis)
	default:
		return nil, errors.NewConfigurationError(
			fmt.Sprintf("unsupported cache type: %s", cfg.Type.String()), nil)
	}
}
