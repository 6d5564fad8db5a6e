package infrastructure

import (
	"time"

	"weathermort.app/internal/config"
	"weathermort.app/internal/ports"
)

// ConfigProviderAdapter implements the ConfigProvider port
type ConfigProviderAdapter struct {
	config *config.Config
}

// NewConfigProviderAdapter creates a new config provider adapter
func NewConfigProviderAdapter(cfg *config.Config) *ConfigProviderAdapter {
	return &ConfigProviderAdapter{
		config: cfg,
	}
}

// GetAppConfig returns application configuration
func (c *ConfigProviderAdapter) GetAppConfig() ports.AppConfig {
	return ports.AppConfig{
		BaseURL: c.config.AppBaseURL,
	}
}

// GetDatabaseConfig returns database configuration
func (c *ConfigProviderAdapter) GetDatabaseConfig() ports.DatabaseConfig {
	return ports.DatabaseConfig{
		Host:     c.config.Database.Host,
		Port:     c.config.Database.Port,
		User:     c.config.Database.User,
		Password: c.config.Database.Password,
		Name:     c.config.Database.Name,
		SSLMode:  c.config.Database.SSLMode,
	}
}

// GetServerConfig returns server configuration
func (c *ConfigProviderAdapter) GetServerConfig() ports.ServerConfig {
	return ports.ServerConfig{
		Port: c.config.Server.Port,
	}
}

// GetSourceConfig returns observation source configuration
func (c *ConfigProviderAdapter) GetSourceConfig() ports.SourceConfig {
	return ports.SourceConfig{
		BaseURL:        c.config.Source.BaseURL,
		AuthKey:        c.config.Source.AuthKey,
		EnableFallback: c.config.Source.EnableFallback,
		FallbackSeed:   c.config.Source.FallbackSeed,
		EnableCache:    c.config.Source.EnableCache,
		CacheTTL:       time.Duration(c.config.Source.CacheTTLMinutes) * time.Minute,
	}
}

// GetCacheConfig returns cache configuration
func (c *ConfigProviderAdapter) GetCacheConfig() ports.CacheConfig {
	return ports.CacheConfig{
		Type: c.config.Cache.Type.String(),
		Redis: ports.RedisConfig{
			Addr:         c.config.Cache.Redis.Addr,
			Password:     c.config.Cache.Redis.Password,
			DB:           c.config.Cache.Redis.DB,
			DialTimeout:  c.config.Cache.Redis.DialTimeout,
			ReadTimeout:  c.config.Cache.Redis.ReadTimeout,
			WriteTimeout: c.config.Cache.Redis.WriteTimeout,
		},
	}
}

// GetSchedulerConfig returns scheduler configuration
func (c *ConfigProviderAdapter) GetSchedulerConfig() ports.SchedulerConfig {
	return ports.SchedulerConfig{
		CollectionInterval: c.config.Scheduler.CollectionInterval,
		Cities:             c.config.Scheduler.Cities,
	}
}

// GetForecastConfig returns forecasting configuration
func (c *ConfigProviderAdapter) GetForecastConfig() ports.ForecastConfig {
	return ports.ForecastConfig{
		DecayFactor:    c.config.Forecast.DecayFactor,
		TrainWindow:    c.config.Forecast.TrainWindow,
		MaxHorizon:     c.config.Forecast.MaxHorizon,
		TemperatureMin: c.config.Forecast.TemperatureMin,
		TemperatureMax: c.config.Forecast.TemperatureMax,
		HumidityMin:    c.config.Forecast.HumidityMin,
		HumidityMax:    c.config.Forecast.HumidityMax,
		EnableCache:    c.config.Forecast.EnableCache,
		CacheTTL:       time.Duration(c.config.Forecast.CacheTTLMinutes) * time.Minute,
	}
}

// GetAnalysisConfig returns analysis configuration
func (c *ConfigProviderAdapter) GetAnalysisConfig() ports.AnalysisConfig {
	return ports.AnalysisConfig{
		OutlierThreshold: c.config.Analysis.OutlierThreshold,
		CoverageTarget:   c.config.Analysis.CoverageTarget,
	}
}
