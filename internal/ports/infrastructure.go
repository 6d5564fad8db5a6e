package ports

import (
	"context"
	"time"
)

// SourceConfig represents observation source configuration
type SourceConfig struct {
	BaseURL        string
	AuthKey        string
	EnableFallback bool
	FallbackSeed   int64
	EnableCache    bool
	CacheTTL       time.Duration
}

// AppConfig represents application configuration
type AppConfig struct {
	BaseURL string
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port int
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// CacheConfig represents cache configuration
type CacheConfig struct {
	Type  string
	Redis RedisConfig
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  int
	ReadTimeout  int
	WriteTimeout int
}

// SchedulerConfig represents collection scheduler configuration
type SchedulerConfig struct {
	CollectionInterval int
	Cities             []string
}

// ForecastConfig represents forecasting configuration
type ForecastConfig struct {
	DecayFactor    float64
	TrainWindow    int
	MaxHorizon     int
	TemperatureMin float64
	TemperatureMax float64
	HumidityMin    float64
	HumidityMax    float64
	EnableCache    bool
	CacheTTL       time.Duration
}

// AnalysisConfig represents analysis configuration
type AnalysisConfig struct {
	OutlierThreshold float64
	CoverageTarget   int
}

// ConfigProvider defines the contract for configuration management
type ConfigProvider interface {
	GetSourceConfig() SourceConfig
	GetAppConfig() AppConfig
	GetServerConfig() ServerConfig
	GetDatabaseConfig() DatabaseConfig
	GetCacheConfig() CacheConfig
	GetSchedulerConfig() SchedulerConfig
	GetForecastConfig() ForecastConfig
	GetAnalysisConfig() AnalysisConfig
}

// Logger defines the contract for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a log field
type Field struct {
	Key   string
	Value interface{}
}

// F creates a log field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// MetricsCollector defines the contract for metrics collection
type MetricsCollector interface {
	RecordCacheHit(ctx context.Context)
	RecordCacheMiss(ctx context.Context)
	RecordSourceFetch(ctx context.Context, source string, success bool)
	RecordForecast(ctx context.Context, city string, duration time.Duration, success bool)
	RecordAnalysis(ctx context.Context, city string, duration time.Duration, success bool)
}
