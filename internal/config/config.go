package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"weathermort.app/pkg/errors"
)

const (
	maxRedisDB           = 15
	maxCacheTTLMinutes   = 1440
	maxCollectionMinutes = 10080
	maxPortNumber        = 65535
	maxForecastHorizon   = 30
)

// Config represents the application configuration structure
type Config struct {
	Server     ServerConfig    `split_words:"true"`
	Database   DatabaseConfig  `split_words:"true"`
	Source     SourceConfig    `split_words:"true"`
	Scheduler  SchedulerConfig `split_words:"true"`
	Cache      CacheConfig     `split_words:"true"`
	Forecast   ForecastConfig  `split_words:"true"`
	Analysis   AnalysisConfig  `split_words:"true"`
	AppBaseURL string          `envconfig:"APP_URL" default:"http://localhost:8080"`
}

type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"weathermort"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// SourceConfig configures the observation source chain. The fallback
// generator keeps the service usable without an upstream API key.
type SourceConfig struct {
	BaseURL         string `envconfig:"KMA_API_BASE_URL" default:"https://apihub.kma.go.kr/api/json"`
	AuthKey         string `envconfig:"KMA_API_AUTH_KEY"`
	EnableFallback  bool   `envconfig:"SOURCE_ENABLE_FALLBACK" default:"true"`
	FallbackSeed    int64  `envconfig:"SOURCE_FALLBACK_SEED" default:"0"`
	EnableCache     bool   `envconfig:"SOURCE_ENABLE_CACHE" default:"true"`
	CacheTTLMinutes int    `envconfig:"SOURCE_CACHE_TTL_MINUTES" default:"60"`
	EnableAuditLog  bool   `envconfig:"SOURCE_AUDIT_LOG" default:"false"`
	AuditLogPath    string `envconfig:"SOURCE_AUDIT_LOG_PATH" default:"logs/observations.log"`
}

// CacheType represents the type of cache to use
type CacheType int

const (
	CacheTypeUnknown CacheType = iota
	CacheTypeMemory
	CacheTypeRedis
)

// String returns the string representation of cache type
func (c CacheType) String() string {
	switch c {
	case CacheTypeMemory:
		return "memory"
	case CacheTypeRedis:
		return "redis"
	default:
		return "unknown"
	}
}

// IsValid checks if the cache type is valid
func (c CacheType) IsValid() bool {
	return c == CacheTypeMemory || c == CacheTypeRedis
}

// CacheTypeFromString converts string to CacheType enum
func CacheTypeFromString(s string) CacheType {
	switch s {
	case "memory":
		return CacheTypeMemory
	case "redis":
		return CacheTypeRedis
	default:
		return CacheTypeUnknown
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig
func (c *CacheType) UnmarshalText(text []byte) error {
	*c = CacheTypeFromString(string(text))
	return nil
}

// MarshalText implements encoding.TextMarshaler for envconfig
func (c CacheType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

type CacheConfig struct {
	Type  CacheType   `envconfig:"CACHE_TYPE" default:"memory"`
	Redis RedisConfig `split_words:"true"`
}

type RedisConfig struct {
	Addr         string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password     string `envconfig:"REDIS_PASSWORD" default:""`
	DB           int    `envconfig:"REDIS_DB" default:"0"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT" default:"3"`
}

type SchedulerConfig struct {
	CollectionInterval int      `envconfig:"COLLECTION_INTERVAL" default:"1440"`
	Cities             []string `envconfig:"COLLECTION_CITIES" default:"Seoul,Busan,Daegu,Incheon,Gwangju,Daejeon,Ulsan,Jeju"`
}

type ForecastConfig struct {
	DecayFactor     float64 `envconfig:"FORECAST_DECAY_FACTOR" default:"0.92"`
	TrainWindow     int     `envconfig:"FORECAST_TRAIN_WINDOW" default:"30"`
	MaxHorizon      int     `envconfig:"FORECAST_MAX_HORIZON" default:"7"`
	TemperatureMin  float64 `envconfig:"FORECAST_TEMPERATURE_MIN" default:"-20"`
	TemperatureMax  float64 `envconfig:"FORECAST_TEMPERATURE_MAX" default:"40"`
	HumidityMin     float64 `envconfig:"FORECAST_HUMIDITY_MIN" default:"0"`
	HumidityMax     float64 `envconfig:"FORECAST_HUMIDITY_MAX" default:"100"`
	EnableCache     bool    `envconfig:"FORECAST_ENABLE_CACHE" default:"true"`
	CacheTTLMinutes int     `envconfig:"FORECAST_CACHE_TTL_MINUTES" default:"360"`
}

type AnalysisConfig struct {
	OutlierThreshold float64 `envconfig:"ANALYSIS_OUTLIER_THRESHOLD" default:"2.0"`
	CoverageTarget   int     `envconfig:"ANALYSIS_COVERAGE_TARGET" default:"30"`
}

func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Source.Validate(); err != nil {
		return err
	}
	if err := c.Scheduler.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Forecast.Validate(); err != nil {
		return err
	}
	if err := c.Analysis.Validate(); err != nil {
		return err
	}
	if err := c.validateAppBaseURL(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAppBaseURL() error {
	if c.AppBaseURL == "" {
		return errors.NewConfigurationError("APP_URL cannot be empty", nil)
	}
	if !strings.HasPrefix(c.AppBaseURL, "http://") && !strings.HasPrefix(c.AppBaseURL, "https://") {
		return errors.NewConfigurationError("APP_URL must start with http:// or https://", nil)
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > maxPortNumber {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

func (d *DatabaseConfig) Validate() error {
	if d.Host == "" {
		return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
	}
	if d.Port < 1 || d.Port > maxPortNumber {
		return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
	}
	if d.User == "" {
		return errors.NewConfigurationError("DB_USER cannot be empty", nil)
	}
	if d.Name == "" {
		return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
	}
	if err := d.ValidateSSLMode(); err != nil {
		return err
	}
	return nil
}

func (d *DatabaseConfig) ValidateSSLMode() error {
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if d.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

func (s *SourceConfig) Validate() error {
	if s.AuthKey == "" && !s.EnableFallback {
		return errors.NewConfigurationError("KMA_API_AUTH_KEY must be set when SOURCE_ENABLE_FALLBACK is disabled", nil)
	}

	if s.AuthKey != "" {
		if s.BaseURL == "" {
			return errors.NewConfigurationError("KMA_API_BASE_URL cannot be empty when KMA_API_AUTH_KEY is set", nil)
		}
		if !strings.HasPrefix(s.BaseURL, "http://") && !strings.HasPrefix(s.BaseURL, "https://") {
			return errors.NewConfigurationError("KMA_API_BASE_URL must start with http:// or https://", nil)
		}
	}

	if s.CacheTTLMinutes < 1 || s.CacheTTLMinutes > maxCacheTTLMinutes {
		return errors.NewConfigurationError("SOURCE_CACHE_TTL_MINUTES must be between 1 and 1440 minutes", nil)
	}

	if s.EnableAuditLog && s.AuditLogPath == "" {
		return errors.NewConfigurationError("SOURCE_AUDIT_LOG_PATH cannot be empty when SOURCE_AUDIT_LOG is enabled", nil)
	}

	return nil
}

func (c *CacheConfig) Validate() error {
	if !c.Type.IsValid() {
		return errors.NewConfigurationError("CACHE_TYPE must be one of: memory, redis", nil)
	}

	if c.Type == CacheTypeRedis {
		return c.Redis.Validate()
	}

	return nil
}

func (r *RedisConfig) Validate() error {
	if r.Addr == "" {
		return errors.NewConfigurationError("REDIS_ADDR cannot be empty when using Redis cache", nil)
	}
	if r.DB < 0 || r.DB > maxRedisDB {
		return errors.NewConfigurationError("REDIS_DB must be between 0 and 15", nil)
	}
	if r.DialTimeout < 1 {
		return errors.NewConfigurationError("REDIS_DIAL_TIMEOUT must be at least 1 second", nil)
	}
	if r.ReadTimeout < 1 {
		return errors.NewConfigurationError("REDIS_READ_TIMEOUT must be at least 1 second", nil)
	}
	if r.WriteTimeout < 1 {
		return errors.NewConfigurationError("REDIS_WRITE_TIMEOUT must be at least 1 second", nil)
	}
	return nil
}

func (s *SchedulerConfig) Validate() error {
	if s.CollectionInterval < 1 {
		return errors.NewConfigurationError("COLLECTION_INTERVAL must be at least 1 minute", nil)
	}
	if s.CollectionInterval > maxCollectionMinutes {
		return errors.NewConfigurationError("COLLECTION_INTERVAL cannot exceed 10080 minutes (7 days)", nil)
	}
	if len(s.Cities) == 0 {
		return errors.NewConfigurationError("COLLECTION_CITIES cannot be empty", nil)
	}
	for _, city := range s.Cities {
		if strings.TrimSpace(city) == "" {
			return errors.NewConfigurationError("COLLECTION_CITIES contains an empty city name", nil)
		}
	}
	return nil
}

func (f *ForecastConfig) Validate() error {
	if f.DecayFactor <= 0 || f.DecayFactor >= 1 {
		return errors.NewConfigurationError("FORECAST_DECAY_FACTOR must be strictly between 0 and 1", nil)
	}
	if f.TrainWindow < 2 {
		return errors.NewConfigurationError("FORECAST_TRAIN_WINDOW must be at least 2 days", nil)
	}
	if f.MaxHorizon < 1 || f.MaxHorizon > maxForecastHorizon {
		return errors.NewConfigurationError("FORECAST_MAX_HORIZON must be between 1 and 30 days", nil)
	}
	if f.TemperatureMin >= f.TemperatureMax {
		return errors.NewConfigurationError("FORECAST_TEMPERATURE_MIN must be below FORECAST_TEMPERATURE_MAX", nil)
	}
	if f.HumidityMin >= f.HumidityMax {
		return errors.NewConfigurationError("FORECAST_HUMIDITY_MIN must be below FORECAST_HUMIDITY_MAX", nil)
	}
	if f.CacheTTLMinutes < 1 || f.CacheTTLMinutes > maxCacheTTLMinutes {
		return errors.NewConfigurationError("FORECAST_CACHE_TTL_MINUTES must be between 1 and 1440 minutes", nil)
	}
	return nil
}

func (a *AnalysisConfig) Validate() error {
	if a.OutlierThreshold <= 0 {
		return errors.NewConfigurationError("ANALYSIS_OUTLIER_THRESHOLD must be positive", nil)
	}
	if a.CoverageTarget < 1 {
		return errors.NewConfigurationError("ANALYSIS_COVERAGE_TARGET must be at least 1 day", nil)
	}
	return nil
}
