// Package api provides the HTTP adapters for the hexagonal architecture.
// These adapters translate incoming requests into core use case calls.
package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"weathermort.app/internal/core/analysis"
	"weathermort.app/internal/core/mortality"
	"weathermort.app/internal/core/observation"
	"weathermort.app/internal/ports"
	"weathermort.app/pkg/errors"
)

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port int
}

// HTTPServerAdapter implements the HTTP server using the Gin framework
type HTTPServerAdapter struct {
	router           *gin.Engine
	config           ServerConfig
	observationUC    ObservationUseCase
	analysisUC       AnalysisUseCase
	forecastUC       ForecastUseCase
	mortalityUC      MortalityUseCase
	healthChecker    ports.SystemHealthChecker
	forecastDefaults ports.ForecastConfig
	analysisDefaults ports.AnalysisConfig
}

// Use case interfaces that the HTTP adapter depends on
type ObservationUseCase interface {
	Load(ctx context.Context, city string, days int) (*observation.Series, error)
}

type AnalysisUseCase interface {
	Analyze(ctx context.Context, series *observation.Series) (*analysis.Report, error)
}

type ForecastUseCase interface {
	Predict(ctx context.Context, series *observation.Series, daysAhead int) ([]observation.Observation, error)
}

type MortalityUseCase interface {
	Calculate(ctx context.Context, input mortality.Input) (*mortality.Assessment, error)
	Trend(ctx context.Context, series *observation.Series, age mortality.AgeGroup, gender mortality.Gender) ([]mortality.TrendPoint, error)
}

// ServerOptions represents options for creating the HTTP server
type ServerOptions struct {
	Config         ServerConfig
	ObservationUC  ObservationUseCase
	AnalysisUC     AnalysisUseCase
	ForecastUC     ForecastUseCase
	MortalityUC    MortalityUseCase
	HealthChecker  ports.SystemHealthChecker
	ConfigProvider ports.ConfigProvider
}

// NewHTTPServerAdapter creates a new HTTP server adapter
func NewHTTPServerAdapter(opts ServerOptions) (*HTTPServerAdapter, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server options: %w", err)
	}

	router := gin.Default()

	server := &HTTPServerAdapter{
		router:           router,
		config:           opts.Config,
		observationUC:    opts.ObservationUC,
		analysisUC:       opts.AnalysisUC,
		forecastUC:       opts.ForecastUC,
		mortalityUC:      opts.MortalityUC,
		healthChecker:    opts.HealthChecker,
		forecastDefaults: opts.ConfigProvider.GetForecastConfig(),
		analysisDefaults: opts.ConfigProvider.GetAnalysisConfig(),
	}

	server.setupRoutes()
	return server, nil
}

// Validate checks if all required dependencies are provided
func (opts *ServerOptions) Validate() error {
	if opts.ObservationUC == nil {
		return errors.NewValidationError("observation use case is required")
	}
	if opts.AnalysisUC == nil {
		return errors.NewValidationError("analysis use case is required")
	}
	if opts.ForecastUC == nil {
		return errors.NewValidationError("forecast use case is required")
	}
	if opts.MortalityUC == nil {
		return errors.NewValidationError("mortality use case is required")
	}
	if opts.ConfigProvider == nil {
		return errors.NewValidationError("config provider is required")
	}
	return nil
}

// setupRoutes configures all HTTP routes
func (s *HTTPServerAdapter) setupRoutes() {
	api := s.router.Group("/api")
	{
		weather := api.Group("/weather")
		{
			weather.GET("/:city/analysis", s.getAnalysis)
			weather.GET("/:city/forecast", s.getForecast)
			weather.GET("/:city/mortality-trend", s.getMortalityTrend)
		}
		api.POST("/mortality", s.calculateMortality)
		api.GET("/health", s.getHealth)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Start begins the HTTP server
func (s *HTTPServerAdapter) Start(ctx context.Context) error {
	slog.Info("Starting HTTP server", "port", s.config.Port)
	return s.router.Run(fmt.Sprintf(":%d", s.config.Port))
}

// GetRouter returns the router for testing purposes
func (s *HTTPServerAdapter) GetRouter() *gin.Engine {
	return s.router
}
