package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"weathermort.app/internal/adapters/api"
	"weathermort.app/internal/adapters/infrastructure"
	"weathermort.app/internal/config"
	"weathermort.app/internal/core/analysis"
	"weathermort.app/internal/core/forecast"
	"weathermort.app/internal/core/mortality"
	"weathermort.app/internal/core/observation"
	"weathermort.app/internal/ports"
	"weathermort.app/internal/scheduler"
)

// Application assembles the use cases, the HTTP server and the
// collection scheduler on top of the dependency container.
type Application struct {
	config    *config.Config
	container *DependencyContainer

	observationUC *observation.UseCase
	analysisUC    *analysis.UseCase
	forecastUC    *forecast.UseCase
	mortalityUC   *mortality.UseCase

	scheduler  *scheduler.Scheduler
	httpServer *http.Server
	apiServer  *api.HTTPServerAdapter
}

func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	container, err := NewDependencyContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("create dependency container: %w", err)
	}

	return NewApplicationWithContainer(cfg, container)
}

// NewApplicationWithContainer wires an application around an existing
// container. Tests use it to swap in-memory adapters for the real ones.
func NewApplicationWithContainer(cfg *config.Config, container *DependencyContainer) (*Application, error) {
	app := &Application{
		config:    cfg,
		container: container,
	}

	if err := app.initializeUseCases(); err != nil {
		return nil, fmt.Errorf("initialize use cases: %w", err)
	}

	if err := app.initializeAdapters(); err != nil {
		return nil, fmt.Errorf("initialize adapters: %w", err)
	}

	slog.Info("Application initialized successfully")
	return app, nil
}

func (a *Application) initializeUseCases() error {
	p := a.container.ApplicationPorts()

	observationUC, err := observation.NewUseCase(observation.UseCaseDependencies{
		Repository: p.ObservationRepository,
		Sources:    p.ObservationSource,
		Cache:      p.CacheProvider,
		Config:     p.ConfigProvider,
		Logger:     p.Logger,
	})
	if err != nil {
		return fmt.Errorf("create observation use case: %w", err)
	}

	analysisUC, err := analysis.NewUseCase(analysis.UseCaseDependencies{
		Config:  p.ConfigProvider,
		Logger:  p.Logger,
		Metrics: p.MetricsCollector,
	})
	if err != nil {
		return fmt.Errorf("create analysis use case: %w", err)
	}

	forecastUC, err := forecast.NewUseCase(forecast.UseCaseDependencies{
		Config:  p.ConfigProvider,
		Logger:  p.Logger,
		Metrics: p.MetricsCollector,
		Cache:   p.CacheProvider,
	})
	if err != nil {
		return fmt.Errorf("create forecast use case: %w", err)
	}

	mortalityUC, err := mortality.NewUseCase(mortality.UseCaseDependencies{
		Logger:  p.Logger,
		Metrics: p.MetricsCollector,
	})
	if err != nil {
		return fmt.Errorf("create mortality use case: %w", err)
	}

	a.observationUC = observationUC
	a.analysisUC = analysisUC
	a.forecastUC = forecastUC
	a.mortalityUC = mortalityUC
	return nil
}

func (a *Application) initializeAdapters() error {
	p := a.container.ApplicationPorts()

	collectionScheduler, err := scheduler.NewScheduler(scheduler.Dependencies{
		Sources:    p.ObservationSource,
		Repository: p.ObservationRepository,
		Config:     p.ConfigProvider.GetSchedulerConfig(),
		Logger:     p.Logger,
	})
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	a.scheduler = collectionScheduler

	healthChecker := a.buildHealthChecker()

	apiServer, err := api.NewHTTPServerAdapter(api.ServerOptions{
		Config:         api.ServerConfig{Port: a.config.Server.Port},
		ObservationUC:  a.observationUC,
		AnalysisUC:     a.analysisUC,
		ForecastUC:     a.forecastUC,
		MortalityUC:    a.mortalityUC,
		HealthChecker:  healthChecker,
		ConfigProvider: p.ConfigProvider,
	})
	if err != nil {
		return fmt.Errorf("create HTTP server: %w", err)
	}
	a.apiServer = apiServer

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      apiServer.GetRouter(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return nil
}

func (a *Application) buildHealthChecker() ports.SystemHealthChecker {
	p := a.container.ApplicationPorts()

	checkerConfig := infrastructure.SystemHealthCheckerConfig{
		SourceChecker:  infrastructure.NewSourceHealthChecker(p.ObservationSource),
		CacheChecker:   infrastructure.NewCacheHealthChecker(p.CacheProvider),
		ConfigProvider: p.ConfigProvider,
	}
	if db := a.container.Database(); db != nil {
		checkerConfig.DatabaseChecker = infrastructure.NewDatabaseHealthChecker(db)
	}

	return infrastructure.NewSystemHealthChecker(checkerConfig)
}

// Start runs the collection scheduler and the HTTP server. It blocks
// until the server stops.
func (a *Application) Start(ctx context.Context) error {
	slog.Info("Starting observation collection scheduler",
		"interval_minutes", a.config.Scheduler.CollectionInterval,
		"cities", a.config.Scheduler.Cities)
	a.scheduler.Start(ctx)

	slog.Info("Starting HTTP server", "port", a.config.Server.Port)
	if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown stops the scheduler, drains the HTTP server and releases
// the container's resources.
func (a *Application) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	a.scheduler.Stop()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	if err := a.container.Cleanup(); err != nil {
		slog.Error("Dependency cleanup error", "error", err)
		return err
	}

	slog.Info("Application shutdown complete")
	return nil
}
