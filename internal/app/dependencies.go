package app

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"weathermort.app/internal/adapters/database"
	"weathermort.app/internal/adapters/external"
	"weathermort.app/internal/adapters/infrastructure"
	"weathermort.app/internal/config"
	"weathermort.app/internal/ports"
)

// DependencyContainer wires the adapter layer: database, cache, source
// chain, logging and metrics. The use case layer is built on top of it.
type DependencyContainer struct {
	config *config.Config
	db     *gorm.DB
	ports  *ports.ApplicationPorts
}

func NewDependencyContainer(cfg *config.Config) (*DependencyContainer, error) {
	container := &DependencyContainer{config: cfg}

	if err := container.initializeDatabase(); err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	if err := container.initializePorts(); err != nil {
		return nil, fmt.Errorf("initialize ports: %w", err)
	}

	return container, nil
}

func (c *DependencyContainer) initializeDatabase() error {
	slog.Info("Initializing database connection...")

	db, err := database.InitDB(c.config.Database)
	if err != nil {
		return err
	}

	slog.Info("Running database migrations...")
	if err := database.RunMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	c.db = db
	slog.Info("Database connection established successfully")
	return nil
}

func (c *DependencyContainer) initializePorts() error {
	slog.Info("Initializing ports...")

	observationRepo := database.NewObservationRepositoryAdapter(c.db)

	var logger ports.Logger = &infrastructure.SlogLoggerAdapter{}

	// The source chain optionally logs upstream responses to an audit file
	sourceLogger := logger
	if c.config.Source.EnableAuditLog {
		fileLogger, err := infrastructure.NewFileLoggerAdapter(c.config.Source.AuditLogPath)
		if err != nil {
			slog.Warn("Failed to create audit logger, falling back to slog", "error", err)
		} else {
			sourceLogger = fileLogger
			slog.Info("Source audit logging enabled", "path", c.config.Source.AuditLogPath)
		}
	}

	metricsCollector := infrastructure.NewMetricsCollectorAdapter(c.config.Cache.Type.String())

	sourceManager := external.NewObservationSourceManagerAdapter(external.SourceManagerConfig{
		AuthKey:        c.config.Source.AuthKey,
		BaseURL:        c.config.Source.BaseURL,
		EnableFallback: c.config.Source.EnableFallback,
		FallbackSeed:   c.config.Source.FallbackSeed,
		Logger:         sourceLogger,
		Metrics:        metricsCollector,
	})

	cacheProvider, err := external.NewCacheProvider(&c.config.Cache)
	if err != nil {
		slog.Error("Failed to create cache provider", "error", err)
		return fmt.Errorf("create cache provider: %w", err)
	}

	slog.Info("Cache provider initialized",
		"type", c.config.Cache.Type.String(),
		"redis_addr", c.config.Cache.Redis.Addr)

	configProvider := infrastructure.NewConfigProviderAdapter(c.config)

	c.ports = &ports.ApplicationPorts{
		ObservationSource:     sourceManager,
		ObservationRepository: observationRepo,

		CacheProvider: cacheProvider,
		CacheMetrics:  cacheProvider.(ports.CacheMetrics),

		ConfigProvider:   configProvider,
		Logger:           logger,
		MetricsCollector: metricsCollector,
		Database:         c.db,
	}

	slog.Info("Ports initialized successfully")
	return nil
}

func (c *DependencyContainer) ApplicationPorts() *ports.ApplicationPorts {
	return c.ports
}

func (c *DependencyContainer) Database() *gorm.DB {
	return c.db
}

// Cleanup closes the container's long-lived resources
func (c *DependencyContainer) Cleanup() error {
	if c.db != nil {
		return database.CloseDB(c.db)
	}
	return nil
}
