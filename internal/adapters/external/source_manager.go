package external

import (
	"context"
	"fmt"
	"time"

	"weathermort.app/internal/ports"
	"weathermort.app/pkg/errors"
)

// ObservationSourceManagerAdapter implements Chain of Responsibility over
// observation sources: the KMA API first, then the synthetic fallback.
type ObservationSourceManagerAdapter struct {
	sources []ports.ObservationSource
	logger  ports.Logger
	metrics ports.MetricsCollector
}

// SourceManagerConfig holds configuration for creating the source manager
type SourceManagerConfig struct {
	AuthKey        string
	BaseURL        string
	EnableFallback bool
	FallbackSeed   int64
	Logger         ports.Logger
	Metrics        ports.MetricsCollector
}

// NewObservationSourceManagerAdapter creates a source manager with automatic failover
func NewObservationSourceManagerAdapter(config SourceManagerConfig) ports.ObservationSourceManager {
	manager := &ObservationSourceManagerAdapter{
		logger:  config.Logger,
		metrics: config.Metrics,
	}

	if config.AuthKey != "" {
		manager.sources = append(manager.sources, NewKMAProviderAdapter(KMAProviderParams{
			AuthKey: config.AuthKey,
			BaseURL: config.BaseURL,
			Logger:  config.Logger,
		}))
		config.Logger.Debug("Created KMA observation source", ports.F("source", "kma"))
	}

	if config.EnableFallback {
		manager.sources = append(manager.sources,
			NewFallbackProviderAdapter(config.FallbackSeed, config.Logger))
		config.Logger.Debug("Created fallback observation source", ports.F("source", "fallback"))
	}

	return manager
}

// FetchRange tries each source in order until one returns data
func (m *ObservationSourceManagerAdapter) FetchRange(ctx context.Context, city string, start, end time.Time) ([]ports.ObservationRow, error) {
	if len(m.sources) == 0 {
		return nil, errors.NewExternalAPIError("no observation sources configured", nil)
	}

	var lastErr error

	for i, source := range m.sources {
		sourceName := source.GetSourceName()

		m.logger.Debug("Trying observation source",
			ports.F("source", sourceName),
			ports.F("attempt", i+1),
			ports.F("city", city))

		started := time.Now()
		rows, err := source.FetchRange(ctx, city, start, end)
		if err == nil && len(rows) > 0 {
			m.metrics.RecordSourceFetch(ctx, sourceName, true)
			m.logger.Info("Observation source succeeded",
				ports.F("source", sourceName),
				ports.F("city", city),
				ports.F("rows", len(rows)),
				ports.F("duration_ms", time.Since(started).Milliseconds()))
			return rows, nil
		}

		m.metrics.RecordSourceFetch(ctx, sourceName, false)
		if err == nil {
			err = errors.NewExternalAPIError(
				fmt.Sprintf("source %s returned no data for %s", sourceName, city), nil)
		}
		lastErr = err

		m.logger.Warn("Observation source failed, trying next",
			ports.F("source", sourceName),
			ports.F("error", err.Error()),
			ports.F("city", city))
	}

	m.logger.Error("All observation sources failed",
		ports.F("city", city),
		ports.F("sources_tried", len(m.sources)),
		ports.F("last_error", lastErr.Error()))

	return nil, fmt.Errorf("all observation sources failed (tried %d sources): %w", len(m.sources), lastErr)
}

// GetSourceInfo returns information about configured sources
func (m *ObservationSourceManagerAdapter) GetSourceInfo() map[string]interface{} {
	sourceNames := make([]string, len(m.sources))
	for i, source := range m.sources {
		sourceNames[i] = source.GetSourceName()
	}

	return map[string]interface{}{
		"total_sources":    len(m.sources),
		"source_order":     sourceNames,
		"chain_enabled":    true,
		"fallback_enabled": len(m.sources) > 1,
	}
}
