package infrastructure

import (
	"context"
	"time"

	"weathermort.app/metrics"
)

// MetricsCollectorAdapter bridges use case instrumentation calls to the
// Prometheus collectors in the metrics package.
type MetricsCollectorAdapter struct {
	cache   *metrics.CacheMetrics
	service *metrics.ServiceMetrics
}

func NewMetricsCollectorAdapter(cacheType string) *MetricsCollectorAdapter {
	return &MetricsCollectorAdapter{
		cache:   metrics.NewCacheMetrics(cacheType),
		service: metrics.NewServiceMetrics(),
	}
}

func (m *MetricsCollectorAdapter) RecordCacheHit(_ context.Context) {
	m.cache.RecordHit()
}

func (m *MetricsCollectorAdapter) RecordCacheMiss(_ context.Context) {
	m.cache.RecordMiss()
}

func (m *MetricsCollectorAdapter) RecordSourceFetch(_ context.Context, source string, success bool) {
	m.service.RecordSourceFetch(source, success)
}

func (m *MetricsCollectorAdapter) RecordForecast(_ context.Context, city string, duration time.Duration, success bool) {
	m.service.RecordForecast(city, duration.Seconds(), success)
}

func (m *MetricsCollectorAdapter) RecordAnalysis(_ context.Context, city string, duration time.Duration, success bool) {
	m.service.RecordAnalysis(city, duration.Seconds(), success)
}
