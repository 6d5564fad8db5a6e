package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CacheMetricsCollector holds the Prometheus instruments for cache
// behavior. Registration happens once per process, so every CacheMetrics
// instance shares the same collector and differs only by label.
type CacheMetricsCollector struct {
	Hits     *prometheus.CounterVec
	Misses   *prometheus.CounterVec
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
	HitRatio *prometheus.GaugeVec
}

var (
	collectorOnce   sync.Once
	globalCollector *CacheMetricsCollector
)

func getCollector() *CacheMetricsCollector {
	collectorOnce.Do(func() {
		globalCollector = &CacheMetricsCollector{
			Hits: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "observation_cache_hits_total",
					Help: "The total number of observation cache hits",
				},
				[]string{"cache_type"},
			),
			Misses: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "observation_cache_misses_total",
					Help: "The total number of observation cache misses",
				},
				[]string{"cache_type"},
			),
			Requests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "observation_cache_requests_total",
					Help: "The total number of observation cache requests",
				},
				[]string{"cache_type"},
			),
			Latency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "observation_cache_duration_seconds",
					Help:    "Observation cache operation duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"cache_type", "operation"},
			),
			HitRatio: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "observation_cache_hit_ratio",
					Help: "Observation cache hit ratio (hits/total requests)",
				},
				[]string{"cache_type"},
			),
		}
	})
	return globalCollector
}

// CacheMetrics tracks hit/miss counts for one cache type and mirrors
// them into the shared Prometheus collector.
type CacheMetrics struct {
	cacheType string
	collector *CacheMetricsCollector

	mu     sync.RWMutex
	hits   int64
	misses int64
	total  int64
}

func NewCacheMetrics(cacheType string) *CacheMetrics {
	return &CacheMetrics{
		cacheType: cacheType,
		collector: getCollector(),
	}
}

func (m *CacheMetrics) RecordHit() {
	m.record(true)
}

func (m *CacheMetrics) RecordMiss() {
	m.record(false)
}

func (m *CacheMetrics) record(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	if hit {
		m.hits++
		m.collector.Hits.WithLabelValues(m.cacheType).Inc()
	} else {
		m.misses++
		m.collector.Misses.WithLabelValues(m.cacheType).Inc()
	}
	m.collector.Requests.WithLabelValues(m.cacheType).Inc()
	m.collector.HitRatio.WithLabelValues(m.cacheType).Set(float64(m.hits) / float64(m.total))
}

// RecordLatency observes one cache operation duration in seconds
func (m *CacheMetrics) RecordLatency(operation string, duration float64) {
	m.collector.Latency.WithLabelValues(m.cacheType, operation).Observe(duration)
}

func (m *CacheMetrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var hitRatio float64
	if m.total > 0 {
		hitRatio = float64(m.hits) / float64(m.total)
	}

	return map[string]interface{}{
		"cache_type": m.cacheType,
		"hits":       m.hits,
		"misses":     m.misses,
		"total":      m.total,
		"hit_ratio":  hitRatio,
	}
}
