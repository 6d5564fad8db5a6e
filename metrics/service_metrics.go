package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type ServiceMetricsCollector struct {
	SourceFetches    *prometheus.CounterVec
	ForecastRequests *prometheus.CounterVec
	ForecastDuration *prometheus.HistogramVec
	AnalysisRequests *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
}

var (
	serviceCollectorOnce   sync.Once
	globalServiceCollector *ServiceMetricsCollector
)

func getServiceCollector() *ServiceMetricsCollector {
	serviceCollectorOnce.Do(func() {
		globalServiceCollector = &ServiceMetricsCollector{
			SourceFetches: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "observation_source_fetches_total",
					Help: "The total number of observation source fetch attempts",
				},
				[]string{"source", "success"},
			),
			ForecastRequests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "forecast_requests_total",
					Help: "The total number of forecast requests",
				},
				[]string{"city", "success"},
			),
			ForecastDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "forecast_duration_seconds",
					Help:    "Forecast generation duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"city"},
			),
			AnalysisRequests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "analysis_requests_total",
					Help: "The total number of analysis requests",
				},
				[]string{"city", "success"},
			),
			AnalysisDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "analysis_duration_seconds",
					Help:    "Analysis report generation duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"city"},
			),
		}
	})
	return globalServiceCollector
}

type ServiceMetrics struct {
	collector *ServiceMetricsCollector
}

func NewServiceMetrics() *ServiceMetrics {
	return &ServiceMetrics{collector: getServiceCollector()}
}

func (m *ServiceMetrics) RecordSourceFetch(source string, success bool) {
	m.collector.SourceFetches.WithLabelValues(source, strconv.FormatBool(success)).Inc()
}

func (m *ServiceMetrics) RecordForecast(city string, seconds float64, success bool) {
	m.collector.ForecastRequests.WithLabelValues(city, strconv.FormatBool(success)).Inc()
	m.collector.ForecastDuration.WithLabelValues(city).Observe(seconds)
}

func (m *ServiceMetrics) RecordAnalysis(city string, seconds float64, success bool) {
	m.collector.AnalysisRequests.WithLabelValues(city, strconv.FormatBool(success)).Inc()
	m.collector.AnalysisDuration.WithLabelValues(city).Observe(seconds)
}
