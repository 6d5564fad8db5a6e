package ports

// ApplicationPorts aggregates all ports for dependency injection
type ApplicationPorts struct {
	// Observations
	ObservationSource     ObservationSourceManager
	ObservationRepository ObservationRepository

	// Cache
	CacheProvider CacheProvider
	CacheMetrics  CacheMetrics

	// Infrastructure
	ConfigProvider   ConfigProvider
	Logger           Logger
	MetricsCollector MetricsCollector
	Database         interface{}
}
