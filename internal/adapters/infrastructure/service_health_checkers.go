package infrastructure

import (
	"context"
	"time"

	"weathermort.app/internal/ports"
)

// SourceHealthChecker reports on the observation source chain
type SourceHealthChecker struct {
	sourceManager ports.ObservationSourceManager
}

// NewSourceHealthChecker creates a new observation source health checker
func NewSourceHealthChecker(sourceManager ports.ObservationSourceManager) *SourceHealthChecker {
	return &SourceHealthChecker{sourceManager: sourceManager}
}

// Check verifies the observation source chain is configured
func (s *SourceHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "observationSources",
		Status:    "healthy",
	}

	if s.sourceManager == nil {
		status.Status = "unhealthy"
		status.Error = "observation source manager is not available"
		return status
	}

	status.Details = s.sourceManager.GetSourceInfo()
	return status
}

// CacheHealthChecker verifies the cache backend accepts writes
type CacheHealthChecker struct {
	cache ports.CacheProvider
}

// NewCacheHealthChecker creates a new cache health checker
func NewCacheHealthChecker(cache ports.CacheProvider) *CacheHealthChecker {
	return &CacheHealthChecker{cache: cache}
}

// Check performs a probe write against the cache backend
func (c *CacheHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "cache",
		Details:   make(map[string]interface{}),
	}

	if c.cache == nil {
		status.Status = "unhealthy"
		status.Error = "cache provider is not available"
		return status
	}

	if err := c.cache.Set(ctx, "health-check", []byte("ok"), time.Minute); err != nil {
		status.Status = "unhealthy"
		status.Error = err.Error()
		return status
	}

	status.Status = "healthy"
	status.Details["writable"] = true
	return status
}
