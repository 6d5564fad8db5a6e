package infrastructure

import (
	"context"

	"gorm.io/gorm"
	"weathermort.app/internal/ports"
)

// DatabaseHealthChecker verifies connectivity to the observation store
type DatabaseHealthChecker struct {
	db *gorm.DB
}

func NewDatabaseHealthChecker(db *gorm.DB) *DatabaseHealthChecker {
	return &DatabaseHealthChecker{db: db}
}

// Check pings the database and reports pool usage plus the number of
// stored observation rows
func (d *DatabaseHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "database",
		Details:   make(map[string]interface{}),
	}

	if d.db == nil {
		status.Status = "unhealthy"
		status.Error = "database instance is nil"
		return status
	}

	sqlDB, err := d.db.DB()
	if err != nil {
		status.Status = "unhealthy"
		status.Error = "failed to get underlying database connection"
		return status
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		status.Status = "unhealthy"
		status.Error = err.Error()
		return status
	}

	status.Status = "healthy"
	status.Details["open_connections"] = sqlDB.Stats().OpenConnections

	var observations int64
	if err := d.db.WithContext(ctx).Table("observations").Count(&observations).Error; err == nil {
		status.Details["stored_observations"] = observations
	}

	return status
}
