package ports

import (
	"context"
	"time"
)

// ObservationRecord represents observation data for persistence
type ObservationRecord struct {
	ID          uint
	City        string
	Date        time.Time
	Temperature float64
	Humidity    float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ObservationRepository defines the contract for observation data persistence
type ObservationRepository interface {
	UpsertRange(ctx context.Context, records []ObservationRecord) error
	FindRange(ctx context.Context, city string, start, end time.Time) ([]ObservationRecord, error)
	LatestDate(ctx context.Context, city string) (time.Time, error)
	CountByCity(ctx context.Context, city string) (int64, error)
}
