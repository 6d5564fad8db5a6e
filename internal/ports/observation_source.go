package ports

import (
	"context"
	"time"
)

// ObservationRow represents one daily weather reading from an upstream source
type ObservationRow struct {
	City        string
	Date        time.Time
	Temperature float64
	Humidity    float64
}

// ObservationSource defines the contract for historical observation providers
type ObservationSource interface {
	FetchRange(ctx context.Context, city string, start, end time.Time) ([]ObservationRow, error)
	GetSourceName() string
}

// ObservationSourceManager defines the contract for managing multiple observation sources
type ObservationSourceManager interface {
	FetchRange(ctx context.Context, city string, start, end time.Time) ([]ObservationRow, error)
	GetSourceInfo() map[string]interface{}
}
