package database

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"weathermort.app/internal/ports"
	"weathermort.app/pkg/errors"
)

// ObservationModel represents the database model for daily weather observations
type ObservationModel struct {
	ID          uint      `gorm:"primaryKey"`
	City        string    `gorm:"uniqueIndex:idx_city_date;not null"`
	Date        time.Time `gorm:"uniqueIndex:idx_city_date;not null"`
	Temperature float64   `gorm:"not null"`
	Humidity    float64   `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ObservationModel) TableName() string {
	return "observations"
}

// ObservationRepositoryAdapter implements the ObservationRepository port using GORM
type ObservationRepositoryAdapter struct {
	db *gorm.DB
}

// NewObservationRepositoryAdapter creates a new observation repository adapter
func NewObservationRepositoryAdapter(db *gorm.DB) ports.ObservationRepository {
	return &ObservationRepositoryAdapter{db: db}
}

// UpsertRange persists a batch of observations, replacing readings that
// already exist for the same city and date
func (r *ObservationRepositoryAdapter) UpsertRange(ctx context.Context, records []ports.ObservationRecord) error {
	if len(records) == 0 {
		return errors.NewValidationError("observation batch cannot be empty")
	}

	models := make([]ObservationModel, len(records))
	for i, rec := range records {
		if rec.City == "" {
			return errors.NewValidationError("observation city cannot be empty")
		}
		if rec.Date.IsZero() {
			return errors.NewValidationError("observation date cannot be zero")
		}
		models[i] = r.recordToModel(&rec)
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "city"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"temperature", "humidity", "updated_at"}),
	}).Create(&models)
	if result.Error != nil {
		return errors.NewDatabaseError("failed to upsert observations", result.Error)
	}

	return nil
}

// FindRange retrieves observations for a city within a date range, ordered by date
func (r *ObservationRepositoryAdapter) FindRange(ctx context.Context, city string, start, end time.Time) ([]ports.ObservationRecord, error) {
	if city == "" {
		return nil, errors.NewValidationError("city cannot be empty")
	}
	if end.Before(start) {
		return nil, errors.NewValidationError("end date cannot precede start date")
	}

	var models []ObservationModel
	result := r.db.WithContext(ctx).
		Where("city = ? AND date >= ? AND date <= ?", city, start, end).
		Order("date ASC").
		Find(&models)
	if result.Error != nil {
		return nil, errors.NewDatabaseError("failed to find observations", result.Error)
	}

	records := make([]ports.ObservationRecord, len(models))
	for i, model := range models {
		records[i] = r.modelToRecord(&model)
	}

	return records, nil
}

// LatestDate returns the most recent observation date stored for a city
func (r *ObservationRepositoryAdapter) LatestDate(ctx context.Context, city string) (time.Time, error) {
	if city == "" {
		return time.Time{}, errors.NewValidationError("city cannot be empty")
	}

	var model ObservationModel
	result := r.db.WithContext(ctx).
		Where("city = ?", city).
		Order("date DESC").
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return time.Time{}, errors.NewNotFoundError("no observations stored for city")
		}
		return time.Time{}, errors.NewDatabaseError("failed to find latest observation date", result.Error)
	}

	return model.Date, nil
}

// CountByCity counts stored observations for a city
func (r *ObservationRepositoryAdapter) CountByCity(ctx context.Context, city string) (int64, error) {
	if city == "" {
		return 0, errors.NewValidationError("city cannot be empty")
	}

	var count int64
	result := r.db.WithContext(ctx).Model(&ObservationModel{}).Where("city = ?", city).Count(&count)
	if result.Error != nil {
		return 0, errors.NewDatabaseError("failed to count observations", result.Error)
	}

	return count, nil
}

func (r *ObservationRepositoryAdapter) recordToModel(rec *ports.ObservationRecord) ObservationModel {
	return ObservationModel{
		ID:          rec.ID,
		City:        rec.City,
		Date:        rec.Date,
		Temperature: rec.Temperature,
		Humidity:    rec.Humidity,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func (r *ObservationRepositoryAdapter) modelToRecord(model *ObservationModel) ports.ObservationRecord {
	return ports.ObservationRecord{
		ID:          model.ID,
		City:        model.City,
		Date:        model.Date,
		Temperature: model.Temperature,
		Humidity:    model.Humidity,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
