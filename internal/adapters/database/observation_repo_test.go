package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"weathermort.app/internal/ports"
	"weathermort.app/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&ObservationModel{})
	require.NoError(t, err)

	return db
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func record(city string, date time.Time, temp, hum float64) ports.ObservationRecord {
	return ports.ObservationRecord{
		City:        city,
		Date:        date,
		Temperature: temp,
		Humidity:    hum,
	}
}

func TestObservationRepository_UpsertRange_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewObservationRepositoryAdapter(db)
	ctx := context.Background()

	records := []ports.ObservationRecord{
		record("Seoul", day(2026, time.March, 1), 8.5, 45.0),
		record("Seoul", day(2026, time.March, 2), 9.1, 50.0),
		record("Busan", day(2026, time.March, 1), 11.2, 60.0),
	}

	err := repo.UpsertRange(ctx, records)
	assert.NoError(t, err)

	count, err := repo.CountByCity(ctx, "Seoul")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByCity(ctx, "Busan")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestObservationRepository_UpsertRange_ReplacesExisting(t *testing.T) {
	db := setupTestDB(t)
	repo := NewObservationRepositoryAdapter(db)
	ctx := context.Background()

	date := day(2026, time.March, 1)
	err := repo.UpsertRange(ctx, []ports.ObservationRecord{
		record("Seoul", date, 8.5, 45.0),
	})
	require.NoError(t, err)

	err = repo.UpsertRange(ctx, []ports.ObservationRecord{
		record("Seoul", date, 10.0, 55.0),
	})
	assert.NoError(t, err)

	count, err := repo.CountByCity(ctx, "Seoul")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindRange(ctx, "Seoul", date, date)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 10.0, found[0].Temperature)
	assert.Equal(t, 55.0, found[0].Humidity)
}

func TestObservationRepository_FindRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewObservationRepositoryAdapter(db)
	ctx := context.Background()

	records := []ports.ObservationRecord{
		record("Seoul", day(2026, time.March, 3), 10.0, 50.0),
		record("Seoul", day(2026, time.March, 1), 8.0, 45.0),
		record("Seoul", day(2026, time.March, 2), 9.0, 48.0),
		record("Seoul", day(2026, time.March, 10), 12.0, 55.0),
		record("Busan", day(2026, time.March, 2), 11.0, 62.0),
	}
	require.NoError(t, repo.UpsertRange(ctx, records))

	found, err := repo.FindRange(ctx, "Seoul", day(2026, time.March, 1), day(2026, time.March, 5))
	assert.NoError(t, err)
	require.Len(t, found, 3)

	// Ordered by date, other cities excluded
	assert.Equal(t, day(2026, time.March, 1), found[0].Date)
	assert.Equal(t, day(2026, time.March, 2), found[1].Date)
	assert.Equal(t, day(2026, time.March, 3), found[2].Date)
	for _, rec := range found {
		assert.Equal(t, "Seoul", rec.City)
	}
}

func TestObservationRepository_FindRange_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewObservationRepositoryAdapter(db)
	ctx := context.Background()

	found, err := repo.FindRange(ctx, "Seoul", day(2026, time.March, 1), day(2026, time.March, 5))
	assert.NoError(t, err)
	assert.Empty(t, found)
}

func TestObservationRepository_LatestDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewObservationRepositoryAdapter(db)
	ctx := context.Background()

	records := []ports.ObservationRecord{
		record("Seoul", day(2026, time.March, 1), 8.0, 45.0),
		record("Seoul", day(2026, time.March, 7), 10.0, 50.0),
		record("Busan", day(2026, time.March, 9), 12.0, 60.0),
	}
	require.NoError(t, repo.UpsertRange(ctx, records))

	latest, err := repo.LatestDate(ctx, "Seoul")
	assert.NoError(t, err)
	assert.Equal(t, day(2026, time.March, 7), latest)
}

func TestObservationRepository_LatestDate_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewObservationRepositoryAdapter(db)
	ctx := context.Background()

	_, err := repo.LatestDate(ctx, "Seoul")
	assert.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestObservationRepository_ValidationErrors(t *testing.T) {
	db := setupTestDB(t)
	repo := NewObservationRepositoryAdapter(db)
	ctx := context.Background()

	tests := []struct {
		name string
		test func() error
	}{
		{
			name: "UpsertRange empty batch",
			test: func() error {
				return repo.UpsertRange(ctx, nil)
			},
		},
		{
			name: "UpsertRange empty city",
			test: func() error {
				return repo.UpsertRange(ctx, []ports.ObservationRecord{
					record("", day(2026, time.March, 1), 8.0, 45.0),
				})
			},
		},
		{
			name: "UpsertRange zero date",
			test: func() error {
				return repo.UpsertRange(ctx, []ports.ObservationRecord{
					record("Seoul", time.Time{}, 8.0, 45.0),
				})
			},
		},
		{
			name: "FindRange empty city",
			test: func() error {
				_, err := repo.FindRange(ctx, "", day(2026, time.March, 1), day(2026, time.March, 5))
				return err
			},
		},
		{
			name: "FindRange inverted range",
			test: func() error {
				_, err := repo.FindRange(ctx, "Seoul", day(2026, time.March, 5), day(2026, time.March, 1))
				return err
			},
		},
		{
			name: "LatestDate empty city",
			test: func() error {
				_, err := repo.LatestDate(ctx, "")
				return err
			},
		},
		{
			name: "CountByCity empty city",
			test: func() error {
				_, err := repo.CountByCity(ctx, "")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.test()
			assert.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}
