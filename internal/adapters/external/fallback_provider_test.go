package external

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weathermort.app/internal/ports"
	"weathermort.app/pkg/errors"
)

func TestFallbackProviderGeneratesRange(t *testing.T) {
	provider := NewFallbackProviderAdapter(42, testLogger{})

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 29)

	rows, err := provider.FetchRange(context.Background(), "Seoul", start, end)
	require.NoError(t, err)
	require.Len(t, rows, 30)

	for i, row := range rows {
		assert.Equal(t, "Seoul", row.City)
		assert.Equal(t, start.AddDate(0, 0, i), row.Date)
		assert.GreaterOrEqual(t, row.Temperature, -20.0)
		assert.LessOrEqual(t, row.Temperature, 40.0)
		assert.GreaterOrEqual(t, row.Humidity, 0.0)
		assert.LessOrEqual(t, row.Humidity, 100.0)
	}
}

func TestFallbackProviderSeededReproducibility(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 9)

	first, err := NewFallbackProviderAdapter(7, testLogger{}).
		FetchRange(context.Background(), "Jeju", start, end)
	require.NoError(t, err)

	second, err := NewFallbackProviderAdapter(7, testLogger{}).
		FetchRange(context.Background(), "Jeju", start, end)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFallbackProviderSeasonalBaseline(t *testing.T) {
	provider := NewFallbackProviderAdapter(1, testLogger{})

	summerStart := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	summer, err := provider.FetchRange(context.Background(), "Seoul", summerStart, summerStart.AddDate(0, 0, 59))
	require.NoError(t, err)

	winterStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	winter, err := provider.FetchRange(context.Background(), "Seoul", winterStart, winterStart.AddDate(0, 0, 58))
	require.NoError(t, err)

	summerMean := meanTemperature(summer)
	winterMean := meanTemperature(winter)

	// Seasonal bases are 25 vs 2 degrees; with sixty samples the means
	// cannot plausibly cross.
	assert.Greater(t, summerMean, winterMean+10)
}

func TestFallbackProviderValidation(t *testing.T) {
	provider := NewFallbackProviderAdapter(1, testLogger{})
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := provider.FetchRange(context.Background(), "", day, day)
	assert.True(t, errors.IsValidationError(err))

	_, err = provider.FetchRange(context.Background(), "Seoul", day.AddDate(0, 0, 1), day)
	assert.True(t, errors.IsValidationError(err))
}

func TestFallbackProviderSourceName(t *testing.T) {
	provider := NewFallbackProviderAdapter(1, testLogger{})
	assert.Equal(t, "fallback", provider.GetSourceName())
}

func meanTemperature(rows []ports.ObservationRow) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.Temperature
	}
	return sum / float64(len(rows))
}
