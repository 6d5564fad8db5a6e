package observation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewSeriesSortsAndDeduplicates(t *testing.T) {
	rows := []Observation{
		{Date: day(2026, 1, 3), Temperature: 3, Humidity: 50},
		{Date: day(2026, 1, 1), Temperature: 1, Humidity: 50},
		{Date: day(2026, 1, 2), Temperature: 2, Humidity: 50},
		{Date: day(2026, 1, 1), Temperature: 9, Humidity: 60},
	}

	s := NewSeries("Seoul", rows)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, day(2026, 1, 1), s.Rows[0].Date)
	assert.Equal(t, day(2026, 1, 3), s.Rows[2].Date)
	// duplicate date keeps the last row in input order
	assert.Equal(t, 9.0, s.Rows[0].Temperature)
	assert.Equal(t, "Seoul", s.Rows[0].City)
}

func TestNewSeriesFlagsOutOfRangeReadings(t *testing.T) {
	tests := []struct {
		name        string
		temperature float64
		humidity    float64
		flagged     bool
	}{
		{"WithinBounds", 20.0, 50.0, false},
		{"TemperatureTooLow", -60.0, 50.0, true},
		{"TemperatureTooHigh", 55.0, 50.0, true},
		{"HumidityNegative", 20.0, -1.0, true},
		{"HumidityAboveHundred", 20.0, 101.0, true},
		{"BoundaryTemperature", -50.0, 50.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSeries("Busan", []Observation{
				{Date: day(2026, 1, 1), Temperature: tt.temperature, Humidity: tt.humidity},
			})
			require.Equal(t, 1, s.Len())
			assert.Equal(t, tt.flagged, s.Rows[0].OutOfRange)
		})
	}
}

func TestSeasonOfMonth(t *testing.T) {
	tests := []struct {
		name   string
		month  time.Month
		season Season
	}{
		{"March", time.March, SeasonSpring},
		{"May", time.May, SeasonSpring},
		{"July", time.July, SeasonSummer},
		{"October", time.October, SeasonAutumn},
		{"December", time.December, SeasonWinter},
		{"February", time.February, SeasonWinter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.season, SeasonOfMonth(tt.month))
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewSeries("Daegu", []Observation{
		{Date: day(2026, 1, 1), Temperature: 5, Humidity: 40},
	})

	clone := s.Clone()
	clone.Append(Observation{Date: day(2026, 1, 2), Temperature: 6, Humidity: 41, IsForecast: true})

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestTail(t *testing.T) {
	rows := make([]Observation, 10)
	for i := range rows {
		rows[i] = Observation{Date: day(2026, 1, i+1), Temperature: float64(i), Humidity: 50}
	}
	s := NewSeries("Incheon", rows)

	t.Run("ShorterThanSeries", func(t *testing.T) {
		tail := s.Tail(3)
		require.Equal(t, 3, tail.Len())
		assert.Equal(t, 7.0, tail.Rows[0].Temperature)
		assert.Equal(t, day(2026, 1, 10), tail.LastDate())
	})

	t.Run("LongerThanSeries", func(t *testing.T) {
		tail := s.Tail(50)
		assert.Equal(t, 10, tail.Len())
	})
}

func TestColumnsAndDates(t *testing.T) {
	s := NewSeries("Jeju", []Observation{
		{Date: day(2026, 2, 1), Temperature: 8, Humidity: 62},
		{Date: day(2026, 2, 2), Temperature: 9, Humidity: 64},
	})

	assert.Equal(t, []float64{8, 9}, s.Temperatures())
	assert.Equal(t, []float64{62, 64}, s.Humidities())
	assert.Equal(t, day(2026, 2, 1), s.FirstDate())
	assert.Equal(t, day(2026, 2, 2), s.LastDate())
}

func TestEmptySeries(t *testing.T) {
	s := NewSeries("Ulsan", nil)

	assert.True(t, s.IsEmpty())
	assert.True(t, s.LastDate().IsZero())
	assert.Empty(t, s.Temperatures())
}
