package observation

import (
	"fmt"
	"sort"
	"time"
)

// Soft validity bounds. Readings outside these are flagged, not rejected.
const (
	MinValidTemperature = -50.0
	MaxValidTemperature = 50.0
	MinValidHumidity    = 0.0
	MaxValidHumidity    = 100.0
)

// Season represents a meteorological season derived from the observation month
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// SeasonOfMonth maps a calendar month to its season
func SeasonOfMonth(month time.Month) Season {
	switch month {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}

// Observation represents one daily weather reading for a city
type Observation struct {
	City        string
	Date        time.Time
	Temperature float64
	Humidity    float64
	IsForecast  bool
	OutOfRange  bool
}

// Month returns the calendar month of the observation
func (o Observation) Month() time.Month {
	return o.Date.Month()
}

// Year returns the calendar year of the observation
func (o Observation) Year() int {
	return o.Date.Year()
}

// Season returns the meteorological season of the observation
func (o Observation) Season() Season {
	return SeasonOfMonth(o.Date.Month())
}

// InValidRange reports whether the reading is inside the soft validity bounds
func (o Observation) InValidRange() bool {
	return o.Temperature >= MinValidTemperature && o.Temperature <= MaxValidTemperature &&
		o.Humidity >= MinValidHumidity && o.Humidity <= MaxValidHumidity
}

// String returns a string representation of the observation
func (o Observation) String() string {
	tag := ""
	if o.IsForecast {
		tag = " (forecast)"
	}
	return fmt.Sprintf("%s %s: %.1f°C, %.1f%% humidity%s",
		o.City, o.Date.Format("2006-01-02"), o.Temperature, o.Humidity, tag)
}

// Series is an ordered-by-date sequence of observations for one city.
// It is mutated only by Append; construction sorts, deduplicates and flags
// out-of-range readings.
type Series struct {
	City string
	Rows []Observation
}

// NewSeries builds a series from raw rows: sorts by date, keeps the last
// row per calendar date and flags readings outside the soft validity bounds.
func NewSeries(city string, rows []Observation) *Series {
	sorted := make([]Observation, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	deduped := make([]Observation, 0, len(sorted))
	for _, row := range sorted {
		row.City = city
		row.Date = DayOf(row.Date)
		row.OutOfRange = !row.InValidRange()
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(row.Date) {
			deduped[n-1] = row
			continue
		}
		deduped = append(deduped, row)
	}

	return &Series{City: city, Rows: deduped}
}

// DayOf truncates a timestamp to its calendar date in UTC
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Len returns the number of rows in the series
func (s *Series) Len() int {
	return len(s.Rows)
}

// IsEmpty reports whether the series has no rows
func (s *Series) IsEmpty() bool {
	return len(s.Rows) == 0
}

// Clone returns a deep copy; callers augment the copy, never the original
func (s *Series) Clone() *Series {
	rows := make([]Observation, len(s.Rows))
	copy(rows, s.Rows)
	return &Series{City: s.City, Rows: rows}
}

// Append adds a row to the end of the series
func (s *Series) Append(o Observation) {
	s.Rows = append(s.Rows, o)
}

// Tail returns a clone holding at most the last n rows
func (s *Series) Tail(n int) *Series {
	if n <= 0 || n >= len(s.Rows) {
		return s.Clone()
	}
	rows := make([]Observation, n)
	copy(rows, s.Rows[len(s.Rows)-n:])
	return &Series{City: s.City, Rows: rows}
}

// Temperatures returns the temperature column in series order
func (s *Series) Temperatures() []float64 {
	values := make([]float64, len(s.Rows))
	for i, row := range s.Rows {
		values[i] = row.Temperature
	}
	return values
}

// Humidities returns the humidity column in series order
func (s *Series) Humidities() []float64 {
	values := make([]float64, len(s.Rows))
	for i, row := range s.Rows {
		values[i] = row.Humidity
	}
	return values
}

// Dates returns the date column in series order
func (s *Series) Dates() []time.Time {
	dates := make([]time.Time, len(s.Rows))
	for i, row := range s.Rows {
		dates[i] = row.Date
	}
	return dates
}

// LastDate returns the date of the newest row; zero time for an empty series
func (s *Series) LastDate() time.Time {
	if len(s.Rows) == 0 {
		return time.Time{}
	}
	return s.Rows[len(s.Rows)-1].Date
}

// FirstDate returns the date of the oldest row; zero time for an empty series
func (s *Series) FirstDate() time.Time {
	if len(s.Rows) == 0 {
		return time.Time{}
	}
	return s.Rows[0].Date
}
