package features

import (
	"fmt"
	"math"
	"time"

	"weathermort.app/internal/core/observation"
	"weathermort.app/internal/core/stats"
	"weathermort.app/pkg/errors"
)

// Window parameters for each feature family. Changing these changes the
// feature-table shape, so they are package constants rather than config.
var (
	lagSteps      = []int{1, 2, 3, 5, 7, 10, 14}
	meanWindows   = []int{3, 5, 7, 10, 14, 21}
	spreadWindows = []int{3, 7, 14}
	rankWindows   = []int{7, 14, 30}
	diffSteps     = []int{1, 3}
	trendWindows  = []int{7, 14}
)

// Cyclic encoding periods
const (
	yearPeriod  = 365.25
	monthPeriod = 12.0
	weekPeriod  = 7.0
)

// Table is a dense feature matrix with a fixed column order. Row i is
// derived from series rows 0..i only.
type Table struct {
	Names []string
	Rows  [][]float64
}

// Builder turns an observation series into model-ready feature rows
type Builder struct{}

// NewBuilder creates a feature builder
func NewBuilder() *Builder {
	return &Builder{}
}

// ColumnNames returns the fixed column order of built tables
func ColumnNames() []string {
	names := []string{
		"day_of_year", "month", "day", "day_of_week", "quarter",
		"day_of_year_sin", "day_of_year_cos",
		"month_sin", "month_cos",
		"day_of_week_sin", "day_of_week_cos",
	}
	for _, quantity := range []string{"temperature", "humidity"} {
		names = append(names, quantityColumnNames(quantity)...)
	}
	names = append(names, "temp_humidity_interaction", "temp_humidity_ratio")
	return names
}

func quantityColumnNames(quantity string) []string {
	var names []string
	for _, k := range lagSteps {
		names = append(names, fieldName(quantity, "lag", k))
	}
	for _, w := range meanWindows {
		names = append(names, fieldName(quantity, "mean", w))
	}
	for _, w := range spreadWindows {
		names = append(names, fieldName(quantity, "median", w))
	}
	for _, w := range spreadWindows {
		names = append(names, fieldName(quantity, "std", w))
	}
	for _, w := range spreadWindows {
		names = append(names, fieldName(quantity, "range", w))
	}
	for _, w := range rankWindows {
		names = append(names, fieldName(quantity, "rank", w))
	}
	for _, k := range diffSteps {
		names = append(names, fieldName(quantity, "diff", k))
	}
	for _, w := range trendWindows {
		names = append(names, fieldName(quantity, "trend", w))
	}
	return names
}

func fieldName(quantity, family string, param int) string {
	return fmt.Sprintf("%s_%s_%d", quantity, family, param)
}

// Build converts a series into a dense feature table. Row i depends only on
// series rows 0..i; appending rows after i must not change row i.
func (b *Builder) Build(series *observation.Series) (*Table, error) {
	if series == nil || series.IsEmpty() {
		return nil, errors.NewInsufficientDataError("cannot build features from an empty series")
	}

	n := series.Len()
	cols := make([][]float64, 0, len(ColumnNames()))

	cols = append(cols, calendarColumns(series.Dates())...)

	temps := series.Temperatures()
	hums := series.Humidities()
	cols = append(cols, quantityColumns(temps)...)
	cols = append(cols, quantityColumns(hums)...)

	interaction := make([]float64, n)
	ratio := make([]float64, n)
	for i := 0; i < n; i++ {
		interaction[i] = temps[i] * hums[i] / 100
		ratio[i] = temps[i] / (hums[i] + 1)
	}
	cols = append(cols, interaction, ratio)

	for _, col := range cols {
		fillColumn(col)
	}

	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(cols))
		for j, col := range cols {
			row[j] = col[i]
		}
		rows[i] = row
	}

	return &Table{Names: ColumnNames(), Rows: rows}, nil
}

// NextRow builds the feature row for a date one step past the series end.
// The date has no observation of its own, so each value-derived feature
// reads from the trailing rows: lag k is the k-th most recent value, rolling
// windows end at the newest row and interactions use the newest readings.
func (b *Builder) NextRow(series *observation.Series, next time.Time) []float64 {
	row := make([]float64, 0, len(ColumnNames()))
	row = append(row, calendarValues(next)...)
	row = append(row, nextQuantityValues(series.Temperatures())...)
	row = append(row, nextQuantityValues(series.Humidities())...)

	n := series.Len()
	lastTemp := series.Rows[n-1].Temperature
	lastHum := series.Rows[n-1].Humidity
	row = append(row, lastTemp*lastHum/100, lastTemp/(lastHum+1))
	return row
}

func calendarColumns(dates []time.Time) [][]float64 {
	n := len(dates)
	cols := make([][]float64, 11)
	for j := range cols {
		cols[j] = make([]float64, n)
	}
	for i, d := range dates {
		values := calendarValues(d)
		for j, v := range values {
			cols[j][i] = v
		}
	}
	return cols
}

func calendarValues(d time.Time) []float64 {
	doy := float64(d.YearDay())
	month := float64(int(d.Month()))
	dow := float64((int(d.Weekday()) + 6) % 7) // Monday = 0
	quarter := float64((int(d.Month())-1)/3 + 1)

	return []float64{
		doy,
		month,
		float64(d.Day()),
		dow,
		quarter,
		math.Sin(2 * math.Pi * doy / yearPeriod),
		math.Cos(2 * math.Pi * doy / yearPeriod),
		math.Sin(2 * math.Pi * month / monthPeriod),
		math.Cos(2 * math.Pi * month / monthPeriod),
		math.Sin(2 * math.Pi * dow / weekPeriod),
		math.Cos(2 * math.Pi * dow / weekPeriod),
	}
}

func quantityColumns(values []float64) [][]float64 {
	n := len(values)
	var cols [][]float64

	for _, k := range lagSteps {
		col := make([]float64, n)
		for i := range values {
			idx := i - k
			if idx < 0 {
				idx = 0
			}
			col[i] = values[idx]
		}
		cols = append(cols, col)
	}
	for _, w := range meanWindows {
		cols = append(cols, stats.Rolling(values, w, stats.RollingMean))
	}
	for _, w := range spreadWindows {
		cols = append(cols, stats.Rolling(values, w, stats.RollingMedian))
	}
	for _, w := range spreadWindows {
		cols = append(cols, stats.Rolling(values, w, stats.RollingStd))
	}
	for _, w := range spreadWindows {
		maxs := stats.Rolling(values, w, stats.RollingMax)
		mins := stats.Rolling(values, w, stats.RollingMin)
		col := make([]float64, n)
		for i := range col {
			col[i] = maxs[i] - mins[i]
		}
		cols = append(cols, col)
	}
	for _, w := range rankWindows {
		cols = append(cols, stats.Rolling(values, w, stats.RollingRankPct))
	}
	for _, k := range diffSteps {
		cols = append(cols, stats.Diff(values, k))
	}
	for _, w := range trendWindows {
		col := make([]float64, n)
		for i := range values {
			lo := i - w + 1
			if lo < 0 {
				lo = 0
			}
			col[i] = stats.TrendSlope(values[lo : i+1])
		}
		cols = append(cols, col)
	}
	return cols
}

func nextQuantityValues(values []float64) []float64 {
	n := len(values)
	var out []float64

	for _, k := range lagSteps {
		idx := n - k
		if idx < 0 {
			idx = 0
		}
		out = append(out, values[idx])
	}
	for _, w := range meanWindows {
		out = append(out, stats.Trailing(values, w, stats.RollingMean))
	}
	for _, w := range spreadWindows {
		out = append(out, stats.Trailing(values, w, stats.RollingMedian))
	}
	for _, w := range spreadWindows {
		out = append(out, stats.Trailing(values, w, stats.RollingStd))
	}
	for _, w := range spreadWindows {
		spread := stats.Trailing(values, w, stats.RollingMax) - stats.Trailing(values, w, stats.RollingMin)
		out = append(out, spread)
	}
	for _, w := range rankWindows {
		out = append(out, stats.Trailing(values, w, stats.RollingRankPct))
	}
	for _, k := range diffSteps {
		idx := n - 1 - k
		if idx < 0 {
			idx = 0
		}
		out = append(out, values[n-1]-values[idx])
	}
	for _, w := range trendWindows {
		lo := n - w
		if lo < 0 {
			lo = 0
		}
		out = append(out, stats.TrendSlope(values[lo:]))
	}
	return out
}

// fillColumn replaces NaN entries by backward fill then forward fill, so the
// table is dense before scaling and training
func fillColumn(col []float64) {
	for i := len(col) - 1; i >= 0; i-- {
		if math.IsNaN(col[i]) && i+1 < len(col) && !math.IsNaN(col[i+1]) {
			col[i] = col[i+1]
		}
	}
	for i := 0; i < len(col); i++ {
		if math.IsNaN(col[i]) && i > 0 && !math.IsNaN(col[i-1]) {
			col[i] = col[i-1]
		}
	}
	for i := range col {
		if math.IsNaN(col[i]) {
			col[i] = 0
		}
	}
}
