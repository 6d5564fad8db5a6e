package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// stdFloor is the numerical noise floor below which a standard deviation is
// treated as zero. Prevents false outliers on near-constant data.
const stdFloor = 1e-10

// RollingKind selects the statistic computed by Rolling
type RollingKind string

const (
	RollingMean    RollingKind = "mean"
	RollingStd     RollingKind = "std"
	RollingMedian  RollingKind = "median"
	RollingMin     RollingKind = "min"
	RollingMax     RollingKind = "max"
	RollingRankPct RollingKind = "rank_pct"
)

// Outlier describes one flagged value
type Outlier struct {
	Index int
	Value float64
	Score float64
}

// Mean returns the arithmetic mean; 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Std returns the sample standard deviation; 0 for fewer than two values
func Std(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// Min returns the smallest value; 0 for an empty slice
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Min(values)
}

// Max returns the largest value; 0 for an empty slice
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values)
}

// Quantile returns the q-th quantile with linear interpolation between
// order statistics; 0 for an empty slice
func Quantile(values []float64, q float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return values[0]
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Median returns the middle value with linear interpolation
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// LinearFit fits value = intercept + slope*index over indices 0..n-1.
// Fewer than two values yields slope 0 with the single value (or 0) as
// intercept.
func LinearFit(values []float64) (slope, intercept float64) {
	n := len(values)
	if n < 2 {
		if n == 1 {
			return 0, values[0]
		}
		return 0, 0
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	intercept, slope = stat.LinearRegression(xs, values, nil, false)
	return slope, intercept
}

// TrendSlope returns the ordinary-least-squares slope of value vs. index
func TrendSlope(values []float64) float64 {
	slope, _ := LinearFit(values)
	return slope
}

// RSquared returns the coefficient of determination of the linear fit.
// A constant series has no explained variance to report and yields 0.
func RSquared(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	slope, intercept := LinearFit(values)
	mean := stat.Mean(values, nil)

	var ssRes, ssTot float64
	for i, v := range values {
		fitted := intercept + slope*float64(i)
		ssRes += (v - fitted) * (v - fitted)
		ssTot += (v - mean) * (v - mean)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// Rolling computes a trailing-window statistic with min_periods=1 semantics:
// the window for index i spans max(0, i-window+1)..i, so early rows use a
// shrinking window instead of producing missing values.
func Rolling(values []float64, window int, kind RollingKind) []float64 {
	out := make([]float64, len(values))
	if window < 1 {
		window = 1
	}
	for i := range values {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		out[i] = windowStat(values[lo:i+1], kind)
	}
	return out
}

// Trailing computes one statistic over the last min(window, len) values
func Trailing(values []float64, window int, kind RollingKind) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if window < 1 {
		window = 1
	}
	lo := n - window
	if lo < 0 {
		lo = 0
	}
	return windowStat(values[lo:], kind)
}

func windowStat(window []float64, kind RollingKind) float64 {
	switch kind {
	case RollingMean:
		return Mean(window)
	case RollingStd:
		return Std(window)
	case RollingMedian:
		return Median(window)
	case RollingMin:
		return Min(window)
	case RollingMax:
		return Max(window)
	case RollingRankPct:
		return rankPct(window)
	default:
		return 0
	}
}

// rankPct returns the average rank of the window's last value within the
// window, as a fraction of the window size. A single-value window ranks 1.0.
func rankPct(window []float64) float64 {
	n := len(window)
	if n == 0 {
		return 0
	}
	last := window[n-1]
	below, equal := 0, 0
	for _, v := range window {
		switch {
		case v < last:
			below++
		case v == last:
			equal++
		}
	}
	avgRank := float64(below) + (float64(equal)+1)/2
	return avgRank / float64(n)
}

// ZScoreOutliers flags indices whose standardized distance from the mean
// exceeds the threshold. A (near-)constant series yields no outliers.
func ZScoreOutliers(values []float64, threshold float64) []Outlier {
	if len(values) < 2 {
		return nil
	}
	mean := stat.Mean(values, nil)
	std := stat.StdDev(values, nil)
	if std <= stdFloor {
		return nil
	}

	var outliers []Outlier
	for i, v := range values {
		score := math.Abs(v-mean) / std
		if score > threshold {
			outliers = append(outliers, Outlier{Index: i, Value: v, Score: score})
		}
	}
	return outliers
}

// CoefficientOfVariation returns std/mean*100; 0 when the mean is zero or
// the ratio is not finite
func CoefficientOfVariation(values []float64) float64 {
	mean := Mean(values)
	if mean == 0 {
		return 0
	}
	cv := Std(values) / mean * 100
	if math.IsNaN(cv) || math.IsInf(cv, 0) {
		return 0
	}
	return cv
}

// PearsonCorrelation returns the Pearson r over paired values; 0 for
// degenerate input
func PearsonCorrelation(a, b []float64) float64 {
	if len(a) != len(b) || len(a) < 2 {
		return 0
	}
	r := stat.Correlation(a, b, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Diff returns the difference to the value lag positions earlier; the first
// lag entries are NaN and are expected to be filled by the caller
func Diff(values []float64, lag int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < lag {
			out[i] = math.NaN()
			continue
		}
		out[i] = values[i] - values[i-lag]
	}
	return out
}
