package stats

import "math"

// Trend and volatility labels
const (
	DirectionRising  = "rising"
	DirectionFalling = "falling"
	DirectionStable  = "stable"

	StrengthStrong   = "strong"
	StrengthModerate = "moderate"
	StrengthWeak     = "weak"

	LevelHigh     = "high"
	LevelModerate = "moderate"
	LevelLow      = "low"
)

// TrendThresholds holds the per-quantity cut points for classifying a
// linear-trend slope
type TrendThresholds struct {
	Rising   float64
	Falling  float64
	Strong   float64
	Moderate float64
}

// VolatilityThresholds holds the per-quantity CV% cut points
type VolatilityThresholds struct {
	High     float64
	Moderate float64
}

// Temperature and humidity use different cut points; these are domain
// constants, not derivable from data.
var (
	TemperatureTrend = TrendThresholds{Rising: 0.1, Falling: -0.1, Strong: 0.5, Moderate: 0.2}
	HumidityTrend    = TrendThresholds{Rising: 0.5, Falling: -0.5, Strong: 2.0, Moderate: 1.0}

	TemperatureVolatility = VolatilityThresholds{High: 30, Moderate: 15}
	HumidityVolatility    = VolatilityThresholds{High: 25, Moderate: 12}
)

// Direction classifies a slope as rising, falling or stable
func (t TrendThresholds) Direction(slope float64) string {
	switch {
	case slope > t.Rising:
		return DirectionRising
	case slope < t.Falling:
		return DirectionFalling
	default:
		return DirectionStable
	}
}

// Strength classifies the magnitude of a slope
func (t TrendThresholds) Strength(slope float64) string {
	abs := math.Abs(slope)
	switch {
	case abs > t.Strong:
		return StrengthStrong
	case abs > t.Moderate:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// Level classifies a coefficient of variation percentage
func (v VolatilityThresholds) Level(cv float64) string {
	switch {
	case cv > v.High:
		return LevelHigh
	case cv > v.Moderate:
		return LevelModerate
	default:
		return LevelLow
	}
}

// Significance classifies the explanatory power of a linear fit by its R²
func Significance(rSquared float64) string {
	switch {
	case rSquared > 0.7:
		return LevelHigh
	case rSquared > 0.3:
		return LevelModerate
	default:
		return LevelLow
	}
}

// CorrelationStrength classifies a Pearson r by magnitude
func CorrelationStrength(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs >= 0.7:
		return StrengthStrong
	case abs >= 0.3:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// CorrelationDirection labels the sign of a Pearson r
func CorrelationDirection(r float64) string {
	if r < 0 {
		return "negative"
	}
	return "positive"
}
