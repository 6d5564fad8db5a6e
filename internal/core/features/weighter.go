package features

import "weathermort.app/pkg/errors"

// DefaultDecayFactor is the exponential recency-weighting base. Values in
// [0.90, 0.95] work well for daily weather; 0.92 is the tuned default.
const DefaultDecayFactor = 0.92

// Weighter assigns per-sample training weights that decay exponentially
// with age. This is a soft recency bias, not a sliding window: old rows are
// down-weighted, never truncated.
type Weighter struct {
	decay float64
}

// NewWeighter creates a weighter with the given decay factor in (0, 1)
func NewWeighter(decay float64) (*Weighter, error) {
	if decay <= 0 || decay >= 1 {
		return nil, errors.NewValidationError("decay factor must be in (0, 1)")
	}
	return &Weighter{decay: decay}, nil
}

// Weights returns n weights, index-aligned oldest to newest, normalized to
// sum to 1. weight[i] is proportional to decay^(n-1-i), so the newest row
// carries the largest weight.
func (w *Weighter) Weights(n int) []float64 {
	if n <= 0 {
		return nil
	}
	weights := make([]float64, n)
	sum := 0.0
	factor := 1.0
	for i := n - 1; i >= 0; i-- {
		weights[i] = factor
		sum += factor
		factor *= w.decay
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}
