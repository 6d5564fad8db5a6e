package model

import (
	"weathermort.app/internal/core/stats"
	"weathermort.app/pkg/errors"
)

// RobustScaler centers by the per-feature median and scales by the
// interquartile range, so single outlier rows cannot distort the transform.
// Fit once on training data and reused unchanged at inference.
type RobustScaler struct {
	Centers []float64
	Scales  []float64
}

// FitScaler computes per-feature medians and IQRs from the training rows.
// A feature with zero IQR keeps divisor 1 so constant columns pass through.
func FitScaler(rows [][]float64) (*RobustScaler, error) {
	if len(rows) == 0 {
		return nil, errors.NewInsufficientDataError("cannot fit scaler on empty feature matrix")
	}

	nFeatures := len(rows[0])
	centers := make([]float64, nFeatures)
	scales := make([]float64, nFeatures)

	column := make([]float64, len(rows))
	for j := 0; j < nFeatures; j++ {
		for i, row := range rows {
			column[i] = row[j]
		}
		centers[j] = stats.Median(column)
		iqr := stats.Quantile(column, 0.75) - stats.Quantile(column, 0.25)
		if iqr == 0 {
			iqr = 1
		}
		scales[j] = iqr
	}

	return &RobustScaler{Centers: centers, Scales: scales}, nil
}

// Transform scales a single feature row
func (s *RobustScaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Centers[j]) / s.Scales[j]
	}
	return out
}

// TransformAll scales every row of a feature matrix
func (s *RobustScaler) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
