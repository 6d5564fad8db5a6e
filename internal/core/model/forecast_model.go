package model

import (
	"bytes"
	"encoding/gob"

	"weathermort.app/internal/core/features"
	"weathermort.app/pkg/errors"
)

// ForecastModel owns the two fitted regressors plus the fitted feature
// scaling transform. Immutable after training; consumed only through Predict.
type ForecastModel struct {
	Scaler      *RobustScaler
	Temperature *BoostedTrees
	Humidity    *BoostedTrees
}

// Train fits the scaler and both ensembles on the feature table with
// per-sample recency weights. Temperature and humidity are trained
// independently with their own configurations.
func Train(table *features.Table, temps, hums, weights []float64, tempCfg, humCfg TreeConfig) (*ForecastModel, error) {
	if table == nil || len(table.Rows) < 2 {
		return nil, errors.NewInsufficientDataError("training requires at least two feature rows")
	}
	n := len(table.Rows)
	if len(temps) != n || len(hums) != n || len(weights) != n {
		return nil, errors.NewValidationError("targets and weights must be index-aligned with the feature table")
	}

	scaler, err := FitScaler(table.Rows)
	if err != nil {
		return nil, err
	}
	scaled := scaler.TransformAll(table.Rows)

	return &ForecastModel{
		Scaler:      scaler,
		Temperature: trainBoosted(scaled, temps, weights, tempCfg),
		Humidity:    trainBoosted(scaled, hums, weights, humCfg),
	}, nil
}

// Predict returns the temperature and humidity estimates for one unscaled
// feature row. Calling Predict on an untrained model is a programming error
// and fails loudly.
func (m *ForecastModel) Predict(row []float64) (float64, float64, error) {
	if m == nil || m.Scaler == nil || m.Temperature == nil || m.Humidity == nil {
		return 0, 0, errors.NewModelNotTrainedError("predict called before training")
	}
	if len(row) != len(m.Scaler.Centers) {
		return 0, 0, errors.NewValidationError("feature row width does not match the trained model")
	}

	scaled := m.Scaler.Transform(row)
	return m.Temperature.predict(scaled), m.Humidity.predict(scaled), nil
}

// Encode serializes a trained model for caching
func Encode(m *ForecastModel) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return nil, errors.NewCacheError("failed to encode forecast model", err)
	}
	return buf.Bytes(), nil
}

// Decode restores a model serialized by Encode
func Decode(data []byte) (*ForecastModel, error) {
	var m ForecastModel
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, errors.NewCacheError("failed to decode forecast model", err)
	}
	return &m, nil
}
