package forecast

import (
	"context"
	"fmt"
	"time"

	"weathermort.app/internal/core/features"
	"weathermort.app/internal/core/model"
	"weathermort.app/internal/core/observation"
	"weathermort.app/internal/ports"
	"weathermort.app/pkg/errors"
)

// Defaults applied when the configuration leaves a knob unset. The clamp
// bounds are sensor-realistic limits that stop runaway extrapolation from
// degrading downstream risk estimates.
const (
	defaultTrainWindow    = 30
	defaultTemperatureMin = -20.0
	defaultTemperatureMax = 40.0
	defaultHumidityMin    = 0.0
	defaultHumidityMax    = 100.0
)

// UseCase drives recursive multi-day forecasting: train once on the trailing
// window, then predict day by day, feeding each prediction back into the
// working series so later days see earlier forecast values.
type UseCase struct {
	builder *features.Builder
	config  ports.ConfigProvider
	logger  ports.Logger
	metrics ports.MetricsCollector
	cache   ports.CacheProvider

	tempConfig model.TreeConfig
	humConfig  model.TreeConfig
}

// UseCaseDependencies holds the dependencies for the forecast use case.
// Cache is optional; everything else is required.
type UseCaseDependencies struct {
	Config  ports.ConfigProvider
	Logger  ports.Logger
	Metrics ports.MetricsCollector
	Cache   ports.CacheProvider
}

// NewUseCase creates the forecast use case
func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.Config == nil {
		return nil, errors.NewValidationError("config is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}
	if deps.Metrics == nil {
		return nil, errors.NewValidationError("metrics is required")
	}

	return &UseCase{
		builder:    features.NewBuilder(),
		config:     deps.Config,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		cache:      deps.Cache,
		tempConfig: model.DefaultTemperatureConfig(),
		humConfig:  model.DefaultHumidityConfig(),
	}, nil
}

// Predict returns daysAhead forecast rows for the series, one per
// consecutive date after the series end. The input series is never mutated;
// the recursive loop owns a private working copy.
func (uc *UseCase) Predict(ctx context.Context, series *observation.Series, daysAhead int) ([]observation.Observation, error) {
	start := time.Now()
	city := ""
	if series != nil {
		city = series.City
	}

	rows, err := uc.predict(ctx, series, daysAhead)
	uc.metrics.RecordForecast(ctx, city, time.Since(start), err == nil)
	if err != nil {
		uc.logger.Error("Forecast failed",
			ports.F("city", city),
			ports.F("daysAhead", daysAhead),
			ports.F("error", err))
		return nil, err
	}

	uc.logger.Info("Forecast produced",
		ports.F("city", city),
		ports.F("daysAhead", daysAhead),
		ports.F("duration", time.Since(start)))
	return rows, nil
}

func (uc *UseCase) predict(ctx context.Context, series *observation.Series, daysAhead int) ([]observation.Observation, error) {
	if series == nil || series.IsEmpty() {
		return nil, errors.NewInsufficientDataError("forecast requires a non-empty observation series")
	}
	if daysAhead < 1 {
		return nil, errors.NewValidationError("daysAhead must be at least 1")
	}

	cfg := uc.config.GetForecastConfig()
	if cfg.TemperatureMin == 0 && cfg.TemperatureMax == 0 {
		cfg.TemperatureMin, cfg.TemperatureMax = defaultTemperatureMin, defaultTemperatureMax
	}
	if cfg.HumidityMax == 0 {
		cfg.HumidityMin, cfg.HumidityMax = defaultHumidityMin, defaultHumidityMax
	}
	if cfg.MaxHorizon > 0 && daysAhead > cfg.MaxHorizon {
		return nil, errors.NewValidationError(
			fmt.Sprintf("daysAhead exceeds the maximum horizon of %d days", cfg.MaxHorizon))
	}

	window := cfg.TrainWindow
	if window <= 0 {
		window = defaultTrainWindow
	}
	working := series.Tail(window)

	trained, err := uc.trainedModel(ctx, working, cfg)
	if err != nil {
		return nil, err
	}

	// Each iteration is causally downstream of the previous one: lag and
	// rolling features for day i+1 read the forecast appended for day i.
	out := make([]observation.Observation, 0, daysAhead)
	for i := 0; i < daysAhead; i++ {
		nextDate := working.LastDate().AddDate(0, 0, 1)
		row := uc.builder.NextRow(working, nextDate)

		temp, hum, err := trained.Predict(row)
		if err != nil {
			return nil, err
		}

		forecast := observation.Observation{
			City:        working.City,
			Date:        nextDate,
			Temperature: clamp(temp, cfg.TemperatureMin, cfg.TemperatureMax),
			Humidity:    clamp(hum, cfg.HumidityMin, cfg.HumidityMax),
			IsForecast:  true,
		}
		working.Append(forecast)
		out = append(out, forecast)
	}

	return out, nil
}

// trainedModel trains on the working series, going through the byte cache
// when one is configured. Cache misses and decode failures both fall back
// to a fresh training run.
func (uc *UseCase) trainedModel(ctx context.Context, working *observation.Series, cfg ports.ForecastConfig) (*model.ForecastModel, error) {
	useCache := uc.cache != nil && cfg.EnableCache
	cacheKey := fmt.Sprintf("forecast-model:%s:%d:%s",
		working.City, working.Len(), working.LastDate().Format("2006-01-02"))

	if useCache {
		if data, err := uc.cache.Get(ctx, cacheKey); err == nil {
			trained, decodeErr := model.Decode(data)
			if decodeErr == nil {
				uc.metrics.RecordCacheHit(ctx)
				uc.logger.Debug("Forecast model served from cache", ports.F("key", cacheKey))
				return trained, nil
			}
			uc.logger.Warn("Cached forecast model is unreadable, retraining",
				ports.F("key", cacheKey),
				ports.F("error", decodeErr))
		}
		uc.metrics.RecordCacheMiss(ctx)
	}

	trained, err := uc.train(working, cfg)
	if err != nil {
		return nil, err
	}

	if useCache {
		if data, encodeErr := model.Encode(trained); encodeErr == nil {
			if cacheErr := uc.cache.Set(ctx, cacheKey, data, cfg.CacheTTL); cacheErr != nil {
				uc.logger.Warn("Failed to cache forecast model",
					ports.F("key", cacheKey),
					ports.F("error", cacheErr))
			}
		}
	}
	return trained, nil
}

func (uc *UseCase) train(working *observation.Series, cfg ports.ForecastConfig) (*model.ForecastModel, error) {
	decay := cfg.DecayFactor
	if decay == 0 {
		decay = features.DefaultDecayFactor
	}
	weighter, err := features.NewWeighter(decay)
	if err != nil {
		return nil, err
	}

	table, err := uc.builder.Build(working)
	if err != nil {
		return nil, err
	}

	return model.Train(table,
		working.Temperatures(),
		working.Humidities(),
		weighter.Weights(working.Len()),
		uc.tempConfig,
		uc.humConfig)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
