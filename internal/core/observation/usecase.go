package observation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"weathermort.app/internal/ports"
	"weathermort.app/pkg/errors"
)

// UseCase loads observation series for a city, combining the stored
// repository rows with upstream source fetches when the store has gaps.
type UseCase struct {
	repository ports.ObservationRepository
	sources    ports.ObservationSourceManager
	cache      ports.CacheProvider
	config     ports.ConfigProvider
	logger     ports.Logger
}

// UseCaseDependencies contains all dependencies for the observation use case.
// Cache is optional; everything else is required.
type UseCaseDependencies struct {
	Repository ports.ObservationRepository
	Sources    ports.ObservationSourceManager
	Cache      ports.CacheProvider
	Config     ports.ConfigProvider
	Logger     ports.Logger
}

// NewUseCase creates the observation use case
func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.Repository == nil {
		return nil, errors.NewValidationError("repository is required")
	}
	if deps.Sources == nil {
		return nil, errors.NewValidationError("source manager is required")
	}
	if deps.Config == nil {
		return nil, errors.NewValidationError("config is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}

	return &UseCase{
		repository: deps.Repository,
		sources:    deps.Sources,
		cache:      deps.Cache,
		config:     deps.Config,
		logger:     deps.Logger,
	}, nil
}

// Load returns the series covering the trailing window of the given length,
// ending today
func (uc *UseCase) Load(ctx context.Context, city string, days int) (*Series, error) {
	end := DayOf(time.Now().UTC())
	start := end.AddDate(0, 0, -(days - 1))
	return uc.LoadRange(ctx, city, start, end)
}

// LoadRange returns the series for the city over [start, end]. Stored rows
// are served when they cover the range; otherwise the source chain fills in
// and the fetched rows are persisted for the next caller.
func (uc *UseCase) LoadRange(ctx context.Context, city string, start, end time.Time) (*Series, error) {
	if city == "" {
		return nil, errors.NewValidationError("city cannot be empty")
	}
	if end.Before(start) {
		return nil, errors.NewValidationError("end date cannot precede start date")
	}

	start = DayOf(start)
	end = DayOf(end)

	series, err := uc.loadWithCache(ctx, city, start, end)
	if err != nil {
		uc.logger.Error("Failed to load observations",
			ports.F("city", city),
			ports.F("error", err))
		return nil, fmt.Errorf("load observations for city %s: %w", city, err)
	}

	if series.IsEmpty() {
		return nil, errors.NewInsufficientDataError("no observations available for city " + city)
	}

	uc.logger.Debug("Observations loaded",
		ports.F("city", city),
		ports.F("rows", series.Len()))
	return series, nil
}

func (uc *UseCase) loadWithCache(ctx context.Context, city string, start, end time.Time) (*Series, error) {
	cfg := uc.config.GetSourceConfig()
	if !cfg.EnableCache || uc.cache == nil {
		return uc.loadFromStore(ctx, city, start, end)
	}

	cacheKey := fmt.Sprintf("observations:%s:%s:%s",
		city, start.Format("2006-01-02"), end.Format("2006-01-02"))

	if data, err := uc.cache.Get(ctx, cacheKey); err == nil {
		var rows []Observation
		if decodeErr := json.Unmarshal(data, &rows); decodeErr == nil {
			uc.logger.Debug("Observations served from cache", ports.F("key", cacheKey))
			return NewSeries(city, rows), nil
		}
		uc.logger.Warn("Cached observations are unreadable, reloading", ports.F("key", cacheKey))
	}

	series, err := uc.loadFromStore(ctx, city, start, end)
	if err != nil {
		return nil, err
	}

	if data, encodeErr := json.Marshal(series.Rows); encodeErr == nil {
		if cacheErr := uc.cache.Set(ctx, cacheKey, data, cfg.CacheTTL); cacheErr != nil {
			uc.logger.Warn("Failed to cache observations",
				ports.F("key", cacheKey),
				ports.F("error", cacheErr))
		}
	}

	return series, nil
}

// loadFromStore reads the repository and falls through to the source chain
// when the stored rows do not cover every day of the range. Fetched rows win
// over stored rows on date collisions.
func (uc *UseCase) loadFromStore(ctx context.Context, city string, start, end time.Time) (*Series, error) {
	records, err := uc.repository.FindRange(ctx, city, start, end)
	if err != nil {
		return nil, err
	}

	wantDays := int(end.Sub(start).Hours()/24) + 1
	rows := make([]Observation, 0, wantDays)
	for _, rec := range records {
		rows = append(rows, Observation{
			City:        rec.City,
			Date:        rec.Date,
			Temperature: rec.Temperature,
			Humidity:    rec.Humidity,
		})
	}

	if len(records) >= wantDays {
		return NewSeries(city, rows), nil
	}

	fetched, err := uc.sources.FetchRange(ctx, city, start, end)
	if err != nil {
		if len(rows) > 0 {
			uc.logger.Warn("Source fetch failed, serving stored observations",
				ports.F("city", city),
				ports.F("stored", len(rows)),
				ports.F("error", err))
			return NewSeries(city, rows), nil
		}
		return nil, err
	}

	if persistErr := uc.persist(ctx, fetched); persistErr != nil {
		uc.logger.Warn("Failed to persist fetched observations",
			ports.F("city", city),
			ports.F("error", persistErr))
	}

	for _, row := range fetched {
		rows = append(rows, Observation{
			City:        row.City,
			Date:        row.Date,
			Temperature: row.Temperature,
			Humidity:    row.Humidity,
		})
	}

	return NewSeries(city, rows), nil
}

func (uc *UseCase) persist(ctx context.Context, rows []ports.ObservationRow) error {
	if len(rows) == 0 {
		return nil
	}
	records := make([]ports.ObservationRecord, len(rows))
	for i, row := range rows {
		records[i] = ports.ObservationRecord{
			City:        row.City,
			Date:        DayOf(row.Date),
			Temperature: row.Temperature,
			Humidity:    row.Humidity,
		}
	}
	return uc.repository.UpsertRange(ctx, records)
}
