// Package scheduler implements the background observation-collection job.
package scheduler

import (
	"context"
	"time"

	"weathermort.app/internal/core/observation"
	"weathermort.app/internal/ports"
	"weathermort.app/pkg/errors"
)

// maxBackfillDays bounds how far back a collection run reaches when a city
// has no stored observations yet.
const maxBackfillDays = 30

// Scheduler periodically collects observations for the configured cities
// and upserts them into the repository.
type Scheduler struct {
	sources    ports.ObservationSourceManager
	repository ports.ObservationRepository
	config     ports.SchedulerConfig
	logger     ports.Logger
	stop       chan struct{}
}

// Dependencies holds everything the scheduler needs
type Dependencies struct {
	Sources    ports.ObservationSourceManager
	Repository ports.ObservationRepository
	Config     ports.SchedulerConfig
	Logger     ports.Logger
}

// NewScheduler creates and configures the collection scheduler
func NewScheduler(deps Dependencies) (*Scheduler, error) {
	if deps.Sources == nil {
		return nil, errors.NewValidationError("source manager is required")
	}
	if deps.Repository == nil {
		return nil, errors.NewValidationError("repository is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}
	if deps.Config.CollectionInterval < 1 {
		return nil, errors.NewValidationError("collection interval must be at least one minute")
	}
	if len(deps.Config.Cities) == 0 {
		return nil, errors.NewValidationError("at least one city is required")
	}

	return &Scheduler{
		sources:    deps.Sources,
		repository: deps.Repository,
		config:     deps.Config,
		logger:     deps.Logger,
		stop:       make(chan struct{}),
	}, nil
}

// Start begins the collection loop. The first run happens immediately.
func (s *Scheduler) Start(ctx context.Context) {
	interval := time.Duration(s.config.CollectionInterval) * time.Minute
	s.logger.Info("Starting collection scheduler",
		ports.F("interval", interval),
		ports.F("cities", len(s.config.Cities)))

	go s.run(ctx, interval)
}

// Stop ends the collection loop
func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) run(ctx context.Context, interval time.Duration) {
	s.collectAll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.collectAll(ctx)
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) collectAll(ctx context.Context) {
	for _, city := range s.config.Cities {
		if err := s.collectCity(ctx, city); err != nil {
			s.logger.Error("Observation collection failed",
				ports.F("city", city),
				ports.F("error", err))
		}
	}
}

// collectCity fetches the days missing since the last stored observation.
// Cities without stored data are backfilled up to maxBackfillDays.
func (s *Scheduler) collectCity(ctx context.Context, city string) error {
	today := observation.DayOf(time.Now().UTC())
	start := today.AddDate(0, 0, -(maxBackfillDays - 1))

	latest, err := s.repository.LatestDate(ctx, city)
	if err != nil && !errors.IsNotFoundError(err) {
		return err
	}
	if err == nil {
		if !latest.Before(today) {
			s.logger.Debug("Observations already current", ports.F("city", city))
			return nil
		}
		if next := latest.AddDate(0, 0, 1); next.After(start) {
			start = next
		}
	}

	rows, err := s.sources.FetchRange(ctx, city, start, today)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		s.logger.Warn("No observations returned for collection window",
			ports.F("city", city),
			ports.F("start", start.Format("2006-01-02")))
		return nil
	}

	records := make([]ports.ObservationRecord, len(rows))
	for i, row := range rows {
		records[i] = ports.ObservationRecord{
			City:        row.City,
			Date:        observation.DayOf(row.Date),
			Temperature: row.Temperature,
			Humidity:    row.Humidity,
		}
	}

	if err := s.repository.UpsertRange(ctx, records); err != nil {
		return err
	}

	s.logger.Info("Observations collected",
		ports.F("city", city),
		ports.F("rows", len(records)))
	return nil
}
