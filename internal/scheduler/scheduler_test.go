package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weathermort.app/internal/core/observation"
	"weathermort.app/internal/ports"
	"weathermort.app/pkg/errors"
)

func currentDay() time.Time {
	return observation.DayOf(time.Now().UTC())
}

type fetchCall struct {
	city  string
	start time.Time
	end   time.Time
}

type stubSources struct {
	rows  map[string][]ports.ObservationRow
	err   error
	calls []fetchCall
}

func (s *stubSources) FetchRange(_ context.Context, city string, start, end time.Time) ([]ports.ObservationRow, error) {
	s.calls = append(s.calls, fetchCall{city: city, start: start, end: end})
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[city], nil
}

func (s *stubSources) GetSourceInfo() map[string]interface{} {
	return map[string]interface{}{}
}

type stubRepository struct {
	latest   map[string]time.Time
	upserted map[string][]ports.ObservationRecord
}

func newStubRepository() *stubRepository {
	return &stubRepository{
		latest:   make(map[string]time.Time),
		upserted: make(map[string][]ports.ObservationRecord),
	}
}

func (s *stubRepository) UpsertRange(_ context.Context, records []ports.ObservationRecord) error {
	for _, rec := range records {
		s.upserted[rec.City] = append(s.upserted[rec.City], rec)
	}
	return nil
}

func (s *stubRepository) FindRange(_ context.Context, _ string, _, _ time.Time) ([]ports.ObservationRecord, error) {
	return nil, nil
}

func (s *stubRepository) LatestDate(_ context.Context, city string) (time.Time, error) {
	latest, ok := s.latest[city]
	if !ok {
		return time.Time{}, errors.NewNotFoundError("no observations stored for city")
	}
	return latest, nil
}

func (s *stubRepository) CountByCity(_ context.Context, city string) (int64, error) {
	return int64(len(s.upserted[city])), nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...ports.Field) {}
func (nopLogger) Info(string, ...ports.Field)  {}
func (nopLogger) Warn(string, ...ports.Field)  {}
func (nopLogger) Error(string, ...ports.Field) {}

func newScheduler(t *testing.T, sources *stubSources, repo *stubRepository, cities []string) *Scheduler {
	t.Helper()
	s, err := NewScheduler(Dependencies{
		Sources:    sources,
		Repository: repo,
		Config:     ports.SchedulerConfig{CollectionInterval: 60, Cities: cities},
		Logger:     nopLogger{},
	})
	require.NoError(t, err)
	return s
}

func TestNewScheduler_Validation(t *testing.T) {
	sources := &stubSources{}
	repo := newStubRepository()
	cities := []string{"Seoul"}

	tests := []struct {
		name string
		deps Dependencies
	}{
		{
			name: "MissingSources",
			deps: Dependencies{Repository: repo, Logger: nopLogger{}, Config: ports.SchedulerConfig{CollectionInterval: 60, Cities: cities}},
		},
		{
			name: "MissingRepository",
			deps: Dependencies{Sources: sources, Logger: nopLogger{}, Config: ports.SchedulerConfig{CollectionInterval: 60, Cities: cities}},
		},
		{
			name: "MissingLogger",
			deps: Dependencies{Sources: sources, Repository: repo, Config: ports.SchedulerConfig{CollectionInterval: 60, Cities: cities}},
		},
		{
			name: "ZeroInterval",
			deps: Dependencies{Sources: sources, Repository: repo, Logger: nopLogger{}, Config: ports.SchedulerConfig{Cities: cities}},
		},
		{
			name: "NoCities",
			deps: Dependencies{Sources: sources, Repository: repo, Logger: nopLogger{}, Config: ports.SchedulerConfig{CollectionInterval: 60}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScheduler(tt.deps)
			assert.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestCollectCity_BackfillsNewCity(t *testing.T) {
	today := currentDay()

	sources := &stubSources{rows: map[string][]ports.ObservationRow{
		"Seoul": {
			{City: "Seoul", Date: today.AddDate(0, 0, -1), Temperature: 9.0, Humidity: 48.0},
			{City: "Seoul", Date: today, Temperature: 10.0, Humidity: 50.0},
		},
	}}
	repo := newStubRepository()
	s := newScheduler(t, sources, repo, []string{"Seoul"})

	err := s.collectCity(context.Background(), "Seoul")
	require.NoError(t, err)

	require.Len(t, sources.calls, 1)
	call := sources.calls[0]
	assert.Equal(t, "Seoul", call.city)
	assert.Equal(t, today, call.end)
	assert.Equal(t, today.AddDate(0, 0, -(maxBackfillDays-1)), call.start)

	assert.Len(t, repo.upserted["Seoul"], 2)
}

func TestCollectCity_FetchesOnlyMissingDays(t *testing.T) {
	today := currentDay()

	sources := &stubSources{rows: map[string][]ports.ObservationRow{
		"Busan": {
			{City: "Busan", Date: today, Temperature: 12.0, Humidity: 60.0},
		},
	}}
	repo := newStubRepository()
	repo.latest["Busan"] = today.AddDate(0, 0, -2)
	s := newScheduler(t, sources, repo, []string{"Busan"})

	err := s.collectCity(context.Background(), "Busan")
	require.NoError(t, err)

	require.Len(t, sources.calls, 1)
	assert.Equal(t, today.AddDate(0, 0, -1), sources.calls[0].start)
	assert.Equal(t, today, sources.calls[0].end)
}

func TestCollectCity_SkipsWhenCurrent(t *testing.T) {
	today := currentDay()

	sources := &stubSources{}
	repo := newStubRepository()
	repo.latest["Seoul"] = today
	s := newScheduler(t, sources, repo, []string{"Seoul"})

	err := s.collectCity(context.Background(), "Seoul")
	require.NoError(t, err)
	assert.Empty(t, sources.calls)
}

func TestCollectAll_ContinuesAfterCityFailure(t *testing.T) {
	sources := &stubSources{err: errors.NewExternalAPIError("upstream down", nil)}
	repo := newStubRepository()
	s := newScheduler(t, sources, repo, []string{"Seoul", "Busan", "Jeju"})

	s.collectAll(context.Background())

	// A failing source must not stop the remaining cities
	assert.Len(t, sources.calls, 3)
}

func TestScheduler_StartAndStop(t *testing.T) {
	today := currentDay()

	sources := &stubSources{rows: map[string][]ports.ObservationRow{
		"Seoul": {{City: "Seoul", Date: today, Temperature: 10.0, Humidity: 50.0}},
	}}
	repo := newStubRepository()
	s := newScheduler(t, sources, repo, []string{"Seoul"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)

	// The first collection runs immediately
	assert.Eventually(t, func() bool {
		return len(repo.upserted["Seoul"]) > 0
	}, time.Second, 10*time.Millisecond)

	s.Stop()
}
