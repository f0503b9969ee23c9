package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// SessionPrefix is prepended to a city name to form its dashboard session.
const SessionPrefix = "city:"

const (
	defaultInterval = 15 * time.Minute
	refreshTimeout  = 30 * time.Second
)

// Searcher runs a city search for a session.
type Searcher interface {
	SearchCity(ctx context.Context, session, city string) (*weather.DashboardView, error)
}

// Scheduler periodically refreshes the dashboards of configured cities.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Searcher
	cities    []string
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler.
func New(cities []string, interval time.Duration, service Searcher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		cities:    cities,
		interval:  interval,
		logger:    logger,
	}
}

// Session returns the session key a city is refreshed into.
func Session(city string) string {
	return SessionPrefix + city
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first refresh runs immediately.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		s.logger.Info("scheduler: no cities configured; nothing to schedule")
		return nil
	}

	if _, err := s.scheduler.Every(s.refreshInterval()).Do(s.RunOnce); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// refreshInterval is the configured interval, or the default when unset.
func (s *Scheduler) refreshInterval() time.Duration {
	if s.interval <= 0 {
		return defaultInterval
	}
	return s.interval
}

// RunOnce refreshes every configured city concurrently and waits for all of
// them to finish.
func (s *Scheduler) RunOnce() {
	log := s.logger.With(zap.String("cycle", uuid.NewString()))
	log.Info("scheduler: refreshing dashboards", zap.Int("cities", len(s.cities)))

	var wg sync.WaitGroup
	for _, city := range s.cities {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			defer cancel()

			view, err := s.service.SearchCity(ctx, Session(city), city)
			switch {
			case err != nil:
				log.Warn("scheduler: refresh failed", zap.String("city", city), zap.Error(err))
			case view == nil:
				log.Debug("scheduler: refresh skipped", zap.String("city", city))
			}
		}()
	}
	wg.Wait()
	log.Info("scheduler: refresh complete")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
