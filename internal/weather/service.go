package weather

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// ForecastDays is the lookahead window requested from the provider.
	ForecastDays = 7

	mapStyle     = "mapbox://styles/mapbox/light-v11"
	mapZoomIdle  = 2
	mapZoomFocus = 8
)

// ServiceConfig holds the settings the dashboard service is built with.
// Rand and Now are optional.
type ServiceConfig struct {
	MapToken string
	Rand     Rand
	Now      func() time.Time
}

// Service turns location changes into committed dashboard views.
type Service struct {
	store    Store
	provider Provider
	locator  Locator
	mapToken string
	logger   *zap.Logger

	rng Rand
	now func() time.Time
}

// NewService creates a new Service. A nil provider means no weather API key
// is configured; every update is then skipped.
func NewService(store Store, provider Provider, locator Locator, cfg ServiceConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:    store,
		provider: provider,
		locator:  locator,
		mapToken: cfg.MapToken,
		logger:   logger,
		rng:      newLockedRand(cfg.Rand),
		now:      cfg.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// UpdateByCoordinates handles a map click or resolved geolocation. Current
// conditions and the forecast are fetched concurrently; if either fails the
// error is returned and the session keeps its previous view. A nil view with
// a nil error means the update was skipped.
func (s *Service) UpdateByCoordinates(ctx context.Context, session string, coords Coordinates) (*DashboardView, error) {
	if s.provider == nil {
		s.logger.Debug("weather provider not configured; skipping update", zap.String("session", session))
		return nil, nil
	}

	seq := s.store.Begin(session)
	log := s.logger.With(zap.String("session", session), zap.Uint64("seq", seq))

	var (
		wg      sync.WaitGroup
		raw     RawCurrentConditions
		samples []ForecastSample
		curErr  error
		fcErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		raw, curErr = s.provider.FetchCurrent(ctx, coords)
	}()
	go func() {
		defer wg.Done()
		samples, fcErr = s.provider.FetchForecast(ctx, coords, ForecastDays)
	}()
	wg.Wait()

	if curErr != nil {
		log.Warn("current weather fetch failed", zap.String("provider", s.provider.Name()), zap.Error(curErr))
		return nil, curErr
	}
	if fcErr != nil {
		log.Warn("forecast fetch failed", zap.String("provider", s.provider.Name()), zap.Error(fcErr))
		return nil, fcErr
	}

	return s.commit(log, session, seq, coords, raw, samples)
}

// SearchCity looks a city up by name and then fetches its forecast. The
// forecast call needs the coordinates the lookup resolves, so the two calls
// run one after the other.
func (s *Service) SearchCity(ctx context.Context, session, city string) (*DashboardView, error) {
	if s.provider == nil {
		s.logger.Debug("weather provider not configured; skipping city search", zap.String("session", session))
		return nil, nil
	}

	seq := s.store.Begin(session)
	log := s.logger.With(zap.String("session", session), zap.Uint64("seq", seq), zap.String("city", city))

	raw, err := s.provider.FetchCurrentByCity(ctx, city)
	if err != nil {
		log.Warn("city lookup failed", zap.Error(err))
		return nil, err
	}

	coords := Coordinates{Lat: raw.Lat, Lon: raw.Lon}
	samples, err := s.provider.FetchForecast(ctx, coords, ForecastDays)
	if err != nil {
		log.Warn("forecast fetch failed", zap.Error(err))
		return nil, err
	}

	return s.commit(log, session, seq, coords, raw, samples)
}

// UseCurrentLocation resolves the client's position and updates from it.
func (s *Service) UseCurrentLocation(ctx context.Context, session string, q LocateQuery) (*DashboardView, error) {
	if s.locator == nil {
		return nil, Unresolved(errors.New("geolocation is not supported"))
	}

	coords, err := s.locator.Locate(ctx, q)
	if err != nil {
		s.logger.Warn("location lookup failed", zap.String("session", session), zap.Error(err))
		var fe *FetchError
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, Unresolved(err)
	}

	return s.UpdateByCoordinates(ctx, session, coords)
}

// View returns the last committed view of session.
func (s *Service) View(session string) (DashboardView, error) {
	return s.store.Latest(session)
}

// History returns a synthesized 12-month series for lat.
func (s *Service) History(lat float64) []HistoricalMonthRecord {
	return SynthesizeHistory(lat, s.rng)
}

// MapEnabled reports whether a map token is configured.
func (s *Service) MapEnabled() bool {
	return s.mapToken != ""
}

func (s *Service) commit(log *zap.Logger, session string, seq uint64, coords Coordinates, raw RawCurrentConditions, samples []ForecastSample) (*DashboardView, error) {
	view := DashboardView{
		Session:    session,
		Seq:        seq,
		Location:   coords,
		Current:    Normalize(raw, s.now),
		Forecast:   BucketDaily(samples, s.rng),
		Historical: SynthesizeHistory(coords.Lat, s.rng),
		Map:        s.mapView(coords),
		UpdatedAt:  s.now().UTC(),
	}

	if !s.store.Commit(session, seq, view) {
		log.Info("discarding superseded dashboard update")
		return nil, ErrSuperseded
	}

	log.Info("dashboard updated",
		zap.String("city", view.Current.City),
		zap.Int("forecast_days", len(view.Forecast)))
	return &view, nil
}

func (s *Service) mapView(coords Coordinates) MapView {
	if s.mapToken == "" {
		return MapView{Enabled: false, Zoom: mapZoomIdle}
	}
	c := coords
	return MapView{
		Enabled:     true,
		AccessToken: s.mapToken,
		Style:       mapStyle,
		Center:      &c,
		Marker:      &c,
		Zoom:        mapZoomFocus,
	}
}
