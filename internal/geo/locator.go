package geo

import (
	"context"
	"errors"
	"fmt"

	"github.com/kelvins/geocoder"
	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	ErrNoPosition      = errors.New("no position supplied and geocoding is not configured")
	ErrInvalidPosition = errors.New("position out of range")
)

// Locator resolves a client's position. Coordinates reported by the client
// (browser geolocation) are used as-is; otherwise the typed-in city is
// geocoded through the Google Geocoding API when a key is configured.
type Locator struct {
	geocode func(geocoder.Address) (geocoder.Location, error)
	logger  *zap.Logger
}

// NewLocator creates a Locator. An empty apiKey disables geocoding.
func NewLocator(apiKey string, logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Locator{logger: logger}
	if apiKey != "" {
		geocoder.ApiKey = apiKey
		l.geocode = geocoder.Geocoding
	}
	return l
}

func (l *Locator) Locate(ctx context.Context, q weather.LocateQuery) (weather.Coordinates, error) {
	if q.Lat != nil && q.Lon != nil {
		c := weather.Coordinates{Lat: *q.Lat, Lon: *q.Lon}
		if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
			return weather.Coordinates{}, weather.Unresolved(ErrInvalidPosition)
		}
		return c, nil
	}

	if l.geocode == nil || q.City == "" {
		return weather.Coordinates{}, weather.Unresolved(ErrNoPosition)
	}
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, weather.Unresolved(err)
	}

	loc, err := l.geocode(geocoder.Address{City: q.City, Country: q.Country})
	if err != nil {
		l.logger.Warn("geocoding failed",
			zap.String("city", q.City),
			zap.String("country", q.Country),
			zap.Error(err))
		return weather.Coordinates{}, weather.Unresolved(fmt.Errorf("geocode %s: %w", q.City, err))
	}

	return weather.Coordinates{Lat: loc.Latitude, Lon: loc.Longitude}, nil
}

var _ weather.Locator = (*Locator)(nil)
