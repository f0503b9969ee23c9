package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func ptr(f float64) *float64 { return &f }

func TestLocateUsesClientPosition(t *testing.T) {
	l := NewLocator("", nil)

	c, err := l.Locate(context.Background(), weather.LocateQuery{Lat: ptr(52.52), Lon: ptr(13.4)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lat != 52.52 || c.Lon != 13.4 {
		t.Fatalf("unexpected coordinates %+v", c)
	}
}

func TestLocateRejectsOutOfRange(t *testing.T) {
	l := NewLocator("", nil)

	_, err := l.Locate(context.Background(), weather.LocateQuery{Lat: ptr(95), Lon: ptr(0)})
	if !errors.Is(err, ErrInvalidPosition) || weather.KindOf(err) != weather.KindLocationUnresolved {
		t.Fatalf("expected unresolved invalid position, got %v", err)
	}
}

func TestLocateWithoutGeocoder(t *testing.T) {
	l := NewLocator("", nil)

	_, err := l.Locate(context.Background(), weather.LocateQuery{City: "Berlin"})
	if !errors.Is(err, ErrNoPosition) {
		t.Fatalf("expected ErrNoPosition, got %v", err)
	}
}

func TestLocateGeocodesCity(t *testing.T) {
	var got geocoder.Address
	l := &Locator{
		logger: NewLocator("", nil).logger,
		geocode: func(a geocoder.Address) (geocoder.Location, error) {
			got = a
			return geocoder.Location{Latitude: 48.2, Longitude: 16.37}, nil
		},
	}

	c, err := l.Locate(context.Background(), weather.LocateQuery{City: "Vienna", Country: "Austria"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.City != "Vienna" || got.Country != "Austria" {
		t.Fatalf("unexpected address %+v", got)
	}
	if c.Lat != 48.2 || c.Lon != 16.37 {
		t.Fatalf("unexpected coordinates %+v", c)
	}
}

func TestLocateGeocoderFailure(t *testing.T) {
	l := &Locator{
		logger: NewLocator("", nil).logger,
		geocode: func(geocoder.Address) (geocoder.Location, error) {
			return geocoder.Location{}, errors.New("ZERO_RESULTS")
		},
	}

	_, err := l.Locate(context.Background(), weather.LocateQuery{City: "Nowhere"})
	if weather.KindOf(err) != weather.KindLocationUnresolved {
		t.Fatalf("expected location_unresolved, got %v", err)
	}
}
