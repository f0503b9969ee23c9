package weather

import "context"

// Provider abstracts a weather service (WeatherAPI.com, OpenWeatherMap).
type Provider interface {
	Name() string
	// FetchCurrent returns current conditions at coords.
	FetchCurrent(ctx context.Context, coords Coordinates) (RawCurrentConditions, error)
	// FetchCurrentByCity looks a city up by name. The returned conditions
	// carry the resolved coordinates.
	FetchCurrentByCity(ctx context.Context, city string) (RawCurrentConditions, error)
	// FetchForecast returns the flat forecast for the next days days.
	FetchForecast(ctx context.Context, coords Coordinates, days int) ([]ForecastSample, error)
}

// LocateQuery is what a client knows about its own position. Lat/Lon come
// from browser geolocation; City/Country are a typed-in fallback.
type LocateQuery struct {
	Lat     *float64
	Lon     *float64
	City    string
	Country string
}

// Locator resolves a LocateQuery to coordinates.
type Locator interface {
	Locate(ctx context.Context, q LocateQuery) (Coordinates, error)
}

// Store keeps the last committed view per dashboard session.
type Store interface {
	// Begin issues the next sequence id for session.
	Begin(session string) uint64
	// Commit stores view if seq is still the latest id issued for session.
	Commit(session string, seq uint64, view DashboardView) bool
	Latest(session string) (DashboardView, error)
}
