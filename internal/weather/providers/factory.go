package providers

import (
	"fmt"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	NameWeatherAPI  = "weatherapi"
	NameOpenWeather = "openweather"
)

// New builds the named provider. It returns a nil provider, and no error,
// when the provider's API key is empty: fetches are then skipped.
func New(name, weatherAPIKey, openWeatherKey string, opts Options) (weather.Provider, error) {
	switch name {
	case NameWeatherAPI, "":
		if weatherAPIKey == "" {
			return nil, nil
		}
		return NewWeatherAPIProvider(weatherAPIKey, opts), nil
	case NameOpenWeather:
		if openWeatherKey == "" {
			return nil, nil
		}
		return NewOpenWeatherProvider(openWeatherKey, opts), nil
	default:
		return nil, fmt.Errorf("unknown weather provider %q", name)
	}
}
