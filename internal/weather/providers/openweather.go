package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	openWeatherIconURL = "https://openweathermap.org/img/wn/%s.png"

	// The free forecast is 5 days of 3-hour steps.
	openWeatherStepsPerDay = 8
	openWeatherMaxSteps    = 40
)

// OpenWeatherProvider implements the weather.Provider interface for
// OpenWeatherMap. Its forecast has several samples per calendar day.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(apiKey string, opts Options) *OpenWeatherProvider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = openWeatherBaseURL
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: newHTTPClientConfig(opts),
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherStatus struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, coords weather.Coordinates) (weather.RawCurrentConditions, error) {
	values := url.Values{
		"lat": {strconv.FormatFloat(coords.Lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(coords.Lon, 'f', -1, 64)},
	}
	return p.fetchCurrent(ctx, weather.OpCurrentWeather, values)
}

func (p *OpenWeatherProvider) FetchCurrentByCity(ctx context.Context, city string) (weather.RawCurrentConditions, error) {
	return p.fetchCurrent(ctx, weather.OpCitySearch, url.Values{"q": {city}})
}

func (p *OpenWeatherProvider) fetchCurrent(ctx context.Context, op weather.Op, values url.Values) (weather.RawCurrentConditions, error) {
	var payload struct {
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Weather []openWeatherStatus `json:"weather"`
		Main    struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Pressure  float64 `json:"pressure"`
			Humidity  float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Clouds struct {
			All float64 `json:"all"`
		} `json:"clouds"`
		Visibility float64 `json:"visibility"`
		Dt         int64   `json:"dt"`
		Sys        struct {
			Country string `json:"country"`
		} `json:"sys"`
		Name string `json:"name"`
	}

	if err := p.get(ctx, op, "weather", values, &payload); err != nil {
		return weather.RawCurrentConditions{}, err
	}

	var text, icon string
	if len(payload.Weather) > 0 {
		text = payload.Weather[0].Description
		if payload.Weather[0].Icon != "" {
			icon = fmt.Sprintf(openWeatherIconURL, payload.Weather[0].Icon)
		}
	}

	// Units are metric: wind in m/s and visibility in meters. The raw record
	// uses the km/h and km the normalizer converts from.
	return weather.RawCurrentConditions{
		TempC:          payload.Main.Temp,
		FeelsLikeC:     payload.Main.FeelsLike,
		Humidity:       payload.Main.Humidity,
		PressureMb:     payload.Main.Pressure,
		WindKph:        payload.Wind.Speed * 3.6,
		Cloud:          payload.Clouds.All,
		VisKm:          payload.Visibility / 1000,
		ConditionText:  text,
		IconURL:        icon,
		Name:           payload.Name,
		Country:        payload.Sys.Country,
		Lat:            payload.Coord.Lat,
		Lon:            payload.Coord.Lon,
		LocaltimeEpoch: payload.Dt,
	}, nil
}

func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, coords weather.Coordinates, days int) ([]weather.ForecastSample, error) {
	steps := days * openWeatherStepsPerDay
	if steps > openWeatherMaxSteps || steps <= 0 {
		steps = openWeatherMaxSteps
	}

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp     float64 `json:"temp"`
				TempMin  float64 `json:"temp_min"`
				TempMax  float64 `json:"temp_max"`
				Humidity float64 `json:"humidity"`
			} `json:"main"`
			Weather []openWeatherStatus `json:"weather"`
			Rain    struct {
				ThreeH *float64 `json:"3h"`
			} `json:"rain"`
			Snow struct {
				ThreeH *float64 `json:"3h"`
			} `json:"snow"`
		} `json:"list"`
		City struct {
			Timezone int `json:"timezone"`
		} `json:"city"`
	}

	values := url.Values{
		"lat": {strconv.FormatFloat(coords.Lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(coords.Lon, 'f', -1, 64)},
		"cnt": {strconv.Itoa(steps)},
	}
	if err := p.get(ctx, weather.OpForecast, "forecast", values, &payload); err != nil {
		return nil, err
	}

	// Samples are expressed in the city's own UTC offset.
	zone := time.FixedZone("", payload.City.Timezone)

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		local := time.Unix(item.Dt, 0).In(zone)
		minC, maxC := item.Main.TempMin, item.Main.TempMax

		var text string
		if len(item.Weather) > 0 {
			text = item.Weather[0].Description
		}

		samples = append(samples, weather.ForecastSample{
			Time:          local.Format(hourLayout),
			Date:          local,
			Label:         local.Format(labelLayout),
			Temp:          item.Main.Temp,
			TempMin:       &minC,
			TempMax:       &maxC,
			Humidity:      item.Main.Humidity,
			Condition:     text,
			Precipitation: valueOrZero(item.Rain.ThreeH) + valueOrZero(item.Snow.ThreeH),
		})
	}

	return samples, nil
}

func (p *OpenWeatherProvider) get(ctx context.Context, op weather.Op, endpoint string, values url.Values, out any) error {
	buildRequest := func() (*http.Request, error) {
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		u := fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return classify(op, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return weather.Unavailable(op, fmt.Errorf("decode %s: %w", endpoint, err))
	}
	return nil
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)
