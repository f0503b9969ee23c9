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
	weatherAPIBaseURL = "https://api.weatherapi.com/v1"

	dayLayout   = "2006-01-02"
	hourLayout  = "2006-01-02 15:04"
	labelLayout = "Mon, Jan 2"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name        string
	apiKey      string
	baseURL     string
	granularity Granularity
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(apiKey string, opts Options) *WeatherAPIProvider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = weatherAPIBaseURL
	}
	granularity := opts.Granularity
	if granularity == "" {
		granularity = GranularityDaily
	}

	return &WeatherAPIProvider{
		name:        "weatherapi",
		apiKey:      apiKey,
		baseURL:     baseURL,
		granularity: granularity,
		httpCfg:     newHTTPClientConfig(opts),
		circuit:     newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPICondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

type weatherAPILocation struct {
	Name           string  `json:"name"`
	Country        string  `json:"country"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	TzID           string  `json:"tz_id"`
	LocaltimeEpoch int64   `json:"localtime_epoch"`
}

type weatherAPICurrentPayload struct {
	Location weatherAPILocation `json:"location"`
	Current  struct {
		TempC      float64             `json:"temp_c"`
		FeelsLikeC float64             `json:"feelslike_c"`
		Humidity   float64             `json:"humidity"`
		PressureMb float64             `json:"pressure_mb"`
		WindKph    float64             `json:"wind_kph"`
		Cloud      float64             `json:"cloud"`
		VisKm      float64             `json:"vis_km"`
		UV         float64             `json:"uv"`
		Condition  weatherAPICondition `json:"condition"`
	} `json:"current"`
}

type weatherAPIForecastPayload struct {
	Location weatherAPILocation `json:"location"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				AvgTempC      float64             `json:"avgtemp_c"`
				MaxTempC      float64             `json:"maxtemp_c"`
				MinTempC      float64             `json:"mintemp_c"`
				AvgHumidity   float64             `json:"avghumidity"`
				TotalPrecipMm *float64            `json:"totalprecip_mm"`
				Condition     weatherAPICondition `json:"condition"`
			} `json:"day"`
			Hour []struct {
				Time      string              `json:"time"`
				TempC     float64             `json:"temp_c"`
				Humidity  float64             `json:"humidity"`
				PrecipMm  *float64            `json:"precip_mm"`
				Condition weatherAPICondition `json:"condition"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) FetchCurrent(ctx context.Context, coords weather.Coordinates) (weather.RawCurrentConditions, error) {
	return p.fetchCurrent(ctx, weather.OpCurrentWeather, coords.Query())
}

func (p *WeatherAPIProvider) FetchCurrentByCity(ctx context.Context, city string) (weather.RawCurrentConditions, error) {
	return p.fetchCurrent(ctx, weather.OpCitySearch, city)
}

func (p *WeatherAPIProvider) fetchCurrent(ctx context.Context, op weather.Op, q string) (weather.RawCurrentConditions, error) {
	var payload weatherAPICurrentPayload
	if err := p.get(ctx, op, "current.json", url.Values{"q": {q}}, &payload); err != nil {
		return weather.RawCurrentConditions{}, err
	}

	c := payload.Current
	return weather.RawCurrentConditions{
		TempC:          c.TempC,
		FeelsLikeC:     c.FeelsLikeC,
		Humidity:       c.Humidity,
		PressureMb:     c.PressureMb,
		WindKph:        c.WindKph,
		Cloud:          c.Cloud,
		VisKm:          c.VisKm,
		UV:             c.UV,
		ConditionText:  c.Condition.Text,
		IconURL:        c.Condition.Icon,
		Name:           payload.Location.Name,
		Country:        payload.Location.Country,
		Lat:            payload.Location.Lat,
		Lon:            payload.Location.Lon,
		LocaltimeEpoch: payload.Location.LocaltimeEpoch,
	}, nil
}

func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, coords weather.Coordinates, days int) ([]weather.ForecastSample, error) {
	var payload weatherAPIForecastPayload
	values := url.Values{
		"q":    {coords.Query()},
		"days": {strconv.Itoa(days)},
	}
	if err := p.get(ctx, weather.OpForecast, "forecast.json", values, &payload); err != nil {
		return nil, err
	}

	loc := loadZone(payload.Location.TzID)

	var samples []weather.ForecastSample
	for _, fd := range payload.Forecast.ForecastDay {
		if p.granularity == GranularityHourly && len(fd.Hour) > 0 {
			for _, h := range fd.Hour {
				date, _ := time.ParseInLocation(hourLayout, h.Time, loc)
				samples = append(samples, weather.ForecastSample{
					Time:          h.Time,
					Date:          date,
					Label:         date.Format(labelLayout),
					Temp:          h.TempC,
					Humidity:      h.Humidity,
					Condition:     h.Condition.Text,
					Precipitation: valueOrZero(h.PrecipMm),
				})
			}
			continue
		}

		date, _ := time.ParseInLocation(dayLayout, fd.Date, loc)
		minC, maxC := fd.Day.MinTempC, fd.Day.MaxTempC
		samples = append(samples, weather.ForecastSample{
			Time:          fd.Date,
			Date:          date,
			Label:         date.Format(labelLayout),
			Temp:          fd.Day.AvgTempC,
			TempMin:       &minC,
			TempMax:       &maxC,
			Humidity:      fd.Day.AvgHumidity,
			Condition:     fd.Day.Condition.Text,
			Precipitation: valueOrZero(fd.Day.TotalPrecipMm),
		})
	}

	return samples, nil
}

func (p *WeatherAPIProvider) get(ctx context.Context, op weather.Op, endpoint string, values url.Values, out any) error {
	buildRequest := func() (*http.Request, error) {
		values.Set("key", p.apiKey)
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

func loadZone(tzID string) *time.Location {
	if tzID == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tzID)
	if err != nil {
		return time.UTC
	}
	return loc
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

var _ weather.Provider = (*WeatherAPIProvider)(nil)
