package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const weatherAPICurrentBody = `{
  "location": {"name": "London", "country": "United Kingdom", "lat": 51.52, "lon": -0.11, "tz_id": "Europe/London", "localtime_epoch": 1710000000},
  "current": {"temp_c": 11.0, "feelslike_c": 9.5, "humidity": 81, "pressure_mb": 1009, "wind_kph": 36.0, "cloud": 75, "vis_km": 10, "uv": 2,
    "condition": {"text": "Partly cloudy", "icon": "//cdn.weatherapi.com/weather/64x64/day/116.png"}}
}`

const weatherAPIForecastBody = `{
  "location": {"name": "London", "country": "United Kingdom", "lat": 51.52, "lon": -0.11, "tz_id": "Europe/London"},
  "forecast": {"forecastday": [
    {"date": "2024-03-10", "day": {"avgtemp_c": 9, "maxtemp_c": 12, "mintemp_c": 6, "avghumidity": 80, "totalprecip_mm": 1.2, "condition": {"text": "Light rain"}},
     "hour": [
       {"time": "2024-03-10 00:00", "temp_c": 7, "humidity": 85, "precip_mm": 0.1, "condition": {"text": "Cloudy"}},
       {"time": "2024-03-10 01:00", "temp_c": 6, "humidity": 86, "condition": {"text": "Cloudy"}}
     ]},
    {"date": "2024-03-11", "day": {"avgtemp_c": 10, "maxtemp_c": 13, "mintemp_c": 7, "avghumidity": 70, "condition": {"text": "Sunny"}},
     "hour": [
       {"time": "2024-03-11 00:00", "temp_c": 8, "humidity": 75, "condition": {"text": "Clear"}}
     ]}
  ]}
}`

func newWeatherAPIServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestWeatherAPIFetchCurrent(t *testing.T) {
	srv := newWeatherAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/current.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("missing api key")
		}
		if q := r.URL.Query().Get("q"); q != "51.520000,-0.110000" {
			t.Errorf("unexpected q %q", q)
		}
		w.Write([]byte(weatherAPICurrentBody))
	})

	p := NewWeatherAPIProvider("secret", Options{BaseURL: srv.URL})
	raw, err := p.FetchCurrent(context.Background(), weather.Coordinates{Lat: 51.52, Lon: -0.11})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.WindKph != 36 || raw.VisKm != 10 || raw.Name != "London" || raw.LocaltimeEpoch != 1710000000 {
		t.Fatalf("unexpected raw conditions %+v", raw)
	}
	if raw.ConditionText != "Partly cloudy" || raw.IconURL == "" {
		t.Fatalf("unexpected condition %+v", raw)
	}
}

func TestWeatherAPIStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		call   func(p *WeatherAPIProvider) error
		kind   weather.ErrorKind
	}{
		{
			name:   "current server error",
			status: http.StatusInternalServerError,
			call: func(p *WeatherAPIProvider) error {
				_, err := p.FetchCurrent(context.Background(), weather.Coordinates{})
				return err
			},
			kind: weather.KindUpstreamUnavailable,
		},
		{
			name:   "current unauthorized",
			status: http.StatusUnauthorized,
			call: func(p *WeatherAPIProvider) error {
				_, err := p.FetchCurrent(context.Background(), weather.Coordinates{})
				return err
			},
			kind: weather.KindUpstreamUnavailable,
		},
		{
			name:   "unknown city",
			status: http.StatusBadRequest,
			call: func(p *WeatherAPIProvider) error {
				_, err := p.FetchCurrentByCity(context.Background(), "Atlantis")
				return err
			},
			kind: weather.KindCityNotFound,
		},
		{
			name:   "forecast error",
			status: http.StatusForbidden,
			call: func(p *WeatherAPIProvider) error {
				_, err := p.FetchForecast(context.Background(), weather.Coordinates{}, 7)
				return err
			},
			kind: weather.KindUpstreamUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newWeatherAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			p := NewWeatherAPIProvider("secret", Options{BaseURL: srv.URL})

			err := tt.call(p)
			var fe *weather.FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FetchError, got %v", err)
			}
			if fe.Kind != tt.kind || fe.Status != tt.status {
				t.Fatalf("expected %s/%d, got %s/%d", tt.kind, tt.status, fe.Kind, fe.Status)
			}
		})
	}
}

func TestWeatherAPIMalformedBody(t *testing.T) {
	srv := newWeatherAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	})
	p := NewWeatherAPIProvider("secret", Options{BaseURL: srv.URL})

	_, err := p.FetchCurrent(context.Background(), weather.Coordinates{})
	if weather.KindOf(err) != weather.KindUpstreamUnavailable {
		t.Fatalf("expected upstream_unavailable, got %v", err)
	}
}

func TestWeatherAPIForecastDaily(t *testing.T) {
	srv := newWeatherAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast.json" || r.URL.Query().Get("days") != "7" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		w.Write([]byte(weatherAPIForecastBody))
	})
	p := NewWeatherAPIProvider("secret", Options{BaseURL: srv.URL})

	samples, err := p.FetchForecast(context.Background(), weather.Coordinates{Lat: 51.52, Lon: -0.11}, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 daily samples, got %d", len(samples))
	}
	s := samples[0]
	if s.Temp != 9 || *s.TempMin != 6 || *s.TempMax != 12 || s.Precipitation != 1.2 {
		t.Fatalf("unexpected sample %+v", s)
	}
	if s.Label != "Sun, Mar 10" || s.Date.Format("2006-01-02") != "2024-03-10" {
		t.Fatalf("unexpected date fields %q %v", s.Label, s.Date)
	}
	if samples[1].Precipitation != 0 {
		t.Fatalf("missing precipitation should read as 0, got %v", samples[1].Precipitation)
	}
}

func TestWeatherAPIForecastHourly(t *testing.T) {
	srv := newWeatherAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(weatherAPIForecastBody))
	})
	p := NewWeatherAPIProvider("secret", Options{BaseURL: srv.URL, Granularity: GranularityHourly})

	samples, err := p.FetchForecast(context.Background(), weather.Coordinates{}, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 hourly samples, got %d", len(samples))
	}
	if samples[1].Time != "2024-03-10 01:00" || samples[1].TempMin != nil {
		t.Fatalf("unexpected hourly sample %+v", samples[1])
	}

	buckets := weather.BucketDaily(samples, weather.NewSeededRand(1))
	if len(buckets) != 2 || len(buckets[0].Hour) != 2 {
		t.Fatalf("unexpected buckets %+v", buckets)
	}
	if buckets[0].Day.MaxTempC != 7 || buckets[0].Day.MinTempC != 6 {
		t.Fatalf("unexpected day summary %+v", buckets[0].Day)
	}
}
