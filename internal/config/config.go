package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// AppConfig is read once at startup and not modified afterwards. Components
// receive the values they need from it explicitly.
type AppConfig struct {
	// Secrets. An empty WeatherAPIKey/OpenWeatherAPIKey skips weather fetches;
	// an empty MapToken disables the map.
	WeatherAPIKey     string
	OpenWeatherAPIKey string
	MapToken          string
	GeocoderAPIKey    string

	Provider            string `validate:"oneof=weatherapi openweather"`
	ForecastGranularity string `validate:"oneof=daily hourly"`

	HTTPTimeout    time.Duration `validate:"gt=0"`
	RateLimitRPS   float64       `validate:"gte=0"`
	RateLimitBurst int           `validate:"gte=0"`

	// RefreshInterval controls how often configured cities are refreshed.
	RefreshInterval time.Duration `validate:"gte=0"`

	// Cities refreshed in the background, each into its own session.
	Cities []string

	// Session store retention.
	SessionMax    int           `validate:"gte=0"` // max number of sessions kept (0 = unlimited)
	SessionMaxAge time.Duration `validate:"gte=0"` // idle sessions older than this are dropped (0 = unlimited)

	Port     string `validate:"required,numeric"`
	LogLevel string `validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults. A
// missing .env file is fine; a malformed one or an unparsable value is an
// error. Load runs before the logger exists, so nothing is logged here.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := &AppConfig{}

	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.MapToken = os.Getenv("MAPBOX_TOKEN")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.Provider = getenvDefault("WEATHER_PROVIDER", "weatherapi")
	cfg.ForecastGranularity = getenvDefault("FORECAST_GRANULARITY", "daily")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.SessionMaxAge, err = getenvDuration("SESSION_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	if cfg.RateLimitRPS, err = getenvFloat("RATE_LIMIT_RPS", 1); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getenvInt("RATE_LIMIT_BURST", 5); err != nil {
		return nil, err
	}
	if cfg.SessionMax, err = getenvInt("SESSION_MAX", 1000); err != nil {
		return nil, err
	}

	cfg.Cities = splitList(os.Getenv("DASHBOARD_CITIES"))

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// WeatherEnabled reports whether the selected provider has an API key.
func (c *AppConfig) WeatherEnabled() bool {
	if c.Provider == "openweather" {
		return c.OpenWeatherAPIKey != ""
	}
	return c.WeatherAPIKey != ""
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
