package weather

import (
	"fmt"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionClear  Condition = "clear"
	ConditionCloudy Condition = "cloudy"
	ConditionRain   Condition = "rain"
	ConditionSnow   Condition = "snow"
)

// Coordinates is a point on the map.
type Coordinates struct {
	Lat float64 `json:"lat" msgpack:"lat"`
	Lon float64 `json:"lon" msgpack:"lon"`
}

// Query returns the "lat,lon" form accepted by the upstream q parameter.
func (c Coordinates) Query() string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lon)
}

// RawCurrentConditions is the upstream current-conditions payload reduced to
// the fields the dashboard consumes. Units are the upstream ones.
type RawCurrentConditions struct {
	TempC          float64
	FeelsLikeC     float64
	Humidity       float64
	PressureMb     float64
	WindKph        float64
	Cloud          float64
	VisKm          float64
	UV             float64
	ConditionText  string
	IconURL        string
	Name           string
	Country        string
	Lat            float64
	Lon            float64
	LocaltimeEpoch int64 // 0 when the upstream omitted it
}

// ForecastSample is one flat forecast observation.
type ForecastSample struct {
	// Time is the upstream timestamp text, "2006-01-02" or "2006-01-02 15:04".
	Time string
	// Date is Time parsed in the upstream location's own time zone.
	Date  time.Time
	Label string

	Temp    float64
	TempMin *float64
	TempMax *float64

	Humidity      float64
	Condition     string
	Precipitation float64
}

// DailyForecastBucket aggregates every sample of one calendar date.
type DailyForecastBucket struct {
	Date      string      `json:"date" msgpack:"date"`
	DateEpoch int64       `json:"date_epoch" msgpack:"date_epoch"`
	Day       DaySummary  `json:"day" msgpack:"day"`
	Hour      []HourEntry `json:"hour" msgpack:"hour"`
}

type DaySummary struct {
	MaxTempC          float64       `json:"maxtemp_c" msgpack:"maxtemp_c"`
	MinTempC          float64       `json:"mintemp_c" msgpack:"mintemp_c"`
	AvgTempC          float64       `json:"avgtemp_c" msgpack:"avgtemp_c"`
	MaxTempF          float64       `json:"maxtemp_f" msgpack:"maxtemp_f"`
	MinTempF          float64       `json:"mintemp_f" msgpack:"mintemp_f"`
	AvgTempF          float64       `json:"avgtemp_f" msgpack:"avgtemp_f"`
	Condition         ConditionInfo `json:"condition" msgpack:"condition"`
	MaxWindKph        float64       `json:"maxwind_kph" msgpack:"maxwind_kph"`
	TotalPrecipMm     float64       `json:"totalprecip_mm" msgpack:"totalprecip_mm"`
	AvgHumidity       float64       `json:"avghumidity" msgpack:"avghumidity"`
	DailyChanceOfRain int           `json:"daily_chance_of_rain" msgpack:"daily_chance_of_rain"`
	DailyChanceOfSnow int           `json:"daily_chance_of_snow" msgpack:"daily_chance_of_snow"`
	UV                float64       `json:"uv" msgpack:"uv"`
}

type HourEntry struct {
	Time         string        `json:"time" msgpack:"time"`
	TempC        float64       `json:"temp_c" msgpack:"temp_c"`
	Condition    ConditionInfo `json:"condition" msgpack:"condition"`
	WindKph      float64       `json:"wind_kph" msgpack:"wind_kph"`
	Humidity     float64       `json:"humidity" msgpack:"humidity"`
	ChanceOfRain int           `json:"chance_of_rain" msgpack:"chance_of_rain"`
}

type ConditionInfo struct {
	Text string `json:"text" msgpack:"text"`
	Icon string `json:"icon" msgpack:"icon"`
}

// HistoricalMonthRecord is one entry of the synthesized climate series.
type HistoricalMonthRecord struct {
	Month         string  `json:"month" msgpack:"month"`
	AvgTemp       float64 `json:"avgTemp" msgpack:"avgTemp"`
	Precipitation float64 `json:"precipitation" msgpack:"precipitation"`
}

// MapView tells the map collaborator where to place the marker.
type MapView struct {
	Enabled     bool         `json:"enabled" msgpack:"enabled"`
	AccessToken string       `json:"accessToken,omitempty" msgpack:"accessToken,omitempty"`
	Style       string       `json:"style,omitempty" msgpack:"style,omitempty"`
	Center      *Coordinates `json:"center,omitempty" msgpack:"center,omitempty"`
	Marker      *Coordinates `json:"marker,omitempty" msgpack:"marker,omitempty"`
	Zoom        float64      `json:"zoom" msgpack:"zoom"`
}

// DashboardView is everything one location change produces. Views are
// immutable once committed to a store.
type DashboardView struct {
	Session    string                  `json:"session" msgpack:"session"`
	Seq        uint64                  `json:"seq" msgpack:"seq"`
	Location   Coordinates             `json:"location" msgpack:"location"`
	Current    CurrentWeather          `json:"current" msgpack:"current"`
	Forecast   []DailyForecastBucket   `json:"forecast" msgpack:"forecast"`
	Historical []HistoricalMonthRecord `json:"historical" msgpack:"historical"`
	Map        MapView                 `json:"map" msgpack:"map"`
	UpdatedAt  time.Time               `json:"updatedAt" msgpack:"updatedAt"`
}

// SavedLocation describes a favorite location. Nothing stores it yet.
type SavedLocation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Region    string    `json:"region"`
	Country   string    `json:"country"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Favorite  bool      `json:"is_favorite"`
	CreatedAt time.Time `json:"created_at"`
	TZID      string    `json:"tz_id"`
	Localtime string    `json:"localtime"`
}
