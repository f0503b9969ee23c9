package weather

import (
	"encoding/json"
	"path"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	kphPerMS    = 3.6
	metersPerKm = 1000
)

// CurrentWeather is the canonical current-conditions record. Every fact is
// stored once; the two shapes consumers expect are projections built by Flat
// and Legacy, and the wire encoding carries both side by side.
type CurrentWeather struct {
	Temp        float64
	FeelsLike   float64
	Humidity    float64
	Pressure    float64
	WindSpeed   float64 // m/s
	Visibility  float64 // m
	Cloud       float64
	UV          float64
	Description string
	IconURL     string
	IconID      string
	City        string
	Country     string
	Observed    int64 // unix seconds
}

// FlatCurrent is the top-level field shape.
type FlatCurrent struct {
	Temp        float64 `json:"temp" msgpack:"temp"`
	FeelsLike   float64 `json:"feels_like" msgpack:"feels_like"`
	Humidity    float64 `json:"humidity" msgpack:"humidity"`
	WindSpeed   float64 `json:"wind_speed" msgpack:"wind_speed"`
	Visibility  float64 `json:"visibility" msgpack:"visibility"`
	Description string  `json:"description" msgpack:"description"`
	Icon        string  `json:"icon" msgpack:"icon"`
	City        string  `json:"city" msgpack:"city"`
	Country     string  `json:"country" msgpack:"country"`
	Pressure    float64 `json:"pressure" msgpack:"pressure"`
	UV          float64 `json:"uv" msgpack:"uv"`
	Cloud       float64 `json:"cloud" msgpack:"cloud"`
}

// LegacyCurrent is the nested-group shape.
type LegacyCurrent struct {
	Name    string         `json:"name" msgpack:"name"`
	Dt      int64          `json:"dt" msgpack:"dt"`
	Main    LegacyMain     `json:"main" msgpack:"main"`
	Weather []LegacyStatus `json:"weather" msgpack:"weather"`
	Wind    struct {
		Speed float64 `json:"speed" msgpack:"speed"`
	} `json:"wind" msgpack:"wind"`
	Clouds struct {
		All float64 `json:"all" msgpack:"all"`
	} `json:"clouds" msgpack:"clouds"`
	Sys struct {
		Country string `json:"country" msgpack:"country"`
	} `json:"sys" msgpack:"sys"`
}

type LegacyMain struct {
	Temp      float64 `json:"temp" msgpack:"temp"`
	FeelsLike float64 `json:"feels_like" msgpack:"feels_like"`
	Humidity  float64 `json:"humidity" msgpack:"humidity"`
	Pressure  float64 `json:"pressure" msgpack:"pressure"`
}

type LegacyStatus struct {
	Description string `json:"description" msgpack:"description"`
	Icon        string `json:"icon" msgpack:"icon"`
}

// Normalize converts one upstream payload into the canonical record.
// now supplies the fallback observation time when the upstream has no
// local-time epoch.
func Normalize(raw RawCurrentConditions, now func() time.Time) CurrentWeather {
	observed := raw.LocaltimeEpoch
	if observed == 0 {
		observed = now().Unix()
	}

	return CurrentWeather{
		Temp:        raw.TempC,
		FeelsLike:   raw.FeelsLikeC,
		Humidity:    raw.Humidity,
		Pressure:    raw.PressureMb,
		WindSpeed:   raw.WindKph / kphPerMS,
		Visibility:  raw.VisKm * metersPerKm,
		Cloud:       raw.Cloud,
		UV:          raw.UV,
		Description: raw.ConditionText,
		IconURL:     raw.IconURL,
		IconID:      IconID(raw.IconURL),
		City:        raw.Name,
		Country:     raw.Country,
		Observed:    observed,
	}
}

// IconID reduces an icon URL such as
// "//cdn.weatherapi.com/weather/64x64/day/113.png" to "113".
// It returns "" when no identifier can be extracted.
func IconID(iconURL string) string {
	i := strings.LastIndex(iconURL, "/")
	segment := iconURL[i+1:]
	if segment == "" {
		return ""
	}
	return strings.TrimSuffix(segment, path.Ext(segment))
}

func (c CurrentWeather) Flat() FlatCurrent {
	return FlatCurrent{
		Temp:        c.Temp,
		FeelsLike:   c.FeelsLike,
		Humidity:    c.Humidity,
		WindSpeed:   c.WindSpeed,
		Visibility:  c.Visibility,
		Description: c.Description,
		Icon:        c.IconURL,
		City:        c.City,
		Country:     c.Country,
		Pressure:    c.Pressure,
		UV:          c.UV,
		Cloud:       c.Cloud,
	}
}

func (c CurrentWeather) Legacy() LegacyCurrent {
	l := LegacyCurrent{
		Name: c.City,
		Dt:   c.Observed,
		Main: LegacyMain{
			Temp:      c.Temp,
			FeelsLike: c.FeelsLike,
			Humidity:  c.Humidity,
			Pressure:  c.Pressure,
		},
		Weather: []LegacyStatus{{Description: c.Description, Icon: c.IconID}},
	}
	l.Wind.Speed = c.WindSpeed
	l.Clouds.All = c.Cloud
	l.Sys.Country = c.Country
	return l
}

// currentWire inlines both projections into a single object.
type currentWire struct {
	FlatCurrent
	LegacyCurrent
}

func (c CurrentWeather) wire() currentWire {
	return currentWire{FlatCurrent: c.Flat(), LegacyCurrent: c.Legacy()}
}

func (c CurrentWeather) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.wire())
}

func (c CurrentWeather) MarshalMsgpack() ([]byte, error) {
	return msgpack.Marshal(c.wire())
}
