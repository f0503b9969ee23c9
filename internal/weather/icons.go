package weather

import (
	"strings"

	"github.com/i474232898/weather-dashboard/internal/common"
)

const iconBase = "//cdn.weatherapi.com/weather/64x64/day/"

var conditionIcons = map[Condition]string{
	ConditionSnow:   iconBase + "338.png",
	ConditionRain:   iconBase + "266.png",
	ConditionCloudy: iconBase + "116.png",
	ConditionClear:  iconBase + "113.png",
}

// ClassifyCondition maps free condition text onto a Condition. Keywords are
// checked in a fixed order and the first match wins, so "light rain with
// clouds" is rain. Unmatched text is cloudy.
func ClassifyCondition(text string) Condition {
	desc := strings.ToLower(text)
	switch {
	case common.HasAny(desc, "snow"):
		return ConditionSnow
	case common.HasAny(desc, "rain", "drizzle"):
		return ConditionRain
	case common.HasAny(desc, "cloud"):
		return ConditionCloudy
	case common.HasAny(desc, "clear"):
		return ConditionClear
	default:
		return ConditionCloudy
	}
}

// IconURL returns the icon shown for c.
func (c Condition) IconURL() string {
	if icon, ok := conditionIcons[c]; ok {
		return icon
	}
	return conditionIcons[ConditionCloudy]
}

// IconForCondition is ClassifyCondition followed by IconURL.
func IconForCondition(text string) string {
	return ClassifyCondition(text).IconURL()
}
