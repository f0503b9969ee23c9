package weather

import (
	"math"

	"github.com/i474232898/weather-dashboard/internal/common"
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var (
	northernCurve = [12]float64{-2, 0, 5, 12, 18, 23, 26, 25, 20, 13, 6, 1}
	southernCurve = [12]float64{25, 24, 21, 16, 11, 7, 6, 8, 12, 16, 20, 23}
)

const (
	equatorBonusC = 15.0
	jitterC       = 2.0
	minPrecipMm   = 30.0
	precipSpanMm  = 100.0
)

// BaseCurve returns the monthly temperature curve for the hemisphere of lat.
func BaseCurve(lat float64) [12]float64 {
	if lat >= 0 {
		return northernCurve
	}
	return southernCurve
}

// EquatorBonus is the warm bias for lat: 0 at the poles, +15°C at the equator.
func EquatorBonus(lat float64) float64 {
	return (1 - math.Abs(lat)/90) * equatorBonusC
}

// SynthesizeHistory fabricates a 12-month climate-normal series from latitude
// alone. The numbers are filler for the chart and differ on every call.
func SynthesizeHistory(lat float64, rng Rand) []HistoricalMonthRecord {
	if rng == nil {
		rng = DefaultRand()
	}

	base := BaseCurve(lat)
	bonus := EquatorBonus(lat)

	records := make([]HistoricalMonthRecord, 0, len(monthNames))
	for i, month := range monthNames {
		jitter := rng.Float64()*2*jitterC - jitterC
		records = append(records, HistoricalMonthRecord{
			Month:         month,
			AvgTemp:       common.RoundHalfUp(base[i] + bonus + jitter),
			Precipitation: common.RoundHalfUp(minPrecipMm + rng.Float64()*precipSpanMm),
		})
	}
	return records
}
