package weather

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/i474232898/weather-dashboard/internal/common"
)

const (
	// MaxForecastDays caps the bucketed forecast.
	MaxForecastDays = 7

	dateLayout = "2006-01-02"

	// middaySample is the index inside a chronologically ordered day that
	// stands in for midday conditions.
	middaySample = 4

	placeholderUV = 5
)

// BucketDaily groups samples by calendar date and summarizes each date.
// The result is sorted by date ascending and holds at most MaxForecastDays
// entries. Chance of rain is a random placeholder drawn from rng.
func BucketDaily(samples []ForecastSample, rng Rand) []DailyForecastBucket {
	if len(samples) == 0 {
		return []DailyForecastBucket{}
	}
	if rng == nil {
		rng = DefaultRand()
	}

	// Partition, keeping each date's samples in input order.
	byDate := make(map[string][]ForecastSample)
	var keys []string
	for _, s := range samples {
		k := s.Date.Format(dateLayout)
		if _, ok := byDate[k]; !ok {
			keys = append(keys, k)
		}
		byDate[k] = append(byDate[k], s)
	}

	buckets := make([]DailyForecastBucket, 0, len(keys))
	for _, k := range keys {
		buckets = append(buckets, summarizeDay(k, byDate[k], rng))
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].DateEpoch < buckets[j].DateEpoch
	})

	if len(buckets) > MaxForecastDays {
		buckets = buckets[:MaxForecastDays]
	}
	return buckets
}

func summarizeDay(date string, items []ForecastSample, rng Rand) DailyForecastBucket {
	temps := make([]float64, len(items))
	humidity := make([]float64, len(items))
	precip := make([]float64, len(items))
	hours := make([]HourEntry, 0, len(items))

	for i, it := range items {
		temps[i] = it.Temp
		humidity[i] = it.Humidity
		precip[i] = it.Precipitation
		hours = append(hours, HourEntry{
			Time:  common.TimeOfDay(it.Time, "00:00"),
			TempC: it.Temp,
			Condition: ConditionInfo{
				Text: it.Condition,
				Icon: IconForCondition(it.Condition),
			},
			Humidity: it.Humidity,
		})
	}

	maxC := floats.Max(temps)
	minC := floats.Min(temps)
	avgC := stat.Mean(temps, nil)

	cond := representativeCondition(items)

	var epoch int64
	if t, err := time.Parse(dateLayout, date); err == nil {
		epoch = t.Unix()
	}

	return DailyForecastBucket{
		Date:      date,
		DateEpoch: epoch,
		Day: DaySummary{
			MaxTempC:          maxC,
			MinTempC:          minC,
			AvgTempC:          avgC,
			MaxTempF:          CelsiusToFahrenheit(maxC),
			MinTempF:          CelsiusToFahrenheit(minC),
			AvgTempF:          CelsiusToFahrenheit(avgC),
			Condition:         ConditionInfo{Text: cond, Icon: IconForCondition(cond)},
			TotalPrecipMm:     floats.Sum(precip),
			AvgHumidity:       common.RoundHalfUp(stat.Mean(humidity, nil)),
			DailyChanceOfRain: int(common.RoundHalfUp(rng.Float64() * 100)),
			UV:                placeholderUV,
		},
		Hour: hours,
	}
}

func representativeCondition(items []ForecastSample) string {
	if len(items) == 0 {
		return "Clear"
	}
	if cond := items[min(middaySample, len(items)-1)].Condition; cond != "" {
		return cond
	}
	return "Clear"
}

// CelsiusToFahrenheit converts c with F = C*9/5 + 32.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}
