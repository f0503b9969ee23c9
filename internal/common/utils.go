package common

import (
	"math"
	"strings"
)

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// TimeOfDay returns the "15:04" part of a "2006-01-02 15:04" timestamp, or
// fallback when the text carries no time portion.
func TimeOfDay(ts, fallback string) string {
	if _, clock, ok := strings.Cut(ts, " "); ok && clock != "" {
		return clock
	}
	return fallback
}

// RoundHalfUp rounds x to the nearest integer, with halves rounded toward
// positive infinity (-2.5 becomes -2).
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
