package weather

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced to the dashboard user.
type ErrorKind string

const (
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	KindLocationUnresolved  ErrorKind = "location_unresolved"
	KindCityNotFound        ErrorKind = "city_not_found"
)

// Op names the operation that failed.
type Op string

const (
	OpCurrentWeather Op = "current_weather"
	OpCitySearch     Op = "city_search"
	OpForecast       Op = "forecast"
	OpLocate         Op = "locate"
)

var opMessages = map[Op]string{
	OpCurrentWeather: "failed to fetch current weather",
	OpCitySearch:     "city not found",
	OpForecast:       "failed to fetch forecast",
	OpLocate:         "could not determine location",
}

// ErrSuperseded is returned when a newer location change was issued for the
// same session while this one was in flight. The result is discarded.
var ErrSuperseded = errors.New("superseded by a newer location change")

// FetchError is a failed weather or location lookup.
type FetchError struct {
	Kind   ErrorKind
	Op     Op
	Status int // upstream HTTP status, 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	msg := opMessages[e.Op]
	if msg == "" {
		msg = "could not retrieve weather"
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// StatusError builds the FetchError for a non-success upstream status.
// A failed city lookup means the city is unknown; everything else is an
// unavailable upstream.
func StatusError(op Op, status int) *FetchError {
	kind := KindUpstreamUnavailable
	if op == OpCitySearch {
		kind = KindCityNotFound
	}
	return &FetchError{Kind: kind, Op: op, Status: status}
}

// Unavailable wraps a transport or decoding failure.
func Unavailable(op Op, err error) *FetchError {
	return &FetchError{Kind: KindUpstreamUnavailable, Op: op, Err: err}
}

// Unresolved wraps a location lookup failure.
func Unresolved(err error) *FetchError {
	return &FetchError{Kind: KindLocationUnresolved, Op: OpLocate, Err: err}
}

// KindOf returns the kind of the first FetchError in err's chain, or
// KindUpstreamUnavailable when there is none.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUpstreamUnavailable
}

// Notification is the transient message shown to the user for a failure.
type Notification struct {
	Kind        ErrorKind `json:"kind" msgpack:"kind"`
	Title       string    `json:"title" msgpack:"title"`
	Description string    `json:"description" msgpack:"description"`
	Variant     string    `json:"variant" msgpack:"variant"`
}

// NotificationFor converts err into the message the user sees.
func NotificationFor(err error) Notification {
	n := Notification{Kind: KindUpstreamUnavailable, Title: "Error", Variant: "destructive"}

	var fe *FetchError
	if !errors.As(err, &fe) {
		n.Description = "Could not retrieve weather data."
		return n
	}

	n.Kind = fe.Kind
	switch fe.Kind {
	case KindCityNotFound:
		n.Title = "City not found"
		n.Description = "Try a different city name."
	case KindLocationUnresolved:
		n.Description = "Could not get your location. Allow location access."
	default:
		switch fe.Op {
		case OpCurrentWeather:
			n.Description = "Failed to fetch weather data for this location. Check your API key."
		case OpForecast:
			n.Description = "Failed to fetch the forecast for this location."
		case OpCitySearch:
			n.Description = "City search is unavailable right now."
		default:
			n.Description = "Could not retrieve weather data."
		}
	}
	return n
}
