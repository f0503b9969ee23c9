package weather

import (
	"errors"
	"fmt"
	"testing"
)

func TestStatusErrorKinds(t *testing.T) {
	tests := []struct {
		op   Op
		want ErrorKind
	}{
		{OpCitySearch, KindCityNotFound},
		{OpCurrentWeather, KindUpstreamUnavailable},
		{OpForecast, KindUpstreamUnavailable},
	}
	for _, tt := range tests {
		err := fmt.Errorf("wrapped: %w", StatusError(tt.op, 404))
		if got := KindOf(err); got != tt.want {
			t.Fatalf("KindOf(StatusError(%s)) = %s, want %s", tt.op, got, tt.want)
		}
	}
}

func TestKindOfPlainError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindUpstreamUnavailable {
		t.Fatalf("expected upstream_unavailable, got %s", got)
	}
}

func TestFetchErrorMessage(t *testing.T) {
	err := StatusError(OpCurrentWeather, 401)
	if got := err.Error(); got != "failed to fetch current weather (status 401)" {
		t.Fatalf("unexpected message %q", got)
	}

	cause := errors.New("dial tcp: timeout")
	wrapped := Unavailable(OpForecast, cause)
	if !errors.Is(wrapped, cause) {
		t.Fatalf("expected cause to be unwrapped")
	}
}

func TestNotificationFor(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		kind  ErrorKind
		title string
	}{
		{"city not found", StatusError(OpCitySearch, 400), KindCityNotFound, "City not found"},
		{"unresolved", Unresolved(errors.New("denied")), KindLocationUnresolved, "Error"},
		{"current weather", StatusError(OpCurrentWeather, 500), KindUpstreamUnavailable, "Error"},
		{"plain", errors.New("boom"), KindUpstreamUnavailable, "Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NotificationFor(tt.err)
			if n.Kind != tt.kind || n.Title != tt.title {
				t.Fatalf("unexpected notification %+v", n)
			}
			if n.Variant != "destructive" || n.Description == "" {
				t.Fatalf("unexpected notification %+v", n)
			}
		})
	}
}
