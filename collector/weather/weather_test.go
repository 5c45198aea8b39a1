package weather

import (
	"context"
	"errors"
	"testing"

	"github.com/mnhthng/marketpulse/collector/weather/owm"
	"github.com/mnhthng/marketpulse/config"
	"github.com/mnhthng/marketpulse/internal/store"
)

func TestIsStormCondition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		condition string
		want      bool
	}{
		{"thunderstorm", true},
		{"scattered thunderstorms", true},
		{"Tropical Storm approaching", true},
		{"typhoon warning", true},
		{"hurricane remnants", true},
		{"cyclone", true},
		{"clear sky", false},
		{"light rain", false},
		{"overcast clouds", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsStormCondition(tc.condition); got != tc.want {
			t.Errorf("IsStormCondition(%q) = %v, want %v", tc.condition, got, tc.want)
		}
	}
}

type fakeSource struct {
	coords    map[string]owm.Coordinates
	forecasts map[string]owm.OneCallResponse
}

func (f fakeSource) Geocode(_ context.Context, query string) (owm.Coordinates, error) {
	coord, ok := f.coords[query]
	if !ok {
		return owm.Coordinates{}, errors.New("no result")
	}
	return coord, nil
}

func (f fakeSource) OneCall(_ context.Context, coord owm.Coordinates) (owm.OneCallResponse, error) {
	for q, c := range f.coords {
		if c == coord {
			return f.forecasts[q], nil
		}
	}
	return owm.OneCallResponse{}, errors.New("unknown coordinates")
}

func day(dt int64, max float64, description string) owm.DailyEntry {
	return owm.DailyEntry{Dt: dt, Temp: owm.DailyTemp{Max: max}, Weather: []owm.Weather{{Description: description}}}
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestCollectDerivesStormWarning(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	source := fakeSource{
		coords: map[string]owm.Coordinates{
			"Hanoi,VN":  {Lat: 21.0, Lon: 105.8},
			"Danang,VN": {Lat: 16.0, Lon: 108.2},
		},
		forecasts: map[string]owm.OneCallResponse{
			"Hanoi,VN": {
				Current: owm.CurrentConditions{Temp: 29.1, Weather: []owm.Weather{{Description: "Light Rain"}}},
				Daily: []owm.DailyEntry{
					day(1761609600, 30.2, "light rain"),
					day(1761696000, 31.0, "Heavy Thunderstorm"),
				},
			},
			"Danang,VN": {
				Current: owm.CurrentConditions{Temp: 27.0, Weather: []owm.Weather{{Description: "clear sky"}}},
				Daily: []owm.DailyEntry{
					day(1761609600, 28.0, "clear sky"),
					day(1761696000, 29.0, "few clouds"),
				},
			},
		},
	}

	c := New(config.OpenWeatherConfig{Cities: []string{"Hanoi", "Danang"}, CountryCode: "VN"}, source, st)
	if err := c.Collect(context.Background()); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	got, err := st.Forecasts(context.Background())
	if err != nil {
		t.Fatalf("Forecasts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 city forecasts, got %d", len(got))
	}
	byCity := map[string]bool{}
	for _, f := range got {
		byCity[f.City] = f.StormWarning7d
	}
	if !byCity["Hanoi"] {
		t.Fatal("Hanoi has a thunderstorm day; StormWarning7d should be true")
	}
	if byCity["Danang"] {
		t.Fatal("Danang has no storm days; StormWarning7d should be false")
	}
	for _, f := range got {
		if f.City != "Hanoi" {
			continue
		}
		if f.CurrentCondition != "light rain" {
			t.Fatalf("condition should be lowercased, got %q", f.CurrentCondition)
		}
		if len(f.Daily) != 2 || f.Daily[1].IsStorm == false || f.Daily[0].IsStorm {
			t.Fatalf("unexpected daily flags: %+v", f.Daily)
		}
		if f.Daily[0].Date != "2025-10-28" {
			t.Fatalf("unexpected date formatting: %q", f.Daily[0].Date)
		}
	}
}

func TestCollectSkipsUnresolvableCity(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	source := fakeSource{
		coords: map[string]owm.Coordinates{"Haiphong,VN": {Lat: 20.8, Lon: 106.7}},
		forecasts: map[string]owm.OneCallResponse{
			"Haiphong,VN": {
				Current: owm.CurrentConditions{Temp: 26.0, Weather: []owm.Weather{{Description: "mist"}}},
				Daily:   []owm.DailyEntry{day(1761609600, 27.5, "mist")},
			},
		},
	}

	c := New(config.OpenWeatherConfig{Cities: []string{"Atlantis", "Haiphong"}, CountryCode: "VN"}, source, st)
	if err := c.Collect(context.Background()); err != nil {
		t.Fatalf("Collect should skip the unresolvable city, not fail: %v", err)
	}

	got, err := st.Forecasts(context.Background())
	if err != nil {
		t.Fatalf("Forecasts: %v", err)
	}
	if len(got) != 1 || got[0].City != "Haiphong" {
		t.Fatalf("expected only Haiphong, got %+v", got)
	}
}
