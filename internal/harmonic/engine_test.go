package harmonic

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tedski/tidewatch/internal/station"
)

// fakeProvider is an in-memory station.Provider for tests.
type fakeProvider struct {
	resolutions map[string]station.Resolution
	constants   map[string]station.Constants
}

func (f *fakeProvider) ResolveKind(stationID string) (station.Resolution, error) {
	res, ok := f.resolutions[stationID]
	if !ok {
		return station.Resolution{}, errors.New("no such station")
	}
	return res, nil
}

func (f *fakeProvider) Constants(referenceID string) (station.Constants, error) {
	c, ok := f.constants[referenceID]
	if !ok {
		return station.Constants{}, errors.New("no such reference")
	}
	return c, nil
}

// newTestProvider builds a reference station "9414290" resembling
// spec.md's S1 fixture, plus a subordinate station "SUBORD" offset by
// 30 minutes on the high tide with a unity height factor.
func newTestProvider() *fakeProvider {
	constituents := []station.ConstituentValue{
		{Name: "M2", Amplitude: 2.929, PhaseDeg: 193.1},
		{Name: "S2", Amplitude: 0.880, PhaseDeg: 216.7},
		{Name: "N2", Amplitude: 0.668, PhaseDeg: 169.8},
		{Name: "K2", Amplitude: 0.239, PhaseDeg: 216.6},
		{Name: "K1", Amplitude: 0.950, PhaseDeg: 166.6},
		{Name: "O1", Amplitude: 0.618, PhaseDeg: 143.1},
		{Name: "P1", Amplitude: 0.286, PhaseDeg: 163.7},
		{Name: "Q1", Amplitude: 0.109, PhaseDeg: 130.8},
	}

	return &fakeProvider{
		resolutions: map[string]station.Resolution{
			"9414290": {Kind: station.Reference, StationID: "9414290"},
			"SUBORD": {
				Kind:        station.Subordinate,
				StationID:   "SUBORD",
				ReferenceID: "9414290",
				Offset: station.Offset{
					ReferenceID:    "9414290",
					HighTimeOffset: 30,
					LowTimeOffset:  -15,
					HighFactor:     1.0,
					LowFactor:      1.0,
				},
			},
			"EMPTY": {Kind: station.Reference, StationID: "EMPTY"},
		},
		constants: map[string]station.Constants{
			"9414290": {Z0: 0, Constituents: constituents},
			"EMPTY":   {Z0: 0, Constituents: nil},
		},
	}
}

func TestHeightUnknownStation(t *testing.T) {
	e := New(newTestProvider())
	_, err := e.Height("NOPE", time.Now())
	if !errors.Is(err, ErrUnknownStation) {
		t.Errorf("expected ErrUnknownStation, got %v", err)
	}
}

func TestHeightEmptyConstants(t *testing.T) {
	e := New(newTestProvider())
	_, err := e.Height("EMPTY", time.Now())
	if !errors.Is(err, ErrEmptyConstants) {
		t.Errorf("expected ErrEmptyConstants, got %v", err)
	}
}

func TestHeightContinuousAcrossMidnight(t *testing.T) {
	e := New(newTestProvider())
	times := []time.Time{
		time.Date(2025, 12, 31, 23, 55, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC),
	}
	var heights []float64
	for _, tt := range times {
		h, err := e.Height("9414290", tt)
		if err != nil {
			t.Fatalf("Height: %v", err)
		}
		heights = append(heights, h)
	}
	for i := 1; i < len(heights); i++ {
		if math.Abs(heights[i]-heights[i-1]) > 1.0 {
			t.Errorf("discontinuity across midnight: %v -> %v", heights[i-1], heights[i])
		}
	}
}

func TestRateSignMatchesFiniteDifference(t *testing.T) {
	e := New(newTestProvider())
	tt := time.Date(2026, 2, 12, 3, 17, 0, 0, time.UTC)

	rate, err := e.Rate("9414290", tt)
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if math.Abs(rate) < SlackThreshold {
		t.Skip("near slack, sign comparison not meaningful")
	}

	hPlus, err := e.Height("9414290", tt.Add(time.Hour))
	if err != nil {
		t.Fatalf("Height: %v", err)
	}
	hMinus, err := e.Height("9414290", tt.Add(-time.Hour))
	if err != nil {
		t.Fatalf("Height: %v", err)
	}

	if (rate > 0) != (hPlus > hMinus) {
		t.Errorf("rate sign %v disagrees with finite difference (hPlus=%.4f hMinus=%.4f)", rate, hPlus, hMinus)
	}
}

func TestExtremaAlternateAndIncrease(t *testing.T) {
	e := New(newTestProvider())
	start := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	extrema, err := e.Extrema("9414290", start, end)
	if err != nil {
		t.Fatalf("Extrema: %v", err)
	}
	if len(extrema) < 2 {
		t.Fatalf("expected at least 2 extrema in a day, got %d", len(extrema))
	}
	for i := 1; i < len(extrema); i++ {
		if !extrema[i].Time.After(extrema[i-1].Time) {
			t.Errorf("extrema not strictly increasing in time at index %d", i)
		}
		if extrema[i].Type == extrema[i-1].Type {
			t.Errorf("extrema did not alternate type at index %d", i)
		}
	}
}

func TestNextExtremumNearRateZero(t *testing.T) {
	e := New(newTestProvider())
	start := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)

	ext, err := e.NextExtremum("9414290", start, true)
	if err != nil {
		t.Fatalf("NextExtremum: %v", err)
	}
	if ext == nil {
		t.Fatal("expected an extremum within the search horizon")
	}
	rate, err := e.Rate("9414290", ext.Time)
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if math.Abs(rate) > newtonEpsilon*10 {
		t.Errorf("rate at extremum = %.6f, want near 0", rate)
	}
}

func TestSubordinateTimeShift(t *testing.T) {
	e := New(newTestProvider())
	start := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)

	refExt, err := e.NextExtremum("9414290", start, true)
	if err != nil || refExt == nil {
		t.Fatalf("reference NextExtremum: %v, %v", refExt, err)
	}
	subExt, err := e.NextExtremum("SUBORD", start, true)
	if err != nil || subExt == nil {
		t.Fatalf("subordinate NextExtremum: %v, %v", subExt, err)
	}

	want := refExt.Time.Add(30 * time.Minute)
	if !subExt.Time.Equal(want) {
		t.Errorf("subordinate high time = %v, want %v", subExt.Time, want)
	}
}

func TestCurveCadence(t *testing.T) {
	e := New(newTestProvider())
	start := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	curve, err := e.Curve("9414290", start, end, 1)
	if err != nil {
		t.Fatalf("Curve: %v", err)
	}
	if len(curve) != 61 {
		t.Fatalf("expected 61 samples, got %d", len(curve))
	}
	for i := 1; i < len(curve); i++ {
		gap := curve[i].Time.Sub(curve[i-1].Time)
		if gap != 60*time.Second {
			t.Errorf("sample %d gap = %v, want 60s", i, gap)
		}
	}
}

func TestCurveEmptyWhenInverted(t *testing.T) {
	e := New(newTestProvider())
	start := time.Date(2026, 2, 12, 1, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	curve, err := e.Curve("9414290", start, end, 1)
	if err != nil {
		t.Fatalf("Curve: %v", err)
	}
	if len(curve) != 0 {
		t.Errorf("expected empty curve, got %d samples", len(curve))
	}
}

func TestCurveRejectsNonPositiveStep(t *testing.T) {
	e := New(newTestProvider())
	start := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	for _, step := range []int{0, -5} {
		if _, err := e.Curve("9414290", start, end, step); err == nil {
			t.Errorf("expected an error for stepMinutes=%d", step)
		}
	}
}
