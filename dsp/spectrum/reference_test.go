package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/esios-spectrum/internal/testutil"
)

func TestMagnitudeAtMatchesBins(t *testing.T) {
	values := testutil.DeterministicNoise(7, 10, 50)
	spec, err := Compute(values)
	if err != nil {
		t.Fatal(err)
	}

	for _, k := range []int{0, 1, 5, 24} {
		got, err := MagnitudeAt(values, spec.BinFrequencies[k])
		if err != nil {
			t.Fatalf("MagnitudeAt error: %v", err)
		}
		if math.Abs(got-spec.Magnitudes[k]) > 1e-7*(1+spec.Magnitudes[k]) {
			t.Fatalf("bin %d: MagnitudeAt = %v, want %v", k, got, spec.Magnitudes[k])
		}
	}
}

func TestMagnitudeAtErrors(t *testing.T) {
	if _, err := MagnitudeAt(nil, 1); !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("err = %v, want ErrEmptySeries", err)
	}
	for _, f := range []float64{-1, Nyquist * 1.01, math.NaN()} {
		if _, err := MagnitudeAt([]float64{1, 2}, f); err == nil {
			t.Fatalf("expected error for frequency %v", f)
		}
	}
}

func TestReferenceLevels(t *testing.T) {
	// Two days of a pure daily cycle.
	values := testutil.DailyDemand(0, 1, 2*TicksPerDay)

	levels, err := ReferenceLevels(values)
	if err != nil {
		t.Fatalf("ReferenceLevels error: %v", err)
	}
	if len(levels) != 3 {
		t.Fatalf("len = %d, want 3 (10-minute tick is above Nyquist)", len(levels))
	}

	byLabel := map[string]float64{}
	for _, l := range levels {
		byLabel[l.Label] = l.Magnitude
	}
	if math.Abs(byLabel["1/day"]-TicksPerDay) > 1e-6 {
		t.Fatalf("1/day level = %v, want %v", byLabel["1/day"], TicksPerDay)
	}
	if byLabel["1/hour"] > 1e-6 {
		t.Fatalf("1/hour level = %v, want ~0", byLabel["1/hour"])
	}

	if _, err := ReferenceLevels(nil); !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("err = %v, want ErrEmptySeries", err)
	}
}
