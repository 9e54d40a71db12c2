package spectrum

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cwbudde/esios-spectrum/internal/testutil"
	"github.com/cwbudde/esios-spectrum/series"
)

func TestComputeThreePoints(t *testing.T) {
	ts, err := series.New(testutil.TenMinuteIndex(3), []float64{10, 20, 30})
	if err != nil {
		t.Fatal(err)
	}

	spec, err := ComputeSeries(ts)
	if err != nil {
		t.Fatalf("ComputeSeries error: %v", err)
	}

	testutil.RequireRelativelyEqual(t, spec.Magnitudes[0], 60, 1e-12)

	years := 3 / (24 * 6 * 365.2524)
	testutil.RequireRelativelyEqual(t, YearsPerDataset(3), years, 1e-15)
	if spec.BinFrequencies[0] != 0 {
		t.Fatalf("BinFrequencies[0] = %v, want 0", spec.BinFrequencies[0])
	}
	testutil.RequireRelativelyEqual(t, spec.BinFrequencies[1], 1/years, 1e-12)
	testutil.RequireRelativelyEqual(t, spec.BinFrequencies[2], 2/years, 1e-12)

	// |X[1]| = |X[2]| = |-15 + 5*sqrt(3)i| for [10, 20, 30].
	want := math.Sqrt(15*15 + 75)
	testutil.RequireSliceNearlyEqual(t, spec.Magnitudes[1:], []float64{want, want}, 1e-9)
}

func TestComputeProperties(t *testing.T) {
	for _, n := range []int{1, 2, 7, 64, 1000} {
		values := testutil.DailyDemand(28000, 6000, n)
		noise := testutil.DeterministicNoise(int64(n), 500, n)
		for i := range values {
			values[i] += noise[i]
		}

		spec, err := Compute(values)
		if err != nil {
			t.Fatalf("n=%d: Compute error: %v", n, err)
		}

		if len(spec.Magnitudes) != n || len(spec.BinFrequencies) != n || spec.Len() != n {
			t.Fatalf("n=%d: lengths %d/%d", n, len(spec.Magnitudes), len(spec.BinFrequencies))
		}

		sum := 0.0
		for _, v := range values {
			sum += v
		}
		testutil.RequireRelativelyEqual(t, spec.Magnitudes[0], math.Abs(sum), 1e-6)

		if spec.BinFrequencies[0] != 0 {
			t.Fatalf("n=%d: BinFrequencies[0] = %v", n, spec.BinFrequencies[0])
		}
		testutil.RequireNonDecreasing(t, spec.BinFrequencies)
		testutil.RequireFinite(t, spec.Magnitudes)
	}
}

func TestComputeEmpty(t *testing.T) {
	if _, err := Compute(nil); !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("err = %v, want ErrEmptySeries", err)
	}
	if _, err := ComputeSeries(series.TimeSeries{}); !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("err = %v, want ErrEmptySeries", err)
	}
}

func TestComputeDailyCycleFrequency(t *testing.T) {
	// 34 days, as in the reference dataset.
	const days = 34
	values := testutil.DailyDemand(0, 1, days*TicksPerDay)

	spec, err := Compute(values)
	if err != nil {
		t.Fatal(err)
	}

	// The daily cycle sits in bin 34, i.e. at DaysPerYear cycles per year.
	testutil.RequireRelativelyEqual(t, spec.BinFrequencies[days], DaysPerYear, 1e-12)
	peak := 1
	for k := 1; k < spec.Len()/2; k++ {
		if spec.Magnitudes[k] > spec.Magnitudes[peak] {
			peak = k
		}
	}
	if peak != days {
		t.Fatalf("peak bin = %d, want %d", peak, days)
	}
}

func TestReferenceTicks(t *testing.T) {
	want := []float64{1, 365.2524, 365.2524 * 24, 365.2524 * 24 * 6}
	labels := []string{"1/Year", "1/day", "1/hour", "1/10min"}
	if len(ReferenceTicks) != len(want) {
		t.Fatalf("len = %d", len(ReferenceTicks))
	}
	for i, tick := range ReferenceTicks {
		if tick.Frequency != want[i] || tick.Label != labels[i] {
			t.Fatalf("tick %d = %+v", i, tick)
		}
	}
	if TicksPerYear != 24*6*365.2524 {
		t.Fatalf("TicksPerYear = %v", TicksPerYear)
	}
}

func TestPeriod(t *testing.T) {
	tests := []struct {
		freq float64
		want time.Duration
	}{
		{DaysPerYear, 24 * time.Hour},
		{DaysPerYear * 24, time.Hour},
		{TicksPerYear, 10 * time.Minute},
		{0, 0},
		{-1, 0},
	}
	for _, tt := range tests {
		got := Period(tt.freq)
		if d := got - tt.want; d > time.Microsecond || d < -time.Microsecond {
			t.Errorf("Period(%v) = %v, want %v", tt.freq, got, tt.want)
		}
	}
}
