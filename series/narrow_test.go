package series

import (
	"errors"
	"testing"
	"time"

	"github.com/cwbudde/esios-spectrum/internal/testutil"
)

func TestNarrowRoundTrip(t *testing.T) {
	ts := mustNew(t, 10)
	got := Narrow(ts, ts.Index[0], ts.Index[len(ts.Index)-1])
	if !got.Equal(ts) {
		t.Fatalf("Narrow over full range = %+v, want %+v", got, ts)
	}
}

func TestNarrowInclusiveBounds(t *testing.T) {
	ts := mustNew(t, 10)
	got := Narrow(ts, ts.Index[2], ts.Index[5])
	if got.Len() != 4 {
		t.Fatalf("Len = %d, want 4", got.Len())
	}
	testutil.RequireSliceNearlyEqual(t, got.Values, []float64{30, 40, 50, 60}, 0)
}

func TestNarrowBetweenTicks(t *testing.T) {
	ts := mustNew(t, 10)
	start := ts.Index[2].Add(-time.Minute)
	end := ts.Index[5].Add(time.Minute)
	got := Narrow(ts, start, end)
	testutil.RequireSliceNearlyEqual(t, got.Values, []float64{30, 40, 50, 60}, 0)

	// Bounds strictly inside a gap select nothing.
	got = Narrow(ts, ts.Index[2].Add(time.Minute), ts.Index[2].Add(2*time.Minute))
	if !got.IsEmpty() {
		t.Fatalf("expected empty series, got %d samples", got.Len())
	}
}

func TestNarrowEmptyRanges(t *testing.T) {
	ts := mustNew(t, 10)
	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"reversed", ts.Index[6], ts.Index[3]},
		{"before data", ts.Index[0].Add(-2 * time.Hour), ts.Index[0].Add(-time.Hour)},
		{"after data", ts.End().Add(time.Hour), ts.End().Add(2 * time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Narrow(ts, tt.start, tt.end)
			if !got.IsEmpty() || len(got.Index) != len(got.Values) {
				t.Fatalf("expected empty series, got %+v", got)
			}
		})
	}
}

func TestNarrowDoesNotAlias(t *testing.T) {
	ts := mustNew(t, 5)
	got := Narrow(ts, ts.Index[1], ts.Index[3])
	got.Values[0] = -1
	if ts.Values[1] != 20 {
		t.Fatalf("Narrow result aliases the input: %v", ts.Values)
	}
}

func TestNarrowLabels(t *testing.T) {
	ts := mustNew(t, 10)

	got, err := NarrowLabels(ts, "2018-09-02T00:10:00Z", "2018-09-02 00:30:00")
	if err != nil {
		t.Fatalf("NarrowLabels error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got.Values, []float64{20, 30, 40}, 0)

	got, err = NarrowLabels(ts, "2018-09-02T01:00", "2018-09-02T00:00")
	if err != nil || !got.IsEmpty() {
		t.Fatalf("reversed labels: got %d samples, err %v", got.Len(), err)
	}

	for _, bad := range [][2]string{{"not-a-time", "2018-09-02"}, {"2018-09-02", ""}} {
		_, err := NarrowLabels(ts, bad[0], bad[1])
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("NarrowLabels(%q, %q) err = %v, want ErrInvalidRange", bad[0], bad[1], err)
		}
	}
}
