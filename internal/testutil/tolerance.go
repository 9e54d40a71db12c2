package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireRelativelyEqual fails t if got deviates from want by more than rel
// relative to |want|. A zero want falls back to an absolute comparison.
func RequireRelativelyEqual(t testing.TB, got, want, rel float64) {
	t.Helper()
	diff := math.Abs(got - want)
	scale := math.Abs(want)
	if scale == 0 {
		scale = 1
	}
	if diff > rel*scale {
		t.Fatalf("got %v, want %v (relative diff %v > %v)", got, want, diff/scale, rel)
	}
}

// RequireNonDecreasing fails t if data decreases anywhere.
func RequireNonDecreasing(t testing.TB, data []float64) {
	t.Helper()
	for i := 1; i < len(data); i++ {
		if data[i] < data[i-1] {
			t.Fatalf("index %d: %v < previous %v", i, data[i], data[i-1])
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}
