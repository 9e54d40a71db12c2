package window

import (
	"math"
	"testing"

	"github.com/cwbudde/esios-spectrum/internal/testutil"
)

func TestGenerate(t *testing.T) {
	for _, name := range Names() {
		typ, err := Parse(name)
		if err != nil {
			t.Fatalf("Parse(%q): %v", name, err)
		}
		t.Run(name, func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}
			testutil.RequireFinite(t, w)

			// Periodic tapers are symmetric about n/2.
			for i := 1; i < 32; i++ {
				if math.Abs(w[i]-w[64-i]) > 1e-12 {
					t.Fatalf("w[%d]=%v != w[%d]=%v", i, w[i], 64-i, w[64-i])
				}
			}

			mean := 0.0
			for _, v := range w {
				mean += v
			}
			mean /= 64
			testutil.RequireRelativelyEqual(t, mean, CoherentGain(typ), 1e-12)
		})
	}

	if Generate(TypeHann, 0) != nil {
		t.Fatal("Generate(0) should be nil")
	}
}

func TestApply(t *testing.T) {
	values := []float64{2, 2, 2, 2}
	got := Apply(TypeHann, values)
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 1, 2, 1}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, values, []float64{2, 2, 2, 2}, 0)

	same := Apply(TypeRectangular, values)
	same[0] = 99
	if values[0] != 2 {
		t.Fatal("Apply aliases its input")
	}
	if Apply(TypeHann, nil) != nil {
		t.Fatal("Apply(nil) should be nil")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"", TypeRectangular},
		{"none", TypeRectangular},
		{" Hann ", TypeHann},
		{"blackman-harris", TypeBlackmanHarris},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("Parse(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := Parse("kaiser"); err == nil {
		t.Fatal("expected error for unknown taper")
	}
	if s := Type(42).String(); s != "window(42)" {
		t.Fatalf("String() = %q", s)
	}
}

func TestENBW(t *testing.T) {
	tests := []struct {
		typ  Type
		want float64
	}{
		{TypeRectangular, 1},
		{TypeHann, 1.5},
		{TypeHamming, 1.3628},
		{TypeBlackman, 1.7268},
		{TypeBlackmanHarris, 2.0044},
	}
	for _, tt := range tests {
		if got := ENBW(tt.typ); math.Abs(got-tt.want) > 1e-3 {
			t.Errorf("ENBW(%v) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}
