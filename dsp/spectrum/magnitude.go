package spectrum

import (
	"slices"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// split holds the real and imaginary parts of a spectrum side by side.
type split struct {
	re, im []float64
}

func (s *split) resize(n int) {
	s.re = slices.Grow(s.re[:0], n)[:n]
	s.im = slices.Grow(s.im[:0], n)[:n]
}

var splitPool = sync.Pool{
	New: func() any { return new(split) },
}

// Magnitude returns |X[k]| for each bin.
//
// Bins are split into pooled real and imaginary buffers for the vecmath
// kernel; only the output slice is allocated in steady state.
func Magnitude(bins []complex128) []float64 {
	if len(bins) == 0 {
		return nil
	}

	s := splitPool.Get().(*split)
	defer splitPool.Put(s)

	s.resize(len(bins))
	for i, c := range bins {
		s.re[i] = real(c)
		s.im[i] = imag(c)
	}

	out := make([]float64, len(bins))
	vecmath.Magnitude(out, s.re, s.im)
	return out
}
