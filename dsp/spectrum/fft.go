package spectrum

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// FFT returns the unnormalized forward DFT of a real sequence:
//
//	X[k] = sum_n x[n] * exp(-2*pi*i*k*n/N),  k = 0..N-1
//
// Any N >= 1 is accepted. The transform runs on an algo-fft plan of length N;
// lengths the plan rejects fall back to [bluestein].
func FFT(x []float64) ([]complex128, error) {
	n := len(x)
	if n == 0 {
		return nil, ErrEmptySeries
	}

	in := make([]complex128, n)
	for i, v := range x {
		in[i] = complex(v, 0)
	}
	if n == 1 {
		return in, nil
	}

	if out, err := direct(in); err == nil {
		return out, nil
	}
	return bluestein(in)
}

// direct runs an algo-fft plan of the exact input length.
func direct(in []complex128) ([]complex128, error) {
	plan, err := algofft.NewPlan64(len(in))
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}
	out := make([]complex128, len(in))
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}
	return out, nil
}

// bluestein evaluates an arbitrary-length DFT as a circular convolution of
// power-of-two length m >= 2n-1:
//
//	X[k] = w[k] * sum_j (x[j]*w[j]) * conj(w[k-j]),  w[k] = exp(-i*pi*k^2/n)
func bluestein(x []complex128) ([]complex128, error) {
	n := len(x)
	m := nextPowerOf2(2*n - 1)

	plan, err := algofft.NewPlan64(m)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	// k^2 is reduced mod 2n so the chirp angle stays small and exact for
	// long inputs.
	chirp := make([]complex128, n)
	for k := range chirp {
		kk := (int64(k) * int64(k)) % int64(2*n)
		chirp[k] = cmplx.Exp(complex(0, -math.Pi*float64(kk)/float64(n)))
	}

	a := make([]complex128, m)
	for k := range n {
		a[k] = x[k] * chirp[k]
	}

	b := make([]complex128, m)
	b[0] = cmplx.Conj(chirp[0])
	for k := 1; k < n; k++ {
		c := cmplx.Conj(chirp[k])
		b[k] = c
		b[m-k] = c
	}

	aFreq := make([]complex128, m)
	if err := plan.Forward(aFreq, a); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}
	bFreq := make([]complex128, m)
	if err := plan.Forward(bFreq, b); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	// Inverse via conj(FFT(conj(Y)))/m keeps the scaling explicit.
	for i := range aFreq {
		aFreq[i] = cmplx.Conj(aFreq[i] * bFreq[i])
	}
	conv := make([]complex128, m)
	if err := plan.Forward(conv, aFreq); err != nil {
		return nil, fmt.Errorf("spectrum: inverse FFT failed: %w", err)
	}

	scale := complex(1/float64(m), 0)
	out := make([]complex128, n)
	for k := range out {
		out[k] = chirp[k] * cmplx.Conj(conv[k]) * scale
	}
	return out, nil
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
