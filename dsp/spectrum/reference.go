package spectrum

import (
	"fmt"
	"math"
)

// Level is the DFT magnitude of a series at one reference frequency.
type Level struct {
	Tick
	Magnitude float64
}

// goertzel evaluates a single DFT term at an arbitrary frequency.
//
// Frequencies are in cycles per year and the sampling rate is TicksPerYear,
// so the term lines up with the bins produced by [Compute]: a frequency equal
// to BinFrequencies(n)[k] yields |X[k]|.
type goertzel struct {
	coeff  float64
	s0, s1 float64
}

func newGoertzel(cyclesPerYear float64) *goertzel {
	return &goertzel{coeff: 2 * math.Cos(2*math.Pi*cyclesPerYear/TicksPerYear)}
}

func (g *goertzel) processBlock(input []float64) {
	s0, s1 := g.s0, g.s1
	coeff := g.coeff
	for _, x := range input {
		s := x + coeff*s0 - s1
		s1 = s0
		s0 = s
	}
	g.s0, g.s1 = s0, s1
}

func (g *goertzel) magnitude() float64 {
	p := g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
	if p <= 0 {
		return 0
	}
	return math.Sqrt(p)
}

// Nyquist is the highest frequency representable at the fixed cadence.
const Nyquist = TicksPerYear / 2

// MagnitudeAt returns the DFT magnitude of values at cyclesPerYear, which
// must lie in [0, Nyquist].
func MagnitudeAt(values []float64, cyclesPerYear float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}
	if cyclesPerYear < 0 || cyclesPerYear > Nyquist || math.IsNaN(cyclesPerYear) {
		return 0, fmt.Errorf("spectrum: frequency must be between 0 and %v cycles/year: %v", Nyquist, cyclesPerYear)
	}
	g := newGoertzel(cyclesPerYear)
	g.processBlock(values)
	return g.magnitude(), nil
}

// ReferenceLevels evaluates values at each of the ReferenceTicks that lies
// below Nyquist. The 10-minute tick equals the sampling rate and is skipped.
func ReferenceLevels(values []float64) ([]Level, error) {
	if len(values) == 0 {
		return nil, ErrEmptySeries
	}
	levels := make([]Level, 0, len(ReferenceTicks))
	for _, tick := range ReferenceTicks {
		if tick.Frequency > Nyquist {
			continue
		}
		mag, err := MagnitudeAt(values, tick.Frequency)
		if err != nil {
			return nil, err
		}
		levels = append(levels, Level{Tick: tick, Magnitude: mag})
	}
	return levels, nil
}
