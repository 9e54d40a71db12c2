// Package window provides cosine-sum tapers for spectral analysis.
//
// Tapering trades frequency resolution for lower leakage between bins. The
// untapered (rectangular) transform keeps the DC bin equal to |sum(values)|;
// any other taper scales every bin by roughly its coherent gain.
package window

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a taper.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris
)

var (
	hannCoeffs           = []float64{0.5, -0.5}
	hammingCoeffs        = []float64{0.54, -0.46}
	blackmanCoeffs       = []float64{0.42, -0.5, 0.08}
	blackmanHarrisCoeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}
)

var names = map[Type]string{
	TypeRectangular:    "rectangular",
	TypeHann:           "hann",
	TypeHamming:        "hamming",
	TypeBlackman:       "blackman",
	TypeBlackmanHarris: "blackman-harris",
}

// String returns the lower-case name accepted by [Parse].
func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("window(%d)", int(t))
}

// Parse resolves a taper name. The empty string and "none" select
// TypeRectangular.
func Parse(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "none" {
		return TypeRectangular, nil
	}
	for t, n := range names {
		if n == name {
			return t, nil
		}
	}
	return TypeRectangular, fmt.Errorf("window: unknown taper %q (want one of %s)", name, strings.Join(Names(), ", "))
}

// Names lists the known taper names in Type order.
func Names() []string {
	out := make([]string, 0, len(names))
	for t := TypeRectangular; t <= TypeBlackmanHarris; t++ {
		out = append(out, names[t])
	}
	return out
}

func (t Type) coeffs() []float64 {
	switch t {
	case TypeHann:
		return hannCoeffs
	case TypeHamming:
		return hammingCoeffs
	case TypeBlackman:
		return blackmanCoeffs
	case TypeBlackmanHarris:
		return blackmanHarrisCoeffs
	default:
		return nil
	}
}

// Generate returns the periodic form of t with the given length, the framing
// that matches a DFT over the same samples.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}
	coeffs := t.coeffs()
	out := make([]float64, length)
	for i := range out {
		if coeffs == nil {
			out[i] = 1
			continue
		}
		out[i] = cosineSum(float64(i)/float64(length), coeffs)
	}
	return out
}

// Apply returns a tapered copy of values. values is not modified.
func Apply(t Type, values []float64) []float64 {
	out := slices.Clone(values)
	if t == TypeRectangular || len(out) == 0 {
		return out
	}
	vecmath.MulBlockInPlace(out, Generate(t, len(out)))
	return out
}

// CoherentGain returns the mean of the periodic taper coefficients, the
// factor by which a tone's bin magnitude shrinks.
func CoherentGain(t Type) float64 {
	coeffs := t.coeffs()
	if coeffs == nil {
		return 1
	}
	return coeffs[0]
}

// ENBW returns the equivalent noise bandwidth of the periodic taper in bins.
func ENBW(t Type) float64 {
	coeffs := t.coeffs()
	if coeffs == nil {
		return 1
	}
	// Over a full period the cosine terms are orthogonal.
	sumSq := coeffs[0] * coeffs[0]
	for _, c := range coeffs[1:] {
		sumSq += c * c / 2
	}
	return sumSq / (coeffs[0] * coeffs[0])
}

func cosineSum(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}
	return sum
}
