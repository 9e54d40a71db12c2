// Package frequency summarizes a calendar-frequency magnitude spectrum.
//
// Statistics consider the one-sided half of the spectrum, bins 1..n/2; the
// mirrored upper half carries no extra information for real input and the DC
// bin is reported separately.
package frequency

import (
	"math"
	"sort"
	"time"

	"github.com/cwbudde/esios-spectrum/dsp/spectrum"
)

// Peak is one spectrum bin together with its period.
type Peak struct {
	Bin       int
	Frequency float64 // cycles per year
	Magnitude float64
	Period    time.Duration
}

// Stats holds frequency-domain statistics of a spectrum.
type Stats struct {
	BinCount int
	DC       float64 // bin 0 magnitude
	Peak     Peak    // largest non-DC bin of the one-sided half
	Centroid float64 // magnitude-weighted mean frequency, cycles per year
	Energy   float64 // sum of squared magnitudes over the one-sided half
	Flatness float64 // spectral flatness (Wiener entropy), 0..1
}

// oneSided returns the last bin index of the one-sided half.
func oneSided(n int) int {
	return n / 2
}

func newPeak(s spectrum.FrequencySpectrum, k int) Peak {
	return Peak{
		Bin:       k,
		Frequency: s.BinFrequencies[k],
		Magnitude: s.Magnitudes[k],
		Period:    spectrum.Period(s.BinFrequencies[k]),
	}
}

// Calculate computes all frequency-domain statistics of s.
func Calculate(s spectrum.FrequencySpectrum) Stats {
	n := s.Len()
	if n == 0 {
		return Stats{}
	}

	st := Stats{BinCount: n, DC: s.Magnitudes[0]}
	last := oneSided(n)
	if last < 1 {
		return st
	}

	peak := 1
	var sum, weighted float64
	for k := 1; k <= last; k++ {
		v := s.Magnitudes[k]
		sum += v
		weighted += s.BinFrequencies[k] * v
		st.Energy += v * v
		if v > s.Magnitudes[peak] {
			peak = k
		}
	}
	st.Peak = newPeak(s, peak)
	if sum > 0 {
		st.Centroid = weighted / sum
	}
	st.Flatness = flatness(s.Magnitudes[1 : last+1])

	return st
}

// flatness returns exp(mean(log(x))) / mean(x), or 0 when any bin is zero.
func flatness(mag []float64) float64 {
	if len(mag) == 0 {
		return 0
	}
	sumLin := 0.0
	sumLog := 0.0
	for _, v := range mag {
		if v <= 0 {
			return 0
		}
		sumLin += v
		sumLog += math.Log(v)
	}
	nf := float64(len(mag))
	return math.Exp(sumLog/nf) / (sumLin / nf)
}

// Peaks returns up to count local maxima of the one-sided half, largest
// first. A bin is a local maximum when it exceeds both neighbours; the last
// one-sided bin only needs to exceed its left neighbour.
func Peaks(s spectrum.FrequencySpectrum, count int) []Peak {
	n := s.Len()
	last := oneSided(n)
	if count <= 0 || last < 1 {
		return nil
	}

	var peaks []Peak
	for k := 1; k <= last; k++ {
		v := s.Magnitudes[k]
		if k > 1 && v <= s.Magnitudes[k-1] {
			continue
		}
		if k < last && v <= s.Magnitudes[k+1] {
			continue
		}
		peaks = append(peaks, newPeak(s, k))
	}

	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].Magnitude > peaks[j].Magnitude })
	if len(peaks) > count {
		peaks = peaks[:count]
	}
	return peaks
}
