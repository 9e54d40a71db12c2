// Package time summarizes a demand window in the time domain.
package time

import (
	"math"
	stdtime "time"

	"github.com/cwbudde/esios-spectrum/series"
)

// Stats holds time-domain statistics of a series window.
type Stats struct {
	Length   int
	Start    stdtime.Time
	End      stdtime.Time
	Span     stdtime.Duration
	Mean     float64
	RMS      float64
	Max      float64
	MaxAt    stdtime.Time
	Min      float64
	MinAt    stdtime.Time
	Range    float64 // max - min
	Variance float64 // population variance
	StdDev   float64
}

// Calculate computes all statistics of ts in a single pass using Welford's
// online algorithm for the variance. An empty series yields zero Stats.
func Calculate(ts series.TimeSeries) Stats {
	n := ts.Len()
	if n == 0 {
		return Stats{}
	}

	var (
		mean   float64
		m2     float64
		sumSq  float64
		maxVal = ts.Values[0]
		maxPos int
		minVal = ts.Values[0]
		minPos int
	)

	for i, x := range ts.Values {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)

		sumSq += x * x

		if x > maxVal {
			maxVal = x
			maxPos = i
		}
		if x < minVal {
			minVal = x
			minPos = i
		}
	}

	nf := float64(n)
	variance := m2 / nf

	return Stats{
		Length:   n,
		Start:    ts.Start(),
		End:      ts.End(),
		Span:     ts.Span(),
		Mean:     mean,
		RMS:      math.Sqrt(sumSq / nf),
		Max:      maxVal,
		MaxAt:    ts.Index[maxPos],
		Min:      minVal,
		MinAt:    ts.Index[minPos],
		Range:    maxVal - minVal,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
	}
}

// Mean returns the arithmetic mean of values using Kahan summation.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum, c float64
	for _, x := range values {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(values))
}
