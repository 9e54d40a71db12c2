package testutil

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// TenMinutes is the sampling cadence of the ESIOS demand indicator.
const TenMinutes = 10 * time.Minute

// ReferenceStart is the first tick of the reference demand dataset.
var ReferenceStart = time.Date(2018, 9, 2, 0, 0, 0, 0, time.UTC)

// Index returns n timestamps starting at start, spaced by step.
func Index(start time.Time, step time.Duration, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * step)
	}
	return out
}

// TenMinuteIndex returns n timestamps at 10-minute cadence from ReferenceStart.
func TenMinuteIndex(n int) []time.Time {
	return Index(ReferenceStart, TenMinutes, n)
}

// DailyDemand generates a synthetic demand curve sampled every 10 minutes:
// a base load plus one sinusoid with a period of exactly one day.
func DailyDemand(base, swing float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi / (24 * 6)
	for i := range out {
		out[i] = base + swing*math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Ramp returns first, first+step, ... with length elements.
func Ramp(first, step float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = first + step*float64(i)
	}
	return out
}

// CSV renders index/values as a CSV document in the layout written by the
// fetch command: an unnamed leading index column, then value and datetime.
func CSV(index []time.Time, values []float64) string {
	var b strings.Builder
	b.WriteString(",value,datetime,geo_id\n")
	for i := range index {
		b.WriteString(strconv.Itoa(i))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(values[i], 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(index[i].Format("2006-01-02T15:04:05.000Z07:00"))
		b.WriteString(",8741\n")
	}
	return b.String()
}
