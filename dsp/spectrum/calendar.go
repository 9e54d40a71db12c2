package spectrum

import (
	"math"
	"time"

	"github.com/cwbudde/esios-spectrum/series"
)

const (
	// DaysPerYear is the Gregorian-mean year length used for the frequency axis.
	DaysPerYear = 365.2524

	// TicksPerDay counts 10-minute spans in a day.
	TicksPerDay = 24 * 6

	// TicksPerYear counts 10-minute spans in a year.
	//
	// The frequency axis always assumes this cadence; it is not measured
	// from the series index. Input sampled at another cadence gets a
	// mislabelled axis.
	TicksPerYear = TicksPerDay * DaysPerYear
)

// Year is DaysPerYear expressed as a duration.
const Year = time.Duration(DaysPerYear * 24 * float64(time.Hour))

// Tick is a labelled reference frequency in cycles per year.
type Tick struct {
	Frequency float64
	Label     string
}

// ReferenceTicks marks the yearly, daily, hourly and 10-minute cycles on the
// frequency axis.
var ReferenceTicks = []Tick{
	{Frequency: 1, Label: "1/Year"},
	{Frequency: DaysPerYear, Label: "1/day"},
	{Frequency: DaysPerYear * 24, Label: "1/hour"},
	{Frequency: DaysPerYear * 24 * 6, Label: "1/10min"},
}

// FrequencySpectrum holds DFT magnitudes against calendar frequency.
//
// Both slices have the length of the transformed sequence and follow the
// natural bin order: DC first, the mirrored upper half included.
type FrequencySpectrum struct {
	BinFrequencies []float64 // cycles per year
	Magnitudes     []float64
}

// Len returns the bin count.
func (s FrequencySpectrum) Len() int { return len(s.Magnitudes) }

// YearsPerDataset returns how many years n ticks span at the fixed cadence.
func YearsPerDataset(n int) float64 {
	return float64(n) / TicksPerYear
}

// BinFrequencies maps bin indices 0..n-1 to cycles per year.
func BinFrequencies(n int) []float64 {
	if n <= 0 {
		return nil
	}
	years := YearsPerDataset(n)
	out := make([]float64, n)
	for k := range out {
		out[k] = float64(k) / years
	}
	return out
}

// Compute returns the magnitude spectrum of values on a cycles-per-year axis.
func Compute(values []float64) (FrequencySpectrum, error) {
	if len(values) == 0 {
		return FrequencySpectrum{}, ErrEmptySeries
	}

	bins, err := FFT(values)
	if err != nil {
		return FrequencySpectrum{}, err
	}

	return FrequencySpectrum{
		BinFrequencies: BinFrequencies(len(values)),
		Magnitudes:     Magnitude(bins),
	}, nil
}

// ComputeSeries applies [Compute] to the values of ts.
func ComputeSeries(ts series.TimeSeries) (FrequencySpectrum, error) {
	return Compute(ts.Values)
}

// Period converts a frequency in cycles per year to the duration of one
// cycle. Non-positive frequencies return 0.
func Period(cyclesPerYear float64) time.Duration {
	if cyclesPerYear <= 0 {
		return 0
	}
	return time.Duration(math.Round(float64(Year) / cyclesPerYear))
}
