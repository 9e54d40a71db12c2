package series

import (
	"fmt"
	"time"
)

// TimeSeries is an ordered sequence of (timestamp, value) pairs.
//
// Index is strictly increasing and has the same length as Values. Callers
// must treat both slices as read-only.
type TimeSeries struct {
	Index  []time.Time
	Values []float64
}

// New builds a TimeSeries from position-aligned index and values.
//
// Both slices are copied. The index must be strictly increasing.
func New(index []time.Time, values []float64) (TimeSeries, error) {
	if len(index) != len(values) {
		return TimeSeries{}, fmt.Errorf("series: index/value length mismatch: %d != %d", len(index), len(values))
	}
	for i := 1; i < len(index); i++ {
		if !index[i].After(index[i-1]) {
			return TimeSeries{}, fmt.Errorf("series: index not strictly increasing at position %d", i)
		}
	}
	return TimeSeries{
		Index:  append([]time.Time(nil), index...),
		Values: append([]float64(nil), values...),
	}, nil
}

// Len returns the number of samples.
func (s TimeSeries) Len() int { return len(s.Values) }

// IsEmpty reports whether the series holds no samples.
func (s TimeSeries) IsEmpty() bool { return len(s.Values) == 0 }

// At returns the i-th timestamp and value.
func (s TimeSeries) At(i int) (time.Time, float64) { return s.Index[i], s.Values[i] }

// Start returns the first timestamp, or the zero time for an empty series.
func (s TimeSeries) Start() time.Time {
	if len(s.Index) == 0 {
		return time.Time{}
	}
	return s.Index[0]
}

// End returns the last timestamp, or the zero time for an empty series.
func (s TimeSeries) End() time.Time {
	if len(s.Index) == 0 {
		return time.Time{}
	}
	return s.Index[len(s.Index)-1]
}

// Span returns End() - Start(). Empty and single-sample series span zero.
func (s TimeSeries) Span() time.Duration {
	if len(s.Index) < 2 {
		return 0
	}
	return s.End().Sub(s.Start())
}

// Equal reports whether both series hold the same instants and values.
func (s TimeSeries) Equal(other TimeSeries) bool {
	if len(s.Index) != len(other.Index) || len(s.Values) != len(other.Values) {
		return false
	}
	for i := range s.Index {
		if !s.Index[i].Equal(other.Index[i]) || s.Values[i] != other.Values[i] {
			return false
		}
	}
	return true
}
