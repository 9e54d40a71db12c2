package series

import (
	"fmt"
	"sort"
	"time"
)

// Narrow returns the samples with start <= t <= end, in order.
//
// Bounds need not coincide with ticks. A reversed or non-overlapping range
// yields an empty series rather than an error, since interactive range
// selectors can transiently produce one.
func Narrow(s TimeSeries, start, end time.Time) TimeSeries {
	if start.After(end) {
		return TimeSeries{}
	}

	lo := sort.Search(len(s.Index), func(i int) bool { return !s.Index[i].Before(start) })
	hi := sort.Search(len(s.Index), func(i int) bool { return s.Index[i].After(end) })
	if lo >= hi {
		return TimeSeries{}
	}

	return TimeSeries{
		Index:  append([]time.Time(nil), s.Index[lo:hi]...),
		Values: append([]float64(nil), s.Values[lo:hi]...),
	}
}

// NarrowLabels parses textual bounds and applies [Narrow].
//
// It fails with ErrInvalidRange only when a bound is not a timestamp; an
// empty selection is not an error.
func NarrowLabels(s TimeSeries, start, end string) (TimeSeries, error) {
	from, err := ParseTimestamp(start)
	if err != nil {
		return TimeSeries{}, fmt.Errorf("%w: start: %v", ErrInvalidRange, err)
	}
	to, err := ParseTimestamp(end)
	if err != nil {
		return TimeSeries{}, fmt.Errorf("%w: end: %v", ErrInvalidRange, err)
	}
	return Narrow(s, from, to), nil
}
