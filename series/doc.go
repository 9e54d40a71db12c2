// Package series holds time-indexed value sequences loaded from CSV.
//
// A [TimeSeries] is immutable: loading builds one from a tabular source and
// [Narrow] restricts it to an inclusive timestamp range, always returning a
// new value with its own backing arrays.
package series
