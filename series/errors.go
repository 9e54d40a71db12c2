package series

import "errors"

var (
	// ErrMalformedSource reports a tabular source with missing columns,
	// unparseable timestamps or values, or an unordered index.
	ErrMalformedSource = errors.New("series: malformed source")

	// ErrInvalidRange reports a window bound that is not a valid timestamp.
	ErrInvalidRange = errors.New("series: invalid range bound")
)
