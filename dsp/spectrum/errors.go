package spectrum

import "errors"

// ErrEmptySeries reports a transform requested over zero samples.
var ErrEmptySeries = errors.New("spectrum: empty series")
