// Package cache memoizes spectra keyed by the content of their input.
package cache

import (
	"encoding/binary"
	"math"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/cwbudde/esios-spectrum/dsp/spectrum"
)

// DefaultCapacity bounds the number of cached spectra.
const DefaultCapacity = 64

type entry struct {
	values []float64
	spec   spectrum.FrequencySpectrum
}

// Spectra caches spectrum.Compute results.
//
// Keys are the xxhash of the IEEE-754 bits of the input; a hit is confirmed
// by comparing the stored input element by element, so two windows with
// equal hashes never share a result. Returned spectra are shared between
// callers and must not be modified.
type Spectra struct {
	mu       sync.RWMutex
	entries  map[uint64][]entry
	order    []uint64
	capacity int
	observe  func(hit bool)
}

// Option configures Spectra.
type Option func(*Spectra)

// WithCapacity bounds the number of cached spectra. Oldest entries are
// evicted first.
func WithCapacity(n int) Option {
	return func(c *Spectra) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithObserver registers fn to be called on every lookup.
func WithObserver(fn func(hit bool)) Option {
	return func(c *Spectra) {
		c.observe = fn
	}
}

// NewSpectra returns an empty cache.
func NewSpectra(opts ...Option) *Spectra {
	c := &Spectra{
		entries:  make(map[uint64][]entry),
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Key hashes the content of values.
func Key(values []float64) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// Spectrum returns the cached spectrum of values, computing and storing it
// on a miss. Errors are not cached.
func (c *Spectra) Spectrum(values []float64) (spectrum.FrequencySpectrum, error) {
	key := Key(values)

	c.mu.RLock()
	spec, ok := c.lookup(key, values)
	c.mu.RUnlock()
	c.report(ok)
	if ok {
		return spec, nil
	}

	spec, err := spectrum.Compute(values)
	if err != nil {
		return spectrum.FrequencySpectrum{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.lookup(key, values); ok {
		return cached, nil
	}
	c.entries[key] = append(c.entries[key], entry{values: slices.Clone(values), spec: spec})
	c.order = append(c.order, key)
	c.evict()

	return spec, nil
}

// Len returns the number of cached spectra.
func (c *Spectra) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

func (c *Spectra) lookup(key uint64, values []float64) (spectrum.FrequencySpectrum, bool) {
	for _, e := range c.entries[key] {
		if slices.Equal(e.values, values) {
			return e.spec, true
		}
	}
	return spectrum.FrequencySpectrum{}, false
}

func (c *Spectra) evict() {
	for len(c.order) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		bucket := c.entries[oldest]
		if len(bucket) <= 1 {
			delete(c.entries, oldest)
			continue
		}
		c.entries[oldest] = bucket[1:]
	}
}

func (c *Spectra) report(hit bool) {
	if c.observe != nil {
		c.observe(hit)
	}
}
