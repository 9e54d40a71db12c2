package series

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DatetimeColumn names the CSV column holding the timestamps.
	DatetimeColumn = "datetime"
	// ValueColumn names the CSV column holding the samples.
	ValueColumn = "value"
)

// DefaultLayouts lists the timestamp layouts tried, in order, when parsing
// the datetime column and textual window bounds. time.Parse accepts
// fractional seconds after the seconds field even when a layout omits them.
var DefaultLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// LoadConfig controls CSV parsing.
type LoadConfig struct {
	Layouts   []string
	Location  *time.Location
	Delimiter rune
}

// LoadOption mutates a LoadConfig.
type LoadOption func(*LoadConfig)

func defaultLoadConfig() LoadConfig {
	return LoadConfig{
		Layouts:   DefaultLayouts,
		Location:  time.UTC,
		Delimiter: ',',
	}
}

// WithLayouts replaces the timestamp layouts tried by the loader.
func WithLayouts(layouts ...string) LoadOption {
	return func(cfg *LoadConfig) {
		if len(layouts) > 0 {
			cfg.Layouts = layouts
		}
	}
}

// WithLocation sets the location assumed for timestamps without an offset.
func WithLocation(loc *time.Location) LoadOption {
	return func(cfg *LoadConfig) {
		if loc != nil {
			cfg.Location = loc
		}
	}
}

// WithDelimiter sets the CSV field delimiter.
func WithDelimiter(r rune) LoadOption {
	return func(cfg *LoadConfig) {
		if r != 0 {
			cfg.Delimiter = r
		}
	}
}

func applyLoadOptions(opts []LoadOption) LoadConfig {
	cfg := defaultLoadConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// LoadFile reads a CSV file and returns its datetime-indexed value column.
func LoadFile(path string, opts ...LoadOption) (TimeSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return TimeSeries{}, fmt.Errorf("series: open %s: %w", path, err)
	}
	defer f.Close()

	return Load(f, opts...)
}

// Load reads CSV with a header row holding at least the "datetime" and
// "value" columns. The datetime column becomes the index; every column other
// than "value" is dropped.
func Load(r io.Reader, opts ...LoadOption) (TimeSeries, error) {
	cfg := applyLoadOptions(opts)

	reader := csv.NewReader(r)
	reader.Comma = cfg.Delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return TimeSeries{}, fmt.Errorf("%w: missing header row", ErrMalformedSource)
	}
	if err != nil {
		return TimeSeries{}, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}

	dateIdx, valueIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.Trim(h, "\"")) {
		case DatetimeColumn:
			dateIdx = i
		case ValueColumn:
			valueIdx = i
		}
	}
	if dateIdx < 0 {
		return TimeSeries{}, fmt.Errorf("%w: missing column %q", ErrMalformedSource, DatetimeColumn)
	}
	if valueIdx < 0 {
		return TimeSeries{}, fmt.Errorf("%w: missing column %q", ErrMalformedSource, ValueColumn)
	}

	var (
		index  []time.Time
		values []float64
	)
	for row := 2; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return TimeSeries{}, fmt.Errorf("%w: row %d: %v", ErrMalformedSource, row, err)
		}
		if dateIdx >= len(record) || valueIdx >= len(record) {
			return TimeSeries{}, fmt.Errorf("%w: row %d: expected at least %d fields, got %d",
				ErrMalformedSource, row, max(dateIdx, valueIdx)+1, len(record))
		}

		ts, err := parseTimestamp(record[dateIdx], cfg.Layouts, cfg.Location)
		if err != nil {
			return TimeSeries{}, fmt.Errorf("%w: row %d: %s %q does not parse", ErrMalformedSource, row, DatetimeColumn, record[dateIdx])
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[valueIdx]), 64)
		if err != nil {
			return TimeSeries{}, fmt.Errorf("%w: row %d: %s %q is not numeric", ErrMalformedSource, row, ValueColumn, record[valueIdx])
		}
		if n := len(index); n > 0 && !ts.After(index[n-1]) {
			return TimeSeries{}, fmt.Errorf("%w: row %d: %s not strictly increasing", ErrMalformedSource, row, DatetimeColumn)
		}

		index = append(index, ts)
		values = append(values, v)
	}

	return TimeSeries{Index: index, Values: values}, nil
}

// ParseTimestamp parses s with DefaultLayouts, assuming UTC when s carries
// no offset.
func ParseTimestamp(s string) (time.Time, error) {
	return parseTimestamp(s, DefaultLayouts, time.UTC)
}

func parseTimestamp(s string, layouts []string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
