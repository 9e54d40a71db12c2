// Package render draws the time-domain and frequency-domain charts as PNG.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cwbudde/esios-spectrum/dsp/spectrum"
	"github.com/cwbudde/esios-spectrum/series"
)

// ErrNothingToPlot is returned when the input has no drawable point.
var ErrNothingToPlot = errors.New("render: nothing to plot")

const (
	defaultWidth  = 1200
	defaultHeight = 600
)

var (
	gridStyle = chart.Style{
		StrokeColor: drawing.ColorFromHex("dddddd"),
		StrokeWidth: 1,
	}
	referenceStyle = chart.Style{
		StrokeColor: chart.ColorGreen.WithAlpha(51),
		StrokeWidth: 10,
	}
)

// Config holds the chart dimensions in pixels.
type Config struct {
	Width  int
	Height int
}

// Option configures a chart.
type Option func(*Config)

// WithSize sets the chart size in pixels. Non-positive values keep the
// default.
func WithSize(width, height int) Option {
	return func(c *Config) {
		if width > 0 {
			c.Width = width
		}
		if height > 0 {
			c.Height = height
		}
	}
}

func applyOptions(opts []Option) Config {
	cfg := Config{Width: defaultWidth, Height: defaultHeight}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// TimeChart writes a line chart of ts to w. Values are shown in thousands
// on the "Amplitude [MW]" axis.
func TimeChart(w io.Writer, ts series.TimeSeries, opts ...Option) error {
	if ts.IsEmpty() {
		return ErrNothingToPlot
	}
	cfg := applyOptions(opts)

	minT, maxT := ts.Start(), ts.End()
	if !maxT.After(minT) {
		maxT = minT.Add(10 * time.Minute)
	}
	minY, maxY := bounds(ts.Values)
	if maxY <= minY {
		pad := math.Max(math.Abs(minY)*0.05, 1)
		minY, maxY = minY-pad, maxY+pad
	}

	ch := chart.Chart{
		Width:  cfg.Width,
		Height: cfg.Height,
		Background: chart.Style{Padding: chart.Box{
			Top: 20, Left: 20, Right: 20, Bottom: 20,
		}},
		XAxis: chart.XAxis{
			Name:           "Time",
			ValueFormatter: chart.TimeValueFormatterWithFormat("01-02 15:04"),
			Range:          &chart.ContinuousRange{Min: chart.TimeToFloat64(minT), Max: chart.TimeToFloat64(maxT)},
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           "Amplitude [MW]",
			ValueFormatter: thousands,
			Range:          &chart.ContinuousRange{Min: minY, Max: maxY},
			GridMajorStyle: gridStyle,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "value",
				XValues: ts.Index,
				YValues: ts.Values,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 1.5,
				},
			},
		},
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render: time chart: %w", err)
	}
	return nil
}

// FrequencyChart writes a log-log step chart of spec to w, with vertical
// markers at the reference ticks.
//
// Both axes hold log10 values and are labelled by decade. The DC bin and
// zero magnitudes have no logarithm and are left out.
func FrequencyChart(w io.Writer, spec spectrum.FrequencySpectrum, opts ...Option) error {
	xs, ys := logPoints(spec)
	if len(xs) == 0 {
		return ErrNothingToPlot
	}
	cfg := applyOptions(opts)

	stepX, stepY := stepPre(xs, ys)

	minX, maxX := bounds(xs)
	for _, tick := range spectrum.ReferenceTicks {
		lx := math.Log10(tick.Frequency)
		minX = math.Min(minX, lx)
		maxX = math.Max(maxX, lx)
	}
	minX, maxX = decades(minX, maxX)
	minY, maxY := decades(bounds(ys))

	plot := []chart.Series{
		chart.ContinuousSeries{
			Name:    "magnitude",
			XValues: stepX,
			YValues: stepY,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				StrokeWidth: 1,
			},
		},
	}

	labelY := math.Max(maxY+math.Log10(0.075), minY)
	labels := make([]chart.Value2, 0, len(spectrum.ReferenceTicks))
	for _, tick := range spectrum.ReferenceTicks {
		lx := math.Log10(tick.Frequency)
		plot = append(plot, chart.ContinuousSeries{
			Name:    tick.Label,
			XValues: []float64{lx, lx},
			YValues: []float64{minY, maxY},
			Style:   referenceStyle,
		})
		labels = append(labels, chart.Value2{
			XValue: math.Log10(tick.Frequency * 0.75),
			YValue: labelY,
			Label:  tick.Label,
		})
	}
	plot = append(plot, chart.AnnotationSeries{Name: "ticks", Annotations: labels})

	ch := chart.Chart{
		Width:  cfg.Width,
		Height: cfg.Height,
		Background: chart.Style{Padding: chart.Box{
			Top: 20, Left: 20, Right: 20, Bottom: 20,
		}},
		XAxis: chart.XAxis{
			Name:           "Frequency [cycles/year] (log scale)",
			Range:          &chart.ContinuousRange{Min: minX, Max: maxX},
			Ticks:          decadeTicks(minX, maxX),
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           "Amplitude (log scale)",
			Range:          &chart.ContinuousRange{Min: minY, Max: maxY},
			Ticks:          decadeTicks(minY, maxY),
			GridMajorStyle: gridStyle,
		},
		Series: plot,
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render: frequency chart: %w", err)
	}
	return nil
}

// logPoints returns log10 frequency and magnitude for every bin that has
// both strictly positive.
func logPoints(spec spectrum.FrequencySpectrum) (xs, ys []float64) {
	n := spec.Len()
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	for k := 1; k < n; k++ {
		f, m := spec.BinFrequencies[k], spec.Magnitudes[k]
		if f <= 0 || m <= 0 || math.IsInf(m, 0) || math.IsNaN(m) {
			continue
		}
		xs = append(xs, math.Log10(f))
		ys = append(ys, math.Log10(m))
	}
	return xs, ys
}

// stepPre expands (xs, ys) into a staircase where ys[i] holds over the
// interval (xs[i-1], xs[i]].
func stepPre(xs, ys []float64) ([]float64, []float64) {
	if len(xs) == 0 {
		return nil, nil
	}
	outX := make([]float64, 0, 2*len(xs)-1)
	outY := make([]float64, 0, 2*len(xs)-1)
	outX = append(outX, xs[0])
	outY = append(outY, ys[0])
	for i := 1; i < len(xs); i++ {
		outX = append(outX, xs[i-1], xs[i])
		outY = append(outY, ys[i], ys[i])
	}
	return outX, outY
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// decades widens [lo, hi] to whole decades, at least one wide.
func decades(lo, hi float64) (float64, float64) {
	lo, hi = math.Floor(lo), math.Ceil(hi)
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func decadeTicks(lo, hi float64) []chart.Tick {
	ticks := make([]chart.Tick, 0, int(hi-lo)+1)
	for d := lo; d <= hi; d++ {
		ticks = append(ticks, chart.Tick{Value: d, Label: "1e" + strconv.Itoa(int(d))})
	}
	return ticks
}

func thousands(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(f/1000, 'f', 1, 64)
}
