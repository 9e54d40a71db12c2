package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cwbudde/esios-spectrum/dsp/spectrum"
	"github.com/cwbudde/esios-spectrum/dsp/window"
	"github.com/cwbudde/esios-spectrum/internal/render"
	"github.com/cwbudde/esios-spectrum/series"
	freqstats "github.com/cwbudde/esios-spectrum/stats/frequency"
	timestats "github.com/cwbudde/esios-spectrum/stats/time"
)

var (
	// errEmptyWindow reports a selection without samples.
	errEmptyWindow = errors.New("dashboard: selected window holds no samples")
	// errInvalidTaper reports an unknown taper name.
	errInvalidTaper = errors.New("dashboard: invalid taper")
)

// peakCount is the number of spectral peaks listed in summaries.
const peakCount = 5

var funcs = template.FuncMap{
	"mw": func(v float64) string {
		return strconv.FormatFloat(v/1000, 'f', 3, 64)
	},
	"num": func(v float64) string {
		return strconv.FormatFloat(v, 'g', 6, 64)
	},
	"ts": label,
}

// selection is a narrowed view of the loaded series together with the
// parameters that produced it.
type selection struct {
	Start  string
	End    string
	Taper  window.Type
	Series series.TimeSeries
}

// tapered returns the selected values with the taper applied.
func (w selection) tapered() []float64 {
	return window.Apply(w.Taper, w.Series.Values)
}

// selectWindow resolves the start, end and taper query parameters. Missing
// bounds default to the full range of the loaded series; a series without
// rows has no window at all.
func (s *Server) selectWindow(c echo.Context) (selection, error) {
	w := selection{Start: c.QueryParam("start"), End: c.QueryParam("end")}

	taper, err := window.Parse(c.QueryParam("taper"))
	if err != nil {
		return w, fmt.Errorf("%w: %v", errInvalidTaper, err)
	}
	w.Taper = taper

	if s.data.IsEmpty() {
		return w, errEmptyWindow
	}
	if w.Start == "" {
		w.Start = s.labels[0]
	}
	if w.End == "" {
		w.End = s.labels[len(s.labels)-1]
	}

	ts, err := series.NarrowLabels(s.data, w.Start, w.End)
	if err != nil {
		return w, err
	}
	if ts.IsEmpty() {
		return w, errEmptyWindow
	}
	s.metrics.ObserveWindow(ts.Len())
	w.Series = ts
	return w, nil
}

// statusOf maps core errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, series.ErrInvalidRange), errors.Is(err, errInvalidTaper):
		return http.StatusBadRequest
	case errors.Is(err, errEmptyWindow),
		errors.Is(err, spectrum.ErrEmptySeries),
		errors.Is(err, render.ErrNothingToPlot):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func httpError(err error) *echo.HTTPError {
	he := echo.NewHTTPError(statusOf(err), err.Error())
	he.Internal = err
	return he
}

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"samples": s.data.Len(),
		"mean":    s.mean,
	})
}

func (s *Server) timePlot(c echo.Context) error {
	w, err := s.selectWindow(c)
	if err != nil {
		return httpError(err)
	}
	return s.png(c, "time", func(out io.Writer) error {
		return render.TimeChart(out, w.Series, s.chartOpts...)
	})
}

func (s *Server) frequencyPlot(c echo.Context) error {
	w, err := s.selectWindow(c)
	if err != nil {
		return httpError(err)
	}
	spec, err := s.spectra.Spectrum(w.tapered())
	if err != nil {
		return httpError(err)
	}
	return s.png(c, "frequency", func(out io.Writer) error {
		return render.FrequencyChart(out, spec, s.chartOpts...)
	})
}

// png renders into a buffer first so a failed render still gets a clean
// error response.
func (s *Server) png(c echo.Context, chart string, draw func(io.Writer) error) error {
	start := time.Now()
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		return httpError(err)
	}
	s.metrics.ObserveRender(chart, time.Since(start))

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

type seriesView struct {
	Start  string      `json:"start"`
	End    string      `json:"end"`
	Span   string      `json:"span"`
	Index  []time.Time `json:"index"`
	Values []float64   `json:"values"`
}

func (s *Server) seriesAPI(c echo.Context) error {
	w, err := s.selectWindow(c)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, seriesView{
		Start:  w.Start,
		End:    w.End,
		Span:   w.Series.Span().String(),
		Index:  w.Series.Index,
		Values: w.Series.Values,
	})
}

type spectrumView struct {
	Taper          string    `json:"taper"`
	Samples        int       `json:"samples"`
	YearsInWindow  float64   `json:"years_in_window"`
	BinFrequencies []float64 `json:"bin_frequencies"`
	Magnitudes     []float64 `json:"magnitudes"`
}

func (s *Server) spectrumAPI(c echo.Context) error {
	w, err := s.selectWindow(c)
	if err != nil {
		return httpError(err)
	}
	spec, err := s.spectra.Spectrum(w.tapered())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, spectrumView{
		Taper:          w.Taper.String(),
		Samples:        spec.Len(),
		YearsInWindow:  spectrum.YearsPerDataset(spec.Len()),
		BinFrequencies: spec.BinFrequencies,
		Magnitudes:     spec.Magnitudes,
	})
}

type timeView struct {
	Length   int       `json:"length"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Span     string    `json:"span"`
	Mean     float64   `json:"mean"`
	RMS      float64   `json:"rms"`
	Max      float64   `json:"max"`
	MaxAt    time.Time `json:"max_at"`
	Min      float64   `json:"min"`
	MinAt    time.Time `json:"min_at"`
	Range    float64   `json:"range"`
	Variance float64   `json:"variance"`
	StdDev   float64   `json:"std_dev"`
}

type peakView struct {
	Bin       int     `json:"bin"`
	Frequency float64 `json:"frequency"`
	Magnitude float64 `json:"magnitude"`
	Period    string  `json:"period"`
}

type frequencyView struct {
	BinCount int      `json:"bin_count"`
	DC       float64  `json:"dc"`
	Peak     peakView `json:"peak"`
	Centroid float64  `json:"centroid"`
	Energy   float64  `json:"energy"`
	Flatness float64  `json:"flatness"`
}

type levelView struct {
	Label     string  `json:"label"`
	Frequency float64 `json:"frequency"`
	Magnitude float64 `json:"magnitude"`
}

type summaryView struct {
	Time      timeView      `json:"time"`
	Frequency frequencyView `json:"frequency"`
	Peaks     []peakView    `json:"peaks"`
	Levels    []levelView   `json:"levels"`
}

// summary holds everything the index page and /api/summary report about a
// window.
type summary struct {
	Time   timestats.Stats
	Freq   freqstats.Stats
	Peaks  []freqstats.Peak
	Levels []spectrum.Level
}

// summarize computes the window statistics. Frequency-domain figures use
// the tapered values.
func (s *Server) summarize(w selection) (summary, error) {
	tapered := w.tapered()
	spec, err := s.spectra.Spectrum(tapered)
	if err != nil {
		return summary{}, err
	}
	levels, err := spectrum.ReferenceLevels(tapered)
	if err != nil {
		return summary{}, err
	}
	return summary{
		Time:   timestats.Calculate(w.Series),
		Freq:   freqstats.Calculate(spec),
		Peaks:  freqstats.Peaks(spec, peakCount),
		Levels: levels,
	}, nil
}

func newPeakView(p freqstats.Peak) peakView {
	return peakView{Bin: p.Bin, Frequency: p.Frequency, Magnitude: p.Magnitude, Period: p.Period.String()}
}

func (s *Server) summaryAPI(c echo.Context) error {
	w, err := s.selectWindow(c)
	if err != nil {
		return httpError(err)
	}
	sum, err := s.summarize(w)
	if err != nil {
		return httpError(err)
	}

	ts := sum.Time
	view := summaryView{
		Time: timeView{
			Length: ts.Length, Start: ts.Start, End: ts.End, Span: ts.Span.String(),
			Mean: ts.Mean, RMS: ts.RMS,
			Max: ts.Max, MaxAt: ts.MaxAt, Min: ts.Min, MinAt: ts.MinAt,
			Range: ts.Range, Variance: ts.Variance, StdDev: ts.StdDev,
		},
		Frequency: frequencyView{
			BinCount: sum.Freq.BinCount,
			DC:       sum.Freq.DC,
			Peak:     newPeakView(sum.Freq.Peak),
			Centroid: sum.Freq.Centroid,
			Energy:   sum.Freq.Energy,
			Flatness: sum.Freq.Flatness,
		},
		Peaks:  make([]peakView, 0, len(sum.Peaks)),
		Levels: make([]levelView, 0, len(sum.Levels)),
	}
	for _, p := range sum.Peaks {
		view.Peaks = append(view.Peaks, newPeakView(p))
	}
	for _, l := range sum.Levels {
		view.Levels = append(view.Levels, levelView{Label: l.Label, Frequency: l.Frequency, Magnitude: l.Magnitude})
	}
	return c.JSON(http.StatusOK, view)
}

type row struct {
	Time  time.Time
	Value float64
}

type pageData struct {
	Options []string
	Tapers  []string
	Start   string
	End     string
	Taper   string
	Span    time.Duration
	Error   string
	Summary summary
	Rows    []row
}

// index renders the explorer page. An unusable window still renders the
// page, with the error in place of the charts.
func (s *Server) index(c echo.Context) error {
	data := pageData{Options: s.labels, Tapers: window.Names()}

	status := http.StatusOK
	w, err := s.selectWindow(c)
	data.Start, data.End, data.Taper = w.Start, w.End, w.Taper.String()
	if err == nil {
		data.Span = w.Series.Span()
		data.Summary, err = s.summarize(w)
	}
	if err != nil {
		status = statusOf(err)
		data.Error = err.Error()
	} else {
		data.Rows = make([]row, w.Series.Len())
		for i := range data.Rows {
			data.Rows[i].Time, data.Rows[i].Value = w.Series.At(i)
		}
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		return err
	}
	return c.HTMLBlob(status, buf.Bytes())
}
