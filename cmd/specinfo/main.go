// Command specinfo prints time and frequency properties of a demand CSV.
//
// Usage:
//
//	specinfo [flags] [data.csv]
//
// Without arguments it reads data/data.csv.
//
// Examples:
//
//	specinfo
//	specinfo -start 2018-09-10T00:00 -end 2018-09-16T23:50 data/data.csv
//	specinfo -peaks 10 -bins
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/esios-spectrum/dsp/spectrum"
	"github.com/cwbudde/esios-spectrum/dsp/window"
	"github.com/cwbudde/esios-spectrum/esios"
	"github.com/cwbudde/esios-spectrum/series"
	freqstats "github.com/cwbudde/esios-spectrum/stats/frequency"
	timestats "github.com/cwbudde/esios-spectrum/stats/time"
)

const layout = "2006-01-02 15:04"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("specinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	start := fs.String("start", "", "first timestamp of the window (default: first sample)")
	end := fs.String("end", "", "last timestamp of the window (default: last sample)")
	peaks := fs.Int("peaks", 5, "number of spectral peaks to list")
	bins := fs.Bool("bins", false, "also print the one-sided spectrum bin by bin")
	taperName := fs.String("taper", "none", "taper applied before the transform ("+strings.Join(window.Names(), ", ")+")")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: specinfo [flags] [data.csv]\n\n")
		fmt.Fprintf(stderr, "Prints time and frequency properties of a demand series.\n")
		fmt.Fprintf(stderr, "Without a file argument, reads %s.\n\n", filepath.Join("data", esios.DataFile))
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  specinfo -start 2018-09-10T00:00 -end 2018-09-16T23:50\n")
		fmt.Fprintf(stderr, "  specinfo -peaks 10 -bins data/data.csv\n")
		fmt.Fprintf(stderr, "  specinfo -taper hann\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	taper, err := window.Parse(*taperName)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	path := filepath.Join("data", esios.DataFile)
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	ts, err := series.LoadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	from, to := *start, *end
	if from == "" && !ts.IsEmpty() {
		from = ts.Start().Format("2006-01-02T15:04:05Z07:00")
	}
	if to == "" && !ts.IsEmpty() {
		to = ts.End().Format("2006-01-02T15:04:05Z07:00")
	}
	win, err := series.NarrowLabels(ts, from, to)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	values := window.Apply(taper, win.Values)
	spec, err := spectrum.Compute(values)
	if errors.Is(err, spectrum.ErrEmptySeries) {
		fmt.Fprintf(stderr, "error: window %s .. %s holds no samples\n", from, to)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	levels, err := spectrum.ReferenceLevels(values)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if err := printReport(stdout, win, taper, spec, levels, *peaks, *bins); err != nil {
		fmt.Fprintf(stderr, "error: failed to write output: %v\n", err)
		return 1
	}
	return 0
}

func printReport(w io.Writer, ts series.TimeSeries, taper window.Type, spec spectrum.FrequencySpectrum, levels []spectrum.Level, peakCount int, bins bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	st := timestats.Calculate(ts)
	fmt.Fprintf(tw, "Window\t%s .. %s\t(%s, %d samples)\n", st.Start.Format(layout), st.End.Format(layout), st.Span, st.Length)
	fmt.Fprintf(tw, "Mean [MW]\t%.3f\n", st.Mean/1000)
	fmt.Fprintf(tw, "Min [MW]\t%.3f\tat %s\n", st.Min/1000, st.MinAt.Format(layout))
	fmt.Fprintf(tw, "Max [MW]\t%.3f\tat %s\n", st.Max/1000, st.MaxAt.Format(layout))
	fmt.Fprintf(tw, "Std dev [MW]\t%.3f\n", st.StdDev/1000)

	fst := freqstats.Calculate(spec)
	fmt.Fprintf(tw, "Years in window\t%.6f\n", spectrum.YearsPerDataset(spec.Len()))
	fmt.Fprintf(tw, "Taper\t%s\t(ENBW %.4f bins)\n", taper, window.ENBW(taper))
	fmt.Fprintf(tw, "DC\t%.6g\n", fst.DC)
	fmt.Fprintf(tw, "Centroid [cycles/year]\t%.3f\n", fst.Centroid)
	fmt.Fprintf(tw, "Flatness\t%.4f\n", fst.Flatness)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(tw, "Peak\tBin\tFrequency [cycles/year]\tPeriod\tMagnitude\n")
	fmt.Fprintf(tw, "----\t---\t-----------------------\t------\t---------\n")
	for i, p := range freqstats.Peaks(spec, peakCount) {
		fmt.Fprintf(tw, "%d\t%d\t%.3f\t%s\t%.6g\n", i+1, p.Bin, p.Frequency, p.Period, p.Magnitude)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(tw, "Reference\tFrequency [cycles/year]\tMagnitude\n")
	fmt.Fprintf(tw, "---------\t-----------------------\t---------\n")
	for _, l := range levels {
		fmt.Fprintf(tw, "%s\t%.4f\t%.6g\n", l.Label, l.Frequency, l.Magnitude)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !bins {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintf(tw, "Bin\tFrequency [cycles/year]\tMagnitude\n")
	for k := 0; k <= spec.Len()/2; k++ {
		fmt.Fprintf(tw, "%d\t%.4f\t%.6g\n", k, spec.BinFrequencies[k], spec.Magnitudes[k])
	}
	return tw.Flush()
}
