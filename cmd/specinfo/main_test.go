package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/esios-spectrum/internal/testutil"
)

func writeCSV(t *testing.T, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	doc := testutil.CSV(testutil.TenMinuteIndex(n), testutil.DailyDemand(28000, 6000, n))
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunReport(t *testing.T) {
	path := writeCSV(t, 3*144)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-peaks", "3", "-bins", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{
		"2018-09-02 00:00 .. 2018-09-04 23:50",
		"432 samples",
		"28.000",
		"1/Year",
		"1/day",
		"1/hour",
		"Bin  Frequency",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestRunWindow(t *testing.T) {
	path := writeCSV(t, 3*144)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-start", "2018-09-03T00:00", "-end", "2018-09-03T23:50", path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "144 samples") {
		t.Fatalf("output:\n%s", stdout.String())
	}

	stdout.Reset()
	if code := run([]string{"-taper", "hann", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "hann") {
		t.Fatalf("output:\n%s", stdout.String())
	}
}

func TestRunErrors(t *testing.T) {
	path := writeCSV(t, 10)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{filepath.Join(t.TempDir(), "nope.csv")}, "error:"},
		{"bad bound", []string{"-start", "soon", path}, "invalid range"},
		{"unknown taper", []string{"-taper", "kaiser", path}, "unknown taper"},
		{"empty window", []string{"-start", "2019-01-01", "-end", "2019-01-02", path}, "holds no samples"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 1 {
				t.Fatalf("exit = %d, want 1", code)
			}
			if !strings.Contains(stderr.String(), tt.want) {
				t.Fatalf("stderr = %q, want %q", stderr.String(), tt.want)
			}
		})
	}
}
