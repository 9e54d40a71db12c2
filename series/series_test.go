package series

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cwbudde/esios-spectrum/internal/testutil"
)

func mustNew(t *testing.T, n int) TimeSeries {
	t.Helper()
	ts, err := New(testutil.TenMinuteIndex(n), testutil.Ramp(10, 10, n))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return ts
}

func TestNewRejectsMismatchAndDisorder(t *testing.T) {
	idx := testutil.TenMinuteIndex(3)
	if _, err := New(idx, []float64{1, 2}); err == nil {
		t.Fatal("expected length mismatch error")
	}

	idx[2] = idx[0]
	if _, err := New(idx, []float64{1, 2, 3}); err == nil {
		t.Fatal("expected ordering error")
	}
}

func TestNewCopiesInput(t *testing.T) {
	idx := testutil.TenMinuteIndex(2)
	vals := []float64{1, 2}
	ts, err := New(idx, vals)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	vals[0] = 99
	if ts.Values[0] != 1 {
		t.Fatalf("series aliases caller slice: %v", ts.Values)
	}
}

func TestAccessors(t *testing.T) {
	ts := mustNew(t, 4)
	if ts.Len() != 4 || ts.IsEmpty() {
		t.Fatalf("Len=%d IsEmpty=%v", ts.Len(), ts.IsEmpty())
	}
	if got := ts.Span(); got != 30*time.Minute {
		t.Fatalf("Span = %v, want 30m", got)
	}
	at, v := ts.At(1)
	if !at.Equal(testutil.ReferenceStart.Add(testutil.TenMinutes)) || v != 20 {
		t.Fatalf("At(1) = %v, %v", at, v)
	}

	var empty TimeSeries
	if !empty.IsEmpty() || !empty.Start().IsZero() || !empty.End().IsZero() || empty.Span() != 0 {
		t.Fatal("empty series accessors should be zero")
	}
}

func TestLoad(t *testing.T) {
	idx := testutil.TenMinuteIndex(3)
	doc := testutil.CSV(idx, []float64{10, 20, 30})

	ts, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	want, _ := New(idx, []float64{10, 20, 30})
	if !ts.Equal(want) {
		t.Fatalf("Load = %+v, want %+v", ts, want)
	}
}

func TestLoadParsesOffsetsAndLayouts(t *testing.T) {
	doc := "datetime,value\n" +
		"2018-09-02T00:00:00.000+02:00,1\n" +
		"2018-09-02 00:10:00+02:00,2\n" +
		"2018-09-01T22:20:00,3\n" +
		"2018-09-01 22:30,4\n"

	ts, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	want := testutil.Index(time.Date(2018, 9, 1, 22, 0, 0, 0, time.UTC), testutil.TenMinutes, 4)
	for i := range want {
		if !ts.Index[i].Equal(want[i]) {
			t.Fatalf("Index[%d] = %v, want %v", i, ts.Index[i], want[i])
		}
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"missing value column", "datetime,other\n2018-09-02T00:00:00Z,1\n", `"value"`},
		{"missing datetime column", "time,value\n2018-09-02T00:00:00Z,1\n", `"datetime"`},
		{"empty document", "", "header"},
		{"bad datetime", "datetime,value\nyesterday,1\n", "row 2"},
		{"bad value", "datetime,value\n2018-09-02T00:00:00Z,lots\n", "not numeric"},
		{"short row", "datetime,value\n2018-09-02T00:00:00Z\n", "fields"},
		{"unordered", "datetime,value\n2018-09-02T00:10:00Z,1\n2018-09-02T00:00:00Z,2\n", "increasing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			if !errors.Is(err, ErrMalformedSource) {
				t.Fatalf("err = %v, want ErrMalformedSource", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("err = %q, want mention of %s", err, tt.msg)
			}
		})
	}
}

func TestLoadWithOptions(t *testing.T) {
	doc := "datetime;value\n02/09/2018 00:00;1,5\n"
	_, err := Load(strings.NewReader(doc), WithDelimiter(';'), WithLayouts("02/01/2006 15:04"))
	// "1,5" is not a Go float even with a custom delimiter.
	if !errors.Is(err, ErrMalformedSource) {
		t.Fatalf("err = %v, want ErrMalformedSource", err)
	}

	doc = "datetime;value\n02/09/2018 00:00;1.5\n"
	madrid := time.FixedZone("CEST", 2*3600)
	ts, err := Load(strings.NewReader(doc), WithDelimiter(';'), WithLayouts("02/01/2006 15:04"), WithLocation(madrid))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if want := time.Date(2018, 9, 1, 22, 0, 0, 0, time.UTC); !ts.Index[0].Equal(want) {
		t.Fatalf("Index[0] = %v, want %v", ts.Index[0], want)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	doc := testutil.CSV(testutil.TenMinuteIndex(5), testutil.Ramp(1, 1, 5))
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	ts, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if ts.Len() != 5 {
		t.Fatalf("Len = %d, want 5", ts.Len())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
