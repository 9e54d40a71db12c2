package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/esios-spectrum/esios"
	"github.com/cwbudde/esios-spectrum/internal/config"
	"github.com/cwbudde/esios-spectrum/series"
)

const body = `{"indicator":{"id":1293,"name":"Demanda real","values":[
{"value":24500.5,"datetime":"2018-09-02T00:00:00.000+02:00","geo_id":8741},
{"value":24100,"datetime":"2018-09-02T00:10:00.000+02:00","geo_id":8741}
]}}`

func TestRun(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "out")
	t.Setenv(config.EnvBaseURL, srv.URL)
	t.Setenv(config.EnvToken, "secret")
	t.Setenv(config.EnvLogLevel, "disabled")

	var stderr bytes.Buffer
	args := []string{"-config", filepath.Join(t.TempDir(), "none.yaml"), "-out", dir, "-start", "2018-09-02", "-end", "2018-09-03"}
	if code := run(context.Background(), args, &stderr); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(query, "start_date=2018-09-02T00%3A00%3A00") {
		t.Fatalf("query = %q", query)
	}
	if _, err := os.Stat(filepath.Join(dir, esios.DumpFile)); err != nil {
		t.Fatal(err)
	}
	ts, err := series.LoadFile(filepath.Join(dir, esios.DataFile))
	if err != nil {
		t.Fatalf("stored CSV does not load: %v", err)
	}
	if ts.Len() != 2 {
		t.Fatalf("len = %d", ts.Len())
	}
}

func TestRunFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	none := filepath.Join(t.TempDir(), "none.yaml")
	tests := []struct {
		name  string
		token string
		args  []string
	}{
		{"missing token", "", []string{"-config", none}},
		{"rejected", "secret", []string{"-config", none, "-out", t.TempDir()}},
		{"bad dates", "secret", []string{"-config", none, "-start", "2018-10-01", "-end", "2018-09-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(config.EnvBaseURL, srv.URL)
			t.Setenv(config.EnvToken, tt.token)
			t.Setenv(config.EnvLogLevel, "disabled")

			var stderr bytes.Buffer
			if code := run(context.Background(), tt.args, &stderr); code != 1 {
				t.Fatalf("exit = %d, want 1", code)
			}
		})
	}
}
