// Command esios-dashboard serves the demand explorer over the CSV written by
// esios-fetch.
//
// Usage:
//
//	esios-dashboard [flags]
//
// Examples:
//
//	esios-dashboard
//	esios-dashboard -config esios.yaml
//	LISTEN_ADDR=:9000 DATA_DIR=/srv/esios esios-dashboard
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cwbudde/esios-spectrum/esios"
	"github.com/cwbudde/esios-spectrum/internal/config"
	"github.com/cwbudde/esios-spectrum/internal/dashboard"
	"github.com/cwbudde/esios-spectrum/internal/logger"
	"github.com/cwbudde/esios-spectrum/series"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("esios-dashboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "config.yaml", "config file path (missing file means defaults)")
	addr := fs.String("addr", "", "listen address (default from config, :8501)")
	data := fs.String("data", "", "CSV file to serve (default <data.dir>/data.csv)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	path := filepath.Join(cfg.Data.Dir, esios.DataFile)
	if *data != "" {
		path = *data
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer closer.Close()

	ts, err := series.LoadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("load data")
		return 1
	}
	log.Info().
		Str("path", path).
		Int("samples", ts.Len()).
		Time("start", ts.Start()).
		Time("end", ts.End()).
		Msg("data loaded")

	srv := dashboard.New(ts, cfg.Server, dashboard.WithLogger(log))
	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("dashboard")
		return 1
	}
	return 0
}
