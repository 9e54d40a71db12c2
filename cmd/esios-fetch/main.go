// Command esios-fetch downloads an ESIOS indicator and stores it as
// dump.json and data.csv for the dashboard.
//
// Usage:
//
//	esios-fetch [flags]
//
// The API token is read from the configuration file or ESIOS_TOKEN.
//
// Examples:
//
//	ESIOS_TOKEN=... esios-fetch
//	esios-fetch -config esios.yaml -start 2018-09-02T00:00 -end 2018-10-06T23:00
//	esios-fetch -indicator 1293 -out data
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
	"time"

	"github.com/cwbudde/esios-spectrum/esios"
	"github.com/cwbudde/esios-spectrum/internal/config"
	"github.com/cwbudde/esios-spectrum/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("esios-fetch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "config.yaml", "config file path (missing file means defaults)")
	indicator := fs.String("indicator", "", "indicator id (default from config, 1293)")
	start := fs.String("start", "", "start date (default from config)")
	end := fs.String("end", "", "end date (default from config)")
	out := fs.String("out", "", "output directory (default from config)")
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")
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
	if *indicator != "" {
		cfg.Esios.Indicator = *indicator
	}
	if *start != "" {
		cfg.Esios.StartDate = *start
	}
	if *end != "" {
		cfg.Esios.EndDate = *end
	}
	if *out != "" {
		cfg.Data.Dir = *out
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer closer.Close()

	query, err := cfg.Esios.Query()
	if err != nil {
		log.Error().Err(err).Msg("invalid query")
		return 1
	}

	client, err := esios.NewClient(cfg.Esios.Config, esios.WithLogger(log))
	if err != nil {
		log.Error().Err(err).Msg("client configuration")
		return 1
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	resp, err := client.FetchIndicator(ctx, cfg.Esios.Indicator, query)
	if err != nil {
		log.Error().Err(err).Str("indicator", cfg.Esios.Indicator).Msg("fetch failed")
		return 1
	}

	if err := esios.Persist(cfg.Data.Dir, resp); err != nil {
		log.Error().Err(err).Str("dir", cfg.Data.Dir).Msg("persist failed")
		return 1
	}

	log.Info().
		Str("dump", filepath.Join(cfg.Data.Dir, esios.DumpFile)).
		Str("data", filepath.Join(cfg.Data.Dir, esios.DataFile)).
		Int("values", len(resp.Indicator.Values)).
		Msg("indicator stored")
	return 0
}
