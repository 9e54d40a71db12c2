// Package dashboard serves the demand explorer: an HTML page with window
// selectors, the two charts as PNG, JSON views of the window and Prometheus
// metrics.
package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cwbudde/esios-spectrum/internal/cache"
	"github.com/cwbudde/esios-spectrum/internal/config"
	"github.com/cwbudde/esios-spectrum/internal/render"
	"github.com/cwbudde/esios-spectrum/series"
	timestats "github.com/cwbudde/esios-spectrum/stats/time"
)

//go:embed templates/*.html
var templates embed.FS

const defaultShutdownTimeout = 10 * time.Second

// Server is the dashboard HTTP server. The loaded series is read-only; the
// spectrum cache is the only state shared between requests.
type Server struct {
	echo      *echo.Echo
	cfg       config.ServerConfig
	log       zerolog.Logger
	data      series.TimeSeries
	labels    []string
	mean      float64
	spectra   *cache.Spectra
	metrics   *Metrics
	page      *template.Template
	chartOpts []render.Option
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithMetrics replaces the metrics set, e.g. to share one registry.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithChartSize sets the PNG size of both charts.
func WithChartSize(width, height int) Option {
	return func(s *Server) {
		s.chartOpts = append(s.chartOpts, render.WithSize(width, height))
	}
}

// New builds a server over data.
func New(data series.TimeSeries, cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		log:    zerolog.Nop(),
		data:   data,
		labels: make([]string, data.Len()),
		mean:   timestats.Mean(data.Values),
		page:   template.Must(template.New("index.html").Funcs(funcs).ParseFS(templates, "templates/index.html")),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	var cacheOpts []cache.Option
	if cfg.CacheCapacity > 0 {
		cacheOpts = append(cacheOpts, cache.WithCapacity(cfg.CacheCapacity))
	}
	cacheOpts = append(cacheOpts, cache.WithObserver(s.metrics.ObserveCache))
	s.spectra = cache.NewSpectra(cacheOpts...)

	for i, t := range data.Index {
		s.labels[i] = label(t)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(s.metrics.Middleware())
	e.Use(requestLogging(s.log))
	e.Use(recoverer(s.log))

	s.echo = e
	s.routes()

	return s
}

func (s *Server) routes() {
	s.echo.GET("/", s.index)
	s.echo.GET("/healthz", s.healthz)

	plot := s.echo.Group("/plot")
	plot.GET("/time.png", s.timePlot)
	plot.GET("/frequency.png", s.frequencyPlot)

	api := s.echo.Group("/api")
	api.GET("/series", s.seriesAPI)
	api.GET("/spectrum", s.spectrumAPI)
	api.GET("/summary", s.summaryAPI)

	path := s.cfg.MetricsPath
	if path == "" {
		path = "/metrics"
	}
	s.echo.GET(path, echo.WrapHandler(s.metrics.Handler()))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.echo.Server.ReadTimeout = s.cfg.ReadTimeout
	s.echo.Server.WriteTimeout = s.cfg.WriteTimeout

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Int("samples", s.data.Len()).Msg("dashboard listening")
		if err := s.echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("dashboard: listen: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashboard: shutdown: %w", err)
	}
	s.log.Info().Msg("dashboard stopped")
	return nil
}

// apiResponse is the JSON envelope for errors.
type apiResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, apiResponse{Status: code, Message: msg})
	}
	if werr != nil {
		s.log.Error().Err(werr).Msg("write error response")
	}
}

func label(t time.Time) string {
	return t.Format(time.RFC3339)
}
