package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard collectors on a private registry, so several
// servers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	cacheLookups    *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec
	windowSamples   prometheus.Histogram
}

// NewMetrics registers the dashboard collectors together with the Go and
// process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "esios_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "esios_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method", "class"},
		),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "esios_http_in_flight_requests",
			Help: "Current number of in-flight HTTP requests",
		}),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "esios_spectrum_cache_lookups_total",
				Help: "Spectrum cache lookups by result",
			},
			[]string{"result"},
		),
		renderDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "esios_chart_render_duration_seconds",
				Help:    "Chart rendering duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"chart"},
		),
		windowSamples: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "esios_window_samples",
			Help:    "Number of samples in the selected window",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCache counts one spectrum cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// ObserveRender records how long rendering chart took.
func (m *Metrics) ObserveRender(chart string, d time.Duration) {
	m.renderDuration.WithLabelValues(chart).Observe(d.Seconds())
}

// ObserveWindow records the size of a selected window.
func (m *Metrics) ObserveWindow(samples int) {
	m.windowSamples.Observe(float64(samples))
}

// Middleware records request metrics labelled by route template, which keeps
// label cardinality independent of query strings.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.inFlight.Inc()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
			m.requestDuration.WithLabelValues(route, method, statusClass(status)).Observe(time.Since(start).Seconds())
			m.inFlight.Dec()

			return nil
		}
	}
}

func statusClass(code int) string {
	switch {
	case code >= 100 && code < 200:
		return "1xx"
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
