// Package metrics holds the Prometheus collectors exposed by mascc web.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a private registry with the dashboard's collectors.
type Metrics struct {
	Registry *prometheus.Registry

	requests   *prometheus.CounterVec
	renders    *prometheus.HistogramVec
	rowsLoaded *prometheus.GaugeVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mascc_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		renders: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mascc_render_duration_seconds",
			Help:    "Time spent aggregating and rendering a chart.",
			Buckets: prometheus.DefBuckets,
		}, []string{"chart"}),
		rowsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mascc_rows_loaded",
			Help: "Rows loaded at startup, by dataset.",
		}, []string{"dataset"}),
	}
	m.Registry.MustRegister(m.requests, m.renders, m.rowsLoaded)
	return m
}

// SetRows records the row count of a loaded dataset.
func (m *Metrics) SetRows(dataset string, n int) {
	m.rowsLoaded.WithLabelValues(dataset).Set(float64(n))
}

// ObserveRender records the duration of one chart render.
func (m *Metrics) ObserveRender(chart string, d time.Duration) {
	m.renders.WithLabelValues(chart).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Instrument counts requests to next under route.
func (m *Metrics) Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)
		m.requests.WithLabelValues(route, strconv.Itoa(sw.code)).Inc()
	})
}

// statusWriter records the status code written through it.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
