// Package metrics provides Prometheus metrics for the address console.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Metrics holds all Prometheus collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	upstreamTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	abortedTotal     *prometheus.CounterVec
	activeSessions   prometheus.Gauge
}

// New registers the collectors on reg. Tests pass a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "address_console_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "address_console_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: durationBuckets,
			},
			[]string{"method", "path"},
		),
		upstreamTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "address_console_upstream_requests_total",
				Help: "Total number of catalog backend calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		upstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "address_console_upstream_request_duration_seconds",
				Help:    "Catalog backend call duration in seconds",
				Buckets: durationBuckets,
			},
			[]string{"operation"},
		),
		abortedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "address_console_aborted_requests_total",
				Help: "Requests superseded by a newer request of the same kind",
			},
			[]string{"path"},
		),
		activeSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "address_console_active_sessions",
				Help: "Operator sessions holding an address page cache",
			},
		),
	}
}

// ObserveRequest records an HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveUpstream records a catalog backend call.
func (m *Metrics) ObserveUpstream(op, outcome string, elapsed time.Duration) {
	m.upstreamTotal.WithLabelValues(op, outcome).Inc()
	m.upstreamDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) IncAborted(path string) {
	m.abortedTotal.WithLabelValues(path).Inc()
}

func (m *Metrics) SetSessions(n int) {
	m.activeSessions.Set(float64(n))
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
