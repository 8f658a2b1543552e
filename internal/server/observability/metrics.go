// Package observability owns the prometheus collectors of the carpool server.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "carpool"

// Ledger outcomes recorded by RequestResolved.
const (
	OutcomeAccepted     = "accepted"
	OutcomeRejected     = "rejected"
	OutcomeNoSeats      = "no_seats"
	OutcomeInvalidState = "invalid_state"
	OutcomeForbidden    = "forbidden"
	OutcomeDuplicate    = "duplicate"
)

// Metrics groups the collectors registered on one registry. All methods are
// safe on a nil receiver, which records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	requestsSubmitted *prometheus.CounterVec
	requestsResolved  *prometheus.CounterVec
	ridesCreated      prometheus.Counter
	storeRetries      prometheus.Counter
	cacheLookups      *prometheus.CounterVec
}

// NewMetrics registers the carpool collectors, plus the Go runtime and
// process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
			[]string{"method", "route", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distribution",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		requestsSubmitted: f.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "ride_requests_submitted_total", Help: "Ride request submissions by outcome"},
			[]string{"outcome"},
		),
		requestsResolved: f.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "ride_requests_resolved_total", Help: "Ride request resolutions by outcome"},
			[]string{"outcome"},
		),
		ridesCreated: f.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "rides_created_total", Help: "Rides posted"},
		),
		storeRetries: f.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "store_retries_total", Help: "Store operations retried after a transient failure"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "ride_cache_lookups_total", Help: "Ride list cache lookups by result"},
			[]string{"result"},
		),
	}
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, route, code).Inc()
	m.httpDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
}

func (m *Metrics) RequestSubmitted(outcome string) {
	if m == nil {
		return
	}
	m.requestsSubmitted.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RequestResolved(outcome string) {
	if m == nil {
		return
	}
	m.requestsResolved.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RideCreated() {
	if m == nil {
		return
	}
	m.ridesCreated.Inc()
}

func (m *Metrics) StoreRetry() {
	if m == nil {
		return
	}
	m.storeRetries.Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
