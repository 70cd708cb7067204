package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the application.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	mergesTotal     *prometheus.CounterVec
	taxComputations *prometheus.CounterVec
}

// NewMetrics initialises the registry and base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "submitsmart_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "submitsmart_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	merges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "submitsmart_ledger_merges_total",
		Help: "Ledger merge attempts by outcome.",
	}, []string{"outcome"})
	taxes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "submitsmart_tax_computations_total",
		Help: "Corporation Tax computations by rate band.",
	}, []string{"band"})
	registry.MustRegister(requests, duration, merges, taxes)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		mergesTotal:     merges,
		taxComputations: taxes,
	}
}

// Merge outcome labels.
const (
	MergeOutcomeApplied    = "applied"
	MergeOutcomeDuplicate  = "duplicate"
	MergeOutcomeRejected   = "rejected"
	MergeOutcomeUnbalanced = "unbalanced"
)

// RecordMerge counts a ledger merge attempt by outcome.
func (m *Metrics) RecordMerge(outcome string) {
	if m == nil {
		return
	}
	m.mergesTotal.WithLabelValues(outcome).Inc()
}

// RecordTaxComputation counts a computation by rate band.
func (m *Metrics) RecordTaxComputation(band string) {
	if m == nil {
		return
	}
	m.taxComputations.WithLabelValues(band).Inc()
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Registerer exposes the registry for registering custom metrics.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
