// Package metrics provides Prometheus metrics for the agent service.
// It tracks chat requests, extraction outcomes, and outbound searches.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by route and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sous",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	// RequestLatency tracks request latency distribution by route.
	RequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sous",
			Name:      "request_latency_seconds",
			Help:      "Request latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"route"},
	)

	// ExtractionsTotal counts ingredient extraction calls by outcome
	// (ok, empty, error).
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sous",
			Name:      "extractions_total",
			Help:      "Total ingredient extraction calls by outcome",
		},
		[]string{"outcome"},
	)

	// SearchesTotal counts outbound search calls by kind (web, image) and
	// outcome (found, not_found, error).
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sous",
			Name:      "searches_total",
			Help:      "Total outbound search API calls",
		},
		[]string{"kind", "outcome"},
	)
)

// Extraction outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Search outcomes.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
)

// RecordRequest records one completed HTTP request.
func RecordRequest(route string, statusCode int, latency time.Duration) {
	RequestsTotal.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	RequestLatency.WithLabelValues(route).Observe(latency.Seconds())
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
