// Package metrics declares the Prometheus collectors exported on /metrics.
// Collectors register with the default registry at init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests.
	// Labels: method, route (chi route pattern), status (numeric code).
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travellog_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration measures request latency by route.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "travellog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// PlacesRequests counts calls to the places provider.
	// Labels: operation ("autocomplete", "details"), outcome ("success",
	// "upstream_error", "rejected").
	PlacesRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travellog_places_requests_total",
			Help: "Total number of places provider requests",
		},
		[]string{"operation", "outcome"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "travellog_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// PhotoUploads counts photo uploads by outcome ("stored", "rejected", "error").
	PhotoUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travellog_photo_uploads_total",
			Help: "Total number of photo uploads",
		},
		[]string{"outcome"},
	)

	// RecordsCreated counts successfully created travel records.
	RecordsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "travellog_records_created_total",
			Help: "Total number of travel records created",
		},
	)
)
