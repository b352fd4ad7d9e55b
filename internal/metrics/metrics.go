// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

// Package metrics provides Prometheus instrumentation for the edge tier:
// inbound proxy traffic, outbound backend latency, failure classes and the
// circuit breaker state.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Inbound edge traffic
	ProxyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edge_requests_total",
			Help: "Total inbound requests handled by the edge tier",
		},
		[]string{"method", "path", "status"},
	)

	ProxyRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edge_request_duration_seconds",
			Help:    "Duration of inbound edge requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "edge_active_requests",
			Help: "Number of requests currently in flight",
		},
	)

	// Outbound backend calls
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Duration of outbound fleet backend calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)

	BackendFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_failures_total",
			Help: "Backend call failures by classification",
		},
		[]string{"class"}, // "upstream_error", "malformed", "transport"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "backend_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordProxyRequest records one completed inbound request.
func RecordProxyRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	ProxyRequestsTotal.WithLabelValues(method, path, code).Inc()
	ProxyRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordBackendRequest records one completed outbound backend call.
func RecordBackendRequest(method string, status int, duration time.Duration) {
	BackendRequestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordBackendFailure counts a failed backend call by classification.
func RecordBackendFailure(class string) {
	BackendFailuresTotal.WithLabelValues(class).Inc()
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		ActiveRequests.Inc()
	} else {
		ActiveRequests.Dec()
	}
}
