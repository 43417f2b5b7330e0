// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests served",
		},
		[]string{"path", "cached"}, // path: "cold", "warm", "latent"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Time to produce a recommendation response in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"path"},
	)

	RecommendItemsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_items_returned",
			Help:    "Number of items per recommendation response",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	RecommendDegradedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_degraded_total",
			Help: "Total number of responses built with at least one failed strategy",
		},
		[]string{"path"},
	)

	// Interaction Metrics
	InteractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_recorded_total",
			Help: "Total number of interactions recorded",
		},
		[]string{"update_path"}, // "incremental", "rebuild", "deferred"
	)

	// Model Rebuild Metrics
	RebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_rebuild_duration_seconds",
			Help:    "Duration of full model rebuilds in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	RebuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_rebuilds_total",
			Help: "Total number of full model rebuilds",
		},
		[]string{"status"}, // "success", "failure"
	)

	RebuildsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_rebuilds_skipped_total",
			Help: "Total number of rebuild requests that were not executed",
		},
		[]string{"reason"}, // "in_progress", "rate_limited", "circuit_open"
	)

	RebuildLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_rebuild_last_success_timestamp",
			Help: "Unix timestamp of the last successful rebuild",
		},
	)

	// Model State Metrics
	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_version",
			Help: "Current model version (increments on every model mutation)",
		},
	)

	ModelEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_entities",
			Help: "Number of entities in the current model snapshot",
		},
		[]string{"kind"}, // "users", "products", "interactions", "matrix_users", "matrix_products", "latent_users", "latent_items"
	)

	LatentRepairsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "latent_factor_repairs_total",
			Help: "Total number of non-finite latent factor values repaired",
		},
		[]string{"site"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Store Metrics
	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_gc_runs_total",
			Help: "Total number of store value log garbage collection runs",
		},
		[]string{"status"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRebuild records the outcome of a full rebuild.
func RecordRebuild(duration time.Duration, err error) {
	RebuildDuration.Observe(duration.Seconds())
	if err != nil {
		RebuildsTotal.WithLabelValues("failure").Inc()
		return
	}
	RebuildsTotal.WithLabelValues("success").Inc()
	RebuildLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordRebuildSkipped records a rebuild request that did not run.
func RecordRebuildSkipped(reason string) {
	RebuildsSkipped.WithLabelValues(reason).Inc()
}

// RecordLatentRepair records repaired non-finite factor values.
// It matches the algorithms.RepairHook signature.
func RecordLatentRepair(site string, repaired int) {
	LatentRepairsTotal.WithLabelValues(site).Add(float64(repaired))
}

// RecordCircuitBreakerTransition records a state change. States use the
// circuit_breaker_state encoding.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(circuitStateValue(to))
}

// RecordStoreGC records a store garbage collection run.
func RecordStoreGC(err error) {
	if err != nil {
		StoreGCRuns.WithLabelValues("failure").Inc()
		return
	}
	StoreGCRuns.WithLabelValues("success").Inc()
}

func circuitStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}
