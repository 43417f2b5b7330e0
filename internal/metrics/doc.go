// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are registered with the default registry via promauto and are
exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Recommendation Metrics:
  - recommend_requests_total: Served responses (counter)
    Labels: path (cold, warm, latent), cached
  - recommend_duration_seconds: Response latency (histogram)
  - recommend_items_returned: Items per response (histogram)
  - recommend_degraded_total: Responses with a failed strategy (counter)
  - interactions_recorded_total: Interactions by update path (counter)

Model Metrics:
  - model_rebuild_duration_seconds: Full rebuild duration (histogram)
  - model_rebuilds_total: Rebuilds by status (counter)
  - model_rebuilds_skipped_total: Skipped rebuild requests by reason (counter)
  - model_rebuild_last_success_timestamp: Unix time of last good rebuild (gauge)
  - model_version: Current model version (gauge)
  - model_entities: Snapshot sizes by kind (gauge)
  - latent_factor_repairs_total: Repaired NaN/Inf factor values (counter)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_state_transitions_total (counter)

# Engine Integration

RecommendObserver implements recommend.Observer and is passed to the engine
at construction:

	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
	    Gateway:  store,
	    Scorers:  scorers,
	    Observer: metrics.NewRecommendObserver(),
	    ...
	}, logger)

RecordLatentRepair matches the latent model repair hook signature.

# Thread Safety

All collectors are safe for concurrent use.
*/
package metrics
