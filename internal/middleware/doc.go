// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package middleware provides chi-compatible HTTP middleware.

Key Components:

  - RequestID: UUID request IDs, echoed in X-Request-ID and stored for logging.Ctx
  - AccessLog: one zerolog line per request, level chosen by status class
  - PrometheusMetrics: request count, latency and in-flight gauge per chi route

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

Metrics are labeled by route pattern ("/api/v1/recommendations/{userID}"),
never by raw path, so user IDs do not reach Prometheus label values.
*/
package middleware
