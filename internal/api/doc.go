// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package api provides the HTTP surface of the recommendation engine using the
chi router.

# Endpoints

Recommendations:
  - GET  /api/v1/recommendations/{userID}?k=20   hybrid ranking (cold or warm path)
  - GET  /api/v1/recommendations/{userID}/latent latent factor ranking
  - GET  /api/v1/recommendations/status          model snapshot state

Interactions:
  - POST /api/v1/interactions                    record view, add_to_cart or purchase

Catalog:
  - GET  /api/v1/products                        full catalog
  - GET  /api/v1/products/search                 filter by query, category, brand
  - GET  /api/v1/products/{productID}            single product

Diagnostics (only when dev endpoints are enabled):
  - GET  /api/v1/dev/strategies/{strategy}/{userID}  raw score vector of one strategy
  - GET  /api/v1/dev/demographics?location=NY&k=20   demographic ranking for a location

Operations:
  - GET  /health/live, /health/ready
  - GET  /metrics                                 Prometheus exposition

# Middleware

Global: request ID, access log, RealIP, Recoverer, CORS (go-chi/cors).
API routes add per-IP rate limiting (go-chi/httprate) and Prometheus metrics.

# Responses

Every JSON response uses the models.APIResponse envelope. Engine sentinel
errors map to HTTP status codes in respondEngineError.
*/
package api
