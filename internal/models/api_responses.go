// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package models

import (
	"time"
)

// APIResponse is the envelope returned by every HTTP endpoint.
//
// Status is "success" or "error" for API routes; the readiness probe also
// uses "ready" and "not_ready".
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	Timestamp    time.Time `json:"timestamp"`
	QueryTimeMS  int64     `json:"query_time_ms,omitempty"`
	ModelVersion uint64    `json:"model_version,omitempty"`
	RequestID    string    `json:"request_id,omitempty"`
}

// APIError is the error body of an APIResponse.
//
// Codes in use:
//   - VALIDATION_ERROR: malformed body or query parameter
//   - INVALID_USER_ID, INVALID_PRODUCT_ID: non-integer or negative identifier
//   - USER_NOT_FOUND, PRODUCT_NOT_FOUND: unknown identifier
//   - UNKNOWN_STRATEGY: probe for a strategy that does not exist
//   - MISSING_LOCATION: demographic probe without a location
//   - MODEL_NOT_READY: no model snapshot published yet
//   - RATE_LIMIT_EXCEEDED: too many requests
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
