// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package models defines the HTTP request and response shapes.
//
// Every endpoint answers with an APIResponse envelope:
//
//	{
//	  "status": "success",
//	  "data": {...},
//	  "metadata": {"timestamp": "2026-01-01T12:00:00Z", "query_time_ms": 3}
//	}
//
// Errors carry a machine-readable code:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {"code": "USER_NOT_FOUND", "message": "User not found"},
//	  "metadata": {"timestamp": "2026-01-01T12:00:00Z"}
//	}
package models
