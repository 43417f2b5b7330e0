// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package services provides suture.Service wrappers for application components.

Each wrapper implements suture.Service and fmt.Stringer, returns ctx.Err()
on graceful shutdown and returns other errors so the supervisor restarts it.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown

Model Rebuilds (RebuildService):
  - Builds the first model snapshot at startup
  - Rebuilds on a fixed interval and on engine requests
  - Coalesces bursts of requests with a golang.org/x/time/rate limiter
  - Stops hammering a failing data source with a gobreaker circuit breaker

Store Garbage Collection (StoreGCService):
  - Runs BadgerDB value log GC on a fixed interval
*/
package services
