// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package logging provides centralized zerolog-based structured logging.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("addr", addr).Msg("Server starting")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Rebuild failed")
//
// Components take a zerolog.Logger by value and add a component field:
//
//	logger := logging.WithComponent("store")
//
// # Request IDs
//
// The HTTP request ID middleware stores the ID with ContextWithRequestID and
// Ctx attaches it to every log line written for that request.
//
// # slog Bridge
//
// SlogHandler adapts zerolog to slog.Handler for the Suture supervisor's
// event hook:
//
//	hook := (&sutureslog.Handler{Logger: logging.NewSlogLogger(logger)}).MustHook()
package logging
