// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/hybridrec/internal/metrics"
	"github.com/tomtom215/hybridrec/internal/recommend"
)

// RebuildEngine is the part of recommend.Engine the rebuild service drives.
type RebuildEngine interface {
	Rebuild(ctx context.Context) error
	RebuildRequests() <-chan struct{}
}

// RebuildServiceConfig holds configuration for the rebuild service.
type RebuildServiceConfig struct {
	// Interval between scheduled rebuilds. 0 disables the schedule.
	Interval time.Duration

	// Timeout bounds a single rebuild.
	// Default: 10m
	Timeout time.Duration

	// MinInterval is the minimum spacing between rebuilds. Requests arriving
	// sooner are coalesced into one deferred rebuild.
	MinInterval time.Duration

	// FailureThreshold consecutive failures open the circuit breaker.
	// Default: 3
	FailureThreshold uint32

	// BreakerTimeout is how long the breaker stays open before a trial rebuild.
	// Default: 5m
	BreakerTimeout time.Duration
}

// RebuildService owns the engine's full rebuild lifecycle: the initial
// build at startup, the periodic schedule and rebuilds requested by the
// engine when it sees new users or products.
type RebuildService struct {
	engine  RebuildEngine
	config  RebuildServiceConfig
	logger  zerolog.Logger
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[struct{}]
	name    string
}

// NewRebuildService creates a rebuild service.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewRebuildService(engine RebuildEngine, cfg RebuildServiceConfig, logger zerolog.Logger) *RebuildService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 5 * time.Minute
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	s := &RebuildService{
		engine:  engine,
		config:  cfg,
		logger:  logger.With().Str("service", "rebuild").Logger(),
		limiter: rate.NewLimiter(limit, 1),
		name:    "rebuild-service",
	}

	threshold := cfg.FailureThreshold
	s.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "model-rebuild",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// A concurrent rebuild or shutdown says nothing about model health.
			return err == nil ||
				errors.Is(err, recommend.ErrRebuildInProgress) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
			s.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("rebuild circuit breaker state changed")
		},
	})
	return s
}

// Serve implements suture.Service.
func (s *RebuildService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Dur("min_interval", s.config.MinInterval).
		Msg("rebuild service starting")

	s.limiter.Allow()
	s.rebuild(ctx, "startup")

	var tick <-chan time.Time
	if s.config.Interval > 0 {
		ticker := time.NewTicker(s.config.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	// deferred fires once for requests that arrived inside MinInterval.
	var deferred <-chan time.Time
	var deferredTimer *time.Timer
	defer func() {
		if deferredTimer != nil {
			deferredTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("rebuild service shutting down")
			return ctx.Err()

		case <-tick:
			s.limiter.Allow()
			s.rebuild(ctx, "scheduled")

		case <-s.engine.RebuildRequests():
			if deferred != nil {
				metrics.RecordRebuildSkipped("rate_limited")
				continue
			}
			r := s.limiter.Reserve()
			delay := r.Delay()
			if delay == 0 {
				s.rebuild(ctx, "requested")
				continue
			}
			metrics.RecordRebuildSkipped("rate_limited")
			s.logger.Debug().Dur("delay", delay).Msg("rebuild request deferred")
			deferredTimer = time.NewTimer(delay)
			deferred = deferredTimer.C

		case <-deferred:
			deferred = nil
			deferredTimer = nil
			s.rebuild(ctx, "deferred")
		}
	}
}

// rebuild runs one rebuild through the circuit breaker.
func (s *RebuildService) rebuild(ctx context.Context, trigger string) {
	start := time.Now()
	_, err := s.breaker.Execute(func() (struct{}, error) {
		rctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
		return struct{}{}, s.engine.Rebuild(rctx)
	})

	switch {
	case err == nil:
		s.logger.Info().
			Str("trigger", trigger).
			Dur("duration", time.Since(start)).
			Msg("model rebuilt")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordRebuildSkipped("circuit_open")
		s.logger.Debug().Str("trigger", trigger).Msg("rebuild skipped, circuit open")
	case errors.Is(err, recommend.ErrRebuildInProgress):
		metrics.RecordRebuildSkipped("in_progress")
	case ctx.Err() != nil:
		// shutting down
	default:
		s.logger.Warn().Err(err).
			Str("trigger", trigger).
			Dur("duration", time.Since(start)).
			Msg("model rebuild failed, serving previous snapshot")
	}
}

// BreakerState returns the circuit breaker state.
func (s *RebuildService) BreakerState() gobreaker.State {
	return s.breaker.State()
}

// String implements fmt.Stringer for suture's logs.
func (s *RebuildService) String() string {
	return s.name
}
