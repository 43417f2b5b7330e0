// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/metrics"
)

// GarbageCollector is satisfied by *store.Store.
type GarbageCollector interface {
	RunGC() error
}

// StoreGCService periodically runs store value log garbage collection.
type StoreGCService struct {
	store    GarbageCollector
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewStoreGCService creates the service. A non-positive interval disables
// collection; the service then idles until shutdown.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewStoreGCService(store GarbageCollector, interval time.Duration, logger zerolog.Logger) *StoreGCService {
	return &StoreGCService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("service", "store-gc").Logger(),
		name:     "store-gc",
	}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			err := s.store.RunGC()
			metrics.RecordStoreGC(err)
			if err != nil {
				s.logger.Error().Err(err).Msg("store garbage collection failed")
				continue
			}
			s.logger.Debug().Dur("duration", time.Since(start)).Msg("store garbage collection complete")
		}
	}
}

// String implements fmt.Stringer for suture's logs.
func (s *StoreGCService) String() string {
	return s.name
}
