// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package main

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/config"
	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/recommend/algorithms"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Store.InMemory = true
	cfg.Store.GCRatio = 0.5
	cfg.Store.Seed = config.SeedConfig{
		Enabled:      true,
		Users:        20,
		Products:     15,
		Interactions: 120,
		Seed:         7,
		Window:       7 * 24 * time.Hour,
	}
	cfg.Recommend = config.RecommendConfig{
		Seed:             7,
		DefaultK:         5,
		MaxK:             10,
		RequestTimeout:   time.Second,
		IncrementalSteps: 3,
		Router: config.RouterConfig{
			DemographicWeight: 0.6,
			ContextWeight:     0.4,
			CollaborativeTopN: 4,
			RecencyTopN:       4,
		},
		Rebuild: config.RebuildConfig{
			Interval:         time.Hour,
			Timeout:          time.Minute,
			MinInterval:      time.Second,
			FailureThreshold: 2,
			BreakerTimeout:   time.Minute,
		},
		Cache: config.CacheConfig{Enabled: true, Size: 16, TTL: time.Minute},
		Latent: config.LatentConfig{
			Factors:        4,
			LearningRate:   0.02,
			Regularization: 0.05,
			Epochs:         3,
			RecencyAlpha:   0.101,
			RecencyUnit:    24 * time.Hour,
			CategoryBoost:  0.6,
			BrandBoost:     0.2,
		},
		Demographic:   config.DemographicConfig{MinCohortSize: 2, CohortWeight: 8, OutsiderWeight: 0.2},
		Collaborative: config.CollaborativeConfig{Neighbors: 3},
		Recency:       config.RecencyConfig{
			Lookback:       30 * 24 * time.Hour,
			DecayRate:      0.05,
			DecayUnit:      time.Second,
			DiversityBoost: 0.2,
		},
	}
	cfg.Security = config.SecurityConfig{
		RateLimitReqs:   10,
		RateLimitWindow: time.Second,
		CORSOrigins:     []string{"https://shop.example.com"},
	}
	return cfg
}

func TestBuildEngineConfig(t *testing.T) {
	t.Parallel()

	ec := buildEngineConfig(testConfig())
	if err := ec.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if ec.Seed != 7 {
		t.Errorf("Seed = %d, want 7", ec.Seed)
	}
	if ec.Router.DemographicWeight != 0.6 || ec.Router.ContextWeight != 0.4 {
		t.Errorf("Router = %+v", ec.Router)
	}
	if ec.Limits.DefaultK != 5 || ec.Limits.MaxK != 10 {
		t.Errorf("Limits = %+v", ec.Limits)
	}
	if ec.Incremental.Steps != 3 {
		t.Errorf("Incremental.Steps = %d, want 3", ec.Incremental.Steps)
	}
	if ec.Rebuild.Timeout != time.Minute {
		t.Errorf("Rebuild.Timeout = %v, want 1m", ec.Rebuild.Timeout)
	}
	if !ec.Cache.Enabled || ec.Cache.Size != 16 {
		t.Errorf("Cache = %+v", ec.Cache)
	}
}

func TestBuildScorers_RecencyDecayUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		unit time.Duration
	}{
		{"seconds", time.Second},
		{"minutes", time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			cfg.Recommend.Recency.DecayUnit = tt.unit
			r, ok := buildScorers(cfg).Recency.(*algorithms.Recency)
			if !ok {
				t.Fatalf("Recency scorer is %T", buildScorers(cfg).Recency)
			}
			if got, want := r.Decay(tt.unit), math.Exp(-0.05); math.Abs(got-want) > 1e-12 {
				t.Errorf("Decay(%v) = %g, want %g", tt.unit, got, want)
			}
		})
	}
}

func TestConfigMapping(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	lc := latentConfig(cfg)
	if lc.NumFactors != 4 || lc.Epochs != 3 || lc.Seed != 7 {
		t.Errorf("latentConfig = %+v", lc)
	}
	if lc.HistorySize == 0 || lc.InitStdDev == 0 {
		t.Errorf("latentConfig dropped defaults: %+v", lc)
	}

	rs := rebuildServiceConfig(cfg)
	if rs.Interval != time.Hour || rs.MinInterval != time.Second || rs.FailureThreshold != 2 {
		t.Errorf("rebuildServiceConfig = %+v", rs)
	}

	sc := storeConfig(cfg)
	if !sc.InMemory || sc.SequenceBandwidth == 0 {
		t.Errorf("storeConfig = %+v", sc)
	}

	mw := chiMiddlewareConfig(cfg)
	if mw.RateLimitRequests != 10 || mw.RateLimitWindow != time.Second {
		t.Errorf("rate limit = %d/%v", mw.RateLimitRequests, mw.RateLimitWindow)
	}
	if len(mw.CORSAllowedOrigins) != 1 || len(mw.CORSExposedHeaders) == 0 {
		t.Errorf("cors = %v / %v", mw.CORSAllowedOrigins, mw.CORSExposedHeaders)
	}
}

func TestInitEngine_SeededStore(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	ctx := context.Background()

	st, err := openStore(ctx, cfg)
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	engine, err := initEngine(cfg, st, zerolog.Nop())
	if err != nil {
		t.Fatalf("initEngine() error = %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })

	if engine.Ready() {
		t.Fatal("engine ready before first rebuild")
	}
	if err := engine.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	st2 := engine.Status()
	if st2.Users != 20 || st2.Products != 15 || st2.Interactions != 120 {
		t.Errorf("Status() = %+v", st2)
	}

	resp, err := engine.Recommend(ctx, 1, -1)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Items) > 5 {
		t.Errorf("got %d items, want <= default k 5", len(resp.Items))
	}
	if resp.Path != recommend.PathWarm && resp.Path != recommend.PathCold {
		t.Errorf("Path = %s", resp.Path)
	}
}
