// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/api"
	"github.com/tomtom215/hybridrec/internal/config"
	"github.com/tomtom215/hybridrec/internal/metrics"
	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/recommend/algorithms"
	"github.com/tomtom215/hybridrec/internal/store"
	"github.com/tomtom215/hybridrec/internal/supervisor/services"
)

// initEngine wires the scorers, the latent model factory and the metrics
// observer into a recommendation engine backed by st. The engine has no
// snapshot until the rebuild service performs the first build.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEngine(cfg *config.Config, st *store.Store, logger zerolog.Logger) (*recommend.Engine, error) {
	logger.Info().
		Int64("seed", cfg.Recommend.Seed).
		Int("latent_factors", cfg.Recommend.Latent.Factors).
		Int("latent_epochs", cfg.Recommend.Latent.Epochs).
		Float64("demographic_weight", cfg.Recommend.Router.DemographicWeight).
		Float64("context_weight", cfg.Recommend.Router.ContextWeight).
		Msg("initializing recommendation engine")

	latentCfg := latentConfig(cfg)
	latentLogger := logger.With().Str("component", "latent").Logger()

	return recommend.NewEngine(buildEngineConfig(cfg), recommend.Dependencies{
		Gateway: st,
		Scorers: buildScorers(cfg),
		NewLatent: func() recommend.LatentModel {
			m := algorithms.NewLatentFactorModel(latentCfg, latentLogger)
			m.SetRepairHook(metrics.RecordLatentRepair)
			return m
		},
		Observer: metrics.NewRecommendObserver(),
	}, logger)
}

func buildEngineConfig(cfg *config.Config) *recommend.Config {
	rc := cfg.Recommend
	ec := recommend.DefaultConfig()

	ec.Seed = rc.Seed
	ec.Router = recommend.RouterConfig{
		DemographicWeight: rc.Router.DemographicWeight,
		ContextWeight:     rc.Router.ContextWeight,
		CollaborativeTopN: rc.Router.CollaborativeTopN,
		RecencyTopN:       rc.Router.RecencyTopN,
	}
	ec.Limits = recommend.LimitsConfig{
		DefaultK:       rc.DefaultK,
		MaxK:           rc.MaxK,
		RequestTimeout: rc.RequestTimeout,
	}
	ec.Incremental.Steps = rc.IncrementalSteps
	ec.Rebuild.Timeout = rc.Rebuild.Timeout
	ec.Cache = recommend.CacheConfig{
		Enabled: rc.Cache.Enabled,
		Size:    rc.Cache.Size,
		TTL:     rc.Cache.TTL,
	}
	return ec
}

func buildScorers(cfg *config.Config) *recommend.Scorers {
	rc := cfg.Recommend

	demo := algorithms.DefaultDemographicConfig()
	demo.MinCohortSize = rc.Demographic.MinCohortSize
	demo.CohortWeight = rc.Demographic.CohortWeight
	demo.OutsiderWeight = rc.Demographic.OutsiderWeight

	collab := algorithms.DefaultCollaborativeConfig()
	collab.Neighbors = rc.Collaborative.Neighbors

	recency := algorithms.DefaultRecencyConfig()
	recency.Lookback = rc.Recency.Lookback
	recency.DecayRate = rc.Recency.DecayRate
	recency.DecayUnit = rc.Recency.DecayUnit
	recency.DiversityBoost = rc.Recency.DiversityBoost
	recency.Seed = rc.Seed

	return &recommend.Scorers{
		Demographic:   algorithms.NewDemographic(demo),
		Context:       algorithms.NewContextScorer(),
		Collaborative: algorithms.NewCollaborative(collab),
		Recency:       algorithms.NewRecency(recency),
		Content:       algorithms.NewContentBased(),
		Popularity:    algorithms.NewPopularity(algorithms.DefaultPopularityConfig()),
	}
}

func latentConfig(cfg *config.Config) algorithms.LatentFactorConfig {
	lc := cfg.Recommend.Latent

	out := algorithms.DefaultLatentFactorConfig()
	out.NumFactors = lc.Factors
	out.LearningRate = lc.LearningRate
	out.Regularization = lc.Regularization
	out.Epochs = lc.Epochs
	out.RecencyAlpha = lc.RecencyAlpha
	out.RecencyUnit = lc.RecencyUnit
	out.CategoryBoost = lc.CategoryBoost
	out.BrandBoost = lc.BrandBoost
	out.Seed = cfg.Recommend.Seed
	return out
}

func rebuildServiceConfig(cfg *config.Config) services.RebuildServiceConfig {
	rb := cfg.Recommend.Rebuild
	return services.RebuildServiceConfig{
		Interval:         rb.Interval,
		Timeout:          rb.Timeout,
		MinInterval:      rb.MinInterval,
		FailureThreshold: rb.FailureThreshold,
		BreakerTimeout:   rb.BreakerTimeout,
	}
}

func storeConfig(cfg *config.Config) store.Config {
	sc := store.DefaultConfig()
	sc.Path = cfg.Store.Path
	sc.InMemory = cfg.Store.InMemory
	sc.SyncWrites = cfg.Store.SyncWrites
	sc.GCRatio = cfg.Store.GCRatio
	return sc
}

func seedConfig(cfg *config.Config) store.SeedConfig {
	s := cfg.Store.Seed
	return store.SeedConfig{
		Users:        s.Users,
		Products:     s.Products,
		Interactions: s.Interactions,
		Seed:         s.Seed,
		Window:       s.Window,
	}
}

func chiMiddlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.RateLimitRequests = cfg.Security.RateLimitReqs
	mw.RateLimitWindow = cfg.Security.RateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled
	return mw
}
