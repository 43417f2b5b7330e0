// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"
	"math"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// NoiseRange is a closed-open interval uniform noise is drawn from.
type NoiseRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (n NoiseRange) draw(rng *rand.Rand) float64 {
	return n.Min + rng.Float64()*(n.Max-n.Min)
}

// RecencyConfig contains configuration for the recency/diversity scorer.
type RecencyConfig struct {
	// Lookback is how far back the user's interactions count.
	// Default: 30 days.
	Lookback time.Duration `json:"lookback"`

	// DecayRate is the exponential decay per DecayUnit of elapsed time.
	// Default: 0.05.
	DecayRate float64 `json:"decay_rate"`

	// DecayUnit is the time unit DecayRate is expressed in.
	// Default: 1s.
	DecayUnit time.Duration `json:"decay_unit"`

	// CategoryWeight scales log1p of a category's aggregate weight.
	// Default: 0.3.
	CategoryWeight float64 `json:"category_weight"`

	// CategoryNoise is added to the products of every other category.
	// Default: [0.05, 0.15).
	CategoryNoise NoiseRange `json:"category_noise"`

	// BrandWeight scales log1p of a brand's aggregate weight.
	// Default: 0.25.
	BrandWeight float64 `json:"brand_weight"`

	// BrandNoise is added to the products of every other brand.
	// Default: [0.03, 0.1).
	BrandNoise NoiseRange `json:"brand_noise"`

	// ExplorationNoise is added to every product.
	// Default: [0.03, 0.1).
	ExplorationNoise NoiseRange `json:"exploration_noise"`

	// DiversityBoost is added to products outside the recent set.
	// Default: 0.2.
	DiversityBoost float64 `json:"diversity_boost"`

	// Seed for the exploration noise.
	// If 0, uses 42.
	Seed int64 `json:"seed"`
}

// DefaultRecencyConfig returns the default configuration.
func DefaultRecencyConfig() RecencyConfig {
	return RecencyConfig{
		Lookback:         30 * 24 * time.Hour,
		DecayRate:        0.05,
		DecayUnit:        time.Second,
		CategoryWeight:   0.3,
		CategoryNoise:    NoiseRange{Min: 0.05, Max: 0.15},
		BrandWeight:      0.25,
		BrandNoise:       NoiseRange{Min: 0.03, Max: 0.1},
		ExplorationNoise: NoiseRange{Min: 0.03, Max: 0.1},
		DiversityBoost:   0.2,
		Seed:             42,
	}
}

// Recency scores products by the user's recent category and brand affinity
// and deliberately injects exploration noise so results do not collapse to
// pure exploitation.
//
// Each interaction in the lookback window weighs
// exp(-DecayRate * elapsed / DecayUnit) * type weight. Weights are
// aggregated by category and brand, and products the user recently touched
// miss the diversity boost.
type Recency struct {
	config RecencyConfig
	now    func() time.Time

	rngMu sync.Mutex
	//nolint:gosec // G404: math/rand is acceptable for exploration noise (not security)
	rng *rand.Rand
}

// NewRecency creates a recency scorer with its own seeded random source.
func NewRecency(cfg RecencyConfig) *Recency {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	//nolint:gosec // G404: math/rand is acceptable for exploration noise (not security)
	return NewRecencyWithSource(cfg, rand.New(rand.NewSource(cfg.Seed)))
}

// NewRecencyWithSource creates a recency scorer drawing noise from rng.
func NewRecencyWithSource(cfg RecencyConfig, rng *rand.Rand) *Recency {
	def := DefaultRecencyConfig()
	if cfg.Lookback <= 0 {
		cfg.Lookback = def.Lookback
	}
	if cfg.DecayRate <= 0 {
		cfg.DecayRate = def.DecayRate
	}
	if cfg.DecayUnit <= 0 {
		cfg.DecayUnit = def.DecayUnit
	}
	return &Recency{
		config: cfg,
		now:    time.Now,
		rng:    rng,
	}
}

// Strategy returns the provenance label.
func (r *Recency) Strategy() recommend.Strategy {
	return recommend.StrategyRecency
}

// Decay returns exp(-DecayRate * elapsed / DecayUnit). Negative elapsed
// times count as zero.
func (r *Recency) Decay(elapsed time.Duration) float64 {
	elapsed = max(elapsed, 0)
	return math.Exp(-r.config.DecayRate * float64(elapsed) / float64(r.config.DecayUnit))
}

// Score computes the user's recency/diversity vector. A user with no recent
// interactions still receives exploration and diversity terms.
func (r *Recency) Score(ctx context.Context, snap *recommend.Snapshot, userID int) recommend.Result {
	if ContextCancelled(ctx) {
		return recommend.Fail(ctx.Err())
	}

	now := r.now()
	cutoff := now.Add(-r.config.Lookback)

	categoryWeight := make(map[string]float64)
	brandWeight := make(map[string]float64)
	recent := make(map[int]struct{})
	for _, in := range snap.UserInteractions(userID) {
		if in.Timestamp.IsZero() || in.Timestamp.Before(cutoff) {
			continue
		}
		p, ok := snap.Product(in.ProductID)
		if !ok {
			continue
		}
		w := r.Decay(now.Sub(in.Timestamp)) * in.Weight()
		categoryWeight[p.Category] += w
		brandWeight[p.Brand] += w
		recent[in.ProductID] = struct{}{}
	}

	v := recommend.NewScoreVector(snap.Universe)

	r.rngMu.Lock()
	r.applyAffinity(v, snap.Categories(), categoryWeight, snap.ProductsInCategory, r.config.CategoryWeight, r.config.CategoryNoise, false)
	r.applyAffinity(v, snap.Brands(), brandWeight, snap.ProductsOfBrand, r.config.BrandWeight, r.config.BrandNoise, true)
	for i := 0; i < v.Len(); i++ {
		v.AddAt(i, r.config.ExplorationNoise.draw(r.rng))
	}
	r.rngMu.Unlock()

	for i := 0; i < v.Len(); i++ {
		if _, ok := recent[snap.Universe.ID(i)]; !ok {
			v.AddAt(i, r.config.DiversityBoost)
		}
	}

	return finish(v)
}

// applyAffinity adds log1p(w)*scale to the members of every weighted group
// and noise to the other groups' members. With oneDraw a single draw per
// weighted group is shared by all other groups; otherwise each other group
// gets its own draw. Groups are visited in sorted order so a seeded source
// gives reproducible results. Must hold rngMu.
func (r *Recency) applyAffinity(
	v *recommend.ScoreVector,
	groups []string,
	weights map[string]float64,
	members func(string) []int,
	scale float64,
	noise NoiseRange,
	oneDraw bool,
) {
	weighted := make([]string, 0, len(weights))
	for g := range weights {
		weighted = append(weighted, g)
	}
	slices.Sort(weighted)

	for _, g := range weighted {
		for _, productID := range members(g) {
			v.Add(productID, math.Log1p(weights[g])*scale)
		}

		var shared float64
		if oneDraw {
			shared = noise.draw(r.rng)
		}
		for _, other := range groups {
			if other == g {
				continue
			}
			delta := shared
			if !oneDraw {
				delta = noise.draw(r.rng)
			}
			for _, productID := range members(other) {
				v.Add(productID, delta)
			}
		}
	}
}
