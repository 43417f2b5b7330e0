// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// DemographicConfig contains configuration for the location cohort scorer.
type DemographicConfig struct {
	// MinCohortSize is the cohort size below which evidence from the whole
	// population is pooled with cohort members up-weighted.
	// Default: 5.
	MinCohortSize int `json:"min_cohort_size"`

	// CohortWeight multiplies cohort members' interactions in a pooled score.
	// Default: 8.0.
	CohortWeight float64 `json:"cohort_weight"`

	// OutsiderWeight multiplies everyone else's interactions in a pooled score.
	// Default: 0.2.
	OutsiderWeight float64 `json:"outsider_weight"`

	// TopCategories is how many leading categories get CategoryBoost.
	// Default: 3.
	TopCategories int `json:"top_categories"`

	// CategoryBoost multiplies the scores of products in the leading categories.
	// Default: 1.5.
	CategoryBoost float64 `json:"category_boost"`
}

// DefaultDemographicConfig returns the default configuration.
func DefaultDemographicConfig() DemographicConfig {
	return DemographicConfig{
		MinCohortSize:  5,
		CohortWeight:   8.0,
		OutsiderWeight: 0.2,
		TopCategories:  3,
		CategoryBoost:  1.5,
	}
}

// Demographic scores products by the interactions of users sharing the
// target user's location.
//
// Small cohorts fall back to the whole population with cohort members
// weighted CohortWeight/OutsiderWeight times higher, so small markets still
// get a signal. The leading categories of the pooled evidence are boosted.
type Demographic struct {
	config DemographicConfig
}

// NewDemographic creates a demographic scorer.
func NewDemographic(cfg DemographicConfig) *Demographic {
	def := DefaultDemographicConfig()
	if cfg.MinCohortSize <= 0 {
		cfg.MinCohortSize = def.MinCohortSize
	}
	if cfg.CohortWeight <= 0 {
		cfg.CohortWeight = def.CohortWeight
	}
	if cfg.OutsiderWeight < 0 {
		cfg.OutsiderWeight = def.OutsiderWeight
	}
	if cfg.TopCategories < 0 {
		cfg.TopCategories = def.TopCategories
	}
	if cfg.CategoryBoost <= 0 {
		cfg.CategoryBoost = def.CategoryBoost
	}
	return &Demographic{config: cfg}
}

// Strategy returns the provenance label.
func (d *Demographic) Strategy() recommend.Strategy {
	return recommend.StrategyDemographic
}

// Score scores products for the user's location. It fails with
// ErrUnknownUser or ErrMissingLocation when no cohort can be formed.
func (d *Demographic) Score(ctx context.Context, snap *recommend.Snapshot, userID int) recommend.Result {
	user, ok := snap.User(userID)
	if !ok {
		return recommend.Fail(fmt.Errorf("%w: %d", recommend.ErrUnknownUser, userID))
	}
	loc, ok := user.LocationValue()
	if !ok {
		return recommend.Fail(fmt.Errorf("%w: user %d", recommend.ErrMissingLocation, userID))
	}
	return d.ScoreLocation(ctx, snap, loc)
}

// ScoreLocation scores products for an arbitrary location.
func (d *Demographic) ScoreLocation(ctx context.Context, snap *recommend.Snapshot, location string) recommend.Result {
	if location == "" {
		return recommend.Fail(recommend.ErrMissingLocation)
	}

	cohort := make(map[int]struct{})
	for _, id := range snap.UserIDs() {
		u, _ := snap.User(id)
		if loc, ok := u.LocationValue(); ok && loc == location {
			cohort[id] = struct{}{}
		}
	}
	pooled := len(cohort) < d.config.MinCohortSize

	v := recommend.NewScoreVector(snap.Universe)
	categoryWeight := make(map[string]float64)
	interactions := snap.Interactions()
	for i := range interactions {
		in := &interactions[i]
		_, member := cohort[in.UserID]

		w := in.Weight()
		switch {
		case pooled && member:
			w *= d.config.CohortWeight
		case pooled:
			w *= d.config.OutsiderWeight
		case !member:
			continue
		}

		if v.Add(in.ProductID, w) {
			categoryWeight[snap.Category(in.ProductID)] += w
		}
	}

	if ContextCancelled(ctx) {
		return recommend.Fail(ctx.Err())
	}

	for _, category := range topCategories(categoryWeight, d.config.TopCategories) {
		for _, productID := range snap.ProductsInCategory(category) {
			if s := v.Get(productID); s > 0 {
				v.Set(productID, s*d.config.CategoryBoost)
			}
		}
	}

	return finish(v)
}

// topCategories returns the n categories with the largest positive weight,
// ties broken by name.
func topCategories(weights map[string]float64, n int) []string {
	type categoryWeight struct {
		name   string
		weight float64
	}
	all := make([]categoryWeight, 0, len(weights))
	for name, w := range weights {
		if w > 0 {
			all = append(all, categoryWeight{name, w})
		}
	}
	slices.SortFunc(all, func(a, b categoryWeight) int {
		if r := cmp.Compare(b.weight, a.weight); r != 0 {
			return r
		}
		return cmp.Compare(a.name, b.name)
	})

	out := make([]string, 0, min(n, len(all)))
	for i := 0; i < len(all) && i < n; i++ {
		out = append(out, all[i].name)
	}
	return out
}
