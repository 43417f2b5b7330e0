// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package store

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// SeedConfig controls the size of the synthetic dataset.
type SeedConfig struct {
	Users        int   `json:"users"`
	Products     int   `json:"products"`
	Interactions int   `json:"interactions"`
	Seed         int64 `json:"seed"`

	// Window is how far back interaction timestamps are spread.
	Window time.Duration `json:"window"`
}

// DefaultSeedConfig returns a small demo dataset configuration.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		Users:        50,
		Products:     40,
		Interactions: 600,
		Seed:         42,
		Window:       30 * 24 * time.Hour,
	}
}

var (
	seedCatalog = []struct {
		category string
		brands   []string
		minPrice float64
		maxPrice float64
	}{
		{"Electronics", []string{"Apple", "Samsung", "Sony", "Lenovo"}, 49, 1999},
		{"Books", []string{"Penguin", "HarperCollins", "Vintage"}, 8, 45},
		{"Clothing", []string{"Nike", "Adidas", "Uniqlo", "Levi's"}, 15, 180},
		{"Home", []string{"IKEA", "Dyson", "KitchenAid"}, 20, 650},
		{"Sports", []string{"Wilson", "Garmin", "Yeti"}, 12, 450},
		{"Beauty", []string{"L'Oreal", "Clinique", "Nivea"}, 6, 120},
	}

	seedLocations = []string{"NY", "LA", "Chicago", "Houston", "Seattle"}
	seedTimes     = []string{"morning", "afternoon", "evening", "night"}
	seedDevices   = []string{"mobile", "desktop", "tablet"}
)

// SeedMockData fills an empty store with a deterministic synthetic dataset.
// It reports false without writing anything when the store already has a catalog.
func SeedMockData(ctx context.Context, s *Store, cfg SeedConfig, now time.Time) (bool, error) {
	existing, err := s.ListProducts(ctx)
	if err != nil {
		return false, fmt.Errorf("check catalog: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	def := DefaultSeedConfig()
	if cfg.Users <= 0 {
		cfg.Users = def.Users
	}
	if cfg.Products <= 0 {
		cfg.Products = def.Products
	}
	if cfg.Interactions < 0 {
		cfg.Interactions = 0
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // G404: synthetic data, not security sensitive

	for id := 1; id <= cfg.Products; id++ {
		c := seedCatalog[(id-1)%len(seedCatalog)]
		brand := c.brands[rng.Intn(len(c.brands))]
		price := c.minPrice + rng.Float64()*(c.maxPrice-c.minPrice)
		p := recommend.Product{
			ID:       id,
			Name:     fmt.Sprintf("%s %s #%d", brand, c.category, id),
			Category: c.category,
			Brand:    brand,
			Price:    float64(int(price*100)) / 100,
		}
		if err := s.PutProduct(ctx, p); err != nil {
			return false, fmt.Errorf("seed product %d: %w", id, err)
		}
	}

	for id := 1; id <= cfg.Users; id++ {
		u := recommend.User{ID: id}
		// Roughly one user in ten never shares a location.
		if rng.Intn(10) != 0 {
			loc := seedLocations[rng.Intn(len(seedLocations))]
			u.Location = &loc

			uc := recommend.UserContext{
				UserID:    id,
				TimeOfDay: seedTimes[rng.Intn(len(seedTimes))],
				Device:    seedDevices[rng.Intn(len(seedDevices))],
				Location:  loc,
			}
			if err := s.PutUserContext(ctx, uc); err != nil {
				return false, fmt.Errorf("seed context %d: %w", id, err)
			}
		}
		if err := s.PutUser(ctx, u); err != nil {
			return false, fmt.Errorf("seed user %d: %w", id, err)
		}
	}

	start := now.Add(-cfg.Window)
	for i := 0; i < cfg.Interactions; i++ {
		in := recommend.Interaction{
			UserID:    1 + rng.Intn(cfg.Users),
			ProductID: 1 + rng.Intn(cfg.Products),
			Type:      seedInteractionType(rng),
			Timestamp: start.Add(time.Duration(rng.Int63n(int64(cfg.Window)))).UTC(),
		}
		if rng.Intn(2) == 0 {
			in.Context = &recommend.InteractionContext{
				TimeOfDay: seedTimes[rng.Intn(len(seedTimes))],
				Device:    seedDevices[rng.Intn(len(seedDevices))],
				Location:  seedLocations[rng.Intn(len(seedLocations))],
			}
		}
		if _, err := s.InsertInteraction(ctx, in); err != nil {
			return false, fmt.Errorf("seed interaction %d: %w", i, err)
		}
	}

	return true, nil
}

// seedInteractionType draws views 70%, add-to-cart 20% and purchases 10% of the time.
func seedInteractionType(rng *rand.Rand) recommend.InteractionType {
	switch r := rng.Intn(10); {
	case r < 7:
		return recommend.InteractionView
	case r < 9:
		return recommend.InteractionAddToCart
	default:
		return recommend.InteractionPurchase
	}
}
