// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

var fixtureNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func fixtureProducts() []recommend.Product {
	return []recommend.Product{
		{ID: 1, Category: "Electronics", Brand: "Apple", Price: 999},
		{ID: 2, Category: "Electronics", Brand: "Samsung", Price: 799},
		{ID: 3, Category: "Books", Brand: "Penguin", Price: 15},
		{ID: 4, Category: "Books", Brand: "HarperCollins", Price: 20},
		{ID: 5, Category: "Clothing", Brand: "Nike", Price: 120},
		{ID: 6, Category: "Clothing", Brand: "Adidas", Price: 90},
	}
}

// fixtureDataset: users 1, 2 and 4 live in NY, 3 in LA, 5 has no location.
// Users 1 and 2 purchased product 1; nobody purchased product 2.
// User 4 has no interactions but a stored context matching user 1's.
func fixtureDataset() *recommend.Dataset {
	morning := &recommend.InteractionContext{TimeOfDay: "morning", Device: "mobile", Location: "NY"}
	ts := fixtureNow.Add(-time.Hour)
	return &recommend.Dataset{
		Users: []recommend.User{
			{ID: 1, Location: strPtr("NY")},
			{ID: 2, Location: strPtr("NY")},
			{ID: 3, Location: strPtr("LA")},
			{ID: 4, Location: strPtr("NY")},
			{ID: 5},
		},
		Products: fixtureProducts(),
		Interactions: []recommend.Interaction{
			{ID: 1, UserID: 1, ProductID: 1, Type: recommend.InteractionPurchase, Timestamp: ts, Context: morning},
			{ID: 2, UserID: 2, ProductID: 1, Type: recommend.InteractionPurchase, Timestamp: ts},
			{ID: 3, UserID: 3, ProductID: 2, Type: recommend.InteractionView, Timestamp: ts},
			{ID: 4, UserID: 3, ProductID: 5, Type: recommend.InteractionAddToCart, Timestamp: ts},
			{ID: 5, UserID: 1, ProductID: 3, Type: recommend.InteractionView, Timestamp: ts, Context: morning},
			{ID: 6, UserID: 2, ProductID: 4, Type: recommend.InteractionView, Timestamp: ts},
		},
		Contexts: []recommend.UserContext{
			{UserID: 4, TimeOfDay: "morning", Device: "mobile", Location: "NY"},
		},
	}
}

func fixtureSnapshot(t *testing.T) *recommend.Snapshot {
	t.Helper()
	return recommend.BuildSnapshot(fixtureDataset())
}

// checkNormalized fails unless every entry is finite, within [0, 1] and the
// maximum is exactly 1.
func checkNormalized(t *testing.T, v *recommend.ScoreVector) {
	t.Helper()
	for i, s := range v.Values() {
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 || s > 1 {
			t.Errorf("score[%d] = %f, want finite in [0, 1]", i, s)
		}
	}
	if got := v.Max(); got != 1 {
		t.Errorf("Max() = %f, want 1", got)
	}
}
