// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/recommend/algorithms"
	"github.com/tomtom215/hybridrec/internal/store"
)

func strPtr(s string) *string { return &s }

// seedStore writes a small catalog where users 1 and 2 (NY) bought product 1,
// user 3 (LA) browsed products 2 and 5, and user 4 (NY) has no history.
func seedStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(store.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	products := []recommend.Product{
		{ID: 1, Category: "Electronics", Brand: "Apple", Price: 999},
		{ID: 2, Category: "Electronics", Brand: "Samsung", Price: 799},
		{ID: 3, Category: "Books", Brand: "Penguin", Price: 15},
		{ID: 4, Category: "Books", Brand: "HarperCollins", Price: 20},
		{ID: 5, Category: "Clothing", Brand: "Nike", Price: 120},
		{ID: 6, Category: "Clothing", Brand: "Adidas", Price: 90},
	}
	for _, p := range products {
		if err := s.PutProduct(ctx, p); err != nil {
			t.Fatalf("PutProduct() error = %v", err)
		}
	}
	users := []recommend.User{
		{ID: 1, Location: strPtr("NY")},
		{ID: 2, Location: strPtr("NY")},
		{ID: 3, Location: strPtr("LA")},
		{ID: 4, Location: strPtr("NY")},
		{ID: 5},
	}
	for _, u := range users {
		if err := s.PutUser(ctx, u); err != nil {
			t.Fatalf("PutUser() error = %v", err)
		}
	}
	if err := s.PutUserContext(ctx, recommend.UserContext{UserID: 4, TimeOfDay: "morning", Device: "mobile", Location: "NY"}); err != nil {
		t.Fatalf("PutUserContext() error = %v", err)
	}

	morning := &recommend.InteractionContext{TimeOfDay: "morning", Device: "mobile", Location: "NY"}
	ts := time.Now().UTC().Add(-time.Hour)
	interactions := []recommend.Interaction{
		{UserID: 1, ProductID: 1, Type: recommend.InteractionPurchase, Timestamp: ts, Context: morning},
		{UserID: 2, ProductID: 1, Type: recommend.InteractionPurchase, Timestamp: ts},
		{UserID: 3, ProductID: 2, Type: recommend.InteractionView, Timestamp: ts},
		{UserID: 3, ProductID: 5, Type: recommend.InteractionAddToCart, Timestamp: ts},
		{UserID: 1, ProductID: 3, Type: recommend.InteractionView, Timestamp: ts, Context: morning},
		{UserID: 2, ProductID: 4, Type: recommend.InteractionView, Timestamp: ts},
	}
	for _, in := range interactions {
		if _, err := s.InsertInteraction(ctx, in); err != nil {
			t.Fatalf("InsertInteraction() error = %v", err)
		}
	}
	return s
}

func newIntegrationEngine(t *testing.T, s *store.Store) *recommend.Engine {
	t.Helper()

	scorers := &recommend.Scorers{
		Demographic:   algorithms.NewDemographic(algorithms.DefaultDemographicConfig()),
		Context:       algorithms.NewContextScorer(),
		Collaborative: algorithms.NewCollaborative(algorithms.DefaultCollaborativeConfig()),
		Recency:       algorithms.NewRecency(algorithms.DefaultRecencyConfig()),
		Content:       algorithms.NewContentBased(),
		Popularity:    algorithms.NewPopularity(algorithms.DefaultPopularityConfig()),
	}
	newLatent := func() recommend.LatentModel {
		return algorithms.NewLatentFactorModel(algorithms.DefaultLatentFactorConfig(), zerolog.Nop())
	}

	e, err := recommend.NewEngine(recommend.DefaultConfig(), recommend.Dependencies{
		Gateway:   s,
		Scorers:   scorers,
		NewLatent: newLatent,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })

	if err := e.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	return e
}

func TestIntegration_CohortRanking(t *testing.T) {
	t.Parallel()

	e := newIntegrationEngine(t, seedStore(t))

	res, err := e.Probe(context.Background(), recommend.StrategyDemographic, 1)
	if err != nil || res.Err != nil {
		t.Fatalf("Probe() = %v, %v", res.Err, err)
	}
	if p1, p2 := res.Vector.Get(1), res.Vector.Get(2); p1 <= p2 {
		t.Errorf("demographic score P1 = %f, P2 = %f; want P1 ranked above P2", p1, p2)
	}
}

func TestIntegration_ColdStartBlend(t *testing.T) {
	t.Parallel()

	e := newIntegrationEngine(t, seedStore(t))

	resp, err := e.Recommend(context.Background(), 4, 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Path != recommend.PathCold {
		t.Errorf("Path = %s, want cold", resp.Path)
	}

	var found bool
	for _, item := range resp.Items {
		if item.ProductID == 1 {
			found = true
			if item.Source != recommend.StrategyDemographic {
				t.Errorf("P1 source = %s, want demographic", item.Source)
			}
		}
	}
	if !found {
		t.Errorf("cold-start items %+v do not include P1", resp.Items)
	}
}

func TestIntegration_IncrementalExclusion(t *testing.T) {
	t.Parallel()

	e := newIntegrationEngine(t, seedStore(t))
	ctx := context.Background()

	before, err := e.RecommendLatent(ctx, 1, 10)
	if err != nil {
		t.Fatalf("RecommendLatent() error = %v", err)
	}
	if !containsProduct(before.Items, 2) {
		t.Fatalf("expected P2 among latent candidates before purchase, got %+v", before.Items)
	}

	_, path, err := e.RecordInteraction(ctx, recommend.Interaction{
		UserID: 1, ProductID: 2, Type: recommend.InteractionPurchase,
	})
	if err != nil {
		t.Fatalf("RecordInteraction() error = %v", err)
	}
	if path != recommend.UpdateIncremental {
		t.Errorf("path = %s, want incremental", path)
	}

	after, err := e.RecommendLatent(ctx, 1, 10)
	if err != nil {
		t.Fatalf("RecommendLatent() error = %v", err)
	}
	if containsProduct(after.Items, 2) {
		t.Errorf("purchased product still recommended: %+v", after.Items)
	}
	if after.ModelVersion <= before.ModelVersion {
		t.Errorf("ModelVersion = %d, want > %d", after.ModelVersion, before.ModelVersion)
	}
}

func TestIntegration_RebuildAddsItemRow(t *testing.T) {
	t.Parallel()

	e := newIntegrationEngine(t, seedStore(t))
	ctx := context.Background()

	itemsBefore := e.Status().LatentItems
	collabBefore, err := e.Probe(ctx, recommend.StrategyCollaborative, 1)
	if err != nil || collabBefore.Err != nil {
		t.Fatalf("Probe() = %v, %v", collabBefore.Err, err)
	}

	// Product 6 has never been interacted with, so it has no latent row.
	_, path, err := e.RecordInteraction(ctx, recommend.Interaction{
		UserID: 3, ProductID: 6, Type: recommend.InteractionView,
	})
	if err != nil {
		t.Fatalf("RecordInteraction() error = %v", err)
	}
	if path != recommend.UpdateRebuild {
		t.Fatalf("path = %s, want rebuild", path)
	}
	select {
	case <-e.RebuildRequests():
	default:
		t.Fatal("expected a pending rebuild request")
	}

	if err := e.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if got := e.Status().LatentItems; got != itemsBefore+1 {
		t.Errorf("LatentItems = %d, want %d", got, itemsBefore+1)
	}

	collabAfter, err := e.Probe(ctx, recommend.StrategyCollaborative, 1)
	if err != nil || collabAfter.Err != nil {
		t.Fatalf("Probe() = %v, %v", collabAfter.Err, err)
	}
	for _, id := range []int{1, 2, 3, 4, 5} {
		b, a := collabBefore.Vector.Get(id), collabAfter.Vector.Get(id)
		if b != 0 && math.Abs(a-b) > 1e-9 {
			t.Errorf("collaborative score for %d moved from %f to %f", id, b, a)
		}
	}
}

func TestIntegration_SeededRebuildsAgree(t *testing.T) {
	t.Parallel()

	a := newIntegrationEngine(t, seedStore(t))
	b := newIntegrationEngine(t, seedStore(t))

	ra, err := a.RecommendLatent(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("RecommendLatent() error = %v", err)
	}
	rb, err := b.RecommendLatent(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("RecommendLatent() error = %v", err)
	}
	if len(ra.Items) != len(rb.Items) {
		t.Fatalf("item counts differ: %d vs %d", len(ra.Items), len(rb.Items))
	}
	for i := range ra.Items {
		if ra.Items[i].ProductID != rb.Items[i].ProductID ||
			math.Abs(ra.Items[i].Score-rb.Items[i].Score) > 1e-9 {
			t.Errorf("item %d differs: %+v vs %+v", i, ra.Items[i], rb.Items[i])
		}
	}
}

func TestIntegration_SeededStore(t *testing.T) {
	t.Parallel()

	s, err := store.Open(store.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if _, err := store.SeedMockData(context.Background(), s, store.DefaultSeedConfig(), time.Now().UTC()); err != nil {
		t.Fatalf("SeedMockData() error = %v", err)
	}
	e := newIntegrationEngine(t, s)

	st := e.Status()
	if !st.Ready || st.Products != 40 || st.Users != 50 || st.Interactions != 600 {
		t.Errorf("Status() = %+v", st)
	}
	for userID := 1; userID <= 50; userID++ {
		resp, err := e.Recommend(context.Background(), userID, 10)
		if err != nil {
			t.Fatalf("Recommend(%d) error = %v", userID, err)
		}
		for _, item := range resp.Items {
			if item.Score < 0 || item.Score > 1 || math.IsNaN(item.Score) {
				t.Errorf("user %d: score %f out of range", userID, item.Score)
			}
		}
	}
}

func containsProduct(items []recommend.Recommendation, id int) bool {
	for _, it := range items {
		if it.ProductID == id {
			return true
		}
	}
	return false
}
