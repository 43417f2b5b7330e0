// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func strPtr(s string) *string { return &s }

// testDataset is a small catalog: three NY users, one LA user, one without
// location, and six interactions from users 1, 2 and 3.
func testDataset() *Dataset {
	ts := testNow.Add(-time.Hour)
	morning := &InteractionContext{TimeOfDay: "morning", Device: "mobile", Location: "NY"}
	return &Dataset{
		Products: []Product{
			{ID: 1, Category: "Electronics", Brand: "Apple", Price: 999},
			{ID: 2, Category: "Electronics", Brand: "Samsung", Price: 799},
			{ID: 3, Category: "Books", Brand: "Penguin", Price: 15},
			{ID: 4, Category: "Books", Brand: "HarperCollins", Price: 20},
			{ID: 5, Category: "Clothing", Brand: "Nike", Price: 120},
			{ID: 6, Category: "Clothing", Brand: "Adidas", Price: 90},
		},
		Users: []User{
			{ID: 1, Location: strPtr("NY")},
			{ID: 2, Location: strPtr("NY")},
			{ID: 3, Location: strPtr("LA")},
			{ID: 4, Location: strPtr("NY")},
			{ID: 5},
		},
		Interactions: []Interaction{
			{ID: 1, UserID: 1, ProductID: 1, Type: InteractionPurchase, Timestamp: ts, Context: morning},
			{ID: 2, UserID: 2, ProductID: 1, Type: InteractionPurchase, Timestamp: ts},
			{ID: 3, UserID: 3, ProductID: 2, Type: InteractionView, Timestamp: ts},
			{ID: 4, UserID: 3, ProductID: 5, Type: InteractionAddToCart, Timestamp: ts},
			{ID: 5, UserID: 1, ProductID: 3, Type: InteractionView, Timestamp: ts, Context: morning},
			{ID: 6, UserID: 2, ProductID: 4, Type: InteractionView, Timestamp: ts},
		},
		Contexts: []UserContext{
			{UserID: 4, TimeOfDay: "morning", Device: "mobile", Location: "NY"},
		},
	}
}

// fakeGateway is an in-memory Gateway. When block is set, ListInteractions
// waits for it to be closed; snapshotFirst controls whether the interaction
// list is copied before or after waiting.
type fakeGateway struct {
	mu   sync.Mutex
	data *Dataset
	seq  uint64

	block         chan struct{}
	entered       chan struct{}
	snapshotFirst bool
	listErr       error
}

func newFakeGateway() *fakeGateway {
	ds := testDataset()
	return &fakeGateway{data: ds, seq: uint64(len(ds.Interactions))}
}

func (g *fakeGateway) ListUsers(context.Context) ([]User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.data.Users), nil
}

func (g *fakeGateway) ListProducts(context.Context) ([]Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.data.Products), nil
}

func (g *fakeGateway) ListInteractions(ctx context.Context) ([]Interaction, error) {
	g.mu.Lock()
	block, entered, first, listErr := g.block, g.entered, g.snapshotFirst, g.listErr
	var copied []Interaction
	if first {
		copied = slices.Clone(g.data.Interactions)
	}
	g.mu.Unlock()

	if listErr != nil {
		return nil, listErr
	}
	if block != nil {
		if entered != nil {
			close(entered)
		}
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if first {
		return copied, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.data.Interactions), nil
}

func (g *fakeGateway) ListUserContexts(context.Context) ([]UserContext, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.data.Contexts), nil
}

func (g *fakeGateway) GetUser(_ context.Context, id int) (*User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.data.Users {
		if g.data.Users[i].ID == id {
			u := g.data.Users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownUser, id)
}

func (g *fakeGateway) GetProduct(_ context.Context, id int) (*Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.data.Products {
		if g.data.Products[i].ID == id {
			p := g.data.Products[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownProduct, id)
}

func (g *fakeGateway) InsertInteraction(_ context.Context, in Interaction) (Interaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	in.ID = g.seq
	g.data.Interactions = append(g.data.Interactions, in)
	return in, nil
}

func (g *fakeGateway) addUser(u User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.data.Users = append(g.data.Users, u)
}

// fakeScorer returns a fixed score map, or a fixed error.
type fakeScorer struct {
	strategy Strategy
	scores   map[int]float64
	err      error
	calls    atomic.Int64
}

func (s *fakeScorer) Strategy() Strategy { return s.strategy }

func (s *fakeScorer) Score(_ context.Context, snap *Snapshot, _ int) Result {
	s.calls.Add(1)
	if s.err != nil {
		return Fail(s.err)
	}
	v := NewScoreVector(snap.Universe)
	for id, score := range s.scores {
		v.Set(id, score)
	}
	return Ok(v)
}

// fakeLocationScorer adds location scoring to a fakeScorer.
type fakeLocationScorer struct {
	fakeScorer
	byLocation map[string]map[int]float64
}

func (s *fakeLocationScorer) ScoreLocation(_ context.Context, snap *Snapshot, location string) Result {
	scores, ok := s.byLocation[location]
	if !ok {
		return Fail(ErrMissingLocation)
	}
	v := NewScoreVector(snap.Universe)
	for id, score := range scores {
		v.Set(id, score)
	}
	return Ok(v)
}

func testScorers() *Scorers {
	return &Scorers{
		Demographic: &fakeLocationScorer{
			fakeScorer: fakeScorer{strategy: StrategyDemographic, scores: map[int]float64{1: 1, 2: 0.5}},
			byLocation: map[string]map[int]float64{"LA": {5: 1, 2: 0.4}},
		},
		Context:       &fakeScorer{strategy: StrategyContext, scores: map[int]float64{3: 1, 1: 0.2}},
		Collaborative: &fakeScorer{strategy: StrategyCollaborative, scores: map[int]float64{2: 0.8, 4: 0.6}},
		Recency:       &fakeScorer{strategy: StrategyRecency, scores: map[int]float64{2: 1, 5: 0.9, 6: 0.3}},
		Popularity:    &fakeScorer{strategy: StrategyPopularity, scores: map[int]float64{1: 1}},
	}
}

type updateCall struct {
	userID, productID, steps int
}

// fakeLatent indexes the matrix users and products and records updates.
type fakeLatent struct {
	mu         sync.Mutex
	users      map[int]bool
	items      map[int]bool
	interacted map[[2]int]bool
	universe   *Universe
	updates    []updateCall
	fitErr     error
}

func (f *fakeLatent) Fit(ctx context.Context, snap *Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fitErr != nil {
		return f.fitErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.users = make(map[int]bool)
	f.items = make(map[int]bool)
	f.interacted = make(map[[2]int]bool)
	f.universe = snap.Universe
	for _, id := range snap.Matrix.Users() {
		f.users[id] = true
	}
	for _, id := range snap.Matrix.Products() {
		f.items[id] = true
	}
	for _, in := range snap.Interactions() {
		f.interacted[[2]int{in.UserID, in.ProductID}] = true
	}
	return nil
}

func (f *fakeLatent) UpdateOne(userID, productID int, _ *time.Time, steps int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.users[userID] {
		return ErrUnknownUser
	}
	if !f.items[productID] {
		return ErrUnknownProduct
	}
	f.updates = append(f.updates, updateCall{userID, productID, steps})
	f.interacted[[2]int{userID, productID}] = true
	return nil
}

func (f *fakeLatent) scoresLocked(userID int) []ScoredProduct {
	var out []ScoredProduct
	for _, id := range f.universe.IDs() {
		if f.items[id] && !f.interacted[[2]int{userID, id}] {
			out = append(out, ScoredProduct{ProductID: id, Score: 1 / float64(id)})
		}
	}
	return out
}

func (f *fakeLatent) Recommend(userID, k int) ([]ScoredProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.users[userID] {
		return nil, ErrUnknownUser
	}
	out := f.scoresLocked(userID)
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func (f *fakeLatent) Scores(userID int) (*ScoreVector, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.users[userID] {
		return nil, ErrUnknownUser
	}
	v := NewScoreVector(f.universe)
	for _, sp := range f.scoresLocked(userID) {
		v.Set(sp.ProductID, sp.Score)
	}
	return v, nil
}

func (f *fakeLatent) HasUser(userID int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID]
}

func (f *fakeLatent) HasItem(productID int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[productID]
}

func (f *fakeLatent) Dims() (users, items, factors int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), len(f.items), 4
}

func (f *fakeLatent) updateCalls() []updateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.updates)
}

// countingObserver counts engine events.
type countingObserver struct {
	recommendations atomic.Int64
	cached          atomic.Int64
	interactions    sync.Map // UpdatePath -> *atomic.Int64
	rebuilds        atomic.Int64
	rebuildErrors   atomic.Int64
	snapshots       atomic.Int64
}

func (o *countingObserver) ObserveRecommendation(_ *Response, cached bool, _ time.Duration) {
	o.recommendations.Add(1)
	if cached {
		o.cached.Add(1)
	}
}

func (o *countingObserver) ObserveInteraction(path UpdatePath) {
	c, _ := o.interactions.LoadOrStore(path, new(atomic.Int64))
	c.(*atomic.Int64).Add(1)
}

func (o *countingObserver) ObserveRebuild(_ time.Duration, err error) {
	o.rebuilds.Add(1)
	if err != nil {
		o.rebuildErrors.Add(1)
	}
}

func (o *countingObserver) ObserveSnapshot(Status) {
	o.snapshots.Add(1)
}

func (o *countingObserver) interactionCount(path UpdatePath) int64 {
	c, ok := o.interactions.Load(path)
	if !ok {
		return 0
	}
	return c.(*atomic.Int64).Load()
}

type testEngine struct {
	*Engine
	gateway  *fakeGateway
	scorers  *Scorers
	latents  []*fakeLatent
	observer *countingObserver
	mu       sync.Mutex
}

func (te *testEngine) latest() *fakeLatent {
	te.mu.Lock()
	defer te.mu.Unlock()
	return te.latents[len(te.latents)-1]
}

// newTestEngine builds an engine over the test dataset. It does not rebuild.
func newTestEngine(t *testing.T, cfg *Config) *testEngine {
	t.Helper()

	te := &testEngine{
		gateway:  newFakeGateway(),
		scorers:  testScorers(),
		observer: &countingObserver{},
	}
	engine, err := NewEngine(cfg, Dependencies{
		Gateway: te.gateway,
		Scorers: te.scorers,
		NewLatent: func() LatentModel {
			te.mu.Lock()
			defer te.mu.Unlock()
			l := &fakeLatent{}
			te.latents = append(te.latents, l)
			return l
		},
		Observer: te.observer,
	}, testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	te.Engine = engine
	return te
}

// newReadyEngine builds an engine and publishes its first snapshot.
func newReadyEngine(t *testing.T, cfg *Config) *testEngine {
	t.Helper()
	te := newTestEngine(t, cfg)
	if err := te.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	return te
}

func productIDs(items []Recommendation) []int {
	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	return ids
}
