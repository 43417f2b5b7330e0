// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"cmp"
	"slices"
	"time"
)

// Dataset is a point-in-time copy of everything the gateway holds.
type Dataset struct {
	Users        []User
	Products     []Product
	Interactions []Interaction
	Contexts     []UserContext
}

// Snapshot is the materialized model state scorers read from: the product
// universe, catalog and user indices, the interaction matrix, the per-item
// metadata index and the latent model trained on it.
//
// A published snapshot is only mutated by the engine's incremental update
// path while holding the engine's write lock. Scorers must treat it as read-only.
type Snapshot struct {
	Version uint64
	BuiltAt time.Time

	Universe *Universe
	Matrix   *InteractionMatrix
	Latent   LatentModel

	products     map[int]*Product
	users        map[int]*User
	userIDs      []int
	contexts     map[int]*UserContext
	interactions []Interaction
	byUser       map[int][]int

	categories map[string][]int
	brands     map[string][]int

	lastSeq  uint64
	builtLen int
}

// BuildSnapshot materializes the interaction matrix and metadata index from a dataset.
// Interactions referencing products outside the catalog are dropped.
func BuildSnapshot(ds *Dataset) *Snapshot {
	productIDs := make([]int, 0, len(ds.Products))
	products := make(map[int]*Product, len(ds.Products))
	for i := range ds.Products {
		p := ds.Products[i]
		products[p.ID] = &p
		productIDs = append(productIDs, p.ID)
	}
	universe := NewUniverse(productIDs)

	users := make(map[int]*User, len(ds.Users))
	userIDs := make([]int, 0, len(ds.Users))
	for i := range ds.Users {
		u := ds.Users[i]
		if _, dup := users[u.ID]; !dup {
			userIDs = append(userIDs, u.ID)
		}
		users[u.ID] = &u
	}
	slices.Sort(userIDs)

	contexts := make(map[int]*UserContext, len(ds.Contexts))
	for i := range ds.Contexts {
		c := ds.Contexts[i]
		contexts[c.UserID] = &c
	}

	s := &Snapshot{
		BuiltAt:      time.Now(),
		Universe:     universe,
		Matrix:       NewInteractionMatrix(),
		products:     products,
		users:        users,
		userIDs:      userIDs,
		contexts:     contexts,
		interactions: make([]Interaction, 0, len(ds.Interactions)),
		byUser:       make(map[int][]int),
		categories:   make(map[string][]int),
		brands:       make(map[string][]int),
	}

	for _, id := range universe.ids {
		p := products[id]
		s.categories[p.Category] = append(s.categories[p.Category], id)
		s.brands[p.Brand] = append(s.brands[p.Brand], id)
	}

	ordered := slices.Clone(ds.Interactions)
	slices.SortStableFunc(ordered, func(a, b Interaction) int {
		return cmp.Compare(a.ID, b.ID)
	})
	for i := range ordered {
		s.apply(&ordered[i])
	}
	s.builtLen = len(s.interactions)

	return s
}

// apply appends an interaction to the snapshot and its matrix.
// It reports false when the product is outside the universe.
func (s *Snapshot) apply(in *Interaction) bool {
	if in.ID > s.lastSeq {
		s.lastSeq = in.ID
	}
	if !s.Universe.Contains(in.ProductID) {
		return false
	}
	s.byUser[in.UserID] = append(s.byUser[in.UserID], len(s.interactions))
	s.interactions = append(s.interactions, *in)
	s.Matrix.Add(in.UserID, in.ProductID, in.Weight())
	return true
}

// LastSequence returns the highest interaction ID folded into the snapshot.
func (s *Snapshot) LastSequence() uint64 {
	return s.lastSeq
}

// hasSequence reports whether an interaction ID was folded in when the
// snapshot was built.
func (s *Snapshot) hasSequence(id uint64) bool {
	if id > s.lastSeq {
		return false
	}
	_, found := slices.BinarySearchFunc(s.interactions[:s.builtLen], id, func(in Interaction, target uint64) int {
		return cmp.Compare(in.ID, target)
	})
	return found
}

// Product returns a catalog entry.
func (s *Snapshot) Product(id int) (*Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

// Products returns the catalog in universe order.
func (s *Snapshot) Products() []Product {
	out := make([]Product, 0, s.Universe.Len())
	for _, id := range s.Universe.ids {
		out = append(out, *s.products[id])
	}
	return out
}

// User returns a user record.
func (s *Snapshot) User(id int) (*User, bool) {
	u, ok := s.users[id]
	return u, ok
}

// UserIDs returns every known user ID in ascending order.
func (s *Snapshot) UserIDs() []int {
	return slices.Clone(s.userIDs)
}

// NumUsers returns the number of known users.
func (s *Snapshot) NumUsers() int {
	return len(s.userIDs)
}

// Context returns the stored context record of a user.
func (s *Snapshot) Context(userID int) (*UserContext, bool) {
	c, ok := s.contexts[userID]
	return c, ok
}

// Interactions returns every interaction in sequence order.
// The returned slice must not be modified.
func (s *Snapshot) Interactions() []Interaction {
	return s.interactions
}

// NumInteractions returns the number of interactions in the snapshot.
func (s *Snapshot) NumInteractions() int {
	return len(s.interactions)
}

// UserInteractions returns the user's interactions in sequence order.
func (s *Snapshot) UserInteractions(userID int) []Interaction {
	idx := s.byUser[userID]
	out := make([]Interaction, len(idx))
	for i, j := range idx {
		out[i] = s.interactions[j]
	}
	return out
}

// HasInteractions reports whether the user has at least one stored interaction.
func (s *Snapshot) HasInteractions(userID int) bool {
	return len(s.byUser[userID]) > 0
}

// Category returns the category of a product.
func (s *Snapshot) Category(productID int) string {
	if p, ok := s.products[productID]; ok {
		return p.Category
	}
	return ""
}

// Brand returns the brand of a product.
func (s *Snapshot) Brand(productID int) string {
	if p, ok := s.products[productID]; ok {
		return p.Brand
	}
	return ""
}

// Categories returns the catalog categories in ascending order.
func (s *Snapshot) Categories() []string {
	return sortedKeys(s.categories)
}

// Brands returns the catalog brands in ascending order.
func (s *Snapshot) Brands() []string {
	return sortedKeys(s.brands)
}

// ProductsInCategory returns the product IDs of a category in ascending order.
func (s *Snapshot) ProductsInCategory(category string) []int {
	return s.categories[category]
}

// ProductsOfBrand returns the product IDs of a brand in ascending order.
func (s *Snapshot) ProductsOfBrand(brand string) []int {
	return s.brands[brand]
}

func sortedKeys(m map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
