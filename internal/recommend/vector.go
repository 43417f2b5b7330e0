// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"cmp"
	"math"
	"slices"
)

// Universe is the fixed, ascending set of product IDs every ScoreVector aligns to.
// It is immutable once built.
type Universe struct {
	ids   []int
	index map[int]int
}

// NewUniverse builds a universe from product IDs. Duplicates are dropped.
func NewUniverse(ids []int) *Universe {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	index := make(map[int]int, len(sorted))
	for i, id := range sorted {
		index[id] = i
	}
	return &Universe{ids: sorted, index: index}
}

// Len returns the number of products in the universe.
func (u *Universe) Len() int {
	if u == nil {
		return 0
	}
	return len(u.ids)
}

// ID returns the product ID at position i.
func (u *Universe) ID(i int) int {
	return u.ids[i]
}

// IDs returns a copy of the product IDs in ascending order.
func (u *Universe) IDs() []int {
	return slices.Clone(u.ids)
}

// Index returns the position of a product ID.
func (u *Universe) Index(id int) (int, bool) {
	if u == nil {
		return 0, false
	}
	i, ok := u.index[id]
	return i, ok
}

// Contains reports whether the product ID belongs to the universe.
func (u *Universe) Contains(id int) bool {
	_, ok := u.Index(id)
	return ok
}

// ScoredProduct pairs a product ID with a score.
type ScoredProduct struct {
	ProductID int     `json:"product_id"`
	Score     float64 `json:"score"`
}

// ScoreVector holds one score per product of a Universe.
// Products without evidence score zero.
type ScoreVector struct {
	universe *Universe
	values   []float64
}

// NewScoreVector returns an all-zero vector over the universe.
func NewScoreVector(u *Universe) *ScoreVector {
	return &ScoreVector{
		universe: u,
		values:   make([]float64, u.Len()),
	}
}

// Universe returns the universe the vector is aligned to.
func (v *ScoreVector) Universe() *Universe {
	return v.universe
}

// Len returns the number of entries.
func (v *ScoreVector) Len() int {
	return len(v.values)
}

// At returns the score at universe position i.
func (v *ScoreVector) At(i int) float64 {
	return v.values[i]
}

// SetAt sets the score at universe position i.
func (v *ScoreVector) SetAt(i int, score float64) {
	v.values[i] = score
}

// AddAt adds delta to the score at universe position i.
func (v *ScoreVector) AddAt(i int, delta float64) {
	v.values[i] += delta
}

// Get returns the score of a product. Unknown products score zero.
func (v *ScoreVector) Get(productID int) float64 {
	i, ok := v.universe.Index(productID)
	if !ok {
		return 0
	}
	return v.values[i]
}

// Set sets the score of a product. It reports false when the product is
// outside the universe.
func (v *ScoreVector) Set(productID int, score float64) bool {
	i, ok := v.universe.Index(productID)
	if !ok {
		return false
	}
	v.values[i] = score
	return true
}

// Add adds delta to the score of a product. It reports false when the product
// is outside the universe.
func (v *ScoreVector) Add(productID int, delta float64) bool {
	i, ok := v.universe.Index(productID)
	if !ok {
		return false
	}
	v.values[i] += delta
	return true
}

// Values returns a copy of the raw scores in universe order.
func (v *ScoreVector) Values() []float64 {
	return slices.Clone(v.values)
}

// Map returns the non-zero scores keyed by product ID.
func (v *ScoreVector) Map() map[int]float64 {
	out := make(map[int]float64)
	for i, s := range v.values {
		if s != 0 {
			out[v.universe.ID(i)] = s
		}
	}
	return out
}

// Clone returns a deep copy of the vector.
func (v *ScoreVector) Clone() *ScoreVector {
	return &ScoreVector{
		universe: v.universe,
		values:   slices.Clone(v.values),
	}
}

// Max returns the largest score, or 0 for an empty vector.
func (v *ScoreVector) Max() float64 {
	if len(v.values) == 0 {
		return 0
	}
	return slices.Max(v.values)
}

// IsZero reports whether every entry is zero.
func (v *ScoreVector) IsZero() bool {
	for _, s := range v.values {
		if s != 0 {
			return false
		}
	}
	return true
}

// Normalize divides every entry by the maximum entry. A vector whose maximum
// is not positive is left unchanged. Returns v for chaining.
func (v *ScoreVector) Normalize() *ScoreVector {
	maxScore := v.Max()
	if maxScore <= 0 || math.IsInf(maxScore, 0) || math.IsNaN(maxScore) {
		return v
	}
	for i := range v.values {
		v.values[i] /= maxScore
	}
	return v
}

// Scale multiplies every entry by factor. Returns v for chaining.
func (v *ScoreVector) Scale(factor float64) *ScoreVector {
	for i := range v.values {
		v.values[i] *= factor
	}
	return v
}

// AddScaled adds factor*other to v entry-wise. Both vectors must share a universe.
func (v *ScoreVector) AddScaled(other *ScoreVector, factor float64) *ScoreVector {
	for i := range v.values {
		v.values[i] += factor * other.values[i]
	}
	return v
}

// Sanitize replaces NaN and infinite entries with zero and returns how many
// entries were repaired.
func (v *ScoreVector) Sanitize() int {
	repaired := 0
	for i, s := range v.values {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			v.values[i] = 0
			repaired++
		}
	}
	return repaired
}

// TopK returns up to k products with a strictly positive score, ordered by
// score descending and product ID ascending on ties.
func (v *ScoreVector) TopK(k int) []ScoredProduct {
	if k <= 0 {
		return nil
	}

	candidates := make([]ScoredProduct, 0, min(k*4, len(v.values)))
	for i, s := range v.values {
		if s > 0 {
			candidates = append(candidates, ScoredProduct{ProductID: v.universe.ID(i), Score: s})
		}
	}

	slices.SortFunc(candidates, compareScored)
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

// compareScored orders by score descending, then product ID ascending.
func compareScored(a, b ScoredProduct) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.ProductID, b.ProductID)
}
