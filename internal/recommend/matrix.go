// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"slices"
)

// InteractionMatrix is a sparse user x product matrix of summed interaction weights.
// Rows and columns are exactly the users and products that appear in at least
// one interaction.
type InteractionMatrix struct {
	rows     map[int]map[int]float64
	users    []int
	products map[int]int // product ID -> number of users with a non-zero cell
}

// NewInteractionMatrix returns an empty matrix.
func NewInteractionMatrix() *InteractionMatrix {
	return &InteractionMatrix{
		rows:     make(map[int]map[int]float64),
		products: make(map[int]int),
	}
}

// BuildInteractionMatrix sums the type weights of all interactions.
func BuildInteractionMatrix(interactions []Interaction) *InteractionMatrix {
	m := NewInteractionMatrix()
	for i := range interactions {
		m.Add(interactions[i].UserID, interactions[i].ProductID, interactions[i].Weight())
	}
	return m
}

// Add accumulates weight into the (user, product) cell.
func (m *InteractionMatrix) Add(userID, productID int, weight float64) {
	row, ok := m.rows[userID]
	if !ok {
		row = make(map[int]float64)
		m.rows[userID] = row
		idx, _ := slices.BinarySearch(m.users, userID)
		m.users = slices.Insert(m.users, idx, userID)
	}
	if _, seen := row[productID]; !seen {
		m.products[productID]++
	}
	row[productID] += weight
}

// Row returns the user's row. The returned map must not be modified.
func (m *InteractionMatrix) Row(userID int) (map[int]float64, bool) {
	if m == nil {
		return nil, false
	}
	row, ok := m.rows[userID]
	return row, ok
}

// Weight returns the summed weight of a cell.
func (m *InteractionMatrix) Weight(userID, productID int) float64 {
	row, ok := m.Row(userID)
	if !ok {
		return 0
	}
	return row[productID]
}

// HasUser reports whether the user has a row.
func (m *InteractionMatrix) HasUser(userID int) bool {
	_, ok := m.Row(userID)
	return ok
}

// HasProduct reports whether the product has a column.
func (m *InteractionMatrix) HasProduct(productID int) bool {
	if m == nil {
		return false
	}
	_, ok := m.products[productID]
	return ok
}

// Users returns the row user IDs in ascending order.
func (m *InteractionMatrix) Users() []int {
	if m == nil {
		return nil
	}
	return slices.Clone(m.users)
}

// Products returns the column product IDs in ascending order.
func (m *InteractionMatrix) Products() []int {
	if m == nil {
		return nil
	}
	ids := make([]int, 0, len(m.products))
	for id := range m.products {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// NumUsers returns the number of rows.
func (m *InteractionMatrix) NumUsers() int {
	if m == nil {
		return 0
	}
	return len(m.users)
}

// NumProducts returns the number of columns.
func (m *InteractionMatrix) NumProducts() int {
	if m == nil {
		return 0
	}
	return len(m.products)
}
