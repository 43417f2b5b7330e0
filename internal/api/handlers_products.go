// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/hybridrec/internal/models"
	"github.com/tomtom215/hybridrec/internal/recommend"
)

// Products handles GET /api/v1/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.engine.Products()
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, r, map[string]interface{}{
		"products": products,
		"count":    len(products),
	}, models.Metadata{})
}

// Product handles GET /api/v1/products/{productID}.
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "productID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_PRODUCT_ID", "Invalid product ID", err)
		return
	}
	p, err := h.engine.Product(id)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, r, p, models.Metadata{})
}

// SearchProducts handles GET /api/v1/products/search.
//
// query matches name, description, category or brand as a case-insensitive
// substring; category and brand must match exactly, ignoring case.
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.ToLower(strings.TrimSpace(q.Get("query")))
	category := strings.TrimSpace(q.Get("category"))
	brand := strings.TrimSpace(q.Get("brand"))

	products, err := h.engine.Products()
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	matches := make([]recommend.Product, 0)
	for i := range products {
		p := &products[i]
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if brand != "" && !strings.EqualFold(p.Brand, brand) {
			continue
		}
		if query != "" && !productContains(p, query) {
			continue
		}
		matches = append(matches, *p)
	}

	respondSuccess(w, r, map[string]interface{}{
		"products": matches,
		"count":    len(matches),
	}, models.Metadata{})
}

func productContains(p *recommend.Product, lowerQuery string) bool {
	for _, field := range []string{p.Name, p.Description, p.Category, p.Brand} {
		if strings.Contains(strings.ToLower(field), lowerQuery) {
			return true
		}
	}
	return false
}
