// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package models

import (
	"time"
)

// InteractionRequest is the body of POST /api/v1/interactions.
//
// UserID and ProductID are pointers so a missing field is distinguishable
// from id 0.
type InteractionRequest struct {
	UserID          *int                `json:"user_id" validate:"required,min=0"`
	ProductID       *int                `json:"product_id" validate:"required,min=0"`
	InteractionType string              `json:"interaction_type" validate:"required,interaction_type"`
	Timestamp       *time.Time          `json:"timestamp,omitempty"`
	Context         *InteractionContext `json:"context,omitempty"`
}

// InteractionContext is the optional situational context of an interaction.
type InteractionContext struct {
	TimeOfDay string `json:"time_of_day" validate:"max=32"`
	Device    string `json:"device" validate:"max=32"`
	Location  string `json:"location" validate:"max=128"`
}

// InteractionResponse is returned after an interaction is recorded.
type InteractionResponse struct {
	InteractionID   uint64    `json:"interaction_id"`
	UserID          int       `json:"user_id"`
	ProductID       int       `json:"product_id"`
	InteractionType string    `json:"interaction_type"`
	Timestamp       time.Time `json:"timestamp"`
	UpdatePath      string    `json:"update_path"`
}

// ProbeResponse is the raw score vector of a single strategy.
type ProbeResponse struct {
	Strategy string          `json:"strategy"`
	UserID   int             `json:"user_id"`
	Scores   map[int]float64 `json:"scores"`

	// Error is set when the strategy failed and contributed a zero vector.
	Error string `json:"error,omitempty"`
}

// LocationProbeResponse ranks products by demographic evidence for a location.
type LocationProbeResponse struct {
	Location string        `json:"location"`
	Items    []ScoredEntry `json:"items"`
}

// ScoredEntry is a product with a score and no provenance.
type ScoredEntry struct {
	ProductID int     `json:"product_id"`
	Score     float64 `json:"score"`
}
