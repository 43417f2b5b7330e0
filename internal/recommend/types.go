// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"fmt"
	"time"
)

// InteractionType represents the kind of implicit feedback a user gave a product.
type InteractionType string

const (
	// InteractionView is a product page view.
	InteractionView InteractionType = "view"

	// InteractionAddToCart is an add-to-cart event.
	InteractionAddToCart InteractionType = "add_to_cart"

	// InteractionPurchase is a completed purchase.
	InteractionPurchase InteractionType = "purchase"
)

// InteractionTypes lists every accepted interaction type in ascending weight order.
var InteractionTypes = []InteractionType{
	InteractionView,
	InteractionAddToCart,
	InteractionPurchase,
}

// String returns the wire name of the interaction type.
func (t InteractionType) String() string {
	return string(t)
}

// Weight returns the implicit-feedback weight of the interaction type.
// Unknown types weigh zero.
func (t InteractionType) Weight() float64 {
	switch t {
	case InteractionView:
		return 1.0
	case InteractionAddToCart:
		return 3.0
	case InteractionPurchase:
		return 5.0
	default:
		return 0
	}
}

// Valid reports whether t is one of the accepted interaction types.
func (t InteractionType) Valid() bool {
	return t.Weight() > 0
}

// ParseInteractionType converts a wire name into an InteractionType.
func ParseInteractionType(s string) (InteractionType, error) {
	t := InteractionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidInteractionType, s)
	}
	return t, nil
}

// InteractionContext is the situational context recorded with an interaction.
type InteractionContext struct {
	TimeOfDay string `json:"time_of_day"`
	Device    string `json:"device"`
	Location  string `json:"location"`
}

// Interaction is a single append-only feedback event.
type Interaction struct {
	// ID is the gateway-assigned sequence number. Monotonically increasing.
	ID uint64 `json:"id"`

	UserID    int             `json:"user_id"`
	ProductID int             `json:"product_id"`
	Type      InteractionType `json:"interaction_type"`
	Timestamp time.Time       `json:"timestamp"`

	// Context is present only when the client reported one.
	Context *InteractionContext `json:"context,omitempty"`
}

// Weight returns the derived weight of the interaction.
func (i *Interaction) Weight() float64 {
	return i.Type.Weight()
}

// User is a shopper known to the catalog gateway.
type User struct {
	ID int `json:"user_id"`

	// Location is nil when the user never provided one.
	Location *string `json:"location"`

	Preferences map[string]string `json:"preferences,omitempty"`
}

// LocationValue returns the user's location and whether one is set.
func (u *User) LocationValue() (string, bool) {
	if u == nil || u.Location == nil || *u.Location == "" {
		return "", false
	}
	return *u.Location, true
}

// Product is a catalog entry. The set of product IDs forms the product universe.
type Product struct {
	ID          int     `json:"product_id"`
	Name        string  `json:"product_name,omitempty"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// UserContext is the stored context record for a user, matched against
// the context of recorded interactions.
type UserContext struct {
	UserID    int    `json:"user_id"`
	TimeOfDay string `json:"time_of_day"`
	Device    string `json:"device"`
	Location  string `json:"location"`
}

// Matches reports whether an interaction context equals this record on all fields.
func (c *UserContext) Matches(ic *InteractionContext) bool {
	if c == nil || ic == nil {
		return false
	}
	return c.TimeOfDay == ic.TimeOfDay &&
		c.Device == ic.Device &&
		c.Location == ic.Location
}

// Strategy names a scoring strategy. It doubles as the provenance label
// attached to recommended products.
type Strategy string

const (
	StrategyDemographic   Strategy = "demographic"
	StrategyContext       Strategy = "context"
	StrategyCollaborative Strategy = "collaborative"
	StrategyRecency       Strategy = "recency"
	StrategyContent       Strategy = "content"
	StrategyPopularity    Strategy = "popularity"
	StrategyLatent        Strategy = "latent"
)

// ProbeStrategies lists the strategies that can be inspected through Engine.Probe.
var ProbeStrategies = []Strategy{
	StrategyDemographic,
	StrategyContext,
	StrategyCollaborative,
	StrategyRecency,
	StrategyContent,
	StrategyPopularity,
	StrategyLatent,
}

// ParseStrategy converts a strategy name into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range ProbeStrategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Path identifies which router branch produced a response.
type Path string

const (
	// PathCold is used for users without any stored interaction.
	PathCold Path = "cold"

	// PathWarm is used for users with at least one stored interaction.
	PathWarm Path = "warm"

	// PathLatent marks responses served directly by the latent factor model.
	PathLatent Path = "latent"
)

// Recommendation is a ranked product with its score and provenance.
type Recommendation struct {
	ProductID int      `json:"product_id"`
	Score     float64  `json:"score"`
	Source    Strategy `json:"source"`

	// Product is attached by the engine when the catalog entry is known.
	Product *Product `json:"product,omitempty"`
}

// Response is the result of a recommendation request.
type Response struct {
	UserID       int              `json:"user_id"`
	Path         Path             `json:"path"`
	Items        []Recommendation `json:"items"`
	ModelVersion uint64           `json:"model_version"`
	GeneratedAt  time.Time        `json:"generated_at"`
	LatencyMS    int64            `json:"latency_ms"`

	// Degraded lists strategies that failed and were treated as zero vectors.
	Degraded []Strategy `json:"degraded,omitempty"`
}

// UpdatePath reports how a recorded interaction reached the model.
type UpdatePath string

const (
	// UpdateIncremental means the live snapshot was updated in place.
	UpdateIncremental UpdatePath = "incremental"

	// UpdateRebuild means a background full rebuild was requested.
	UpdateRebuild UpdatePath = "rebuild"

	// UpdateDeferred means no snapshot exists yet; the first build will include it.
	UpdateDeferred UpdatePath = "deferred"
)

// Status reports the engine's model state.
type Status struct {
	Ready          bool      `json:"ready"`
	ModelVersion   uint64    `json:"model_version"`
	Rebuilding     bool      `json:"rebuilding"`
	LastRebuildAt  time.Time `json:"last_rebuild_at,omitempty"`
	LastRebuildErr string    `json:"last_rebuild_error,omitempty"`
	Users          int       `json:"users"`
	Products       int       `json:"products"`
	Interactions   int       `json:"interactions"`
	MatrixUsers    int       `json:"matrix_users"`
	MatrixProducts int       `json:"matrix_products"`
	LatentUsers    int       `json:"latent_users"`
	LatentItems    int       `json:"latent_items"`
	Requests       int64     `json:"requests"`
	Rebuilds       int64     `json:"rebuilds"`
	Incremental    int64     `json:"incremental_updates"`
}
