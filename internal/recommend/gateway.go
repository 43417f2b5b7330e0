// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"context"
	"fmt"
)

// Gateway is the catalog and interaction store the engine reads snapshots from
// and appends interactions to. It is typically implemented by the store package.
type Gateway interface {
	// ListUsers returns every user.
	ListUsers(ctx context.Context) ([]User, error)

	// ListProducts returns the whole catalog.
	ListProducts(ctx context.Context) ([]Product, error)

	// ListInteractions returns every interaction ordered by ID.
	ListInteractions(ctx context.Context) ([]Interaction, error)

	// ListUserContexts returns the stored per-user context records.
	ListUserContexts(ctx context.Context) ([]UserContext, error)

	// GetUser returns a user, or ErrUnknownUser.
	GetUser(ctx context.Context, id int) (*User, error)

	// GetProduct returns a product, or ErrUnknownProduct.
	GetProduct(ctx context.Context, id int) (*Product, error)

	// InsertInteraction persists an interaction and returns it with its
	// assigned sequence ID.
	InsertInteraction(ctx context.Context, in Interaction) (Interaction, error)
}

// LoadDataset reads a full dataset from the gateway.
func LoadDataset(ctx context.Context, gw Gateway) (*Dataset, error) {
	users, err := gw.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	products, err := gw.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	interactions, err := gw.ListInteractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	contexts, err := gw.ListUserContexts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user contexts: %w", err)
	}

	return &Dataset{
		Users:        users,
		Products:     products,
		Interactions: interactions,
		Contexts:     contexts,
	}, nil
}
