// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidIdentifier is returned when a user or product identifier
	// cannot be converted to an integer ID.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrUnknownUser means the user has no row in the data the scorer needs.
	// Callers treat it as a cold or empty case, not a failure.
	ErrUnknownUser = errors.New("unknown user")

	// ErrUnknownProduct means the product is not in the catalog.
	ErrUnknownProduct = errors.New("unknown product")

	// ErrMissingLocation means the user has no location for cohort selection.
	ErrMissingLocation = errors.New("user has no location")

	// ErrEmptyCatalog means the product universe is empty.
	ErrEmptyCatalog = errors.New("empty catalog")

	// ErrNumericInstability is recorded when NaN or Inf values had to be repaired.
	ErrNumericInstability = errors.New("numeric instability")

	// ErrDegenerateAggregate means every strategy vector was zero or missing.
	ErrDegenerateAggregate = errors.New("degenerate aggregate")

	// ErrUnknownStrategy is returned for probe requests naming no known strategy.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrStrategyUnavailable means no scorer is registered for a strategy.
	ErrStrategyUnavailable = errors.New("strategy not registered")

	// ErrInvalidInteractionType is returned for interaction types other than
	// view, add_to_cart and purchase.
	ErrInvalidInteractionType = errors.New("invalid interaction type")

	// ErrNotReady means no model snapshot has been published yet.
	ErrNotReady = errors.New("model snapshot not ready")

	// ErrRebuildInProgress is returned when a rebuild is already running.
	ErrRebuildInProgress = errors.New("rebuild already in progress")
)

// ParseID converts a raw identifier into a non-negative integer ID.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	if id < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidIdentifier, id)
	}
	return id, nil
}
