// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import "time"

// Observer receives engine events for instrumentation.
// Implementations must be safe for concurrent use and must not block.
type Observer interface {
	// ObserveRecommendation is called once per served response.
	ObserveRecommendation(resp *Response, cached bool, duration time.Duration)

	// ObserveInteraction is called after an interaction was persisted.
	ObserveInteraction(path UpdatePath)

	// ObserveRebuild is called after every rebuild attempt.
	ObserveRebuild(duration time.Duration, err error)

	// ObserveSnapshot is called whenever the model state changes.
	ObserveSnapshot(status Status)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) ObserveRecommendation(*Response, bool, time.Duration) {}
func (NopObserver) ObserveInteraction(UpdatePath)                        {}
func (NopObserver) ObserveRebuild(time.Duration, error)                  {}
func (NopObserver) ObserveSnapshot(Status)                               {}

var _ Observer = NopObserver{}
