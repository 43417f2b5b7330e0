// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package store provides the catalog and interaction gateway backed by BadgerDB.

The store holds users, products, per-user context records and the
append-only interaction log. It implements recommend.Gateway, so the
recommendation engine reads full datasets from it for rebuilds and appends
interactions through it.

# Key Layout

Every record is stored as JSON under a type prefix and a zero-padded
decimal ID, so prefix iteration returns records in ascending ID order:

	user:00000000000000000042
	product:00000000000000000007
	context:00000000000000000042
	interaction:00000000000000001337

Interaction IDs are assigned from a Badger sequence and are strictly
increasing across restarts (a restart may skip a leased range).

# Backends

With Config.InMemory the database lives only in memory, which is what tests
and local demos use. Otherwise it is persisted at Config.Path.

# Mock Data

SeedMockData fills an empty store with a deterministic synthetic catalog,
users across a handful of locations, context records and a month of
interactions, for local runs without a data import.

# Thread Safety

All Store methods are safe for concurrent use.
*/
package store
