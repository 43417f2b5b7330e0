// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package cache provides a thread-safe generic LRU cache with TTL support.

The recommendation engine uses it to memoize responses keyed by user, k and
model version. Every published snapshot or incremental update bumps the model
version, so stale entries are never served; they age out by LRU order or TTL.

# Usage Example

	c := cache.NewLRU[string, *recommend.Response](4096, time.Minute)
	c.Add(key, resp)
	if resp, ok := c.Get(key); ok {
	    // serve cached response
	}

# Thread Safety

All methods are safe for concurrent use. Operations are O(1).
*/
package cache
