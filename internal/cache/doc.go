// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

/*
Package cache provides a generic, thread-safe LRU cache with TTL expiration.

The recommendation engine caches ranked next-item lists keyed by the
session's item sequence, so repeated requests for the same prefix skip the
forward pass.

# Usage

	c := cache.NewLRU[*recommend.Response](10000, 5*time.Minute)
	c.Add(key, resp)
	if cached, ok := c.Get(key); ok {
	    // serve cached response
	}

Expired entries are removed lazily on access or explicitly with
CleanupExpired.
*/
package cache
