// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

/*
Package middleware provides chi-compatible HTTP middleware shared by the API.

  - RequestID: accepts or generates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request counts, latencies and in-flight gauge labelled
    by chi route pattern
  - AccessLog: one structured zerolog line per request

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

Route patterns ("/api/v1/recommendations/next") rather than raw paths are
used as metric labels so that label cardinality stays bounded.
*/
package middleware
