// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed by the API router at /metrics.

# Available Metrics

Model Metrics:
  - model_forward_duration_seconds: Forward pass latency (histogram)
    Labels: mode (evaluate, recommend)
  - model_batch_sessions: Sessions per forward pass (histogram)
  - model_errors_total: Failed forward passes (counter)
    Labels: mode, error_type (non_finite, shape, other)
  - model_non_finite_total: Divergence by checkpoint (counter)
    Labels: checkpoint
  - model_parameters, model_items: Size of the loaded model (gauges)

Evaluation Metrics:
  - evaluation_duration_seconds: Full evaluation latency (histogram)
  - evaluation_hit_rate_percent, evaluation_mrr_percent: Top-K accuracy (gauges)
  - evaluation_popularity_bias: Mean count-table value of top-K lists (gauge)
  - evaluation_loss: Mean cross-entropy (gauge)
  - evaluation_sessions: Sessions scored (gauge)

Recommendation Metrics:
  - recommend_requests_total: Requests by status (counter)
    Labels: status (ok, cached, error)
  - recommend_duration_seconds: Request latency (histogram)

Cache Metrics:
  - cache_hits_total, cache_misses_total: Lookups (counters)
    Labels: cache
  - cache_entries: Current size (gauge)

HTTP Metrics:
  - http_requests_total: Total HTTP requests (counter)
    Labels: method, endpoint, status
  - http_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - http_requests_in_flight: Active requests (gauge)

# Usage

	start := time.Now()
	scores, err := model.Forward(batch)
	metrics.RecordForward("evaluate", batch.Size(), time.Since(start), errorType(err))

# Thread Safety

All collectors and helpers are safe for concurrent use.
*/
package metrics
