// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

/*
Package api exposes the recommendation engine over HTTP using the chi router.

Endpoints:

	POST /api/v1/recommendations/next   next-item recommendations for a session
	GET  /api/v1/model                  served model description
	GET  /api/v1/model/evaluation       last holdout evaluation
	POST /api/v1/model/evaluate         run a holdout evaluation now
	GET  /api/v1/stats                  engine counters
	GET  /api/v1/health/live            liveness probe
	GET  /api/v1/health/ready           readiness probe
	GET  /metrics                       Prometheus exposition

Every JSON response uses the APIResponse envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "request_id": "...", "query_time_ms": 3}
	}

Errors set status to "error" and fill the error object with a
machine-readable code, a message and optional details such as the failed
validation rules.

Middleware (in order): request id, real IP, panic recovery, access log,
CORS, security headers, then per-group httprate limits and Prometheus
instrumentation.
*/
package api
