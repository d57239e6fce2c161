// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

// Package services provides suture.Service wrappers for the long-running
// parts of the recommendation server.
//
//   - HTTPServerService runs the API server with graceful shutdown.
//   - EvaluationService periodically evaluates the served model on the
//     holdout set.
//
// Every service returns ctx.Err() when its context is canceled and
// implements fmt.Stringer so suture can name it in log events.
package services
