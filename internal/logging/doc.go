// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

// Package logging provides the process-wide zerolog logger.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logging.Info().Str("addr", addr).Msg("server starting")
//
// Components derive their own logger once and keep it:
//
//	logger := logging.WithComponent("evaluation")
//
// Request handlers log through Ctx, which adds the request_id and
// correlation_id stored in the context by the API middleware.
//
// The supervisor tree needs an *slog.Logger; NewSlogLogger adapts the
// zerolog logger to slog so suture events end up in the same stream.
//
// Always terminate a log chain with Msg or Send, otherwise nothing is
// written.
package logging
