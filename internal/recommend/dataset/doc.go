// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

// Package dataset turns raw sessions into padded graph batches for the
// session-graph model.
//
// # Pipeline
//
//  1. Sessionize groups timestamped events into ordered item sequences,
//     splitting on an inactivity gap.
//  2. Vocabulary maps raw item ids onto the dense range 1..n (0 is padding).
//  3. Augment expands each full sequence into (prefix, next item) pairs.
//  4. Dataset shuffles and chunks the pairs; BuildSlice converts each chunk
//     into node lists, normalized [in | out] adjacency, alias indices, masks
//     and targets.
//
// Sessions are stored as JSON lines, one {"items": [...], "target": n}
// object per line.
package dataset
