// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

// Package sessiongraph implements the star session-graph recommendation model.
//
// A session is a short ordered list of item ids. The model turns each session
// into a small directed graph of its distinct items, propagates item states
// along the in/out edges with a gated recurrent cell, and refines the states
// against a single per-session "star" vector with two attention rounds per
// step. A multi-head attention head then pools the refined states into a
// session vector which is scored against every real item embedding.
//
// # Components
//
//   - Embedding: item lookup followed by layer normalization
//   - Propagate: one gated graph step over [in-block | out-block] adjacency
//   - Refine: star attention loop (propagate, node-to-star, fuse,
//     star-to-node, update star) and a final residual gate
//   - Encode: Embed + Refine
//   - Score: multi-head pooling and scaled dot product against items 1..n-1
//
// # Tensor Layout
//
// Batches are slices indexed by session. Per session, node and sequence
// states are gonum *mat.Dense matrices (rows = nodes or positions, cols =
// hidden size) and the star vector is a []float64 of hidden size.
//
// # Numerical Invariants
//
// Every attention weight, hidden state and star vector is checked at fixed
// checkpoints. A NaN or Inf aborts the call with an error wrapping
// ErrNonFinite; values are never clipped or substituted.
//
// # Thread Safety
//
// A Model is read-only during Encode and Score and may be shared by
// concurrent callers. Mutating Params while calls are in flight is not safe.
package sessiongraph
