// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

// Package evaluation ranks model scores and aggregates next-item metrics.
//
// For every session the top-K candidate columns are selected. A hit is
// recorded when target-1 is among them; the reciprocal rank is 1/(position+1)
// of the target within the list and 0 otherwise. Phi is the mean count-table
// value of the recommended items, measuring popularity bias. Hit rate and MRR
// are reported as percentages. Loss is the mean cross-entropy of the scores
// against target-1.
//
// Evaluator runs independent batches on a bounded errgroup worker pool and
// merges per-batch accumulators in batch order, so results do not depend on
// scheduling.
package evaluation
