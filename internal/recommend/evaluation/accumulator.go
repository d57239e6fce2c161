// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package evaluation

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// DefaultK is the cutoff used for hit rate, MRR and phi.
const DefaultK = 20

// ErrInvalidTarget is returned when a target does not index a score column.
var ErrInvalidTarget = errors.New("target out of range")

// Result summarizes an evaluation run.
type Result struct {
	// K is the ranking cutoff.
	K int `json:"k"`

	// Sessions is the number of scored sessions.
	Sessions int `json:"sessions"`

	// HitRate is the percentage of sessions whose target is in the top K.
	HitRate float64 `json:"hit_rate"`

	// MRR is the mean reciprocal rank at K, as a percentage.
	MRR float64 `json:"mrr"`

	// Phi is the mean count-table value of recommended items.
	Phi float64 `json:"phi"`

	// Loss is the mean cross-entropy against target-1.
	Loss float64 `json:"loss"`
}

// Accumulator collects per-session metrics. It is not safe for concurrent
// use; evaluate batches into separate accumulators and Merge them.
type Accumulator struct {
	k      int
	counts []float64

	sessions int
	hits     float64
	rr       float64
	phi      float64
	loss     float64
}

// NewAccumulator returns an accumulator with cutoff k. counts is the
// per-item frequency table indexed by item id (nil disables phi).
func NewAccumulator(k int, counts []float64) *Accumulator {
	if k <= 0 {
		k = DefaultK
	}
	return &Accumulator{k: k, counts: counts}
}

// Add scores one session. scores[j] is the score of item j+1 and target is
// the 1-indexed next item.
func (a *Accumulator) Add(scores []float64, target int) error {
	col := target - 1
	if col < 0 || col >= len(scores) {
		return fmt.Errorf("%w: target %d for %d candidates", ErrInvalidTarget, target, len(scores))
	}

	top := TopK(scores, a.k)
	if rank := Rank(top, col); rank >= 0 {
		a.hits++
		a.rr += 1 / float64(rank+1)
	}

	if a.counts != nil {
		var phi float64
		for _, idx := range top {
			if item := idx + 1; item < len(a.counts) {
				phi += a.counts[item]
			}
		}
		a.phi += phi / float64(len(top))
	}

	a.loss += CrossEntropy(scores, col)
	a.sessions++
	return nil
}

// Merge adds the totals of other into a.
func (a *Accumulator) Merge(other *Accumulator) {
	a.sessions += other.sessions
	a.hits += other.hits
	a.rr += other.rr
	a.phi += other.phi
	a.loss += other.loss
}

// Result returns the averaged metrics. All averages are zero when no
// session was added.
func (a *Accumulator) Result() Result {
	r := Result{K: a.k, Sessions: a.sessions}
	if a.sessions == 0 {
		return r
	}
	n := float64(a.sessions)
	r.HitRate = a.hits / n * 100
	r.MRR = a.rr / n * 100
	r.Phi = a.phi / n
	r.Loss = a.loss / n
	return r
}

// CrossEntropy returns -log softmax(scores)[col].
func CrossEntropy(scores []float64, col int) float64 {
	return floats.LogSumExp(scores) - scores[col]
}
