// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package dataset

import (
	"fmt"
	"math/rand/v2"
)

// Dataset is an immutable, validated list of sessions.
type Dataset struct {
	sessions []Session
}

// New validates sessions and wraps them. The slice is not copied.
func New(sessions []Session) (*Dataset, error) {
	for i, s := range sessions {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("session %d: %w", i, err)
		}
	}
	return &Dataset{sessions: sessions}, nil
}

// Len returns the number of sessions.
func (d *Dataset) Len() int {
	return len(d.sessions)
}

// Sessions returns the underlying sessions.
func (d *Dataset) Sessions() []Session {
	return d.sessions
}

// Batches partitions session indices into chunks of batchSize. The final
// chunk holds the remainder. When rng is non-nil the order is shuffled
// first.
func (d *Dataset) Batches(batchSize int, rng *rand.Rand) [][]int {
	if batchSize < 1 || len(d.sessions) == 0 {
		return nil
	}
	order := make([]int, len(d.sessions))
	for i := range order {
		order[i] = i
	}
	if rng != nil {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	batches := make([][]int, 0, (len(order)+batchSize-1)/batchSize)
	for start := 0; start < len(order); start += batchSize {
		end := min(start+batchSize, len(order))
		batches = append(batches, order[start:end])
	}
	return batches
}

// Slice builds the padded batch for the given session indices.
func (d *Dataset) Slice(indices []int) (*Slice, error) {
	batch := make([]Session, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(d.sessions) {
			return nil, fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalidSession, idx, len(d.sessions))
		}
		batch[i] = d.sessions[idx]
	}
	return BuildSlice(batch)
}
