// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package dataset

import (
	"errors"
	"fmt"
)

// ErrInvalidSession is returned for sessions that cannot be batched.
var ErrInvalidSession = errors.New("invalid session")

// Session is one training or evaluation example: the observed prefix of a
// session and the item that followed it.
type Session struct {
	// Items are dense item ids in click order. All ids are >= 1.
	Items []int `json:"items"`

	// Target is the dense id of the next item (>= 1).
	Target int `json:"target"`
}

// Validate checks that the session can be batched.
func (s Session) Validate() error {
	if len(s.Items) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidSession)
	}
	for i, id := range s.Items {
		if id < 1 {
			return fmt.Errorf("%w: items[%d] = %d, ids start at 1", ErrInvalidSession, i, id)
		}
	}
	if s.Target < 1 {
		return fmt.Errorf("%w: target = %d, ids start at 1", ErrInvalidSession, s.Target)
	}
	return nil
}

// MaxItemID returns the largest item id referenced by sessions, targets
// included.
func MaxItemID(sessions []Session) int {
	highest := 0
	for _, s := range sessions {
		for _, id := range s.Items {
			highest = max(highest, id)
		}
		highest = max(highest, s.Target)
	}
	return highest
}

// CountTable returns per-item occurrence counts indexed by dense id. The
// table has numItems rows; ids outside it are ignored.
func CountTable(sessions []Session, numItems int) []float64 {
	counts := make([]float64, numItems)
	add := func(id int) {
		if id > 0 && id < numItems {
			counts[id]++
		}
	}
	for _, s := range sessions {
		for _, id := range s.Items {
			add(id)
		}
		add(s.Target)
	}
	return counts
}
