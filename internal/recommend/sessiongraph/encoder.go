// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package sessiongraph

import "gonum.org/v1/gonum/mat"

// Encode embeds the node ids of every session and refines them with the
// configured number of star steps. Shapes are checked before any numeric work.
func (m *Model) Encode(items [][]int, A []*mat.Dense, mask [][]int) ([]*mat.Dense, [][]float64, error) {
	if err := validateEncodeInputs(items, A, mask); err != nil {
		return nil, nil, err
	}
	hidden, err := m.Embed(items)
	if err != nil {
		return nil, nil, err
	}
	return m.Refine(A, hidden, mask, m.cfg.Steps)
}

func validateEncodeInputs(items [][]int, A []*mat.Dense, mask [][]int) error {
	const op = "encode"
	if len(items) == 0 {
		return shapeErrorf(op, "empty batch")
	}
	if len(A) != len(items) || len(mask) != len(items) {
		return shapeErrorf(op, "batch sizes differ: items %d, adjacency %d, mask %d",
			len(items), len(A), len(mask))
	}
	for b, row := range items {
		n := len(row)
		if A[b] == nil {
			return shapeErrorf(op, "session %d: nil adjacency", b)
		}
		if r, c := A[b].Dims(); r != n || c != 2*n {
			return shapeErrorf(op, "session %d: adjacency is %dx%d, want %dx%d", b, r, c, n, 2*n)
		}
		if len(mask[b]) < n {
			return shapeErrorf(op, "session %d: mask has %d entries for %d nodes", b, len(mask[b]), n)
		}
		if err := validateMask(op, b, mask[b]); err != nil {
			return err
		}
	}
	return nil
}

func validateMask(op string, session int, mask []int) error {
	for i, v := range mask {
		if v != 0 && v != 1 {
			return shapeErrorf(op, "session %d: mask[%d] = %d, want 0 or 1", session, i, v)
		}
	}
	return nil
}
