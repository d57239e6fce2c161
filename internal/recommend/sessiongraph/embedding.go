// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package sessiongraph

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Embed looks up every node id and normalizes the resulting vectors.
// It returns one N×H matrix per session.
func (m *Model) Embed(items [][]int) ([]*mat.Dense, error) {
	if len(items) == 0 {
		return nil, shapeErrorf("embed", "empty batch")
	}
	table := m.params.Embedding
	out := make([]*mat.Dense, len(items))
	for b, row := range items {
		if len(row) == 0 {
			return nil, fmt.Errorf("embed: session %d: %w", b, ErrEmptySession)
		}
		raw := mat.NewDense(len(row), m.cfg.HiddenSize, nil)
		for n, id := range row {
			if id < 0 || id >= m.cfg.NumItems {
				return nil, fmt.Errorf("embed: session %d position %d: %w: %d not in [0, %d)",
					b, n, ErrInvalidItem, id, m.cfg.NumItems)
			}
			copy(raw.RawRowView(n), table.RawRowView(id))
		}
		out[b] = m.params.EmbeddingNorm.Rows(raw)
	}
	return out, nil
}
