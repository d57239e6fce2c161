// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package sessiongraph

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// checkpoint identifies where a finite check runs.
type checkpoint struct {
	session int
	step    int
}

func (c checkpoint) vec(name string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &NonFiniteError{Checkpoint: name, Session: c.session, Step: c.step, Index: i, Value: v}
		}
	}
	return nil
}

func (c checkpoint) dense(name string, m *mat.Dense) error {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j, v := range m.RawRowView(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &NonFiniteError{Checkpoint: name, Session: c.session, Step: c.step, Index: i*cols + j, Value: v}
			}
		}
	}
	return nil
}
