// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package sessiongraph

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Propagate runs one gated graph step for a single session.
//
// A is N×2N with the normalized in-edge block in columns [0, N) and the
// out-edge block in [N, 2N). hidden is N×H and is not modified. The result
// has the same shape as hidden.
func (p *GRUParams) Propagate(A, hidden *mat.Dense) (*mat.Dense, error) {
	n, h := hidden.Dims()
	if r, c := A.Dims(); r != n || c != 2*n {
		return nil, shapeErrorf("propagate", "adjacency is %dx%d, want %dx%d", r, c, n, 2*n)
	}
	if p.EdgeIn.In() != h {
		return nil, shapeErrorf("propagate", "hidden width %d, cell expects %d", h, p.EdgeIn.In())
	}

	inMsg := aggregate(A.Slice(0, n, 0, n), p.EdgeIn.Forward(hidden), p.InBias)
	outMsg := aggregate(A.Slice(0, n, n, 2*n), p.EdgeOut.Forward(hidden), p.OutBias)

	var inputs mat.Dense
	inputs.Augment(inMsg, outMsg)

	gi := p.Input.Forward(&inputs)
	gh := p.Hidden.Forward(hidden)

	next := mat.NewDense(n, h, nil)
	for i := 0; i < n; i++ {
		giRow, ghRow := gi.RawRowView(i), gh.RawRowView(i)
		prev, dst := hidden.RawRowView(i), next.RawRowView(i)
		for j := 0; j < h; j++ {
			reset := sigmoid(giRow[j] + ghRow[j])
			update := sigmoid(giRow[h+j] + ghRow[h+j])
			cand := math.Tanh(giRow[2*h+j] + reset*ghRow[2*h+j])
			dst[j] = cand + update*(prev[j]-cand)
		}
	}
	return next, nil
}

// aggregate returns block·projected with bias added to every row.
func aggregate(block mat.Matrix, projected *mat.Dense, bias []float64) *mat.Dense {
	rows, _ := block.Dims()
	_, cols := projected.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Mul(block, projected)
	for i := 0; i < rows; i++ {
		floats.Add(out.RawRowView(i), bias)
	}
	return out
}

// Propagate runs one gated graph step for every session in the batch using
// the model's cell parameters.
func (m *Model) Propagate(A, hidden []*mat.Dense) ([]*mat.Dense, error) {
	if len(A) != len(hidden) {
		return nil, shapeErrorf("propagate", "%d adjacency matrices for %d sessions", len(A), len(hidden))
	}
	out := make([]*mat.Dense, len(hidden))
	for b := range hidden {
		next, err := m.params.Star.Cell.Propagate(A[b], hidden[b])
		if err != nil {
			return nil, err
		}
		out[b] = next
	}
	return out, nil
}
