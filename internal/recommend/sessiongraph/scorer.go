// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package sessiongraph

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Score pools each session's sequence states into a session vector and
// returns a B×(NumItems-1) matrix whose column j scores item j+1.
//
// hidden[b] is L×H (sequence order, typically produced by Gather), star[b]
// has length H and mask[b] has length L. The head logits are used as raw
// pooling weights without a softmax.
func (m *Model) Score(hidden []*mat.Dense, star [][]float64, mask [][]int) (*mat.Dense, error) {
	if len(hidden) == 0 {
		return nil, shapeErrorf("score", "empty batch")
	}
	if len(star) != len(hidden) || len(mask) != len(hidden) {
		return nil, shapeErrorf("score", "batch sizes differ: hidden %d, star %d, mask %d",
			len(hidden), len(star), len(mask))
	}

	sessions := mat.NewDense(len(hidden), m.cfg.HiddenSize, nil)
	for b := range hidden {
		vec, err := m.sessionVector(b, hidden[b], star[b], mask[b])
		if err != nil {
			return nil, err
		}
		sessions.SetRow(b, vec)
	}

	items := m.candidates()
	rows, _ := items.Dims()
	scores := mat.NewDense(len(hidden), rows, nil)
	scores.Mul(sessions, items.T())
	scores.Scale(m.cfg.ScoreScale, scores)

	for b := range hidden {
		if err := (checkpoint{session: b, step: -1}).vec("scores", scores.RawRowView(b)); err != nil {
			return nil, err
		}
	}
	return scores, nil
}

// sessionVector computes the normalized session representation.
func (m *Model) sessionVector(b int, hidden *mat.Dense, star []float64, mask []int) ([]float64, error) {
	const op = "score"
	l, h := hidden.Dims()
	if h != m.cfg.HiddenSize {
		return nil, shapeErrorf(op, "session %d: hidden width %d, want %d", b, h, m.cfg.HiddenSize)
	}
	if len(mask) != l {
		return nil, shapeErrorf(op, "session %d: mask has %d entries for %d positions", b, len(mask), l)
	}
	if len(star) != h {
		return nil, shapeErrorf(op, "session %d: star has %d entries, want %d", b, len(star), h)
	}
	if err := validateMask(op, b, mask); err != nil {
		return nil, err
	}
	valid := countValid(mask)
	if valid == 0 {
		return nil, fmt.Errorf("%s: session %d: %w", op, b, ErrEmptySession)
	}

	p := &m.params.Score
	last := append([]float64(nil), hidden.RawRowView(valid-1)...)
	q1 := p.Last.ForwardVec(last)
	q3 := p.Star.ForwardVec(star)

	act := p.Seq.Forward(hidden)
	for i := 0; i < l; i++ {
		row := act.RawRowView(i)
		for j := range row {
			row[j] = sigmoid(row[j] + q1[j] + q3[j])
		}
	}
	logits := p.Heads.Forward(act)

	heads := m.cfg.Heads
	pooled := make([]float64, h*heads, h*(heads+1))
	for i := 0; i < l; i++ {
		if mask[i] == 0 {
			continue
		}
		state := hidden.RawRowView(i)
		for k := 0; k < heads; k++ {
			floats.AddScaled(pooled[k*h:(k+1)*h], logits.At(i, k), state)
		}
	}

	if !m.cfg.NonHybrid {
		pooled = p.Transform.ForwardVec(append(pooled, last...))
	}
	return p.SessionNorm.Vec(pooled), nil
}

// candidates returns the normalized embeddings of items 1..NumItems-1.
func (m *Model) candidates() *mat.Dense {
	rows, cols := m.params.Embedding.Dims()
	return m.params.Score.ItemNorm.Rows(m.params.Embedding.Slice(1, rows, 0, cols))
}
