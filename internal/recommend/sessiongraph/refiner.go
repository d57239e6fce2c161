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

// refineState is the loop state of a single session's refinement.
type refineState struct {
	hidden *mat.Dense
	star   []float64
	step   int
}

// Refine runs the star attention loop for every session in the batch.
//
// Each step propagates node states through the gated cell, mixes every node
// with the star vector (node-to-star attention), then rebuilds the star as
// an attention-weighted sum of the mixed nodes (star-to-node attention).
// After the last step the refined states are fused with hiddenInit through
// a learned sigmoid gate.
//
// mask rows may be longer than the node count; only the first N entries are
// used. steps == 0 returns copies of hiddenInit and the initial masked means
// without applying the fusion gate.
func (m *Model) Refine(A, hiddenInit []*mat.Dense, mask [][]int, steps int) ([]*mat.Dense, [][]float64, error) {
	if len(A) != len(hiddenInit) || len(mask) != len(hiddenInit) {
		return nil, nil, shapeErrorf("refine", "batch sizes differ: adjacency %d, hidden %d, mask %d",
			len(A), len(hiddenInit), len(mask))
	}
	if steps < 0 {
		return nil, nil, shapeErrorf("refine", "negative step count %d", steps)
	}
	hidden := make([]*mat.Dense, len(hiddenInit))
	star := make([][]float64, len(hiddenInit))
	for b := range hiddenInit {
		h, s, err := m.refineSession(b, A[b], hiddenInit[b], mask[b], steps)
		if err != nil {
			return nil, nil, err
		}
		hidden[b], star[b] = h, s
	}
	return hidden, star, nil
}

func (m *Model) refineSession(session int, A, hidden0 *mat.Dense, mask []int, steps int) (*mat.Dense, []float64, error) {
	n, _ := hidden0.Dims()
	nodeMask, err := truncateMask(mask, n)
	if err != nil {
		return nil, nil, err
	}

	st := refineState{hidden: hidden0, star: maskedMean(hidden0, nodeMask)}
	if steps == 0 {
		return mat.DenseCopyOf(hidden0), st.star, nil
	}
	for ; st.step < steps; st.step++ {
		if err := m.advance(&st, session, A, mask); err != nil {
			return nil, nil, err
		}
	}

	out := m.fuse(hidden0, st.hidden)
	check := checkpoint{session: session, step: -1}
	if err := check.dense("hidden", out); err != nil {
		return nil, nil, err
	}
	if err := check.vec("star", st.star); err != nil {
		return nil, nil, err
	}
	return out, st.star, nil
}

// advance performs one refinement step in place.
func (m *Model) advance(st *refineState, session int, A *mat.Dense, mask []int) error {
	p := &m.params.Star
	check := checkpoint{session: session, step: st.step}

	hidden1, err := p.Cell.Propagate(A, st.hidden)
	if err != nil {
		return err
	}

	alpha := attention(p.Query1, p.Key1, hidden1, st.star, nil)
	if err := check.vec("star", st.star); err != nil {
		return err
	}
	if err := check.vec("alpha", alpha); err != nil {
		return err
	}
	if err := check.dense("hidden1", hidden1); err != nil {
		return err
	}

	n, h := hidden1.Dims()
	mixed := mat.NewDense(n, h, nil)
	for i := 0; i < n; i++ {
		src, dst := hidden1.RawRowView(i), mixed.RawRowView(i)
		for j := 0; j < h; j++ {
			dst[j] = (1-alpha[i])*src[j] + alpha[i]*st.star[j]
		}
	}
	if err := check.dense("hidden", mixed); err != nil {
		return err
	}

	nodeMask, err := truncateMask(mask, n)
	if err != nil {
		return err
	}
	var betaMask []int
	if m.cfg.MaskStarAttention {
		betaMask = nodeMask
	}
	beta := attention(p.Query2, p.Key2, mixed, st.star, betaMask)
	if err := check.vec("beta", beta); err != nil {
		return err
	}

	star := make([]float64, h)
	for i := 0; i < n; i++ {
		floats.AddScaled(star, beta[i], mixed.RawRowView(i))
	}
	st.hidden, st.star = mixed, star
	return nil
}

// attention returns softmax over nodes of (q·nodes)·(k·star)/√H. When mask
// is non-nil, nodes with a zero mask entry are excluded unless every entry
// is zero.
func attention(q, k *Linear, nodes *mat.Dense, star []float64, mask []int) []float64 {
	n, h := nodes.Dims()
	queries := q.Forward(nodes)
	key := k.ForwardVec(star)
	scale := 1 / math.Sqrt(float64(h))

	logits := make([]float64, n)
	for i := range logits {
		logits[i] = floats.Dot(queries.RawRowView(i), key) * scale
	}
	if mask != nil && countValid(mask) > 0 {
		for i, v := range mask {
			if v == 0 {
				logits[i] = math.Inf(-1)
			}
		}
	}
	return softmax(logits)
}

// fuse gates the initial and refined node states.
func (m *Model) fuse(hidden0, hidden *mat.Dense) *mat.Dense {
	var cat mat.Dense
	cat.Augment(hidden0, hidden)
	gate := m.params.Star.Gate.Forward(&cat)

	n, h := hidden.Dims()
	out := mat.NewDense(n, h, nil)
	for i := 0; i < n; i++ {
		g, h0, h1, dst := gate.RawRowView(i), hidden0.RawRowView(i), hidden.RawRowView(i), out.RawRowView(i)
		for j := range dst {
			s := sigmoid(g[j])
			dst[j] = s*h0[j] + (1-s)*h1[j]
		}
	}
	return out
}

// maskedMean returns Σ mask[n]·h[n] / (Σ mask[n] + MaskEpsilon).
func maskedMean(hidden *mat.Dense, mask []int) []float64 {
	_, h := hidden.Dims()
	sum := make([]float64, h)
	for i, v := range mask {
		if v != 0 {
			floats.AddScaled(sum, float64(v), hidden.RawRowView(i))
		}
	}
	floats.Scale(1/(float64(countValid(mask))+MaskEpsilon), sum)
	return sum
}

func truncateMask(mask []int, n int) ([]int, error) {
	if len(mask) < n {
		return nil, shapeErrorf("refine", "mask has %d entries for %d nodes", len(mask), n)
	}
	return mask[:n], nil
}

func countValid(mask []int) int {
	total := 0
	for _, v := range mask {
		total += v
	}
	return total
}
