// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package sessiongraph

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// GRUParams are the learned tensors of the gated propagation cell.
type GRUParams struct {
	// EdgeIn and EdgeOut project node states before message passing (H→H).
	EdgeIn  *Linear
	EdgeOut *Linear

	// InBias and OutBias are added after aggregation over the in/out blocks.
	InBias  []float64
	OutBias []float64

	// Input maps the 2H message to the three gate pre-activations (2H→3H).
	Input *Linear

	// Hidden maps the previous state to the three gate pre-activations (H→3H).
	Hidden *Linear
}

// StarParams are the learned tensors of the star refiner.
type StarParams struct {
	Cell GRUParams

	// Node-to-star attention.
	Query1 *Linear
	Key1   *Linear

	// Star-to-node attention.
	Query2 *Linear
	Key2   *Linear

	// Gate fuses [initial | refined] node states (2H→H).
	Gate *Linear
}

// ScoreParams are the learned tensors of the scoring head.
type ScoreParams struct {
	Last  *Linear // last valid state, H→H
	Seq   *Linear // every sequence state, H→H
	Star  *Linear // star vector, H→H
	Heads *Linear // attention logits, H→heads, no bias

	// Transform projects [pooled | last] back to H. Unused when non-hybrid.
	Transform *Linear

	SessionNorm *LayerNorm
	ItemNorm    *LayerNorm
}

// Params is the full parameter set of a Model.
type Params struct {
	// Embedding is the NumItems × HiddenSize item table; row 0 is padding.
	Embedding     *mat.Dense
	EmbeddingNorm *LayerNorm

	Star  StarParams
	Score ScoreParams
}

// NewParams allocates zero-valued parameters (unit norm gains) shaped for cfg.
func NewParams(cfg Config) *Params {
	h := cfg.HiddenSize
	heads := cfg.Heads
	if heads < 1 {
		heads = 1
	}
	return &Params{
		Embedding:     mat.NewDense(cfg.NumItems, h, nil),
		EmbeddingNorm: NewLayerNorm(h),
		Star: StarParams{
			Cell: GRUParams{
				EdgeIn:  NewLinear(h, h, true),
				EdgeOut: NewLinear(h, h, true),
				InBias:  make([]float64, h),
				OutBias: make([]float64, h),
				Input:   NewLinear(2*h, 3*h, true),
				Hidden:  NewLinear(h, 3*h, true),
			},
			Query1: NewLinear(h, h, true),
			Key1:   NewLinear(h, h, true),
			Query2: NewLinear(h, h, true),
			Key2:   NewLinear(h, h, true),
			Gate:   NewLinear(2*h, h, true),
		},
		Score: ScoreParams{
			Last:        NewLinear(h, h, true),
			Seq:         NewLinear(h, h, true),
			Star:        NewLinear(h, h, true),
			Heads:       NewLinear(h, heads, false),
			Transform:   NewLinear(h*(heads+1), h, true),
			SessionNorm: NewLayerNorm(h),
			ItemNorm:    NewLayerNorm(h),
		},
	}
}

// Visit calls fn for every learned tensor in a fixed order. The slices
// alias the parameter storage.
func (p *Params) Visit(fn func(name string, data []float64)) {
	linear := func(name string, l *Linear) {
		fn(name+".weight", l.Weight.RawMatrix().Data)
		if l.Bias != nil {
			fn(name+".bias", l.Bias)
		}
	}
	norm := func(name string, n *LayerNorm) {
		fn(name+".gain", n.Gain)
		fn(name+".shift", n.Shift)
	}

	fn("embedding", p.Embedding.RawMatrix().Data)
	norm("embedding_norm", p.EmbeddingNorm)

	c := &p.Star.Cell
	linear("star.cell.edge_in", c.EdgeIn)
	linear("star.cell.edge_out", c.EdgeOut)
	fn("star.cell.in_bias", c.InBias)
	fn("star.cell.out_bias", c.OutBias)
	linear("star.cell.input", c.Input)
	linear("star.cell.hidden", c.Hidden)
	linear("star.query1", p.Star.Query1)
	linear("star.key1", p.Star.Key1)
	linear("star.query2", p.Star.Query2)
	linear("star.key2", p.Star.Key2)
	linear("star.gate", p.Star.Gate)

	s := &p.Score
	linear("score.last", s.Last)
	linear("score.seq", s.Seq)
	linear("score.star", s.Star)
	linear("score.heads", s.Heads)
	linear("score.transform", s.Transform)
	norm("score.session_norm", s.SessionNorm)
	norm("score.item_norm", s.ItemNorm)
}

// Count returns the number of learned scalars.
func (p *Params) Count() int {
	total := 0
	p.Visit(func(_ string, data []float64) { total += len(data) })
	return total
}

// InitNormal overwrites every learned tensor with draws from N(0, std²)
// using a PCG source seeded with seed. Identical seeds give identical
// parameters.
func (p *Params) InitNormal(std float64, seed uint64) {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: std,
		Src:   rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}
	p.Visit(func(_ string, data []float64) {
		for i := range data {
			data[i] = dist.Rand()
		}
	})
}

// validate checks that every tensor has the shape cfg implies.
func (p *Params) validate(cfg Config) error {
	const op = "params"
	h := cfg.HiddenSize
	if p.Embedding == nil || p.EmbeddingNorm == nil {
		return shapeErrorf(op, "embedding not allocated")
	}
	if r, c := p.Embedding.Dims(); r != cfg.NumItems || c != h {
		return shapeErrorf(op, "embedding is %dx%d, want %dx%d", r, c, cfg.NumItems, h)
	}

	linears := []struct {
		name    string
		l       *Linear
		in, out int
	}{
		{"star.cell.edge_in", p.Star.Cell.EdgeIn, h, h},
		{"star.cell.edge_out", p.Star.Cell.EdgeOut, h, h},
		{"star.cell.input", p.Star.Cell.Input, 2 * h, 3 * h},
		{"star.cell.hidden", p.Star.Cell.Hidden, h, 3 * h},
		{"star.query1", p.Star.Query1, h, h},
		{"star.key1", p.Star.Key1, h, h},
		{"star.query2", p.Star.Query2, h, h},
		{"star.key2", p.Star.Key2, h, h},
		{"star.gate", p.Star.Gate, 2 * h, h},
		{"score.last", p.Score.Last, h, h},
		{"score.seq", p.Score.Seq, h, h},
		{"score.star", p.Score.Star, h, h},
		{"score.heads", p.Score.Heads, h, cfg.Heads},
		{"score.transform", p.Score.Transform, h * (cfg.Heads + 1), h},
	}
	for _, tc := range linears {
		if tc.l == nil || tc.l.Weight == nil {
			return shapeErrorf(op, "%s not allocated", tc.name)
		}
		if tc.l.In() != tc.in || tc.l.Out() != tc.out {
			return shapeErrorf(op, "%s is %d->%d, want %d->%d", tc.name, tc.l.In(), tc.l.Out(), tc.in, tc.out)
		}
		if tc.l.Bias != nil && len(tc.l.Bias) != tc.out {
			return shapeErrorf(op, "%s bias has %d entries, want %d", tc.name, len(tc.l.Bias), tc.out)
		}
	}
	if len(p.Star.Cell.InBias) != h || len(p.Star.Cell.OutBias) != h {
		return shapeErrorf(op, "cell edge biases must have %d entries", h)
	}
	for name, n := range map[string]*LayerNorm{
		"embedding_norm":     p.EmbeddingNorm,
		"score.session_norm": p.Score.SessionNorm,
		"score.item_norm":    p.Score.ItemNorm,
	} {
		if n == nil || len(n.Gain) != h || len(n.Shift) != h {
			return shapeErrorf(op, "%s must have width %d", name, h)
		}
	}
	return nil
}
