// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package sessiongraph

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Model is the star session-graph recommender.
type Model struct {
	cfg    Config
	params *Params
}

// New validates cfg and params and returns a model that uses params directly.
func New(cfg Config, params *Params) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if params == nil {
		return nil, fmt.Errorf("%w: nil params", ErrInvalidConfig)
	}
	if err := params.validate(cfg); err != nil {
		return nil, err
	}
	return &Model{cfg: cfg, params: params}, nil
}

// NewRandom returns a model whose parameters are drawn from N(0, InitStd²)
// with the configured seed.
func NewRandom(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params := NewParams(cfg)
	params.InitNormal(cfg.InitStd, cfg.Seed)
	return New(cfg, params)
}

// Config returns the model hyperparameters.
func (m *Model) Config() Config {
	return m.cfg
}

// Params returns the live parameter set.
func (m *Model) Params() *Params {
	return m.params
}

// Batch is one padded mini-batch in the layout Forward consumes.
type Batch struct {
	// Items holds the node ids of every session's graph (N per session).
	Items [][]int

	// Adjacency holds one N×2N [in | out] matrix per session.
	Adjacency []*mat.Dense

	// Alias maps each sequence position to its node row (L per session).
	Alias [][]int

	// Mask marks valid sequence positions (L per session).
	Mask [][]int
}

// Size returns the number of sessions.
func (b *Batch) Size() int {
	return len(b.Items)
}

// Gather reorders node states into sequence order: row l of the result for
// session b is hidden[b] row alias[b][l].
func Gather(hidden []*mat.Dense, alias [][]int) ([]*mat.Dense, error) {
	if len(alias) != len(hidden) {
		return nil, shapeErrorf("gather", "%d alias rows for %d sessions", len(alias), len(hidden))
	}
	out := make([]*mat.Dense, len(hidden))
	for b, idx := range alias {
		if len(idx) == 0 {
			return nil, fmt.Errorf("gather: session %d: %w", b, ErrEmptySession)
		}
		n, h := hidden[b].Dims()
		seq := mat.NewDense(len(idx), h, nil)
		for l, node := range idx {
			if node < 0 || node >= n {
				return nil, shapeErrorf("gather", "session %d: alias[%d] = %d, want [0, %d)", b, l, node, n)
			}
			copy(seq.RawRowView(l), hidden[b].RawRowView(node))
		}
		out[b] = seq
	}
	return out, nil
}

// Forward encodes the batch, gathers node states into sequence order and
// scores every candidate item.
func (m *Model) Forward(batch *Batch) (*mat.Dense, error) {
	hidden, star, err := m.Encode(batch.Items, batch.Adjacency, batch.Mask)
	if err != nil {
		return nil, err
	}
	if m.cfg.NormalizeHidden {
		for _, h := range hidden {
			normalizeRows(h)
		}
	}
	seq, err := Gather(hidden, batch.Alias)
	if err != nil {
		return nil, err
	}
	if m.cfg.NormalizeHidden {
		for _, s := range seq {
			normalizeRows(s)
		}
	}
	return m.Score(seq, star, batch.Mask)
}
