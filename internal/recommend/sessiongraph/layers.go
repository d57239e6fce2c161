// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package sessiongraph

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Linear is an affine map y = x·Wᵀ + b.
type Linear struct {
	// Weight is out × in.
	Weight *mat.Dense

	// Bias has length out, or is nil for a bias-free layer.
	Bias []float64
}

// NewLinear returns a zero-initialized layer.
func NewLinear(in, out int, bias bool) *Linear {
	l := &Linear{Weight: mat.NewDense(out, in, nil)}
	if bias {
		l.Bias = make([]float64, out)
	}
	return l
}

// In returns the input width.
func (l *Linear) In() int {
	_, c := l.Weight.Dims()
	return c
}

// Out returns the output width.
func (l *Linear) Out() int {
	r, _ := l.Weight.Dims()
	return r
}

// Forward applies the layer to every row of x.
func (l *Linear) Forward(x mat.Matrix) *mat.Dense {
	rows, _ := x.Dims()
	y := mat.NewDense(rows, l.Out(), nil)
	y.Mul(x, l.Weight.T())
	if l.Bias != nil {
		for i := 0; i < rows; i++ {
			floats.Add(y.RawRowView(i), l.Bias)
		}
	}
	return y
}

// ForwardVec applies the layer to a single vector.
func (l *Linear) ForwardVec(x []float64) []float64 {
	y := make([]float64, l.Out())
	yv := mat.NewVecDense(len(y), y)
	yv.MulVec(l.Weight, mat.NewVecDense(len(x), x))
	if l.Bias != nil {
		floats.Add(y, l.Bias)
	}
	return y
}

// LayerNorm normalizes a vector to zero mean and unit variance, then applies
// an elementwise gain and shift.
type LayerNorm struct {
	Gain  []float64
	Shift []float64
	Eps   float64
}

// NewLayerNorm returns an identity-initialized normalization of the given width.
func NewLayerNorm(size int) *LayerNorm {
	n := &LayerNorm{
		Gain:  make([]float64, size),
		Shift: make([]float64, size),
		Eps:   NormEpsilon,
	}
	for i := range n.Gain {
		n.Gain[i] = 1
	}
	return n
}

// Vec returns the normalized copy of x.
func (n *LayerNorm) Vec(x []float64) []float64 {
	mean, variance := stat.PopMeanVariance(x, nil)
	inv := 1 / math.Sqrt(variance+n.Eps)
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v-mean)*inv*n.Gain[i] + n.Shift[i]
	}
	return out
}

// Rows normalizes every row of x independently.
func (n *LayerNorm) Rows(x mat.Matrix) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols, nil)
	buf := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(buf, i, x)
		out.SetRow(i, n.Vec(buf))
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// softmax returns exp(x - logsumexp(x)). Entries equal to -Inf get zero
// weight as long as one entry is finite.
func softmax(x []float64) []float64 {
	out := make([]float64, len(x))
	lse := floats.LogSumExp(x)
	for i, v := range x {
		out[i] = math.Exp(v - lse)
	}
	return out
}

// normalizeRows scales every non-zero row of m to unit L2 norm in place.
func normalizeRows(m *mat.Dense) {
	rows, _ := m.Dims()
	for i := 0; i < rows; i++ {
		row := m.RawRowView(i)
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}
}
