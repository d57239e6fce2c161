// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package sessiongraph

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLinearForward(t *testing.T) {
	l := &Linear{
		Weight: mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}),
		Bias:   []float64{1, 0, -1},
	}
	x := mat.NewDense(2, 2, []float64{1, 1, 2, 0})

	y := l.Forward(x)
	assertVecApprox(t, "row0", y.RawRowView(0), []float64{4, 7, 10})
	assertVecApprox(t, "row1", y.RawRowView(1), []float64{3, 6, 9})
	assertVecApprox(t, "vec", l.ForwardVec([]float64{1, 1}), []float64{4, 7, 10})

	noBias := NewLinear(2, 3, false)
	if noBias.Bias != nil {
		t.Errorf("NewLinear(bias=false).Bias = %v, want nil", noBias.Bias)
	}
	if noBias.In() != 2 || noBias.Out() != 3 {
		t.Errorf("In(), Out() = %d, %d, want 2, 3", noBias.In(), noBias.Out())
	}
}

func TestLayerNormVec(t *testing.T) {
	n := NewLayerNorm(4)
	got := n.Vec([]float64{1, 2, 3, 4})

	inv := 1 / math.Sqrt(1.25+NormEpsilon)
	assertVecApprox(t, "Vec", got, []float64{-1.5 * inv, -0.5 * inv, 0.5 * inv, 1.5 * inv})

	n.Gain = []float64{2, 2, 2, 2}
	n.Shift = []float64{1, 1, 1, 1}
	got = n.Vec([]float64{1, 2, 3, 4})
	assertVecApprox(t, "Vec(gain, shift)", got, []float64{1 - 3*inv, 1 - inv, 1 + inv, 1 + 3*inv})

	constant := NewLayerNorm(3).Vec([]float64{5, 5, 5})
	assertVecApprox(t, "Vec(constant)", constant, []float64{0, 0, 0})
}

func TestSoftmax(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"uniform", []float64{0, 0, 0, 0}, []float64{0.25, 0.25, 0.25, 0.25}},
		{"shift invariant", []float64{1000, 1000}, []float64{0.5, 0.5}},
		{"masked entry", []float64{0, math.Inf(-1), 0}, []float64{0.5, 0, 0.5}},
		{"two to one", []float64{math.Log(2), 0}, []float64{2.0 / 3, 1.0 / 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertVecApprox(t, "softmax", softmax(tt.in), tt.want)
		})
	}
}

func TestNormalizeRows(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{3, 4, 0, 0})
	normalizeRows(m)
	assertVecApprox(t, "row0", m.RawRowView(0), []float64{0.6, 0.8})
	assertVecApprox(t, "row1", m.RawRowView(1), []float64{0, 0})
}
