// Starsession - Session-based Recommendation with Star Graph Attention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsession

package evaluation

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestTopK(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		k      int
		want   []int
	}{
		{"descending order", []float64{0.1, 0.9, 0.5, 0.3}, 3, []int{1, 2, 3}},
		{"ties prefer lower index", []float64{0.1, 0.9, 0.5, 0.9}, 2, []int{1, 3}},
		{"k larger than scores", []float64{2, 1}, 5, []int{0, 1}},
		{"k zero", []float64{2, 1}, 0, nil},
		{"empty scores", nil, 3, nil},
		{"negative scores", []float64{-3, -1, -2}, 1, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TopK(tt.scores, tt.k); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopK() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopKMatchesFullSort(t *testing.T) {
	scores := make([]float64, 200)
	for i := range scores {
		scores[i] = math.Sin(float64(i) * 1.7)
	}
	top := TopK(scores, 20)
	for i := 1; i < len(top); i++ {
		if scores[top[i-1]] < scores[top[i]] {
			t.Fatalf("TopK() not descending at %d: %v < %v", i, scores[top[i-1]], scores[top[i]])
		}
	}
	cutoff := scores[top[len(top)-1]]
	kept := map[int]bool{}
	for _, idx := range top {
		kept[idx] = true
	}
	for i, s := range scores {
		if !kept[i] && s > cutoff {
			t.Errorf("TopK() dropped index %d with score %v above cutoff %v", i, s, cutoff)
		}
	}
}

func TestAccumulatorRankThree(t *testing.T) {
	scores := make([]float64, 25)
	for i := range scores {
		scores[i] = float64(100 - i)
	}

	acc := NewAccumulator(20, nil)
	if err := acc.Add(scores, 3); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	got := acc.Result()
	if got.HitRate != 100 {
		t.Errorf("HitRate = %v, want 100", got.HitRate)
	}
	if math.Abs(got.MRR-100.0/3) > 1e-12 {
		t.Errorf("MRR = %v, want %v", got.MRR, 100.0/3)
	}
}

func TestAccumulatorMiss(t *testing.T) {
	scores := make([]float64, 25)
	for i := range scores {
		scores[i] = float64(100 - i)
	}
	acc := NewAccumulator(20, nil)
	if err := acc.Add(scores, 22); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	got := acc.Result()
	if got.HitRate != 0 || got.MRR != 0 {
		t.Errorf("Result() = %+v, want zero hit rate and MRR", got)
	}
}

func TestAccumulatorPhiPerSession(t *testing.T) {
	// counts[id] for ids 0..4; columns map to ids 1..4.
	counts := []float64{0, 10, 20, 30, 40}
	acc := NewAccumulator(2, counts)

	if err := acc.Add([]float64{4, 3, 2, 1}, 1); err != nil { // top ids 1, 2
		t.Fatalf("Add() error = %v", err)
	}
	if err := acc.Add([]float64{1, 2, 3, 4}, 1); err != nil { // top ids 4, 3
		t.Fatalf("Add() error = %v", err)
	}

	got := acc.Result()
	want := ((10.0+20)/2 + (40.0+30)/2) / 2
	if got.Phi != want {
		t.Errorf("Phi = %v, want %v", got.Phi, want)
	}
	if got.Sessions != 2 {
		t.Errorf("Sessions = %d, want 2", got.Sessions)
	}
}

func TestAccumulatorMerge(t *testing.T) {
	a := NewAccumulator(1, nil)
	b := NewAccumulator(1, nil)
	if err := a.Add([]float64{1, 0}, 1); err != nil {
		t.Fatal(err)
	}
	if err := b.Add([]float64{1, 0}, 2); err != nil {
		t.Fatal(err)
	}
	a.Merge(b)
	got := a.Result()
	if got.Sessions != 2 || got.HitRate != 50 || got.MRR != 50 {
		t.Errorf("Result() after Merge = %+v, want 2 sessions, hit 50, mrr 50", got)
	}
}

func TestAccumulatorInvalidTarget(t *testing.T) {
	acc := NewAccumulator(20, nil)
	for _, target := range []int{0, 5} {
		if err := acc.Add([]float64{1, 2, 3, 4}, target); !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("Add(target=%d) error = %v, want ErrInvalidTarget", target, err)
		}
	}
	if got := acc.Result(); got.Sessions != 0 || got.HitRate != 0 {
		t.Errorf("Result() = %+v, want empty", got)
	}
}

func TestCrossEntropy(t *testing.T) {
	if got := CrossEntropy([]float64{0, 0, 0, 0}, 2); math.Abs(got-math.Log(4)) > 1e-12 {
		t.Errorf("CrossEntropy(uniform) = %v, want %v", got, math.Log(4))
	}
	confident := CrossEntropy([]float64{50, 0, 0}, 0)
	if confident > 1e-10 {
		t.Errorf("CrossEntropy(confident) = %v, want ~0", confident)
	}
}
