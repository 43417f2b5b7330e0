// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"math"
	"slices"
	"testing"
)

func TestNewUniverse(t *testing.T) {
	t.Parallel()

	u := NewUniverse([]int{5, 1, 3, 1, 9})
	if !slices.Equal(u.IDs(), []int{1, 3, 5, 9}) {
		t.Errorf("IDs() = %v, want [1 3 5 9]", u.IDs())
	}
	if i, ok := u.Index(5); !ok || i != 2 {
		t.Errorf("Index(5) = (%d, %v), want (2, true)", i, ok)
	}
	if u.Contains(2) {
		t.Error("Contains(2) = true for a missing product")
	}

	var nilUniverse *Universe
	if nilUniverse.Len() != 0 || nilUniverse.Contains(1) {
		t.Error("nil universe must be empty")
	}
}

func TestScoreVector_SetGet(t *testing.T) {
	t.Parallel()

	v := NewScoreVector(NewUniverse([]int{1, 2, 3}))
	if !v.Set(2, 0.5) {
		t.Error("Set(2) = false")
	}
	if v.Set(7, 1) {
		t.Error("Set(7) = true for a product outside the universe")
	}
	v.Add(2, 0.25)
	if got := v.Get(2); got != 0.75 {
		t.Errorf("Get(2) = %f, want 0.75", got)
	}
	if got := v.Get(7); got != 0 {
		t.Errorf("Get(7) = %f, want 0", got)
	}
	if m := v.Map(); len(m) != 1 || m[2] != 0.75 {
		t.Errorf("Map() = %v", m)
	}
}

func TestScoreVector_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"scales to max", []float64{2, 4, 0}, []float64{0.5, 1, 0}},
		{"already normalized", []float64{1, 0.5}, []float64{1, 0.5}},
		{"all zero unchanged", []float64{0, 0}, []float64{0, 0}},
		{"non-positive max unchanged", []float64{-1, -2}, []float64{-1, -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ids := make([]int, len(tt.in))
			for i := range ids {
				ids[i] = i + 1
			}
			v := NewScoreVector(NewUniverse(ids))
			for i, s := range tt.in {
				v.SetAt(i, s)
			}
			got := v.Normalize().Values()
			if !slices.Equal(got, tt.want) {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreVector_Sanitize(t *testing.T) {
	t.Parallel()

	v := NewScoreVector(NewUniverse([]int{1, 2, 3, 4}))
	v.SetAt(0, math.NaN())
	v.SetAt(1, math.Inf(1))
	v.SetAt(2, math.Inf(-1))
	v.SetAt(3, 0.4)

	if n := v.Sanitize(); n != 3 {
		t.Errorf("Sanitize() = %d, want 3", n)
	}
	if !slices.Equal(v.Values(), []float64{0, 0, 0, 0.4}) {
		t.Errorf("Values() = %v", v.Values())
	}
}

func TestScoreVector_TopK(t *testing.T) {
	t.Parallel()

	v := NewScoreVector(NewUniverse([]int{1, 2, 3, 4, 5}))
	v.Set(1, 0.5)
	v.Set(2, 0.9)
	v.Set(3, 0.5)
	v.Set(4, 0)
	v.Set(5, -0.1)

	got := v.TopK(10)
	want := []ScoredProduct{{2, 0.9}, {1, 0.5}, {3, 0.5}}
	if !slices.Equal(got, want) {
		t.Errorf("TopK(10) = %v, want %v", got, want)
	}

	if got := v.TopK(2); !slices.Equal(got, want[:2]) {
		t.Errorf("TopK(2) = %v, want %v", got, want[:2])
	}
	if got := v.TopK(0); len(got) != 0 {
		t.Errorf("TopK(0) = %v, want empty", got)
	}
}

func TestScoreVector_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	v := NewScoreVector(NewUniverse([]int{1, 2}))
	v.Set(1, 1)
	c := v.Clone()
	c.Set(1, 0)
	if v.Get(1) != 1 {
		t.Error("modifying clone affected original")
	}

	v.Scale(2).AddScaled(c, 3)
	if v.Get(1) != 2 {
		t.Errorf("Get(1) = %f, want 2", v.Get(1))
	}
}

func TestResult_OrZero(t *testing.T) {
	t.Parallel()

	u := NewUniverse([]int{1, 2})
	failed := Fail(ErrUnknownUser).OrZero(u)
	if failed.Len() != 2 || !failed.IsZero() {
		t.Errorf("OrZero() of a failure = %v, want zero vector", failed.Values())
	}

	v := NewScoreVector(u)
	v.Set(1, 1)
	if Ok(v).OrZero(u) != v {
		t.Error("OrZero() of a success must return the vector itself")
	}
}
