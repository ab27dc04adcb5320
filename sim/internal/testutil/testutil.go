// Package testutil provides shared test infrastructure for the market simulator.
// It holds deterministic random sources and float assertion helpers used across
// sim/ and its sub-package tests.
package testutil

import (
	"math"
	"testing"
)

// ConstantSource returns the same draw forever. Used to force zero-variance price paths.
type ConstantSource float64

// Float64 implements sim.RandomSource.
func (c ConstantSource) Float64() float64 { return float64(c) }

// SequenceSource replays a fixed list of draws, cycling when exhausted.
type SequenceSource struct {
	Values []float64
	next   int
}

// Float64 implements sim.RandomSource.
func (s *SequenceSource) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}

// Draws reports how many values have been consumed.
func (s *SequenceSource) Draws() int { return s.next }

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
