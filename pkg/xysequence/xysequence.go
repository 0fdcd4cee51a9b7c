// Package xysequence implements the log-x curve type used throughout the
// hazard pipeline: model curves, per-GMM hazard curves, and the total curve
// are all XYSequences sharing one x-grid per IMT.
package xysequence

import (
	"fmt"
	"math"
)

// XYSequence is an ordered (x, y) sequence with strictly increasing x. By
// convention within this module, x is stored in natural-log space (ground
// motion amplitude); callers convert back to linear units only at output,
// which is outside this package's scope.
type XYSequence struct {
	xs []float64
	ys []float64
}

// New builds a sequence over the given x-grid with all y initialized to 0.
// The x-grid must already be strictly increasing; New does not sort it.
func New(xs []float64) *XYSequence {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			panic(fmt.Sprintf("xysequence: x not strictly increasing at index %d", i))
		}
	}
	ys := make([]float64, len(xs))
	xsCopy := make([]float64, len(xs))
	copy(xsCopy, xs)
	return &XYSequence{xs: xsCopy, ys: ys}
}

// NewWithY builds a sequence over xs with the supplied y values. len(xs) must
// equal len(ys).
func NewWithY(xs, ys []float64) *XYSequence {
	if len(xs) != len(ys) {
		panic("xysequence: xs and ys length mismatch")
	}
	s := New(xs)
	copy(s.ys, ys)
	return s
}

// Len returns the number of points in the sequence.
func (s *XYSequence) Len() int { return len(s.xs) }

// X returns the x value at index i.
func (s *XYSequence) X(i int) float64 { return s.xs[i] }

// Y returns the y value at index i.
func (s *XYSequence) Y(i int) float64 { return s.ys[i] }

// SetY overwrites the y value at index i.
func (s *XYSequence) SetY(i int, y float64) { s.ys[i] = y }

// Xs returns the underlying x-grid. Callers must not mutate the result.
func (s *XYSequence) Xs() []float64 { return s.xs }

// Ys returns the underlying y values. Callers must not mutate the result.
func (s *XYSequence) Ys() []float64 { return s.ys }

// Copy returns an independent deep copy.
func (s *XYSequence) Copy() *XYSequence {
	return NewWithY(s.xs, s.ys)
}

// sameGrid reports whether two sequences share an identical x-grid, which is
// required for any pointwise arithmetic between them.
func sameGrid(a, b *XYSequence) bool {
	if len(a.xs) != len(b.xs) {
		return false
	}
	for i := range a.xs {
		if a.xs[i] != b.xs[i] {
			return false
		}
	}
	return true
}

// Add adds other's y values into s pointwise, in place. Panics if the grids
// differ — composing sequences with mismatched x-grids is a caller bug, not
// a recoverable condition, per the data-model invariant that arithmetic
// operands share identical x-grids.
func (s *XYSequence) Add(other *XYSequence) *XYSequence {
	if !sameGrid(s, other) {
		panic("xysequence: Add on mismatched x-grids")
	}
	for i := range s.ys {
		s.ys[i] += other.ys[i]
	}
	return s
}

// MultiplySeq multiplies other's y values into s pointwise, in place.
func (s *XYSequence) MultiplySeq(other *XYSequence) *XYSequence {
	if !sameGrid(s, other) {
		panic("xysequence: MultiplySeq on mismatched x-grids")
	}
	for i := range s.ys {
		s.ys[i] *= other.ys[i]
	}
	return s
}

// MultiplyScalar multiplies every y value by a scalar, in place.
func (s *XYSequence) MultiplyScalar(c float64) *XYSequence {
	for i := range s.ys {
		s.ys[i] *= c
	}
	return s
}

// Complement replaces each y with 1-y, in place. Used to turn an exceedance
// curve into a non-exceedance curve and back.
func (s *XYSequence) Complement() *XYSequence {
	for i := range s.ys {
		s.ys[i] = 1 - s.ys[i]
	}
	return s
}

// Clear resets every y value to 0, in place, keeping the x-grid.
func (s *XYSequence) Clear() *XYSequence {
	for i := range s.ys {
		s.ys[i] = 0
	}
	return s
}

// InterpolateX returns x for a target y, assuming y is monotonically
// decreasing in x (the shape of an exceedance curve) and interpolating
// linearly in (x, ln y) space. Returns an error if target is out of range.
func (s *XYSequence) InterpolateX(targetY float64) (float64, error) {
	n := len(s.ys)
	if n < 2 {
		return 0, fmt.Errorf("xysequence: need at least 2 points to interpolate")
	}
	if targetY > s.ys[0] || targetY < s.ys[n-1] {
		return 0, fmt.Errorf("xysequence: target y %g out of range [%g, %g]", targetY, s.ys[n-1], s.ys[0])
	}
	for i := 1; i < n; i++ {
		y0, y1 := s.ys[i-1], s.ys[i]
		if targetY <= y0 && targetY >= y1 {
			if y0 == y1 {
				return s.xs[i-1], nil
			}
			x0, x1 := s.xs[i-1], s.xs[i]
			// log-y interpolation: guard non-positive y with a direct fallback.
			if y0 <= 0 || y1 <= 0 || targetY <= 0 {
				frac := (targetY - y0) / (y1 - y0)
				return x0 + frac*(x1-x0), nil
			}
			ly0, ly1, lty := math.Log(y0), math.Log(y1), math.Log(targetY)
			frac := (lty - ly0) / (ly1 - ly0)
			return x0 + frac*(x1-x0), nil
		}
	}
	return 0, fmt.Errorf("xysequence: target y %g not bracketed", targetY)
}

// InterpolateY returns y for a target x by linear interpolation in (x, ln y)
// space, the inverse of InterpolateX's convention. Returns an error if
// target is out of the sequence's x range.
func (s *XYSequence) InterpolateY(targetX float64) (float64, error) {
	n := len(s.xs)
	if n < 2 {
		return 0, fmt.Errorf("xysequence: need at least 2 points to interpolate")
	}
	if targetX < s.xs[0] || targetX > s.xs[n-1] {
		return 0, fmt.Errorf("xysequence: target x %g out of range [%g, %g]", targetX, s.xs[0], s.xs[n-1])
	}
	for i := 1; i < n; i++ {
		x0, x1 := s.xs[i-1], s.xs[i]
		if targetX >= x0 && targetX <= x1 {
			y0, y1 := s.ys[i-1], s.ys[i]
			if x0 == x1 {
				return y0, nil
			}
			frac := (targetX - x0) / (x1 - x0)
			if y0 <= 0 || y1 <= 0 {
				return y0 + frac*(y1-y0), nil
			}
			ly0, ly1 := math.Log(y0), math.Log(y1)
			return math.Exp(ly0 + frac*(ly1-ly0)), nil
		}
	}
	return 0, fmt.Errorf("xysequence: target x %g not bracketed", targetX)
}
