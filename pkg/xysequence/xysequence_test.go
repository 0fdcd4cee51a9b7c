package xysequence

import (
	"math"
	"testing"
)

func TestAddMultiplyComplement(t *testing.T) {
	xs := []float64{0, 1, 2}
	a := NewWithY(xs, []float64{0.1, 0.2, 0.3})
	b := NewWithY(xs, []float64{0.4, 0.4, 0.4})

	a.Add(b)
	want := []float64{0.5, 0.6, 0.7}
	for i, w := range want {
		if math.Abs(a.Y(i)-w) > 1e-12 {
			t.Fatalf("Add: y[%d] = %g, want %g", i, a.Y(i), w)
		}
	}

	a.MultiplyScalar(2)
	for i, w := range want {
		if math.Abs(a.Y(i)-2*w) > 1e-12 {
			t.Fatalf("MultiplyScalar: y[%d] = %g, want %g", i, a.Y(i), 2*w)
		}
	}

	c := NewWithY(xs, []float64{0.1, 0.5, 0.9})
	c.Complement()
	wantC := []float64{0.9, 0.5, 0.1}
	for i, w := range wantC {
		if math.Abs(c.Y(i)-w) > 1e-12 {
			t.Fatalf("Complement: y[%d] = %g, want %g", i, c.Y(i), w)
		}
	}
}

func TestAddMismatchedGridsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched grids")
		}
	}()
	a := New([]float64{0, 1})
	b := New([]float64{0, 1, 2})
	a.Add(b)
}

func TestInterpolateXRoundTrip(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{1.0, 0.1, 0.01, 0.001}
	s := NewWithY(xs, ys)

	x, err := s.InterpolateX(0.1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(x-1) > 1e-9 {
		t.Fatalf("InterpolateX(0.1) = %g, want 1", x)
	}

	y, err := s.InterpolateY(1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(y-0.1) > 1e-9 {
		t.Fatalf("InterpolateY(1) = %g, want 0.1", y)
	}
}

func TestInterpolateOutOfRange(t *testing.T) {
	s := NewWithY([]float64{0, 1}, []float64{1.0, 0.5})
	if _, err := s.InterpolateX(2.0); err == nil {
		t.Fatal("expected out-of-range error")
	}
	if _, err := s.InterpolateY(5.0); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestCopyIndependence(t *testing.T) {
	a := NewWithY([]float64{0, 1}, []float64{1, 2})
	b := a.Copy()
	b.SetY(0, 99)
	if a.Y(0) == 99 {
		t.Fatal("Copy shares backing array with original")
	}
}
