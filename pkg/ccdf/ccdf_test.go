package ccdf

import (
	"math"
	"testing"
)

func TestPhibarSymmetry(t *testing.T) {
	if math.Abs(Phibar(0)-0.5) > 1e-6 {
		t.Fatalf("Phibar(0) = %g, want 0.5", Phibar(0))
	}
	for _, x := range []float64{0.5, 1.0, 1.96, 3.0} {
		sum := Phibar(x) + Phibar(-x)
		if math.Abs(sum-1.0) > 1e-6 {
			t.Fatalf("Phibar(%g)+Phibar(-%g) = %g, want 1", x, x, sum)
		}
	}
}

func TestPhibarKnownValues(t *testing.T) {
	// Reference values from the standard normal table.
	cases := []struct {
		x, want float64
	}{
		{1.0, 0.15866},
		{1.96, 0.025},
		{2.0, 0.02275},
	}
	for _, c := range cases {
		got := Phibar(c.x)
		if math.Abs(got-c.want) > 1e-3 {
			t.Fatalf("Phibar(%g) = %g, want ~%g", c.x, got, c.want)
		}
	}
}

// smallTable builds a fresh table over the default range; NewTable always
// allocates TableSize (10,000,001) points, so this is as large as Default().
func smallTable() *Table {
	return NewTable(-4, 4)
}

func TestTableAgreesWithPhibar(t *testing.T) {
	tb := smallTable()
	for _, x := range []float64{-3.5, -1.0, 0.0, 0.3, 1.5, 3.9} {
		got := tb.Get(x)
		want := Phibar(x)
		if math.Abs(got-want) > 1e-5 {
			t.Fatalf("table.Get(%g) = %g, want ~%g (Phibar)", x, got, want)
		}
	}
}

func TestTableOutOfRangeSaturates(t *testing.T) {
	tb := smallTable()
	if tb.Get(-10) != 1 {
		t.Fatalf("Get(-10) = %g, want 1", tb.Get(-10))
	}
	if tb.Get(10) != 0 {
		t.Fatalf("Get(10) = %g, want 0", tb.Get(10))
	}
}

func TestDefaultTableIsCached(t *testing.T) {
	a := Default()
	b := Default()
	if a != b {
		t.Fatal("Default() should return the same cached table instance")
	}
}
