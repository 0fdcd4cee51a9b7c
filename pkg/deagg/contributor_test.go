package deagg

import (
	"math"
	"testing"
)

func TestMFDAddClampsOutOfRangeRows(t *testing.T) {
	m := NewMFD(6, 7)
	m.Add(5.0, 1.0) // below range, clamps to first row
	m.Add(9.0, 2.0) // above range, clamps to last row
	if m.Rates[0] != 1.0 {
		t.Fatalf("Rates[0] = %g, want 1.0", m.Rates[0])
	}
	if m.Rates[len(m.Rates)-1] != 2.0 {
		t.Fatalf("Rates[last] = %g, want 2.0", m.Rates[len(m.Rates)-1])
	}
}

func TestMFDXYSequenceMatchesRowsAtBinCenters(t *testing.T) {
	m := NewMFD(6, 7)
	m.Add(6.25, 0.5)
	seq := m.XYSequence()
	if seq.Len() != len(m.Rates) {
		t.Fatalf("seq.Len() = %d, want %d", seq.Len(), len(m.Rates))
	}
	for i := 0; i < seq.Len(); i++ {
		wantX := m.MMin + float64(i)*m.MDelta
		if math.Abs(seq.X(i)-wantX) > 1e-12 {
			t.Fatalf("seq.X(%d) = %g, want %g", i, seq.X(i), wantX)
		}
		if seq.Y(i) != m.Rates[i] {
			t.Fatalf("seq.Y(%d) = %g, want %g", i, seq.Y(i), m.Rates[i])
		}
	}
}
