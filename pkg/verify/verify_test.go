package verify

import (
	"testing"

	"github.com/jihwankim/seismic-hazard/pkg/consolidate"
	"github.com/jihwankim/seismic-hazard/pkg/deagg"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
	"github.com/jihwankim/seismic-hazard/pkg/xysequence"
)

func TestSourceSetTotalPasses(t *testing.T) {
	xs := []float64{0, 1, 2}
	a := xysequence.NewWithY(xs, []float64{0.1, 0.2, 0.3})
	b := xysequence.NewWithY(xs, []float64{0.4, 0.1, 0.05})
	total := a.Copy().Add(b)
	curves := &consolidate.HazardCurves{
		ByGmm: map[imt.Gmm]*xysequence.XYSequence{"GMM1": a, "GMM2": b},
		Total: total,
	}
	if err := SourceSetTotal(curves); err != nil {
		t.Fatal(err)
	}
}

func TestSourceSetTotalFailsOnMismatch(t *testing.T) {
	xs := []float64{0, 1, 2}
	a := xysequence.NewWithY(xs, []float64{0.1, 0.2, 0.3})
	b := xysequence.NewWithY(xs, []float64{0.4, 0.1, 0.05})
	wrongTotal := xysequence.NewWithY(xs, []float64{0, 0, 0})
	curves := &consolidate.HazardCurves{
		ByGmm: map[imt.Gmm]*xysequence.XYSequence{"GMM1": a, "GMM2": b},
		Total: wrongTotal,
	}
	if err := SourceSetTotal(curves); err == nil {
		t.Fatal("expected a mismatch error")
	}
}

func TestGmmWeightBoundRejectsOverweight(t *testing.T) {
	weights := map[imt.Gmm]float64{"GMM1": 0.6, "GMM2": 0.6}
	if err := GmmWeightBound(1.0, weights); err == nil {
		t.Fatal("expected an over-1 weight bound error")
	}
}

func TestDeaggBinnedSumPasses(t *testing.T) {
	grid := deagg.Grid{RMin: 0, RMax: 20, RDelta: 10, MMin: 5, MMax: 7, MDelta: 1, EpsMin: -1, EpsMax: 1, EpsDelta: 1}
	b := deagg.NewBuilder(grid)
	b.AddRupture(5, 6, 0, 1.0)
	d, err := b.Build(&deagg.Contributor{Kind: deagg.SourceSetKind, Name: "ss"})
	if err != nil {
		t.Fatal(err)
	}
	if err := DeaggBinnedSum(d); err != nil {
		t.Fatal(err)
	}
}

func TestJointExceedanceFormulaMatchesS2(t *testing.T) {
	xs := []float64{0, 1}
	a := xysequence.NewWithY(xs, []float64{0.1, 0.1})
	b := xysequence.NewWithY(xs, []float64{0.1, 0.1})
	if err := JointExceedanceFormula(a, b); err != nil {
		t.Fatal(err)
	}
}

func TestPoissonRoundTripRecoversRate(t *testing.T) {
	if err := PoissonRoundTrip(2e-4, 50); err != nil {
		t.Fatal(err)
	}
}

func TestExceedanceClampAtUpperBound(t *testing.T) {
	if err := ExceedanceClamp(imt.PGA, 0, 1, 3); err != nil {
		t.Fatal(err)
	}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	var ran []string
	checks := []Check{
		{Name: "ok", Func: func() error { ran = append(ran, "ok"); return nil }},
		{Name: "bad", Func: func() error { ran = append(ran, "bad"); return errBoom }},
		{Name: "never", Func: func() error { ran = append(ran, "never"); return nil }},
	}
	if err := Run(checks); err == nil {
		t.Fatal("expected an error")
	}
	if len(ran) != 2 {
		t.Fatalf("expected exactly 2 checks to run, got %v", ran)
	}
}

var errBoom = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
