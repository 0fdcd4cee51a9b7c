package groundmotion

import (
	"testing"

	"github.com/jihwankim/seismic-hazard/pkg/imt"
)

func TestInputListMinDistance(t *testing.T) {
	l := NewInputList("src")
	l.Add(HazardInput{RJB: 20})
	l.Add(HazardInput{RJB: 5})
	l.Add(HazardInput{RJB: 12})
	if l.MinDistance() != 5 {
		t.Fatalf("MinDistance = %g, want 5", l.MinDistance())
	}
	if _, err := l.Build(); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Build(); err == nil {
		t.Fatal("expected error on second Build")
	}
}

func TestInputListAddAfterBuildPanics(t *testing.T) {
	l := NewInputList("src")
	l.Add(HazardInput{RJB: 1})
	if _, err := l.Build(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic adding to a built InputList")
		}
	}()
	l.Add(HazardInput{RJB: 2})
}

func TestMultiScalarValidate(t *testing.T) {
	good := MultiScalarGroundMotion{
		Means: []float64{0, 1}, MeanWeights: []float64{0.5, 0.5},
		Sigmas: []float64{0.4}, SigmaWeights: []float64{1.0},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	bad := MultiScalarGroundMotion{
		Means: []float64{0, 1}, MeanWeights: []float64{0.5, 0.6},
		Sigmas: []float64{0.4}, SigmaWeights: []float64{1.0},
	}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected validation error for weights not summing to 1")
	}
}

func TestEvaluatorAppliesPostProcessorsInOrder(t *testing.T) {
	inputs := NewInputList("src")
	inputs.Add(HazardInput{Rate: 1e-3, Mw: 6.5, RJB: 10})
	built, err := inputs.Build()
	if err != nil {
		t.Fatal(err)
	}

	base := func(in HazardInput, i imt.IMT) (ScalarOrMulti, error) {
		return ScalarOrMulti{Scalar: ScalarGroundMotion{Mean: -1, Sigma: 0.5}}, nil
	}
	addOne := processorFunc(func(in HazardInput, sgm ScalarGroundMotion, i imt.IMT) ScalarGroundMotion {
		sgm.Mean += 1
		return sgm
	})
	timesTwo := processorFunc(func(in HazardInput, sgm ScalarGroundMotion, i imt.IMT) ScalarGroundMotion {
		sgm.Mean *= 2
		return sgm
	})

	spec := GmmSpec{Name: "TEST_GMM", Eval: base, Processors: []Processor{addOne, timesTwo}}
	gms, err := Evaluate(built, []imt.IMT{imt.PGA}, []GmmSpec{spec})
	if err != nil {
		t.Fatal(err)
	}
	vals, ok := gms.Get(imt.PGA, "TEST_GMM")
	if !ok || len(vals) != 1 {
		t.Fatalf("expected one value, got ok=%v len=%d", ok, len(vals))
	}
	// (-1 + 1) * 2 = 0, order matters: addOne before timesTwo.
	if vals[0].Scalar.Mean != 0 {
		t.Fatalf("Mean = %g, want 0 (order-dependent result)", vals[0].Scalar.Mean)
	}
}

func TestConcatPreservesSubmissionOrder(t *testing.T) {
	full := NewInputList("system")
	for _, rjb := range []float64{5, 10, 15, 20, 25} {
		full.Add(HazardInput{Rate: 1e-3, Mw: 6.5, RJB: rjb})
	}
	builtFull, err := full.Build()
	if err != nil {
		t.Fatal(err)
	}

	gmm := func(in HazardInput, i imt.IMT) (ScalarOrMulti, error) {
		// A rJB-dependent mean so each partition's slice is distinguishable.
		return ScalarOrMulti{Scalar: ScalarGroundMotion{Mean: -in.RJB, Sigma: 0.5}}, nil
	}
	spec := GmmSpec{Name: "TEST_GMM", Eval: gmm}

	chunks := [][]HazardInput{builtFull.All()[:2], builtFull.All()[2:4], builtFull.All()[4:]}
	parts := make([]*GroundMotions, len(chunks))
	for i, chunk := range chunks {
		l := NewInputList("system")
		for _, in := range chunk {
			l.Add(in)
		}
		built, err := l.Build()
		if err != nil {
			t.Fatal(err)
		}
		gms, err := Evaluate(built, []imt.IMT{imt.PGA}, []GmmSpec{spec})
		if err != nil {
			t.Fatal(err)
		}
		parts[i] = gms
	}

	whole, err := Evaluate(builtFull, []imt.IMT{imt.PGA}, []GmmSpec{spec})
	if err != nil {
		t.Fatal(err)
	}
	concatenated, err := Concat(builtFull, []imt.IMT{imt.PGA}, []imt.Gmm{"TEST_GMM"}, parts)
	if err != nil {
		t.Fatal(err)
	}

	wantVals, _ := whole.Get(imt.PGA, "TEST_GMM")
	gotVals, _ := concatenated.Get(imt.PGA, "TEST_GMM")
	if len(gotVals) != len(wantVals) {
		t.Fatalf("len(gotVals) = %d, want %d", len(gotVals), len(wantVals))
	}
	for i := range wantVals {
		if gotVals[i].Scalar.Mean != wantVals[i].Scalar.Mean {
			t.Fatalf("value %d: got mean %g, want %g (order not preserved)", i, gotVals[i].Scalar.Mean, wantVals[i].Scalar.Mean)
		}
	}
}

func TestConcatMissingPairErrors(t *testing.T) {
	full := NewInputList("system")
	full.Add(HazardInput{RJB: 1})
	full.Add(HazardInput{RJB: 2})
	built, err := full.Build()
	if err != nil {
		t.Fatal(err)
	}
	part := NewBuilder(built)
	if err := part.Set(imt.PGA, "OTHER_GMM", []ScalarOrMulti{{}, {}}); err != nil {
		t.Fatal(err)
	}
	gms, err := part.Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Concat(built, []imt.IMT{imt.PGA}, []imt.Gmm{"TEST_GMM"}, []*GroundMotions{gms}); err == nil {
		t.Fatal("expected an error for a gmm missing from a partition")
	}
}

type processorFunc func(in HazardInput, sgm ScalarGroundMotion, i imt.IMT) ScalarGroundMotion

func (f processorFunc) Apply(in HazardInput, sgm ScalarGroundMotion, i imt.IMT) ScalarGroundMotion {
	return f(in, sgm, i)
}
