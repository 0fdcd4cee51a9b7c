package exceedance

import (
	"math"
	"testing"

	"github.com/jihwankim/seismic-hazard/pkg/imt"
	"github.com/jihwankim/seismic-hazard/pkg/xysequence"
)

// S1: Gaussian sanity.
func TestGaussianSanity(t *testing.T) {
	p := Exceedance(TRUNCATION_OFF, 0, 1, 3, imt.PGA, 0)
	if math.Abs(p-0.5) > 1e-9 {
		t.Fatalf("TRUNCATION_OFF at y=mu = %g, want 0.5", p)
	}

	p2 := Exceedance(TRUNCATION_UPPER_ONLY, 0, 1, 3, imt.PGA, 0)
	// (0.5 - Φ̄(3)) / (1 - Φ̄(3)) = 0.49865 / 0.99865
	want := 0.49932
	if math.Abs(p2-want) > 1e-4 {
		t.Fatalf("TRUNCATION_UPPER_ONLY at y=mu, n=3 = %g, want ~%g", p2, want)
	}
}

// S2: joint exceedance of two flat curves at 0.1 each.
func TestJointFlatCurves(t *testing.T) {
	xs := []float64{0, 1, 2}
	a := xysequence.NewWithY(xs, []float64{0.1, 0.1, 0.1})
	b := xysequence.NewWithY(xs, []float64{0.1, 0.1, 0.1})
	joint := Joint([]*xysequence.XYSequence{a, b})
	for i := 0; i < joint.Len(); i++ {
		if math.Abs(joint.Y(i)-0.19) > 1e-9 {
			t.Fatalf("joint[%d] = %g, want 0.19", i, joint.Y(i))
		}
	}
}

// Testable property 4: joint exceedance formula for two curves in general.
func TestJointFormula(t *testing.T) {
	xs := []float64{0}
	a := xysequence.NewWithY(xs, []float64{0.3})
	b := xysequence.NewWithY(xs, []float64{0.4})
	joint := Joint([]*xysequence.XYSequence{a, b})
	want := 1 - (1-0.3)*(1-0.4)
	if math.Abs(joint.Y(0)-want) > 1e-12 {
		t.Fatalf("joint = %g, want %g", joint.Y(0), want)
	}
}

// S7: TRUNCATION_UPPER_ONLY clamp behavior at the truncation boundary and
// in the deep lower tail.
func TestTruncationUpperOnlyClamp(t *testing.T) {
	mu, sigma, n := 0.0, 1.0, 3.0
	atBound := Exceedance(TRUNCATION_UPPER_ONLY, mu, sigma, n, imt.PGA, mu+n*sigma)
	if math.Abs(atBound) > 1e-9 {
		t.Fatalf("Exceedance at y=mu+n*sigma = %g, want 0", atBound)
	}
	deepLow := Exceedance(TRUNCATION_UPPER_ONLY, mu, sigma, n, imt.PGA, -50)
	if math.Abs(deepLow-1) > 1e-6 {
		t.Fatalf("Exceedance at y->-inf = %g, want ~1", deepLow)
	}
}

func TestNoneVariant(t *testing.T) {
	if Exceedance(NONE, 1.0, 0.5, 3, imt.PGA, 0.5) != 1 {
		t.Fatal("NONE at y<=mu should be 1")
	}
	if Exceedance(NONE, 1.0, 0.5, 3, imt.PGA, 1.5) != 0 {
		t.Fatal("NONE at y>mu should be 0")
	}
}

func TestTruncationLowerUpperSymmetricBounds(t *testing.T) {
	mu, sigma, n := 0.0, 1.0, 3.0
	lo := Exceedance(TRUNCATION_LOWER_UPPER, mu, sigma, n, imt.PGA, mu-n*sigma)
	hi := Exceedance(TRUNCATION_LOWER_UPPER, mu, sigma, n, imt.PGA, mu+n*sigma)
	if math.Abs(lo-1) > 1e-9 {
		t.Fatalf("lower bound exceedance = %g, want 1", lo)
	}
	if math.Abs(hi) > 1e-9 {
		t.Fatalf("upper bound exceedance = %g, want 0", hi)
	}
}

func TestCeusClampBindsBelowNSigma(t *testing.T) {
	// PGA ceiling is ln(3g); with a very large sigma the nσ point exceeds
	// the ceiling, so the ceiling should bind tighter than TRUNCATION_UPPER_ONLY.
	mu, sigma, n := math.Log(1.0), 1.5, 3.0
	ceusP := Exceedance(NSHM_CEUS_MAX_INTENSITY, mu, sigma, n, imt.PGA, mu)
	plainP := Exceedance(TRUNCATION_UPPER_ONLY, mu, sigma, n, imt.PGA, mu)
	if ceusP >= plainP {
		t.Fatalf("CEUS-clamped exceedance %g should be < unclamped %g when the ceiling binds", ceusP, plainP)
	}
}

func TestTreeOrderingAndWeightedSum(t *testing.T) {
	means := []float64{-0.1, 0.1}
	meanWeights := []float64{0.4, 0.6}
	sigmas := []float64{0.4, 0.5, 0.6}
	sigmaWeights := []float64{0.2, 0.5, 0.3}

	template := xysequence.New([]float64{0, 1})
	branches := Tree(TRUNCATION_OFF, 3, imt.PGA, template, means, meanWeights, sigmas, sigmaWeights)

	if len(branches) != len(means)*len(sigmas) {
		t.Fatalf("got %d branches, want %d", len(branches), len(means)*len(sigmas))
	}
	// Verify ordering: branch index = j + len(sigmas)*i
	for i := range means {
		for j := range sigmas {
			idx := j + len(sigmas)*i
			wantWeight := meanWeights[i] * sigmaWeights[j]
			if math.Abs(branches[idx].Weight-wantWeight) > 1e-12 {
				t.Fatalf("branch[%d].Weight = %g, want %g", idx, branches[idx].Weight, wantWeight)
			}
		}
	}

	sum := WeightedSum(template, branches)
	totalWeight := 0.0
	for _, b := range branches {
		totalWeight += b.Weight
	}
	if math.Abs(totalWeight-1.0) > 1e-9 {
		t.Fatalf("total branch weight = %g, want 1", totalWeight)
	}
	if sum.Len() != template.Len() {
		t.Fatalf("weighted sum has wrong grid length")
	}
}
