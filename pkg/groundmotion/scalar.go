package groundmotion

import "fmt"

// ScalarGroundMotion is a single (μ, σ) ground-motion estimate. μ is in
// natural-log space (ln g, or ln cm/s for PGV).
type ScalarGroundMotion struct {
	Mean  float64
	Sigma float64
}

// MultiScalarGroundMotion carries a mean×sigma logic tree: parallel
// Means/MeanWeights arrays and Sigmas/SigmaWeights arrays, defining
// len(Means)*len(Sigmas) branches. Each weight axis must sum to 1.
type MultiScalarGroundMotion struct {
	Means        []float64
	MeanWeights  []float64
	Sigmas       []float64
	SigmaWeights []float64
}

// NumBranches returns the number of mean×sigma branches the tree defines,
// len(Means)*len(Sigmas); a degenerate 1x1 tree is still a valid logic tree
// but callers on the hot path prefer the plain scalar form when possible.
func (m MultiScalarGroundMotion) NumBranches() int {
	return len(m.Means) * len(m.Sigmas)
}

// Validate checks that both weight axes sum to 1 within tolerance and that
// the value/weight arrays are the same length per axis.
func (m MultiScalarGroundMotion) Validate() error {
	if len(m.Means) != len(m.MeanWeights) {
		return fmt.Errorf("groundmotion: means/meanWeights length mismatch (%d vs %d)", len(m.Means), len(m.MeanWeights))
	}
	if len(m.Sigmas) != len(m.SigmaWeights) {
		return fmt.Errorf("groundmotion: sigmas/sigmaWeights length mismatch (%d vs %d)", len(m.Sigmas), len(m.SigmaWeights))
	}
	if err := checkWeightsSumToOne(m.MeanWeights); err != nil {
		return fmt.Errorf("groundmotion: mean weights: %w", err)
	}
	if err := checkWeightsSumToOne(m.SigmaWeights); err != nil {
		return fmt.Errorf("groundmotion: sigma weights: %w", err)
	}
	return nil
}

func checkWeightsSumToOne(weights []float64) error {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	const tol = 1e-6
	if sum < 1-tol || sum > 1+tol {
		return fmt.Errorf("weights sum to %g, want 1", sum)
	}
	return nil
}

// ScalarOrMulti holds either a ScalarGroundMotion or a
// MultiScalarGroundMotion for one (input, imt, gmm) combination. Exactly
// one of the two is populated; Multi is nil for a plain scalar result.
type ScalarOrMulti struct {
	Scalar ScalarGroundMotion
	Multi  *MultiScalarGroundMotion
}

// IsMulti reports whether this entry carries a logic tree rather than a
// plain scalar.
func (s ScalarOrMulti) IsMulti() bool { return s.Multi != nil }
