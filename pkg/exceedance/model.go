// Package exceedance evaluates P(Y > y | μ, σ) under a configurable
// truncation/clamp policy, for both scalar queries and whole curves, and
// supplies joint exceedance for clustered sources. Each policy is a Model
// variant; dispatch mirrors a chain-of-mechanisms shape where one call
// routes to exactly one variant's implementation, the way the teacher's
// fault injector routes one fault-type string to one mechanism.
package exceedance

import (
	"fmt"

	"github.com/jihwankim/seismic-hazard/pkg/imt"
	"github.com/jihwankim/seismic-hazard/pkg/xysequence"
)

// Model identifies a truncation/clamp policy for converting a (μ, σ)
// ground-motion distribution into an exceedance probability.
type Model int

const (
	// NONE treats the ground motion as deterministic: p = 1 if y ≤ μ,
	// else 0. σ and n are ignored.
	NONE Model = iota
	// TRUNCATION_OFF is the standard, untruncated complementary Gaussian.
	TRUNCATION_OFF
	// TRUNCATION_UPPER_ONLY re-normalizes on (-∞, μ+nσ].
	TRUNCATION_UPPER_ONLY
	// TRUNCATION_LOWER_UPPER re-normalizes on [μ-nσ, μ+nσ].
	TRUNCATION_LOWER_UPPER
	// TRUNCATION_3SIGMA_UPPER is TRUNCATION_UPPER_ONLY fixed at n=3, using
	// the precomputed CCDF table for a fast path.
	TRUNCATION_3SIGMA_UPPER
	// NSHM_CEUS_MAX_INTENSITY upper-truncates at min(μ+nσ, ln(max_imt)),
	// where max_imt is a per-IMT ceiling.
	NSHM_CEUS_MAX_INTENSITY
	// NSHM_CEUS_3SIGMA_MAX_INTENSITY is NSHM_CEUS_MAX_INTENSITY with n
	// fixed at 3, using the table path when 3σ falls inside the clamp.
	NSHM_CEUS_3SIGMA_MAX_INTENSITY
	// PEER_MIXTURE_MODEL is a deprecated, hard-coded-σ mixture of two
	// Gaussians, retained for regression parity (see DESIGN.md Open
	// Questions: removal vs. retention was left unresolved upstream).
	PEER_MIXTURE_MODEL
)

func (m Model) String() string {
	switch m {
	case NONE:
		return "NONE"
	case TRUNCATION_OFF:
		return "TRUNCATION_OFF"
	case TRUNCATION_UPPER_ONLY:
		return "TRUNCATION_UPPER_ONLY"
	case TRUNCATION_LOWER_UPPER:
		return "TRUNCATION_LOWER_UPPER"
	case TRUNCATION_3SIGMA_UPPER:
		return "TRUNCATION_3SIGMA_UPPER"
	case NSHM_CEUS_MAX_INTENSITY:
		return "NSHM_CEUS_MAX_INTENSITY"
	case NSHM_CEUS_3SIGMA_MAX_INTENSITY:
		return "NSHM_CEUS_3SIGMA_MAX_INTENSITY"
	case PEER_MIXTURE_MODEL:
		return "PEER_MIXTURE_MODEL"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// ParseModel parses the canonical name (as returned by String) back into a
// Model, for config files that name the truncation policy as a string.
func ParseModel(s string) (Model, error) {
	for m := NONE; m <= PEER_MIXTURE_MODEL; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("exceedance: unknown model %q", s)
}

// Exceedance evaluates P(Y > y | μ, σ) for the scalar target y, under
// truncation level n (standard deviations) and the given IMT (used only by
// the NSHM_CEUS variants' per-IMT intensity ceiling).
func Exceedance(m Model, mu, sigma, n float64, i imt.IMT, y float64) float64 {
	switch m {
	case NONE:
		return none(mu, y)
	case TRUNCATION_OFF:
		return truncationOff(mu, sigma, y)
	case TRUNCATION_UPPER_ONLY:
		return truncationUpperOnly(mu, sigma, n, y)
	case TRUNCATION_LOWER_UPPER:
		return truncationLowerUpper(mu, sigma, n, y)
	case TRUNCATION_3SIGMA_UPPER:
		return truncation3SigmaUpper(mu, sigma, y)
	case NSHM_CEUS_MAX_INTENSITY:
		return nshmCeusMaxIntensity(mu, sigma, n, i, y)
	case NSHM_CEUS_3SIGMA_MAX_INTENSITY:
		return nshmCeus3SigmaMaxIntensity(mu, sigma, i, y)
	case PEER_MIXTURE_MODEL:
		return peerMixtureModel(mu, y)
	default:
		panic(fmt.Sprintf("exceedance: unknown model %v", m))
	}
}

// ExceedanceSeq populates seq's y values with Exceedance evaluated at each
// of seq's x values (interpreted as ln-IML targets), leaving the x-grid
// untouched. seq is mutated in place and also returned for chaining.
func ExceedanceSeq(m Model, mu, sigma, n float64, i imt.IMT, seq *xysequence.XYSequence) *xysequence.XYSequence {
	for idx := 0; idx < seq.Len(); idx++ {
		seq.SetY(idx, Exceedance(m, mu, sigma, n, i, seq.X(idx)))
	}
	return seq
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
