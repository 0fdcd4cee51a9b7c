package exceedance

import (
	"math"

	"github.com/jihwankim/seismic-hazard/pkg/ccdf"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
)

// maxIntensity returns the per-IMT intensity ceiling (in g, or cm/s for
// PGV) used by the NSHM_CEUS_* variants: SA below 0.75s caps at 6g, PGA
// caps at 3g, PGV caps at 400 cm/s, and SA at or above 0.75s (and anything
// else) is unbounded.
func maxIntensity(i imt.IMT) float64 {
	switch {
	case i == imt.PGA:
		return 3.0
	case i == imt.PGV:
		return 400.0
	case i.IsSA() && i.Period() < 0.75:
		return 6.0
	default:
		return math.Inf(1)
	}
}

// nshmCeusMaxIntensity upper-truncates at min(μ+nσ, ln(max_imt)).
func nshmCeusMaxIntensity(mu, sigma, n float64, i imt.IMT, y float64) float64 {
	upperMu := mu + n*sigma
	ceiling := logCeiling(i)
	if ceiling < upperMu {
		// clamp point falls at the intensity ceiling rather than nσ: derive
		// the equivalent truncation level so the same renormalization applies.
		nEff := (ceiling - mu) / sigma
		return truncationUpperOnly(mu, sigma, nEff, y)
	}
	return truncationUpperOnly(mu, sigma, n, y)
}

// nshmCeus3SigmaMaxIntensity is nshmCeusMaxIntensity with n fixed at 3,
// preferring the precomputed table when the 3σ point already falls inside
// the intensity clamp (i.e. the ceiling doesn't bind).
func nshmCeus3SigmaMaxIntensity(mu, sigma float64, i imt.IMT, y float64) float64 {
	const n = 3.0
	upperMu := mu + n*sigma
	ceiling := logCeiling(i)
	if ceiling >= upperMu {
		return truncation3SigmaUpper(mu, sigma, y)
	}
	nEff := (ceiling - mu) / sigma
	eps := (y - mu) / sigma
	tb := ccdf.Default()
	pHi := tb.Get(nEff)
	p := (tb.Get(eps) - pHi) / (1 - pHi)
	return clamp01(p)
}

func logCeiling(i imt.IMT) float64 {
	return math.Log(maxIntensity(i))
}
