package exceedance

import "github.com/jihwankim/seismic-hazard/pkg/ccdf"

// truncationOff is the standard, untruncated complementary Gaussian:
// Φ̄((y-μ)/σ).
func truncationOff(mu, sigma, y float64) float64 {
	return ccdf.Phibar((y - mu) / sigma)
}

// truncationUpperOnly re-normalizes the distribution on (-∞, μ+nσ]:
// p = (Φ̄(ε) - pHi) / (1 - pHi), clamped to [0,1], where ε=(y-μ)/σ and pHi
// is Φ̄ at the upper truncation point nσ.
func truncationUpperOnly(mu, sigma, n, y float64) float64 {
	eps := (y - mu) / sigma
	pHi := ccdf.Phibar(n)
	p := (ccdf.Phibar(eps) - pHi) / (1 - pHi)
	return clamp01(p)
}

// truncationLowerUpper re-normalizes the distribution on [μ-nσ, μ+nσ]:
// p = (Φ̄(ε) - pHi) / (pLo - pHi), clamped to [0,1].
func truncationLowerUpper(mu, sigma, n, y float64) float64 {
	eps := (y - mu) / sigma
	pHi := ccdf.Phibar(n)
	pLo := ccdf.Phibar(-n)
	p := (ccdf.Phibar(eps) - pHi) / (pLo - pHi)
	return clamp01(p)
}

// truncation3SigmaUpper is truncationUpperOnly fixed at n=3, routed through
// the precomputed CCDF table for O(1) lookup on the hot path.
func truncation3SigmaUpper(mu, sigma, y float64) float64 {
	eps := (y - mu) / sigma
	tb := ccdf.Default()
	pHi := tb.Get(3)
	p := (tb.Get(eps) - pHi) / (1 - pHi)
	return clamp01(p)
}
