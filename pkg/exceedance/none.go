package exceedance

// none implements the NONE variant: a Heaviside step at μ. σ is not a
// parameter here because the variant treats ground motion as deterministic.
func none(mu, y float64) float64 {
	if y <= mu {
		return 1
	}
	return 0
}
