package exceedance

import "github.com/jihwankim/seismic-hazard/pkg/ccdf"

// peerMixtureSigma is the hard-coded σ the upstream PEER_MIXTURE_MODEL
// variant uses regardless of the caller-supplied σ. This is the deprecated
// behavior flagged in spec §9; preserved rather than removed per
// DESIGN.md's Open Question decision.
const peerMixtureSigma = 0.65

// peerMixtureModel averages two untruncated Gaussians with σ scaled by 0.8
// and 1.2 respectively, ignoring the caller's σ entirely.
func peerMixtureModel(mu, y float64) float64 {
	sigmaLo := peerMixtureSigma * 0.8
	sigmaHi := peerMixtureSigma * 1.2
	pLo := ccdf.Phibar((y - mu) / sigmaLo)
	pHi := ccdf.Phibar((y - mu) / sigmaHi)
	return 0.5 * (pLo + pHi)
}
