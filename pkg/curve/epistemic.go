package curve

import (
	"fmt"

	"github.com/jihwankim/seismic-hazard/pkg/exceedance"
	"github.com/jihwankim/seismic-hazard/pkg/groundmotion"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
	"github.com/jihwankim/seismic-hazard/pkg/xysequence"
)

// EpiValueFunc queries a GMM-set's epistemic uncertainty magnitude as a
// function of (Mw, rJB), per spec §6's GmmSet.EpiValue contract.
type EpiValueFunc func(mw, rJB float64) float64

// StandardEpistemic is the epistemic-uncertainty variant of Standard
// (spec §4.4): per input, three means {μ-ε, μ, μ+ε} are evaluated and
// combined with the GMM-set's three epi-weights, then scaled by rate. This
// path bypasses the MultiScalarGroundMotion tree entirely — it operates
// only on scalar ground motions, which the spec notes is the only context
// it's used in. A non-scalar entry is an error here, not a silent skip.
func StandardEpistemic(gms *groundmotion.GroundMotions, i imt.IMT, gmms []imt.Gmm, model exceedance.Model, n float64, template *xysequence.XYSequence, epiValue EpiValueFunc, epiWeights [3]float64) (map[imt.Gmm]*xysequence.XYSequence, error) {
	const tol = 1e-6
	sum := epiWeights[0] + epiWeights[1] + epiWeights[2]
	if sum < 1-tol || sum > 1+tol {
		return nil, fmt.Errorf("curve: epi weights sum to %g, want 1", sum)
	}

	out := make(map[imt.Gmm]*xysequence.XYSequence, len(gmms))
	inputs := gms.Inputs()
	for _, gmm := range gmms {
		values, ok := gms.Get(i, gmm)
		if !ok {
			return nil, fmt.Errorf("curve: no ground motions for imt %v gmm %v", i, gmm)
		}
		curve := template.Copy().Clear()
		for idx := 0; idx < inputs.Len(); idx++ {
			in := inputs.At(idx)
			if in.Rate == 0 {
				continue
			}
			sgm := values[idx]
			if sgm.IsMulti() {
				return nil, fmt.Errorf("curve: epistemic-uncertainty path requires scalar ground motions, got a logic tree for gmm %v", gmm)
			}
			eps := epiValue(in.Mw, in.RJB)
			mus := [3]float64{sgm.Scalar.Mean - eps, sgm.Scalar.Mean, sgm.Scalar.Mean + eps}

			util := template.Copy().Clear()
			for k, mu := range mus {
				branch := template.Copy().Clear()
				exceedance.ExceedanceSeq(model, mu, sgm.Scalar.Sigma, n, i, branch)
				branch.MultiplyScalar(epiWeights[k])
				util.Add(branch)
			}
			util.MultiplyScalar(in.Rate)
			curve.Add(util)
		}
		out[gmm] = curve
	}
	return out, nil
}
