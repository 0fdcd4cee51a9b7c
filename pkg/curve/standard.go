// Package curve implements the GroundMotion→Curve integrator: combining
// per-rupture exceedance probabilities, weighted by rupture rate, into a
// per-GMM hazard curve. Grounded on the teacher's
// pkg/monitoring/collector/collector.go shape — accumulate into a running
// total across a sequence of samples, then hand back a stable snapshot —
// generalized from metric samples to rupture contributions.
package curve

import (
	"fmt"

	"github.com/jihwankim/seismic-hazard/pkg/exceedance"
	"github.com/jihwankim/seismic-hazard/pkg/groundmotion"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
	"github.com/jihwankim/seismic-hazard/pkg/xysequence"
)

// Standard integrates one GroundMotions record into a per-GMM curve for the
// given IMT. Curves are NOT weighted by GMM weight or source-set weight
// here; that happens in the consolidator (spec §4.4).
func Standard(gms *groundmotion.GroundMotions, i imt.IMT, gmms []imt.Gmm, model exceedance.Model, n float64, template *xysequence.XYSequence) (map[imt.Gmm]*xysequence.XYSequence, error) {
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
			util := contributionCurve(template, model, n, i, values[idx])
			util.MultiplyScalar(in.Rate)
			curve.Add(util)
		}
		out[gmm] = curve
	}
	return out, nil
}

// contributionCurve evaluates one input's exceedance curve, dispatching to
// the mean×sigma logic tree when the ground motion is a
// MultiScalarGroundMotion and to the plain scalar path otherwise.
func contributionCurve(template *xysequence.XYSequence, model exceedance.Model, n float64, i imt.IMT, sgm groundmotion.ScalarOrMulti) *xysequence.XYSequence {
	if sgm.IsMulti() {
		branches := exceedance.Tree(model, n, i, template, sgm.Multi.Means, sgm.Multi.MeanWeights, sgm.Multi.Sigmas, sgm.Multi.SigmaWeights)
		return exceedance.WeightedSum(template, branches)
	}
	util := template.Copy().Clear()
	exceedance.ExceedanceSeq(model, sgm.Scalar.Mean, sgm.Scalar.Sigma, n, i, util)
	return util
}
