package curve

import (
	"fmt"

	"github.com/jihwankim/seismic-hazard/pkg/exceedance"
	"github.com/jihwankim/seismic-hazard/pkg/groundmotion"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
	"github.com/jihwankim/seismic-hazard/pkg/xysequence"
)

// Cluster integrates a ClusterSource's per-fault GroundMotions into one
// curve per GMM, per spec §4.5. faultGMs is one GroundMotions per fault, in
// the cluster's declared fault order. Each input's Rate field is the
// magnitude-variant weight for that rupture (the cluster-source repurposing
// documented in the data model), not an occurrence rate; clusterRate is
// applied once, at the end, to the joint-combined result.
func Cluster(faultGMs []*groundmotion.GroundMotions, i imt.IMT, gmms []imt.Gmm, model exceedance.Model, n float64, template *xysequence.XYSequence, clusterRate float64) (map[imt.Gmm]*xysequence.XYSequence, error) {
	if len(faultGMs) == 0 {
		return nil, fmt.Errorf("curve: Cluster requires at least one fault")
	}
	out := make(map[imt.Gmm]*xysequence.XYSequence, len(gmms))
	for _, gmm := range gmms {
		isMulti, err := faultsAgreeOnMulti(faultGMs, i, gmm)
		if err != nil {
			return nil, err
		}
		var result *xysequence.XYSequence
		if isMulti {
			result, err = clusterMulti(faultGMs, i, gmm, model, n, template)
		} else {
			result, err = clusterScalar(faultGMs, i, gmm, model, n, template)
		}
		if err != nil {
			return nil, err
		}
		result.MultiplyScalar(clusterRate)
		out[gmm] = result
	}
	return out, nil
}

func faultsAgreeOnMulti(faultGMs []*groundmotion.GroundMotions, i imt.IMT, gmm imt.Gmm) (bool, error) {
	values, ok := faultGMs[0].Get(i, gmm)
	if !ok || len(values) == 0 {
		return false, fmt.Errorf("curve: fault 0 has no ground motions for imt %v gmm %v", i, gmm)
	}
	return values[0].IsMulti(), nil
}

func clusterScalar(faultGMs []*groundmotion.GroundMotions, i imt.IMT, gmm imt.Gmm, model exceedance.Model, n float64, template *xysequence.XYSequence) (*xysequence.XYSequence, error) {
	faultCurves := make([]*xysequence.XYSequence, 0, len(faultGMs))
	for _, gms := range faultGMs {
		values, ok := gms.Get(i, gmm)
		if !ok {
			return nil, fmt.Errorf("curve: no ground motions for imt %v gmm %v", i, gmm)
		}
		inputs := gms.Inputs()
		faultCurve := template.Copy().Clear()
		for idx := 0; idx < inputs.Len(); idx++ {
			in := inputs.At(idx)
			sgm := values[idx]
			if sgm.IsMulti() {
				return nil, fmt.Errorf("curve: mixed scalar/multi ground motions for gmm %v", gmm)
			}
			util := template.Copy().Clear()
			exceedance.ExceedanceSeq(model, sgm.Scalar.Mean, sgm.Scalar.Sigma, n, i, util)
			util.MultiplyScalar(in.Rate) // variant weight
			faultCurve.Add(util)
		}
		faultCurves = append(faultCurves, faultCurve)
	}
	return exceedance.Joint(faultCurves), nil
}

func clusterMulti(faultGMs []*groundmotion.GroundMotions, i imt.IMT, gmm imt.Gmm, model exceedance.Model, n float64, template *xysequence.XYSequence) (*xysequence.XYSequence, error) {
	var branchWeights []float64
	faultBranchCurves := make([][]*xysequence.XYSequence, len(faultGMs))

	for fi, gms := range faultGMs {
		values, ok := gms.Get(i, gmm)
		if !ok {
			return nil, fmt.Errorf("curve: no ground motions for imt %v gmm %v", i, gmm)
		}
		inputs := gms.Inputs()
		var branchCurves []*xysequence.XYSequence

		for idx := 0; idx < inputs.Len(); idx++ {
			in := inputs.At(idx)
			sgm := values[idx]
			if !sgm.IsMulti() {
				return nil, fmt.Errorf("curve: mixed scalar/multi ground motions for gmm %v", gmm)
			}
			branches := exceedance.Tree(model, n, i, template, sgm.Multi.Means, sgm.Multi.MeanWeights, sgm.Multi.Sigmas, sgm.Multi.SigmaWeights)
			if branchCurves == nil {
				branchCurves = make([]*xysequence.XYSequence, len(branches))
				for bi := range branchCurves {
					branchCurves[bi] = template.Copy().Clear()
				}
			}
			if branchWeights == nil {
				branchWeights = make([]float64, len(branches))
				for bi, b := range branches {
					branchWeights[bi] = b.Weight
				}
			}
			for bi, b := range branches {
				scaled := b.Curve.Copy().MultiplyScalar(in.Rate) // variant weight
				branchCurves[bi].Add(scaled)
			}
		}
		faultBranchCurves[fi] = branchCurves
	}

	nBranches := len(branchWeights)
	result := template.Copy().Clear()
	for bi := 0; bi < nBranches; bi++ {
		perFault := make([]*xysequence.XYSequence, len(faultGMs))
		for fi := range faultGMs {
			perFault[fi] = faultBranchCurves[fi][bi]
		}
		joint := exceedance.Joint(perFault)
		joint.MultiplyScalar(branchWeights[bi])
		result.Add(joint)
	}
	return result, nil
}
