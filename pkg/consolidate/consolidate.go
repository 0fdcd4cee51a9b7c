// Package consolidate implements the curve consolidator (spec §4.7): it
// weights a source-set's per-GMM curves by gmmWeight(minDistance) ×
// sourceSetWeight, sums them into a per-IMT total for that source-set, then
// sums all source-set totals into a grand Hazard total per IMT. Grounded on
// the teacher's pkg/core/orchestrator/orchestrator.go fan-in shape — collect
// results keyed by stage, then reduce to one outcome — generalized from
// collecting per-stage TestState results to collecting per-source-set
// curves.
package consolidate

import (
	"fmt"

	"github.com/jihwankim/seismic-hazard/pkg/hazardmodel"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
	"github.com/jihwankim/seismic-hazard/pkg/xysequence"
)

// HazardCurves holds one source-set's weighted per-GMM curves for a single
// IMT, plus their sum.
type HazardCurves struct {
	ByGmm map[imt.Gmm]*xysequence.XYSequence
	Total *xysequence.XYSequence
}

// HazardCurveSet is one source-set's fully weighted result, across all
// IMTs. Retained (not just folded into the grand total) because the
// deaggregator needs per-source-set, per-GMM detail at the target IML
// (spec §4.8).
type HazardCurveSet struct {
	SourceSetName string
	Type          hazardmodel.SourceType
	Weight        float64
	ByIMT         map[imt.IMT]*HazardCurves
}

// Hazard is the grand total: a per-IMT summed curve across all source-sets,
// with the per-source-set detail retained alongside it.
type Hazard struct {
	ByIMT      map[imt.IMT]*xysequence.XYSequence
	SourceSets []*HazardCurveSet
}

// ConsolidateSourceSet weights one source-set's raw per-IMT, per-GMM curves
// (as produced by pkg/curve) by gmmWeight(minDistance) × sourceSetWeight,
// per spec §4.7. A GMM with weight 0 at this distance is omitted from the
// result entirely ("omit" per the GmmWeightMap contract) rather than
// included with a zero curve.
func ConsolidateSourceSet(name string, sourceType hazardmodel.SourceType, sourceSetWeight, minDistance float64, gmmSet hazardmodel.GmmSet, raw map[imt.IMT]map[imt.Gmm]*xysequence.XYSequence, template *xysequence.XYSequence) (*HazardCurveSet, error) {
	weights := gmmSet.WeightMap(minDistance)
	byIMT := make(map[imt.IMT]*HazardCurves, len(raw))
	for i, gmmCurves := range raw {
		weighted := make(map[imt.Gmm]*xysequence.XYSequence, len(gmmCurves))
		total := template.Copy().Clear()
		for gmm, curve := range gmmCurves {
			w, ok := weights[gmm]
			if !ok || w == 0 {
				continue
			}
			scaled := curve.Copy().MultiplyScalar(w * sourceSetWeight)
			weighted[gmm] = scaled
			total.Add(scaled)
		}
		byIMT[i] = &HazardCurves{ByGmm: weighted, Total: total}
	}
	return &HazardCurveSet{SourceSetName: name, Type: sourceType, Weight: sourceSetWeight, ByIMT: byIMT}, nil
}

// Consolidate sums a collection of source-sets' per-IMT totals into a grand
// Hazard. An empty sourceSets slice produces a Hazard with zero curves at
// every requested IMT, matching the "empty source-sets contribute nothing"
// rule — there is nothing special-cased about zero source-sets versus one
// that happens to sum to zero.
func Consolidate(sourceSets []*HazardCurveSet, imts []imt.IMT, template *xysequence.XYSequence) (*Hazard, error) {
	byIMT := make(map[imt.IMT]*xysequence.XYSequence, len(imts))
	for _, i := range imts {
		byIMT[i] = template.Copy().Clear()
	}
	for _, ss := range sourceSets {
		for i, hc := range ss.ByIMT {
			total, ok := byIMT[i]
			if !ok {
				return nil, fmt.Errorf("consolidate: source-set %q produced curve for unrequested imt %v", ss.SourceSetName, i)
			}
			total.Add(hc.Total)
		}
	}
	return &Hazard{ByIMT: byIMT, SourceSets: sourceSets}, nil
}
