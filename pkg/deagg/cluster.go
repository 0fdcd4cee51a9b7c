package deagg

import (
	"fmt"

	"github.com/jihwankim/seismic-hazard/pkg/hazardmodel"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
	"github.com/jihwankim/seismic-hazard/pkg/xysequence"
)

// Cluster runs the standard per-source deaggregation on each cluster
// member, then combines the per-GMM results and rescales each combined
// dataset so its binned+residual total matches the cluster rate read from
// the precomputed cluster exceedance curve at the target IML. GMMs whose
// combined total is zero are skipped (nothing to rescale against). The
// member contributors are wrapped under one ClusterKind contributor.
func Cluster(cfg Config, clusterName string, members []SourceUnit, sourceSetWeight float64, weights hazardmodel.GmmWeightMap, clusterCurves map[imt.Gmm]*xysequence.XYSequence) (map[imt.Gmm]*Dataset, *Contributor, error) {
	if len(members) == 0 {
		return nil, nil, fmt.Errorf("deagg: Cluster requires at least one member")
	}

	perGmmMemberDatasets := make(map[imt.Gmm][]*Dataset)
	memberContributors := make([]*Contributor, 0, len(members))
	for _, member := range members {
		datasets, contributor, err := PerSource(cfg, member, sourceSetWeight, weights)
		if err != nil {
			return nil, nil, fmt.Errorf("deagg: Cluster member %q: %w", member.Name, err)
		}
		for gmm, d := range datasets {
			perGmmMemberDatasets[gmm] = append(perGmmMemberDatasets[gmm], d)
		}
		memberContributors = append(memberContributors, contributor)
	}

	clusterContributor := &Contributor{Kind: ClusterKind, Name: clusterName, Children: memberContributors}
	for _, c := range memberContributors {
		clusterContributor.RScaled += c.RScaled
		clusterContributor.MScaled += c.MScaled
		clusterContributor.EpsScaled += c.EpsScaled
		clusterContributor.Binned += c.Binned
		clusterContributor.Residual += c.Residual
	}

	out := make(map[imt.Gmm]*Dataset, len(perGmmMemberDatasets))
	for gmm, datasets := range perGmmMemberDatasets {
		combined, err := combine(datasets, nil, clusterContributor)
		if err != nil {
			return nil, nil, fmt.Errorf("deagg: Cluster %q gmm %v: %w", clusterName, gmm, err)
		}
		total := combined.Binned + combined.Residual
		if total == 0 {
			continue
		}
		curve, ok := clusterCurves[gmm]
		if !ok {
			return nil, nil, fmt.Errorf("deagg: Cluster %q: no precomputed exceedance curve for gmm %v", clusterName, gmm)
		}
		targetRate, err := curve.InterpolateY(cfg.IML)
		if err != nil {
			return nil, nil, fmt.Errorf("deagg: Cluster %q gmm %v: %w", clusterName, gmm, err)
		}
		out[gmm] = combined.scale(targetRate/total, clusterContributor)
	}
	return out, clusterContributor, nil
}
