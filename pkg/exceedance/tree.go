package exceedance

import (
	"github.com/jihwankim/seismic-hazard/pkg/imt"
	"github.com/jihwankim/seismic-hazard/pkg/xysequence"
)

// TreeBranch is one (mean, sigma) combination of a mean×sigma logic tree,
// carrying its exceedance curve and combined weight.
type TreeBranch struct {
	Curve  *xysequence.XYSequence
	Weight float64
}

// Tree computes one exceedance curve per (meanᵢ, σⱼ) branch of a mean×sigma
// logic tree, in the strict order required by spec §4.1: outer loop over
// means, inner loop over sigmas. The returned slice's index therefore
// equals j + len(sigmas)*i, which is the same ordering any caller indexing
// a parallel weight vector must use — computing branch curve and branch
// weight together here means no external ordering contract leaks (see
// spec §9, "Logic-tree ordering coupling").
//
// template is used only for its x-grid; it is never mutated.
func Tree(m Model, n float64, i imt.IMT, template *xysequence.XYSequence, means, meanWeights, sigmas, sigmaWeights []float64) []TreeBranch {
	if len(means) != len(meanWeights) || len(sigmas) != len(sigmaWeights) {
		panic("exceedance: Tree weight/value length mismatch")
	}
	branches := make([]TreeBranch, 0, len(means)*len(sigmas))
	for bi, mu := range means {
		for bj, sigma := range sigmas {
			curve := template.Copy()
			curve.Clear()
			ExceedanceSeq(m, mu, sigma, n, i, curve)
			branches = append(branches, TreeBranch{
				Curve:  curve,
				Weight: meanWeights[bi] * sigmaWeights[bj],
			})
		}
	}
	return branches
}

// WeightedSum collapses a set of branches into a single curve by summing
// each branch's curve scaled by its weight.
func WeightedSum(template *xysequence.XYSequence, branches []TreeBranch) *xysequence.XYSequence {
	out := template.Copy()
	out.Clear()
	for _, b := range branches {
		scaled := b.Curve.Copy().MultiplyScalar(b.Weight)
		out.Add(scaled)
	}
	return out
}
