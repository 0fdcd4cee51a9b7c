package exceedance

import "github.com/jihwankim/seismic-hazard/pkg/xysequence"

// Joint computes pointwise joint exceedance across independent curves,
// 1 - Π(1 - p_i), used to combine cluster-member fault curves into a
// single "all rupture or none do" exceedance curve. Panics if curves is
// empty. The x-grids are not compared: curves are combined index by index
// and the result keeps the first curve's x-values.
func Joint(curves []*xysequence.XYSequence) *xysequence.XYSequence {
	if len(curves) == 0 {
		panic("exceedance: Joint requires at least one curve")
	}
	out := curves[0].Copy()
	n := out.Len()
	nonExceed := make([]float64, n)
	for i := 0; i < n; i++ {
		nonExceed[i] = 1
	}
	for _, c := range curves {
		for i := 0; i < n; i++ {
			nonExceed[i] *= 1 - c.Y(i)
		}
	}
	for i := 0; i < n; i++ {
		out.SetY(i, 1-nonExceed[i])
	}
	return out
}
