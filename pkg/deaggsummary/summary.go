// Package deaggsummary reduces a deaggregation dataset to the presentable
// figures spec §4.9 calls for: recovered rate, totals as percentages, means,
// the two mode bins, axis discretization, epsilon keys, and contributor
// ranking. It is deliberately data-only — no text or file rendering, since
// that surface is an external collaborator's concern (the same split the
// teacher draws between reporting/formatter.go's report struct and its
// separate HTML/text emission).
package deaggsummary

import (
	"fmt"
	"math"
	"sort"

	"github.com/jihwankim/seismic-hazard/pkg/deagg"
	"github.com/jihwankim/seismic-hazard/pkg/xysequence"
)

// TraceThresholdPercent is the fixed per-bin threshold below which a bin's
// contribution is also counted toward "trace". Trace bins stay part of the
// binned total; TracePercent reports their share separately (spec §4.9).
const TraceThresholdPercent = 0.01

// AxisDiscretization is the formatted (min, max, Δ) for one deaggregation
// axis.
type AxisDiscretization struct {
	Min, Max, Delta float64
}

// Discretization is the formatted grid across all three axes.
type Discretization struct {
	R, M, Eps AxisDiscretization
}

// EpsilonKey is one half-open epsilon bin interval, with the component
// dataset's rate summed across (r, m) for that bin. The first and last
// bins extend to ±∞, matching Grid.EpsLowerBound/EpsUpperBound.
type EpsilonKey struct {
	Index      int
	Lower, Upper float64
	Rate       float64
}

// ModeRM is the largest (r, m) bin by total weight: its bin center, its
// bin-mean moments, and its share of the total recovered rate.
type ModeRM struct {
	RIndex, MIndex         int
	R, M                   float64
	RScaled, MScaled, EpsScaled float64
	ContributionPercent    float64
}

// ModeEps is the largest single (r, m, ε) bin in the 3D grid.
type ModeEps struct {
	RIndex, MIndex, EpsIndex int
	R, M, Eps                float64
	Rate                     float64
	ContributionPercent      float64
}

// Summary is the full set of derived figures for one component dataset,
// expressed as a percentage of a total dataset's recovered rate (the two
// may be the same dataset, in which case every percentage is relative to
// itself).
type Summary struct {
	RecoveredRate float64
	ReturnPeriod  float64

	BinnedPercent, ResidualPercent, TracePercent float64

	RBar, MBar, EpsBar float64

	ModeRM  ModeRM
	ModeEps ModeEps

	Discretization Discretization
	EpsilonKeys    []EpsilonKey
}

// Build derives a Summary for component against total's recovered rate.
// Pass the same dataset for both to summarize a total in isolation.
func Build(total, component *deagg.Dataset) (*Summary, error) {
	if total.Grid != component.Grid {
		return nil, fmt.Errorf("deaggsummary: Build requires total and component on the same grid")
	}

	recovered := component.Binned + component.Residual
	totalRecovered := total.Binned + total.Residual

	s := &Summary{
		RecoveredRate: recovered,
		ReturnPeriod:  returnPeriod(recovered),
		RBar:          component.RBar,
		MBar:          component.MBar,
		EpsBar:        component.EpsBar,
		Discretization: Discretization{
			R:   AxisDiscretization{component.Grid.RMin, component.Grid.RMax, component.Grid.RDelta},
			M:   AxisDiscretization{component.Grid.MMin, component.Grid.MMax, component.Grid.MDelta},
			Eps: AxisDiscretization{component.Grid.EpsMin, component.Grid.EpsMax, component.Grid.EpsDelta},
		},
	}

	binnedPct, residualPct, tracePct := math.NaN(), math.NaN(), math.NaN()
	if totalRecovered > 0 {
		threshold := TraceThresholdPercent / 100 * totalRecovered
		var trace float64
		for _, row := range component.RMEps {
			for _, col := range row {
				for _, v := range col {
					if v > 0 && v < threshold {
						trace += v
					}
				}
			}
		}
		binnedPct = component.Binned * 100 / totalRecovered
		residualPct = component.Residual * 100 / totalRecovered
		tracePct = trace * 100 / totalRecovered
	}
	s.BinnedPercent, s.ResidualPercent, s.TracePercent = binnedPct, residualPct, tracePct

	s.ModeRM = buildModeRM(component, totalRecovered)
	s.ModeEps = buildModeEps(component, totalRecovered)
	s.EpsilonKeys = buildEpsilonKeys(component)

	return s, nil
}

func returnPeriod(rate float64) float64 {
	if rate <= 0 {
		return math.Inf(1)
	}
	return 1 / rate
}

func buildModeRM(d *deagg.Dataset, totalRecovered float64) ModeRM {
	var mode ModeRM
	mode.RIndex, mode.MIndex = -1, -1
	var best float64
	for i, row := range d.RMWeights {
		for j, w := range row {
			if w > best {
				best = w
				mode.RIndex, mode.MIndex = i, j
			}
		}
	}
	if mode.RIndex == -1 {
		return mode
	}
	mode.R = d.Grid.RCenter(mode.RIndex)
	mode.M = d.Grid.MCenter(mode.MIndex)
	mode.RScaled = d.RMRScaled[mode.RIndex][mode.MIndex] / best
	mode.MScaled = d.RMMScaled[mode.RIndex][mode.MIndex] / best
	mode.EpsScaled = d.RMEpsScaled[mode.RIndex][mode.MIndex] / best
	if totalRecovered > 0 {
		mode.ContributionPercent = best * 100 / totalRecovered
	} else {
		mode.ContributionPercent = math.NaN()
	}
	return mode
}

func buildModeEps(d *deagg.Dataset, totalRecovered float64) ModeEps {
	var mode ModeEps
	mode.RIndex, mode.MIndex, mode.EpsIndex = -1, -1, -1
	var best float64
	for i, plane := range d.RMEps {
		for j, row := range plane {
			for k, v := range row {
				if v > best {
					best = v
					mode.RIndex, mode.MIndex, mode.EpsIndex = i, j, k
				}
			}
		}
	}
	if mode.RIndex == -1 {
		return mode
	}
	mode.R = d.Grid.RCenter(mode.RIndex)
	mode.M = d.Grid.MCenter(mode.MIndex)
	mode.Eps = d.Grid.EpsCenter(mode.EpsIndex)
	mode.Rate = best
	if totalRecovered > 0 {
		mode.ContributionPercent = best * 100 / totalRecovered
	} else {
		mode.ContributionPercent = math.NaN()
	}
	return mode
}

func buildEpsilonKeys(d *deagg.Dataset) []EpsilonKey {
	n := d.Grid.NEps()
	keys := make([]EpsilonKey, n)
	for k := 0; k < n; k++ {
		var rate float64
		for i := range d.RMEps {
			for j := range d.RMEps[i] {
				rate += d.RMEps[i][j][k]
			}
		}
		keys[k] = EpsilonKey{
			Index: k,
			Lower: d.Grid.EpsLowerBound(k),
			Upper: d.Grid.EpsUpperBound(k),
			Rate:  rate,
		}
	}
	return keys
}

// SectionMFD returns a System section contributor's magnitude-frequency
// distribution as a normalized XYSequence (rate per Mw bin), for direct
// consumption by the summary/export layer the way a standard NSHM
// deaggregation-by-section report presents it. The second return is false
// for any contributor that isn't a System section, or one whose MFD was
// never populated.
func SectionMFD(c *deagg.Contributor) (*xysequence.XYSequence, bool) {
	if c.Kind != deagg.SystemSectionKind || c.MFD == nil {
		return nil, false
	}
	return c.MFD.XYSequence(), true
}

// RankedContributor pairs a contributor with its share of the grand total
// recovered rate.
type RankedContributor struct {
	Contributor *deagg.Contributor
	Percent     float64
}

// RankContributors sorts contributors descending by their own total rate
// and walks the sorted list, emitting entries until one's percent
// contribution to grandTotal falls below thresholdPercent (spec §4.9,
// "the short-circuit relies on a pre-sorted contributor list"). contributors
// is not mutated.
func RankContributors(contributors []*deagg.Contributor, grandTotal, thresholdPercent float64) []RankedContributor {
	sorted := make([]*deagg.Contributor, len(contributors))
	copy(sorted, contributors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Total() > sorted[j].Total() })

	var out []RankedContributor
	for _, c := range sorted {
		var pct float64
		if grandTotal > 0 {
			pct = c.Total() * 100 / grandTotal
		}
		if pct < thresholdPercent {
			break
		}
		out = append(out, RankedContributor{Contributor: c, Percent: pct})
	}
	return out
}
