// Deaggregate wires spec §4.8's top-level entry points (atReturnPeriod,
// atIml) to the per-source-set deaggregators in pkg/deagg, dispatching on
// each source-set's retained Type the same way Compute dispatches on it
// when building curves.
package hazard

import (
	"fmt"
	"math"

	"github.com/jihwankim/seismic-hazard/pkg/consolidate"
	"github.com/jihwankim/seismic-hazard/pkg/deagg"
	"github.com/jihwankim/seismic-hazard/pkg/exceedance"
	"github.com/jihwankim/seismic-hazard/pkg/hazardmodel"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
)

// DeaggregateAtReturnPeriod interpolates the IML at the target return
// period for imt i, then re-walks every retained source-set's ruptures
// into a deagg.Result (spec §4.8 steps 1-4).
func DeaggregateAtReturnPeriod(hz *consolidate.Hazard, retained map[string]*Retained, i imt.IMT, grid deagg.Grid, model exceedance.Model, n, returnPeriod float64) (*deagg.Result, error) {
	return deaggregate(hz, retained, i, grid, model, n, true, returnPeriod)
}

// DeaggregateAtIml interpolates the rate at the target IML for imt i, then
// re-walks every retained source-set's ruptures into a deagg.Result.
func DeaggregateAtIml(hz *consolidate.Hazard, retained map[string]*Retained, i imt.IMT, grid deagg.Grid, model exceedance.Model, n, iml float64) (*deagg.Result, error) {
	return deaggregate(hz, retained, i, grid, model, n, false, iml)
}

func deaggregate(hz *consolidate.Hazard, retained map[string]*Retained, i imt.IMT, grid deagg.Grid, model exceedance.Model, n float64, atReturnPeriod bool, target float64) (*deagg.Result, error) {
	cfg, err := deagg.BuildConfig(hz, i, grid, model, n, atReturnPeriod, target)
	if err != nil {
		return nil, fmt.Errorf("hazard: Deaggregate: %w", err)
	}

	nonZero := deagg.NonZeroSourceSets(hz, i, cfg.IML)
	targets := make([]deagg.TargetSourceSet, 0, len(nonZero))
	for _, hcs := range nonZero {
		r, ok := retained[hcs.SourceSetName]
		if !ok {
			return nil, fmt.Errorf("hazard: Deaggregate: source-set %q has no retained detail (was deaggregation requested before Compute?)", hcs.SourceSetName)
		}

		weights := r.Gmms.WeightMap(r.MinDistance)
		var datasets map[imt.Gmm]*deagg.Dataset
		var derr error
		switch r.Type {
		case hazardmodel.CLUSTER:
			curves, ok := r.ClusterCurves[i]
			if !ok {
				return nil, fmt.Errorf("hazard: Deaggregate: source-set %q has no cluster curves for imt %v", hcs.SourceSetName, i)
			}
			datasets, _, derr = deagg.Cluster(cfg, hcs.SourceSetName, r.ClusterMembers, r.Weight, weights, curves)
		case hazardmodel.SYSTEM:
			mwMin, mwMax := systemMwRange(r)
			datasets, _, derr = deagg.System(cfg, hcs.SourceSetName, r.SystemInputs, r.SystemGMs, r.Weight, weights, r.SectionGeometry, mwMin, mwMax)
		default:
			datasets, _, derr = deagg.PerSourceSet(cfg, hcs.SourceSetName, r.Units, r.Weight, weights)
		}
		if derr != nil {
			return nil, fmt.Errorf("hazard: Deaggregate: source-set %q: %w", hcs.SourceSetName, derr)
		}
		targets = append(targets, deagg.TargetSourceSet{Name: hcs.SourceSetName, Type: r.Type, Datasets: datasets})
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("hazard: Deaggregate: no source-set has non-zero rate at the target IML")
	}

	return deagg.Finish(cfg, targets)
}

// systemMwRange derives the magnitude-frequency-distribution row bounds
// (spec §4.8.3: "an empty magnitude-frequency-distribution builder with
// rows at 0.1 Mw spacing covering the source-set's Mw range, floor/ceil
// rounded") from the materialized System input list.
func systemMwRange(r *Retained) (float64, float64) {
	inputs := r.SystemInputs.Inputs
	if inputs.Len() == 0 {
		return 0, 0
	}
	min, max := math.Inf(1), math.Inf(-1)
	for i := 0; i < inputs.Len(); i++ {
		mw := inputs.At(i).Mw
		if mw < min {
			min = mw
		}
		if mw > max {
			max = mw
		}
	}
	return math.Floor(min*10) / 10, math.Ceil(max*10) / 10
}
