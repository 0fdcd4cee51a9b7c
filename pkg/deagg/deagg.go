package deagg

import (
	"fmt"

	"github.com/jihwankim/seismic-hazard/pkg/consolidate"
	"github.com/jihwankim/seismic-hazard/pkg/exceedance"
	"github.com/jihwankim/seismic-hazard/pkg/hazardmodel"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
)

// TargetSourceSet is one source-set's already-deaggregated result at the
// target IML, as produced by PerSourceSet, Cluster, or System depending on
// the source-set's type — the caller dispatches on hazardmodel.SourceType
// before calling Finish.
type TargetSourceSet struct {
	Name     string
	Type     hazardmodel.SourceType
	Datasets map[imt.Gmm]*Dataset
}

// Result is the outcome of a full deaggregation run at one IMT: the grand
// total dataset, the per-source-set totals (each already collapsed across
// GMMs), and the per-source-set, per-GMM detail retained for reporting.
type Result struct {
	Config           Config
	Total            *Dataset
	BySourceSet      map[string]*Dataset
	BySourceSetByGmm map[string]map[imt.Gmm]*Dataset
}

// BuildConfig resolves step 1 of spec §4.8: given a Hazard's total curve
// for one IMT, interpolate the missing half of (IML, rate) — either the
// IML at a target return period, or the rate (and hence return period) at
// a target IML — and package the result into a Config.
func BuildConfig(hazard *consolidate.Hazard, i imt.IMT, grid Grid, model exceedance.Model, n float64, atReturnPeriod bool, target float64) (Config, error) {
	curve, ok := hazard.ByIMT[i]
	if !ok {
		return Config{}, fmt.Errorf("deagg: hazard has no curve for imt %v", i)
	}
	var iml, returnPeriod float64
	if atReturnPeriod {
		rate := 1 / target
		x, err := curve.InterpolateX(rate)
		if err != nil {
			return Config{}, fmt.Errorf("deagg: atReturnPeriod(%g): %w", target, err)
		}
		iml, returnPeriod = x, target
	} else {
		y, err := curve.InterpolateY(target)
		if err != nil {
			return Config{}, fmt.Errorf("deagg: atIml(%g): %w", target, err)
		}
		iml, returnPeriod = target, 1/y
	}
	return Config{Grid: grid, Model: model, N: n, IMT: i, IML: iml, ReturnPeriod: returnPeriod}, nil
}

// NonZeroSourceSets filters a Hazard's retained source-sets to those with
// non-zero total rate at the target IML (spec §4.8 step 2) — a source-set
// whose curve doesn't even reach the target IML is skipped entirely rather
// than deaggregated into an all-zero dataset.
func NonZeroSourceSets(hazard *consolidate.Hazard, i imt.IMT, iml float64) []*consolidate.HazardCurveSet {
	var out []*consolidate.HazardCurveSet
	for _, ss := range hazard.SourceSets {
		hc, ok := ss.ByIMT[i]
		if !ok {
			continue
		}
		rate, err := hc.Total.InterpolateY(iml)
		if err != nil {
			continue
		}
		if rate > 0 {
			out = append(out, ss)
		}
	}
	return out
}

// Finish performs the final two consolidation steps of spec §4.8 (steps 3
// and 4): each target source-set's per-GMM datasets are summed into a
// per-source-set total via SourceConsolidator (weight already folded in
// upstream, so this is a plain sum across GMMs), then all source-set
// totals are summed into a grand total via SourceSetConsolidator.
func Finish(cfg Config, targets []TargetSourceSet) (*Result, error) {
	bySourceSet := make(map[string]*Dataset, len(targets))
	bySourceSetByGmm := make(map[string]map[imt.Gmm]*Dataset, len(targets))
	totals := make([]*Dataset, 0, len(targets))
	var children []*Contributor

	for _, t := range targets {
		if len(t.Datasets) == 0 {
			return nil, fmt.Errorf("deagg: Finish: source-set %q has no datasets", t.Name)
		}
		gmmDatasets := make([]*Dataset, 0, len(t.Datasets))
		var root *Contributor
		for _, d := range t.Datasets {
			gmmDatasets = append(gmmDatasets, d)
			root = d.Root // identical across every entry; PerSourceSet/Cluster/System attach the same shared contributor to each per-GMM dataset.
		}
		total, err := SourceConsolidator(root, gmmDatasets)
		if err != nil {
			return nil, fmt.Errorf("deagg: Finish: source-set %q: %w", t.Name, err)
		}
		bySourceSet[t.Name] = total
		bySourceSetByGmm[t.Name] = t.Datasets
		totals = append(totals, total)
		children = append(children, total.Root)
	}

	grand, err := SourceSetConsolidator("total", totals, children)
	if err != nil {
		return nil, fmt.Errorf("deagg: Finish: %w", err)
	}

	return &Result{
		Config:           cfg,
		Total:            grand,
		BySourceSet:      bySourceSet,
		BySourceSetByGmm: bySourceSetByGmm,
	}, nil
}
