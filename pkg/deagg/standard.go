package deagg

import (
	"fmt"

	"github.com/jihwankim/seismic-hazard/pkg/exceedance"
	"github.com/jihwankim/seismic-hazard/pkg/groundmotion"
	"github.com/jihwankim/seismic-hazard/pkg/hazardmodel"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
)

// Config bundles the target-level parameters a deaggregation run is built
// against: the 3D grid, the exceedance model and its truncation level, the
// IMT and target IML (natural-log units), and the return period that IML
// was interpolated from (kept for the summary builder to report back).
type Config struct {
	Grid         Grid
	Model        exceedance.Model
	N            float64
	IMT          imt.IMT
	IML          float64
	ReturnPeriod float64
}

// SourceGeometry names the location and site-to-source azimuth recorded on
// a per-source contributor. Concrete azimuth/location computation is a
// Rupture→Input concern (spec §1 non-goal); the deaggregator only records
// whatever value the caller supplies per source.
type SourceGeometry struct {
	Location Point
	Azimuth  float64
}

// SourceUnit names one source's ruptures within a source-set, as already
// reduced to an InputList/GroundMotions pair by the Rupture→Input and
// Input→GM stages.
type SourceUnit struct {
	Name     string
	Geometry SourceGeometry
	Inputs   *groundmotion.InputList
	GMs      *groundmotion.GroundMotions
}

// PerSource runs the per-rupture deaggregation described in spec §4.8.1
// against one source's GroundMotions. sourceSetWeight and weights are the
// same values the curve consolidator used for this source-set at
// minDistance.
//
// Returns one Dataset per GMM present in gms for the configured IMT, and a
// source-level Contributor recording this source's totals across all
// GMMs.
func PerSource(cfg Config, unit SourceUnit, sourceSetWeight float64, weights hazardmodel.GmmWeightMap) (map[imt.Gmm]*Dataset, *Contributor, error) {
	contributor := &Contributor{Kind: SourceKind, Name: unit.Name, Location: unit.Geometry.Location, Azimuth: unit.Geometry.Azimuth}

	gmms := unit.GMs.Gmms(cfg.IMT)
	datasets := make(map[imt.Gmm]*Dataset, len(gmms))
	for _, gmm := range gmms {
		gmmWeight, ok := weights[gmm]
		if !ok || gmmWeight == 0 {
			continue
		}
		values, ok := unit.GMs.Get(cfg.IMT, gmm)
		if !ok {
			return nil, nil, fmt.Errorf("deagg: source %q: no ground motions for imt %v gmm %v", unit.Name, cfg.IMT, gmm)
		}
		builder := NewBuilder(cfg.Grid)
		for idx := 0; idx < unit.Inputs.Len(); idx++ {
			in := unit.Inputs.At(idx)
			if in.Rate == 0 {
				continue
			}
			for _, br := range branches(values[idx]) {
				eps := (cfg.IML - br.mean) / br.sigma
				pEx := exceedance.Exceedance(cfg.Model, br.mean, br.sigma, cfg.N, cfg.IMT, cfg.IML)
				rate := pEx * in.Rate * sourceSetWeight * gmmWeight * br.weight
				skip := builder.AddRupture(in.RRup, in.Mw, eps, rate)
				contributor.addRupture(in.RRup, in.Mw, eps, rate, skip)
			}
		}
		dataset, err := builder.Build(contributor)
		if err != nil {
			return nil, nil, err
		}
		datasets[gmm] = dataset
	}
	return datasets, contributor, nil
}

// PerSourceSet runs PerSource against every source in a FAULT/GRID/AREA/
// SLAB/INTERFACE source-set, then merges the per-source results into one
// Gmm→Dataset map for the whole source-set and wraps the per-source
// contributors under a single SourceSetKind parent — the "per-source-set
// deaggregation" step 2 of spec §4.8 names as its unit of work.
func PerSourceSet(cfg Config, sourceSetName string, units []SourceUnit, sourceSetWeight float64, weights hazardmodel.GmmWeightMap) (map[imt.Gmm]*Dataset, *Contributor, error) {
	if len(units) == 0 {
		return nil, nil, fmt.Errorf("deagg: PerSourceSet %q requires at least one source", sourceSetName)
	}

	perGmmDatasets := make(map[imt.Gmm][]*Dataset)
	children := make([]*Contributor, 0, len(units))
	for _, unit := range units {
		datasets, contributor, err := PerSource(cfg, unit, sourceSetWeight, weights)
		if err != nil {
			return nil, nil, fmt.Errorf("deagg: PerSourceSet %q: %w", sourceSetName, err)
		}
		for gmm, d := range datasets {
			perGmmDatasets[gmm] = append(perGmmDatasets[gmm], d)
		}
		children = append(children, contributor)
	}

	root := &Contributor{Kind: SourceSetKind, Name: sourceSetName, Children: children}
	for _, c := range children {
		root.RScaled += c.RScaled
		root.MScaled += c.MScaled
		root.EpsScaled += c.EpsScaled
		root.Binned += c.Binned
		root.Residual += c.Residual
	}

	out := make(map[imt.Gmm]*Dataset, len(perGmmDatasets))
	for gmm, datasets := range perGmmDatasets {
		combined, err := combine(datasets, nil, root)
		if err != nil {
			return nil, nil, fmt.Errorf("deagg: PerSourceSet %q gmm %v: %w", sourceSetName, gmm, err)
		}
		out[gmm] = combined
	}
	return out, root, nil
}

type gmBranch struct {
	mean, sigma, weight float64
}

// branches flattens a ScalarOrMulti into one or more (mean, sigma, weight)
// tuples: a single unit-weight branch for a plain scalar, or the full
// mean×sigma cross product for a logic tree. Deaggregation folds each
// branch's contribution in at its own weight rather than pre-combining, so
// the resulting ε is always relative to a single (μ, σ) pair.
func branches(sgm groundmotion.ScalarOrMulti) []gmBranch {
	if !sgm.IsMulti() {
		return []gmBranch{{mean: sgm.Scalar.Mean, sigma: sgm.Scalar.Sigma, weight: 1}}
	}
	m := sgm.Multi
	out := make([]gmBranch, 0, len(m.Means)*len(m.Sigmas))
	for i, mu := range m.Means {
		for j, sigma := range m.Sigmas {
			out = append(out, gmBranch{mean: mu, sigma: sigma, weight: m.MeanWeights[i] * m.SigmaWeights[j]})
		}
	}
	return out
}
