package deagg

import (
	"fmt"

	"github.com/jihwankim/seismic-hazard/pkg/exceedance"
	"github.com/jihwankim/seismic-hazard/pkg/groundmotion"
	"github.com/jihwankim/seismic-hazard/pkg/hazardmodel"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
)

// System runs the System source-set deaggregation of spec §4.8.3: for each
// section index in turn, it walks the materialized input list and claims
// every live input whose bitset includes that section — a
// rupture contributes to only the first section that claims it in
// iteration order, then is retired from the live set. sectionGeometry
// supplies each section's reported location/azimuth (site-to-section
// geometry is a Rupture→Input concern, out of this package's scope);
// mwMin/mwMax bound the per-section magnitude-frequency-distribution rows.
func System(cfg Config, sourceSetName string, sysInputs *hazardmodel.SystemInputs, gms *groundmotion.GroundMotions, sourceSetWeight float64, weights hazardmodel.GmmWeightMap, sectionGeometry []SourceGeometry, mwMin, mwMax float64) (map[imt.Gmm]*Dataset, *Contributor, error) {
	inputs := sysInputs.Inputs
	n := inputs.Len()
	live := make([]bool, n)
	for i := range live {
		live[i] = true
	}

	gmms := gms.Gmms(cfg.IMT)
	builders := make(map[imt.Gmm]*Builder, len(gmms))
	gmmWeightOf := make(map[imt.Gmm]float64, len(gmms))
	valuesByGmm := make(map[imt.Gmm][]groundmotion.ScalarOrMulti, len(gmms))
	for _, gmm := range gmms {
		w, ok := weights[gmm]
		if !ok || w == 0 {
			continue
		}
		values, ok := gms.Get(cfg.IMT, gmm)
		if !ok {
			return nil, nil, fmt.Errorf("deagg: System %q: no ground motions for imt %v gmm %v", sourceSetName, cfg.IMT, gmm)
		}
		gmmWeightOf[gmm] = w
		valuesByGmm[gmm] = values
		builders[gmm] = NewBuilder(cfg.Grid)
	}

	sectionContributors := make([]*Contributor, 0, sysInputs.SectionCount)
	for s := 0; s < sysInputs.SectionCount; s++ {
		var geom SourceGeometry
		if s < len(sectionGeometry) {
			geom = sectionGeometry[s]
		}
		name := fmt.Sprintf("section-%d", s)
		if s < len(sysInputs.SectionNames) {
			name = sysInputs.SectionNames[s]
		}
		sectionContributor := &Contributor{
			Kind:     SystemSectionKind,
			Name:     name,
			Location: geom.Location,
			Azimuth:  geom.Azimuth,
			MFD:      NewMFD(mwMin, mwMax),
		}

		claimed := false
		for idx := 0; idx < n; idx++ {
			if !live[idx] || !touchesSection(sysInputs.SectionsPerRup[idx], s) {
				continue
			}
			claimed = true
			in := inputs.At(idx)
			if in.Rate != 0 {
				for gmm, builder := range builders {
					values := valuesByGmm[gmm]
					gmmWeight := gmmWeightOf[gmm]
					for _, br := range branches(values[idx]) {
						eps := (cfg.IML - br.mean) / br.sigma
						pEx := exceedance.Exceedance(cfg.Model, br.mean, br.sigma, cfg.N, cfg.IMT, cfg.IML)
						rate := pEx * in.Rate * sourceSetWeight * gmmWeight * br.weight
						skip := builder.AddRupture(in.RRup, in.Mw, eps, rate)
						sectionContributor.addRupture(in.RRup, in.Mw, eps, rate, skip)
						sectionContributor.MFD.Add(in.Mw, rate)
					}
				}
			}
			live[idx] = false
		}
		if claimed {
			sectionContributors = append(sectionContributors, sectionContributor)
		}
	}

	root := &Contributor{Kind: SourceSetKind, Name: sourceSetName, Children: sectionContributors}
	for _, c := range sectionContributors {
		root.RScaled += c.RScaled
		root.MScaled += c.MScaled
		root.EpsScaled += c.EpsScaled
		root.Binned += c.Binned
		root.Residual += c.Residual
	}

	datasets := make(map[imt.Gmm]*Dataset, len(builders))
	for gmm, builder := range builders {
		d, err := builder.Build(root)
		if err != nil {
			return nil, nil, err
		}
		datasets[gmm] = d
	}
	return datasets, root, nil
}

func touchesSection(sections []int, target int) bool {
	for _, s := range sections {
		if s == target {
			return true
		}
	}
	return false
}
