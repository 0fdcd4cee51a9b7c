package fixture

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jihwankim/seismic-hazard/pkg/groundmotion"
	"github.com/jihwankim/seismic-hazard/pkg/hazardmodel"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
	"github.com/jihwankim/seismic-hazard/pkg/rupture"
)

// Build materializes a parsed Model into a hazardmodel.HazardModel, using
// registry to resolve each GMM member's Kind into a concrete evaluator.
func Build(m *Model, registry *Registry) (hazardmodel.HazardModel, error) {
	sourceSets := make([]hazardmodel.SourceSet, 0, len(m.Spec.SourceSets))
	for _, ssDef := range m.Spec.SourceSets {
		ss, err := buildSourceSet(ssDef, registry)
		if err != nil {
			return nil, fmt.Errorf("fixture: source-set %q: %w", ssDef.Name, err)
		}
		sourceSets = append(sourceSets, ss)
	}
	return &model{name: m.Metadata.Name, sourceSets: sourceSets}, nil
}

func buildSourceSet(def SourceSetDef, registry *Registry) (hazardmodel.SourceSet, error) {
	gmmSet, err := buildGmmSet(def.Gmms, registry)
	if err != nil {
		return nil, err
	}

	sourceType, err := parseSourceType(def.Type)
	if err != nil {
		return nil, err
	}

	ss := &sourceSet{name: def.Name, sourceType: sourceType, weight: def.Weight, gmms: gmmSet}

	switch sourceType {
	case hazardmodel.CLUSTER:
		for _, cDef := range def.Clusters {
			ss.clusters = append(ss.clusters, buildClusterSource(cDef))
		}
	case hazardmodel.SYSTEM:
		if def.System == nil {
			return nil, fmt.Errorf("type SYSTEM requires a system block")
		}
		ss.system = buildSystemSource(*def.System)
	default:
		for _, sDef := range def.Sources {
			ss.sources = append(ss.sources, buildSource(sDef))
		}
	}
	return ss, nil
}

func parseSourceType(s string) (hazardmodel.SourceType, error) {
	switch strings.ToUpper(s) {
	case "FAULT":
		return hazardmodel.FAULT, nil
	case "GRID":
		return hazardmodel.GRID, nil
	case "AREA":
		return hazardmodel.AREA, nil
	case "SLAB":
		return hazardmodel.SLAB, nil
	case "INTERFACE":
		return hazardmodel.INTERFACE, nil
	case "CLUSTER":
		return hazardmodel.CLUSTER, nil
	case "SYSTEM":
		return hazardmodel.SYSTEM, nil
	default:
		return 0, fmt.Errorf("unrecognized source-set type %q", s)
	}
}

func buildGmmSet(def GmmSetDef, registry *Registry) (hazardmodel.GmmSet, error) {
	specs := make([]groundmotion.GmmSpec, 0, len(def.Members))
	defaultWeights := make(map[imt.Gmm]float64, len(def.Members))
	for _, member := range def.Members {
		fn, err := registry.Build(member.Kind, member.Params)
		if err != nil {
			return nil, err
		}
		specs = append(specs, groundmotion.GmmSpec{Name: imt.Gmm(member.Name), Eval: fn})
		defaultWeights[imt.Gmm(member.Name)] = member.Weight
	}

	cutoffs := make([]distanceCutoff, 0, len(def.DistanceCutoffs))
	for _, c := range def.DistanceCutoffs {
		w := make(map[imt.Gmm]float64, len(c.Weights))
		for name, weight := range c.Weights {
			w[imt.Gmm(name)] = weight
		}
		cutoffs = append(cutoffs, distanceCutoff{maxDistance: c.MaxDistance, weights: w})
	}
	sort.Slice(cutoffs, func(i, j int) bool { return cutoffs[i].maxDistance < cutoffs[j].maxDistance })

	return &gmmSet{
		specs:          specs,
		epistemic:      def.Epistemic,
		epiWeights:     def.EpiWeights,
		defaultWeights: defaultWeights,
		cutoffs:        cutoffs,
	}, nil
}

func buildSource(def SourceDef) hazardmodel.Source {
	return &source{name: def.Name, ruptures: buildRuptureGeometries(def.Ruptures)}
}

func buildClusterSource(def ClusterDef) hazardmodel.ClusterSource {
	faults := make([]hazardmodel.Source, 0, len(def.Faults))
	for _, f := range def.Faults {
		faults = append(faults, buildSource(f))
	}
	return &clusterSource{name: def.Name, rate: def.Rate, faults: faults}
}

func buildSystemSource(def SystemDef) hazardmodel.SystemSource {
	sectionIndex := make(map[string]int, len(def.Sections))
	for i, name := range def.Sections {
		sectionIndex[name] = i
	}
	return &systemSource{sections: def.Sections, sectionIndex: sectionIndex, ruptures: def.Ruptures}
}

func buildRuptureGeometries(defs []RuptureDef) []rupture.Geometry {
	out := make([]rupture.Geometry, len(defs))
	for i, d := range defs {
		out[i] = geometry{def: d}
	}
	return out
}

// geometry adapts a RuptureDef into rupture.Geometry. Because the fixture
// carries a single distance rather than a real fault surface, every
// distance measure (RJB/RRup/RX) collapses to whichever of them the
// definition supplied, falling back to RRup for the others when omitted.
type geometry struct {
	def RuptureDef
}

func (g geometry) Mw() float64 { return g.def.Mw }
func (g geometry) RJB(site rupture.Site) float64 {
	if g.def.RJB != 0 {
		return g.def.RJB
	}
	return g.def.RRup
}
func (g geometry) RRup(site rupture.Site) float64 { return g.def.RRup }
func (g geometry) RX(site rupture.Site) float64 {
	if g.def.RX != 0 {
		return g.def.RX
	}
	return g.def.RRup
}
func (g geometry) Dip() float64   { return g.def.Dip }
func (g geometry) Width() float64 { return g.def.Width }
func (g geometry) ZTop() float64  { return g.def.ZTop }
func (g geometry) Rake() float64  { return g.def.Rake }
func (g geometry) Rate() float64  { return g.def.Rate }
