// Package hazardmodel declares the external contracts the hazard pipeline
// consumes: a HazardModel's source-sets, each source-set's GMMs and
// weights. Concrete model loading, source geometry, and GMM coefficients
// are explicitly out of scope (spec §1) — this package only names the
// shapes the rest of the module depends on. Grounded on the teacher's
// pkg/scenario/types.go declarative-type-tree shape, generalized from
// "chaos scenario" to "hazard model."
package hazardmodel

import (
	"github.com/jihwankim/seismic-hazard/pkg/groundmotion"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
	"github.com/jihwankim/seismic-hazard/pkg/rupture"
)

// SourceType enumerates the source-set categories named in spec §6.
type SourceType int

const (
	FAULT SourceType = iota
	GRID
	AREA
	SLAB
	INTERFACE
	CLUSTER
	SYSTEM
)

func (t SourceType) String() string {
	switch t {
	case FAULT:
		return "FAULT"
	case GRID:
		return "GRID"
	case AREA:
		return "AREA"
	case SLAB:
		return "SLAB"
	case INTERFACE:
		return "INTERFACE"
	case CLUSTER:
		return "CLUSTER"
	case SYSTEM:
		return "SYSTEM"
	default:
		return "UNKNOWN"
	}
}

// Source is a single earthquake source, iterable as a sequence of
// ruptures relative to a site.
type Source interface {
	Name() string
	Ruptures(site rupture.Site) []rupture.Geometry
}

// ClusterSource is a fixed set of faults that either all rupture or none
// do, with a single cluster rate and weight (spec §4.5). Each fault
// carries its own magnitude-variant ruptures; the variant weight is
// carried in each rupture's occurrence-rate field per the HazardInput.Rate
// repurposing documented in the data model.
type ClusterSource interface {
	Name() string
	Faults() []Source
	Rate() float64
}

// SystemSource materializes one InputList (one rupture per source) plus a
// bitset over section indices per input (spec §4.6).
type SystemSource interface {
	Name() string
	ToInputs(site rupture.Site) (*SystemInputs, error)
}

// SystemInputs is the materialized System source-set payload: an InputList
// alongside, for each input, the set of section indices that rupture
// touches.
type SystemInputs struct {
	Inputs          *groundmotion.InputList
	SectionsPerRup  [][]int // section indices touched by input i
	SectionCount    int
	SectionNames    []string
}

// GmmWeightMap maps a GMM to its logic-tree weight at a given distance;
// weights sum to 1 among included GMMs, and a GMM may be entirely omitted
// (weight 0, "not supported at this distance").
type GmmWeightMap map[imt.Gmm]float64

// GmmSet declares the GMMs in play for a source-set, whether it carries
// epistemic uncertainty, and the distance-dependent weight map.
type GmmSet interface {
	Gmms() []groundmotion.GmmSpec
	HasEpistemicUncertainty() bool
	EpiValue(mw, rJB float64) float64
	EpiWeights() [3]float64
	WeightMap(distance float64) GmmWeightMap
}

// SourceSet declares a weighted, typed collection of sources sharing one
// GmmSet.
type SourceSet interface {
	Name() string
	Type() SourceType
	Weight() float64
	Gmms() GmmSet
	Sources(site rupture.Site) []Source
	// Cluster-only; nil for non-CLUSTER source-sets.
	Clusters(site rupture.Site) []ClusterSource
	// System-only; nil for non-SYSTEM source-sets.
	System(site rupture.Site) SystemSource
}

// HazardModel is an iterable collection of source-sets.
type HazardModel interface {
	Name() string
	SourceSets() []SourceSet
}
