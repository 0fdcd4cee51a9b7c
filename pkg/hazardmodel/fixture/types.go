// Package fixture loads a YAML-defined hazard model into the in-memory
// hazardmodel.HazardModel implementation the demo CLI and tests run
// against. Grounded on the teacher's pkg/scenario (types.go's declarative
// YAML tree, parser/parser.go's ${VAR} substitution and required-field
// validation, validator/validator.go's structural checks) — retargeted
// from a chaos scenario's targets/faults tree to a source-set/source/
// rupture tree.
package fixture

// Model is the YAML root: a named hazard model made of source-sets.
type Model struct {
	APIVersion string     `yaml:"apiVersion"`
	Kind       string     `yaml:"kind"`
	Metadata   Metadata   `yaml:"metadata"`
	Spec       ModelSpec  `yaml:"spec"`
}

// Metadata carries descriptive, non-functional fields about the model.
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Author      string `yaml:"author,omitempty"`
	Version     string `yaml:"version,omitempty"`
}

// ModelSpec is the functional payload: every source-set in the model.
type ModelSpec struct {
	SourceSets []SourceSetDef `yaml:"source_sets"`
}

// SourceSetDef is one YAML source-set: a Type dispatching which of Sources,
// Clusters, or System is populated (spec §6's source-set categories).
type SourceSetDef struct {
	Name    string      `yaml:"name"`
	Type    string      `yaml:"type"`
	Weight  float64     `yaml:"weight"`
	Gmms    GmmSetDef   `yaml:"gmms"`
	Sources []SourceDef `yaml:"sources,omitempty"`
	Clusters []ClusterDef `yaml:"clusters,omitempty"`
	System  *SystemDef  `yaml:"system,omitempty"`
}

// GmmSetDef names the GMMs in play for a source-set and their weights.
// DistanceCutoffs, if present, makes the weight map distance-dependent
// (spec §6: "a GMM may be entirely omitted... at this distance"); sorted
// ascending by MaxDistance, the first cutoff whose MaxDistance is greater
// than or equal to the query distance applies, and the last entry is the
// fallback for distances beyond every cutoff.
type GmmSetDef struct {
	Members         []GmmMemberDef    `yaml:"members"`
	Epistemic       bool              `yaml:"epistemic,omitempty"`
	EpiWeights      [3]float64        `yaml:"epi_weights,omitempty"`
	DistanceCutoffs []DistanceCutoffDef `yaml:"distance_cutoffs,omitempty"`
}

// GmmMemberDef names one GMM by its registry key (see fixture/gmm.go) and
// its default weight (used when no DistanceCutoffs are given).
type GmmMemberDef struct {
	Name   string             `yaml:"name"`
	Kind   string             `yaml:"kind"`
	Weight float64            `yaml:"weight"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// DistanceCutoffDef assigns a weight map to every distance up to
// MaxDistance.
type DistanceCutoffDef struct {
	MaxDistance float64            `yaml:"max_distance"`
	Weights     map[string]float64 `yaml:"weights"`
}

// SourceDef is one source: a name plus its ruptures.
type SourceDef struct {
	Name     string       `yaml:"name"`
	Ruptures []RuptureDef `yaml:"ruptures"`
}

// ClusterDef is one CLUSTER source (spec §4.5): a fixed set of faults that
// either all rupture or none do, at a single cluster rate.
type ClusterDef struct {
	Name   string      `yaml:"name"`
	Rate   float64     `yaml:"rate"`
	Faults []SourceDef `yaml:"faults"`
}

// SystemDef is one SYSTEM source (spec §4.6): ruptures that each touch a
// subset of a shared list of fault sections, indexed by name.
type SystemDef struct {
	Sections []string         `yaml:"sections"`
	Ruptures []SystemRuptureDef `yaml:"ruptures"`
}

// SystemRuptureDef is one multi-fault-section rupture plus the section
// names it touches.
type SystemRuptureDef struct {
	RuptureDef `yaml:",inline"`
	Sections   []string `yaml:"sections"`
}

// RuptureDef is one rupture's fixed geometry relative to whatever site the
// model is later evaluated against — this fixture carries a single
// site-independent distance rather than a real fault surface, which is an
// external collaborator's concern per spec §1.
type RuptureDef struct {
	Mw     float64 `yaml:"mw"`
	RRup   float64 `yaml:"r_rup"`
	RJB    float64 `yaml:"r_jb,omitempty"`
	RX     float64 `yaml:"r_x,omitempty"`
	Dip    float64 `yaml:"dip,omitempty"`
	Width  float64 `yaml:"width,omitempty"`
	ZTop   float64 `yaml:"z_top,omitempty"`
	Rake   float64 `yaml:"rake,omitempty"`
	Rate   float64 `yaml:"rate"`
}
