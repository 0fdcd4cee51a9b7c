// Package hazard is the top-level orchestrator wiring every stage of spec
// §2's data flow together for one site: Rupture→Input, Input→GM, GM→Curve,
// and the consolidator, fanned out one task per source-set across
// pkg/pipeline, then optionally re-walked through pkg/deagg at a target
// IML. Grounded on the teacher's pkg/core/orchestrator/orchestrator.go,
// whose top-level Run submits one task per scenario step on a shared
// executor and reduces the results — generalized from chaos-scenario
// step sequencing to source-set hazard integration.
package hazard

import (
	"fmt"

	"github.com/jihwankim/seismic-hazard/pkg/consolidate"
	"github.com/jihwankim/seismic-hazard/pkg/curve"
	"github.com/jihwankim/seismic-hazard/pkg/deagg"
	"github.com/jihwankim/seismic-hazard/pkg/exceedance"
	"github.com/jihwankim/seismic-hazard/pkg/groundmotion"
	"github.com/jihwankim/seismic-hazard/pkg/hazardmodel"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
	"github.com/jihwankim/seismic-hazard/pkg/metrics"
	"github.com/jihwankim/seismic-hazard/pkg/pipeline"
	"github.com/jihwankim/seismic-hazard/pkg/rupture"
	"github.com/jihwankim/seismic-hazard/pkg/xysequence"
)

// Settings carries the knobs a calculation needs from hazconfig without
// this package importing it directly — the orchestrator only needs the
// scalar values, not the YAML-tagged tree.
type Settings struct {
	IMTs            []imt.IMT
	ExceedanceModel exceedance.Model
	TruncationLevel float64
	SystemPartition int
	GmmUncertainty  bool
	Templates       map[imt.IMT]*xysequence.XYSequence
}

// Retained is whatever a source-set's standard integration keeps around
// past curve construction so deaggregation can re-walk the same ruptures
// (spec §5: "the InputList and its bitsets are held live past curve
// construction iff deaggregation may follow"). Exactly one of the three
// groups is populated, matching the source-set's Type.
type Retained struct {
	Type        hazardmodel.SourceType
	Weight      float64
	Gmms        hazardmodel.GmmSet
	MinDistance float64

	// FAULT/GRID/AREA/SLAB/INTERFACE
	Units []deagg.SourceUnit

	// CLUSTER
	ClusterMembers []deagg.SourceUnit
	ClusterCurves  map[imt.IMT]map[imt.Gmm]*xysequence.XYSequence

	// SYSTEM
	SystemInputs    *hazardmodel.SystemInputs
	SystemGMs       *groundmotion.GroundMotions
	SectionGeometry []deagg.SourceGeometry
}

// sourceSetOutcome is one fanned-out task's result: the consolidator's
// per-source-set curves plus whatever deaggregation needs later.
type sourceSetOutcome struct {
	Curves   *consolidate.HazardCurveSet
	Retained *Retained
}

func gmmNames(specs []groundmotion.GmmSpec) []imt.Gmm {
	out := make([]imt.Gmm, len(specs))
	for i, s := range specs {
		out[i] = s.Name
	}
	return out
}

// Compute runs the standard hazard pipeline for one site against model:
// one task per source-set (Rupture→Input→GM→Curve→per-source-set
// consolidation), fanned out across exec, then reduced into a grand
// Hazard. The returned map carries each source-set's retained detail for
// a later Deaggregate call.
func Compute(exec *pipeline.Executor, reg *metrics.Registry, site rupture.Site, model hazardmodel.HazardModel, s Settings) (*consolidate.Hazard, map[string]*Retained, error) {
	sourceSets := model.SourceSets()
	tasks := make([]pipeline.Task[*sourceSetOutcome], len(sourceSets))
	for idx, ss := range sourceSets {
		ss := ss
		tasks[idx] = func() (*sourceSetOutcome, error) {
			reg.TaskStarted("source_set")
			out, err := computeSourceSet(exec, site, ss, s)
			if err != nil {
				reg.TaskFailed("source_set")
			}
			return out, err
		}
	}

	outcomes, err := pipeline.Run(exec, tasks)
	if err != nil {
		return nil, nil, fmt.Errorf("hazard: Compute: %w", err)
	}

	curveSets := make([]*consolidate.HazardCurveSet, 0, len(outcomes))
	retained := make(map[string]*Retained, len(outcomes))
	for _, o := range outcomes {
		if o == nil {
			continue
		}
		curveSets = append(curveSets, o.Curves)
		retained[o.Curves.SourceSetName] = o.Retained
	}

	template, ok := s.Templates[s.IMTs[0]]
	if !ok {
		return nil, nil, fmt.Errorf("hazard: Compute: no template for imt %v", s.IMTs[0])
	}
	hz, err := consolidate.Consolidate(curveSets, s.IMTs, template)
	if err != nil {
		return nil, nil, fmt.Errorf("hazard: Compute: %w", err)
	}
	return hz, retained, nil
}

func computeSourceSet(exec *pipeline.Executor, site rupture.Site, ss hazardmodel.SourceSet, s Settings) (*sourceSetOutcome, error) {
	switch ss.Type() {
	case hazardmodel.CLUSTER:
		return computeClusterSourceSet(site, ss, s)
	case hazardmodel.SYSTEM:
		return computeSystemSourceSet(exec, site, ss, s)
	default:
		return computeStandardSourceSet(site, ss, s)
	}
}

func computeStandardSourceSet(site rupture.Site, ss hazardmodel.SourceSet, s Settings) (*sourceSetOutcome, error) {
	gmmSet := ss.Gmms()
	names := gmmNames(gmmSet.Gmms())

	list := groundmotion.NewInputList(ss.Name())
	units := make([]deagg.SourceUnit, 0)
	for _, src := range ss.Sources(site) {
		perSource := groundmotion.NewInputList(src.Name())
		for _, g := range src.Ruptures(site) {
			in := rupture.Build(g, site)
			list.Add(in)
			perSource.Add(in)
		}
		built, err := perSource.Build()
		if err != nil {
			return nil, fmt.Errorf("hazard: source-set %q source %q: %w", ss.Name(), src.Name(), err)
		}
		units = append(units, deagg.SourceUnit{Name: src.Name(), Inputs: built})
	}
	built, err := list.Build()
	if err != nil {
		return nil, fmt.Errorf("hazard: source-set %q: %w", ss.Name(), err)
	}

	gms, err := groundmotion.Evaluate(built, s.IMTs, gmmSet.Gmms())
	if err != nil {
		return nil, fmt.Errorf("hazard: source-set %q: %w", ss.Name(), err)
	}

	raw := make(map[imt.IMT]map[imt.Gmm]*xysequence.XYSequence, len(s.IMTs))
	for _, i := range s.IMTs {
		template := s.Templates[i]
		var curves map[imt.Gmm]*xysequence.XYSequence
		if gmmSet.HasEpistemicUncertainty() && s.GmmUncertainty {
			curves, err = curve.StandardEpistemic(gms, i, names, s.ExceedanceModel, s.TruncationLevel, template, gmmSet.EpiValue, gmmSet.EpiWeights())
		} else {
			curves, err = curve.Standard(gms, i, names, s.ExceedanceModel, s.TruncationLevel, template)
		}
		if err != nil {
			return nil, fmt.Errorf("hazard: source-set %q imt %v: %w", ss.Name(), i, err)
		}
		raw[i] = curves
	}

	hcs, err := consolidate.ConsolidateSourceSet(ss.Name(), ss.Type(), ss.Weight(), built.MinDistance(), gmmSet, raw, s.Templates[s.IMTs[0]])
	if err != nil {
		return nil, fmt.Errorf("hazard: source-set %q: %w", ss.Name(), err)
	}

	// Re-evaluate GMs per source for the deaggregator, which needs each
	// source's own GroundMotions record rather than the source-set's
	// merged one (PerSource walks one source's ruptures against one
	// Contributor).
	for i, unit := range units {
		gms, err := groundmotion.Evaluate(unit.Inputs, s.IMTs, gmmSet.Gmms())
		if err != nil {
			return nil, fmt.Errorf("hazard: source-set %q source %q: %w", ss.Name(), unit.Name, err)
		}
		units[i].GMs = gms
	}

	return &sourceSetOutcome{
		Curves: hcs,
		Retained: &Retained{
			Type:        ss.Type(),
			Weight:      ss.Weight(),
			Gmms:        gmmSet,
			MinDistance: built.MinDistance(),
			Units:       units,
		},
	}, nil
}

func computeClusterSourceSet(site rupture.Site, ss hazardmodel.SourceSet, s Settings) (*sourceSetOutcome, error) {
	gmmSet := ss.Gmms()
	names := gmmNames(gmmSet.Gmms())
	clusters := ss.Clusters(site)
	if len(clusters) == 0 {
		return nil, fmt.Errorf("hazard: CLUSTER source-set %q has no clusters", ss.Name())
	}

	// Spec §4.5 models one ClusterSource per CLUSTER source-set in the
	// common case; multiple clusters within one source-set are integrated
	// independently and their curves summed, matching how any two sources
	// within a source-set combine.
	raw := make(map[imt.IMT]map[imt.Gmm]*xysequence.XYSequence, len(s.IMTs))
	for _, i := range s.IMTs {
		raw[i] = make(map[imt.Gmm]*xysequence.XYSequence)
		for _, gmm := range names {
			raw[i][gmm] = s.Templates[i].Copy().Clear()
		}
	}

	var allMembers []deagg.SourceUnit
	clusterCurves := make(map[imt.IMT]map[imt.Gmm]*xysequence.XYSequence, len(s.IMTs))
	for _, i := range s.IMTs {
		clusterCurves[i] = make(map[imt.Gmm]*xysequence.XYSequence)
	}
	var minDistance float64

	for _, cl := range clusters {
		faults := cl.Faults()
		faultGMsByIMT := make(map[imt.IMT][]*groundmotion.GroundMotions, len(s.IMTs))
		for _, fault := range faults {
			list := groundmotion.NewInputList(fault.Name())
			for _, g := range fault.Ruptures(site) {
				list.Add(rupture.Build(g, site))
			}
			built, err := list.Build()
			if err != nil {
				return nil, fmt.Errorf("hazard: cluster %q fault %q: %w", cl.Name(), fault.Name(), err)
			}
			if built.MinDistance() < minDistance || minDistance == 0 {
				minDistance = built.MinDistance()
			}
			gms, err := groundmotion.Evaluate(built, s.IMTs, gmmSet.Gmms())
			if err != nil {
				return nil, fmt.Errorf("hazard: cluster %q fault %q: %w", cl.Name(), fault.Name(), err)
			}
			for _, i := range s.IMTs {
				faultGMsByIMT[i] = append(faultGMsByIMT[i], gms)
			}
			allMembers = append(allMembers, deagg.SourceUnit{Name: fmt.Sprintf("%s/%s", cl.Name(), fault.Name()), Inputs: built, GMs: gms})
		}

		for _, i := range s.IMTs {
			curves, err := curve.Cluster(faultGMsByIMT[i], i, names, s.ExceedanceModel, s.TruncationLevel, s.Templates[i], cl.Rate())
			if err != nil {
				return nil, fmt.Errorf("hazard: cluster %q imt %v: %w", cl.Name(), i, err)
			}
			for gmm, c := range curves {
				raw[i][gmm].Add(c)
				if existing, ok := clusterCurves[i][gmm]; ok {
					existing.Add(c)
				} else {
					clusterCurves[i][gmm] = c.Copy()
				}
			}
		}
	}

	hcs, err := consolidate.ConsolidateSourceSet(ss.Name(), ss.Type(), ss.Weight(), minDistance, gmmSet, raw, s.Templates[s.IMTs[0]])
	if err != nil {
		return nil, fmt.Errorf("hazard: cluster source-set %q: %w", ss.Name(), err)
	}

	return &sourceSetOutcome{
		Curves: hcs,
		Retained: &Retained{
			Type:           ss.Type(),
			Weight:         ss.Weight(),
			Gmms:           gmmSet,
			MinDistance:    minDistance,
			ClusterMembers: allMembers,
			ClusterCurves:  clusterCurves,
		},
	}, nil
}

func computeSystemSourceSet(exec *pipeline.Executor, site rupture.Site, ss hazardmodel.SourceSet, s Settings) (*sourceSetOutcome, error) {
	gmmSet := ss.Gmms()
	names := gmmNames(gmmSet.Gmms())
	sys := ss.System(site)
	if sys == nil {
		return nil, fmt.Errorf("hazard: SYSTEM source-set %q has no system source", ss.Name())
	}
	sysInputs, err := sys.ToInputs(site)
	if err != nil {
		return nil, fmt.Errorf("hazard: SYSTEM source-set %q: %w", ss.Name(), err)
	}

	gms, err := evaluateSystemPartitioned(exec, sysInputs.Inputs, s.IMTs, gmmSet.Gmms(), s.SystemPartition)
	if err != nil {
		return nil, fmt.Errorf("hazard: SYSTEM source-set %q: %w", ss.Name(), err)
	}

	raw := make(map[imt.IMT]map[imt.Gmm]*xysequence.XYSequence, len(s.IMTs))
	for _, i := range s.IMTs {
		curves, err := curve.System(gms, i, names, s.ExceedanceModel, s.TruncationLevel, s.Templates[i])
		if err != nil {
			return nil, fmt.Errorf("hazard: SYSTEM source-set %q imt %v: %w", ss.Name(), i, err)
		}
		raw[i] = curves
	}

	hcs, err := consolidate.ConsolidateSourceSet(ss.Name(), ss.Type(), ss.Weight(), sysInputs.Inputs.MinDistance(), gmmSet, raw, s.Templates[s.IMTs[0]])
	if err != nil {
		return nil, fmt.Errorf("hazard: SYSTEM source-set %q: %w", ss.Name(), err)
	}

	geometry := make([]deagg.SourceGeometry, sysInputs.SectionCount)

	return &sourceSetOutcome{
		Curves: hcs,
		Retained: &Retained{
			Type:            ss.Type(),
			Weight:          ss.Weight(),
			Gmms:            gmmSet,
			MinDistance:     sysInputs.Inputs.MinDistance(),
			SystemInputs:    sysInputs,
			SystemGMs:       gms,
			SectionGeometry: geometry,
		},
	}, nil
}

// evaluateSystemPartitioned runs the Input→GM stage for a System source-set's
// (potentially enormous) single InputList by splitting it into
// performance.systemPartition-sized chunks, evaluating each chunk as its own
// pipeline task, and concatenating the per-chunk GroundMotions back into one
// record over full in submission order (spec §4.6, §5). A partition count of
// 1 (list smaller than the chunk size, or partitioning disabled) evaluates
// inline without the fan-out.
func evaluateSystemPartitioned(exec *pipeline.Executor, full *groundmotion.InputList, imts []imt.IMT, gmms []groundmotion.GmmSpec, partitionSize int) (*groundmotion.GroundMotions, error) {
	chunks := pipeline.Partition(full.All(), partitionSize)
	if len(chunks) <= 1 {
		return groundmotion.Evaluate(full, imts, gmms)
	}

	tasks := make([]pipeline.Task[*groundmotion.GroundMotions], len(chunks))
	for idx, chunk := range chunks {
		chunk := chunk
		part := groundmotion.NewInputList(full.Name())
		for _, in := range chunk {
			part.Add(in)
		}
		built, err := part.Build()
		if err != nil {
			return nil, err
		}
		tasks[idx] = func() (*groundmotion.GroundMotions, error) {
			return groundmotion.Evaluate(built, imts, gmms)
		}
	}

	parts, err := pipeline.Run(exec, tasks)
	if err != nil {
		return nil, fmt.Errorf("evaluateSystemPartitioned: %w", err)
	}
	return groundmotion.Concat(full, imts, gmmNames(gmms), parts)
}
