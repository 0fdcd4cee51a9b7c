package hazard

import (
	"math"
	"testing"

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

// fakeRupture is the minimal rupture.Geometry a test needs: fixed distances
// regardless of site, so the fixture doesn't need real fault geometry.
type fakeRupture struct {
	mw, rRup, rate float64
}

func (f fakeRupture) Mw() float64                  { return f.mw }
func (f fakeRupture) RJB(site rupture.Site) float64 { return f.rRup }
func (f fakeRupture) RRup(site rupture.Site) float64 { return f.rRup }
func (f fakeRupture) RX(site rupture.Site) float64  { return f.rRup }
func (f fakeRupture) Dip() float64                  { return 90 }
func (f fakeRupture) Width() float64                { return 10 }
func (f fakeRupture) ZTop() float64                 { return 0 }
func (f fakeRupture) Rake() float64                 { return 0 }
func (f fakeRupture) Rate() float64                 { return f.rate }

type fakeSource struct {
	name      string
	ruptures  []fakeRupture
}

func (s fakeSource) Name() string { return s.name }
func (s fakeSource) Ruptures(site rupture.Site) []rupture.Geometry {
	out := make([]rupture.Geometry, len(s.ruptures))
	for i, r := range s.ruptures {
		out[i] = r
	}
	return out
}

func fakeGmm(mean, sigma float64) groundmotion.GmmFunc {
	return func(in groundmotion.HazardInput, i imt.IMT) (groundmotion.ScalarOrMulti, error) {
		return groundmotion.ScalarOrMulti{Scalar: groundmotion.ScalarGroundMotion{Mean: mean, Sigma: sigma}}, nil
	}
}

type fakeGmmSet struct {
	specs []groundmotion.GmmSpec
}

func (g fakeGmmSet) Gmms() []groundmotion.GmmSpec       { return g.specs }
func (g fakeGmmSet) HasEpistemicUncertainty() bool      { return false }
func (g fakeGmmSet) EpiValue(mw, rJB float64) float64   { return 0 }
func (g fakeGmmSet) EpiWeights() [3]float64             { return [3]float64{0, 1, 0} }
func (g fakeGmmSet) WeightMap(distance float64) hazardmodel.GmmWeightMap {
	out := make(hazardmodel.GmmWeightMap, len(g.specs))
	for _, s := range g.specs {
		out[s.Name] = 1.0 / float64(len(g.specs))
	}
	return out
}

type fakeSourceSet struct {
	name    string
	sources []fakeSource
	gmms    fakeGmmSet
}

func (s fakeSourceSet) Name() string                 { return s.name }
func (s fakeSourceSet) Type() hazardmodel.SourceType { return hazardmodel.FAULT }
func (s fakeSourceSet) Weight() float64              { return 1.0 }
func (s fakeSourceSet) Gmms() hazardmodel.GmmSet      { return s.gmms }
func (s fakeSourceSet) Sources(site rupture.Site) []hazardmodel.Source {
	out := make([]hazardmodel.Source, len(s.sources))
	for i, src := range s.sources {
		out[i] = src
	}
	return out
}
func (s fakeSourceSet) Clusters(site rupture.Site) []hazardmodel.ClusterSource { return nil }
func (s fakeSourceSet) System(site rupture.Site) hazardmodel.SystemSource     { return nil }

// fakeSystemSource materializes a fixed InputList with one section
// straddling every rupture, mirroring the shape pkg/hazardmodel/fixture
// builds from a SYSTEM block, but without any geometry/parsing dependency.
type fakeSystemSource struct {
	ruptures []fakeRupture
}

func (s fakeSystemSource) Name() string { return "system" }

func (s fakeSystemSource) ToInputs(site rupture.Site) (*hazardmodel.SystemInputs, error) {
	list := groundmotion.NewInputList("system")
	sections := make([][]int, len(s.ruptures))
	for i, r := range s.ruptures {
		list.Add(groundmotion.HazardInput{Rate: r.rate, Mw: r.mw, RJB: r.rRup, RRup: r.rRup, RX: r.rRup})
		sections[i] = []int{0}
	}
	built, err := list.Build()
	if err != nil {
		return nil, err
	}
	return &hazardmodel.SystemInputs{Inputs: built, SectionsPerRup: sections, SectionCount: 1, SectionNames: []string{"section-0"}}, nil
}

type fakeSystemSourceSet struct {
	name   string
	system fakeSystemSource
	gmms   fakeGmmSet
}

func (s fakeSystemSourceSet) Name() string                                   { return s.name }
func (s fakeSystemSourceSet) Type() hazardmodel.SourceType                   { return hazardmodel.SYSTEM }
func (s fakeSystemSourceSet) Weight() float64                                { return 1.0 }
func (s fakeSystemSourceSet) Gmms() hazardmodel.GmmSet                       { return s.gmms }
func (s fakeSystemSourceSet) Sources(site rupture.Site) []hazardmodel.Source { return nil }
func (s fakeSystemSourceSet) Clusters(site rupture.Site) []hazardmodel.ClusterSource {
	return nil
}
func (s fakeSystemSourceSet) System(site rupture.Site) hazardmodel.SystemSource { return s.system }

type fakeModel struct {
	sourceSets []hazardmodel.SourceSet
}

func (m fakeModel) Name() string                      { return "fixture" }
func (m fakeModel) SourceSets() []hazardmodel.SourceSet { return m.sourceSets }

func logGrid() *xysequence.XYSequence {
	xs := make([]float64, 20)
	for i := range xs {
		xs[i] = math.Log(0.001) + float64(i)*0.3
	}
	return xysequence.New(xs)
}

func TestComputeSingleFaultSourceSet(t *testing.T) {
	ss := fakeSourceSet{
		name: "fault-a",
		sources: []fakeSource{
			{name: "src-1", ruptures: []fakeRupture{{mw: 6.5, rRup: 10, rate: 0.01}, {mw: 7.0, rRup: 15, rate: 0.005}}},
		},
		gmms: fakeGmmSet{specs: []groundmotion.GmmSpec{{Name: "GMM1", Eval: fakeGmm(-1.0, 0.6)}}},
	}
	model := fakeModel{sourceSets: []hazardmodel.SourceSet{ss}}

	s := Settings{
		IMTs:            []imt.IMT{imt.PGA},
		ExceedanceModel: exceedance.TRUNCATION_3SIGMA_UPPER,
		TruncationLevel: 3,
		Templates:       map[imt.IMT]*xysequence.XYSequence{imt.PGA: logGrid()},
	}

	hz, retained, err := Compute(pipeline.New(1), (*metrics.Registry)(nil), rupture.Site{VS30: 760}, model, s)
	if err != nil {
		t.Fatal(err)
	}
	total := hz.ByIMT[imt.PGA]
	for i := 0; i < total.Len(); i++ {
		if total.Y(i) < 0 || total.Y(i) > 1 {
			t.Fatalf("total curve bin %d out of [0,1]: %g", i, total.Y(i))
		}
	}
	if len(hz.SourceSets) != 1 {
		t.Fatalf("expected 1 source-set curve set, got %d", len(hz.SourceSets))
	}
	r, ok := retained["fault-a"]
	if !ok {
		t.Fatal("expected retained detail for fault-a")
	}
	if len(r.Units) != 1 {
		t.Fatalf("expected 1 retained unit, got %d", len(r.Units))
	}
	if r.Units[0].GMs == nil {
		t.Fatal("expected per-source GroundMotions to be retained")
	}
}

func TestComputeThreadedMatchesSingleThreaded(t *testing.T) {
	ss := fakeSourceSet{
		name: "fault-a",
		sources: []fakeSource{
			{name: "src-1", ruptures: []fakeRupture{{mw: 6.5, rRup: 10, rate: 0.01}}},
		},
		gmms: fakeGmmSet{specs: []groundmotion.GmmSpec{{Name: "GMM1", Eval: fakeGmm(-1.0, 0.6)}}},
	}
	other := fakeSourceSet{
		name: "fault-b",
		sources: []fakeSource{
			{name: "src-1", ruptures: []fakeRupture{{mw: 7.0, rRup: 20, rate: 0.002}}},
		},
		gmms: fakeGmmSet{specs: []groundmotion.GmmSpec{{Name: "GMM1", Eval: fakeGmm(-1.2, 0.6)}}},
	}
	model := fakeModel{sourceSets: []hazardmodel.SourceSet{ss, other}}

	s := Settings{
		IMTs:            []imt.IMT{imt.PGA},
		ExceedanceModel: exceedance.TRUNCATION_3SIGMA_UPPER,
		TruncationLevel: 3,
		Templates:       map[imt.IMT]*xysequence.XYSequence{imt.PGA: logGrid()},
	}

	single, _, err := Compute(pipeline.New(1), nil, rupture.Site{VS30: 760}, model, s)
	if err != nil {
		t.Fatal(err)
	}
	threaded, _, err := Compute(pipeline.New(4), nil, rupture.Site{VS30: 760}, model, s)
	if err != nil {
		t.Fatal(err)
	}
	a, b := single.ByIMT[imt.PGA], threaded.ByIMT[imt.PGA]
	for i := 0; i < a.Len(); i++ {
		if math.Abs(a.Y(i)-b.Y(i)) > 1e-9 {
			t.Fatalf("bin %d: single=%g threaded=%g", i, a.Y(i), b.Y(i))
		}
	}
}

// TestDeaggregateAtImlUsesRetainedDetail exercises the glue between
// Compute's retained per-source-set detail and pkg/deagg's top-level entry
// points: both source-sets should contribute a non-zero binned rate at an
// IML squarely inside the hazard curve's x-range.
func TestDeaggregateAtImlUsesRetainedDetail(t *testing.T) {
	near := fakeSourceSet{
		name: "fault-near",
		sources: []fakeSource{
			{name: "src-1", ruptures: []fakeRupture{{mw: 6.5, rRup: 10, rate: 0.01}}},
		},
		gmms: fakeGmmSet{specs: []groundmotion.GmmSpec{{Name: "GMM1", Eval: fakeGmm(-1.0, 0.6)}}},
	}
	far := fakeSourceSet{
		name: "fault-far",
		sources: []fakeSource{
			{name: "src-1", ruptures: []fakeRupture{{mw: 7.0, rRup: 150, rate: 0.002}}},
		},
		gmms: fakeGmmSet{specs: []groundmotion.GmmSpec{{Name: "GMM1", Eval: fakeGmm(-1.2, 0.6)}}},
	}
	model := fakeModel{sourceSets: []hazardmodel.SourceSet{near, far}}

	s := Settings{
		IMTs:            []imt.IMT{imt.PGA},
		ExceedanceModel: exceedance.TRUNCATION_3SIGMA_UPPER,
		TruncationLevel: 3,
		Templates:       map[imt.IMT]*xysequence.XYSequence{imt.PGA: logGrid()},
	}

	hz, retained, err := Compute(pipeline.New(1), nil, rupture.Site{VS30: 760}, model, s)
	if err != nil {
		t.Fatal(err)
	}

	grid := deagg.Grid{
		RMin: 0, RMax: 200, RDelta: 20,
		MMin: 5, MMax: 8, MDelta: 0.5,
		EpsMin: -3, EpsMax: 3, EpsDelta: 1,
	}
	result, err := DeaggregateAtIml(hz, retained, imt.PGA, grid, exceedance.TRUNCATION_3SIGMA_UPPER, 3, -1.5)
	if err != nil {
		t.Fatal(err)
	}
	if result.Total.Binned+result.Total.Residual <= 0 {
		t.Fatal("expected non-zero recovered rate")
	}
	if len(result.BySourceSet) != 2 {
		t.Fatalf("expected both source-sets to contribute, got %d", len(result.BySourceSet))
	}
	for name, d := range result.BySourceSet {
		if d.Binned+d.Residual <= 0 {
			t.Fatalf("source-set %q contributed zero rate", name)
		}
	}
}

// TestComputeSystemPartitionMatchesUnpartitioned checks that splitting a
// SYSTEM source-set's Input→GM stage into partitions (spec §4.6, §5) and
// concatenating the results back in submission order produces the same
// curve as evaluating the whole list in one shot.
func TestComputeSystemPartitionMatchesUnpartitioned(t *testing.T) {
	sys := fakeSystemSource{ruptures: []fakeRupture{
		{mw: 6.0, rRup: 5, rate: 0.01},
		{mw: 6.5, rRup: 10, rate: 0.008},
		{mw: 7.0, rRup: 20, rate: 0.004},
		{mw: 7.5, rRup: 40, rate: 0.001},
		{mw: 6.2, rRup: 60, rate: 0.002},
	}}
	ss := fakeSystemSourceSet{
		name:   "system-a",
		system: sys,
		gmms:   fakeGmmSet{specs: []groundmotion.GmmSpec{{Name: "GMM1", Eval: fakeGmm(-1.0, 0.6)}}},
	}
	model := fakeModel{sourceSets: []hazardmodel.SourceSet{ss}}

	base := Settings{
		IMTs:            []imt.IMT{imt.PGA},
		ExceedanceModel: exceedance.TRUNCATION_3SIGMA_UPPER,
		TruncationLevel: 3,
		Templates:       map[imt.IMT]*xysequence.XYSequence{imt.PGA: logGrid()},
	}

	whole := base
	whole.SystemPartition = 0
	unpartitioned, _, err := Compute(pipeline.New(1), nil, rupture.Site{VS30: 760}, model, whole)
	if err != nil {
		t.Fatal(err)
	}

	chunked := base
	chunked.SystemPartition = 2
	partitioned, _, err := Compute(pipeline.New(4), nil, rupture.Site{VS30: 760}, model, chunked)
	if err != nil {
		t.Fatal(err)
	}

	a, b := unpartitioned.ByIMT[imt.PGA], partitioned.ByIMT[imt.PGA]
	for i := 0; i < a.Len(); i++ {
		if math.Abs(a.Y(i)-b.Y(i)) > 1e-9 {
			t.Fatalf("bin %d: unpartitioned=%g partitioned=%g", i, a.Y(i), b.Y(i))
		}
	}
}
