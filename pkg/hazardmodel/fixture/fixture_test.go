package fixture

import (
	"testing"

	"github.com/jihwankim/seismic-hazard/pkg/groundmotion"
	"github.com/jihwankim/seismic-hazard/pkg/hazardmodel"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
	"github.com/jihwankim/seismic-hazard/pkg/rupture"
)

const sampleYAML = `
apiVersion: hazard/v1
kind: HazardModel
metadata:
  name: ${MODEL_NAME}
spec:
  source_sets:
    - name: crustal-fault
      type: FAULT
      weight: 1.0
      gmms:
        members:
          - name: GMM1
            kind: log_linear
            weight: 0.6
            params: {c1: -1.0, c2: 0.9, c3: -1.1}
          - name: GMM2
            kind: log_linear
            weight: 0.4
            params: {c1: -1.2, c2: 0.8, c3: -1.0}
      sources:
        - name: fault-a
          ruptures:
            - {mw: 6.5, r_rup: 10, rate: 0.01}
            - {mw: 7.0, r_rup: 15, rate: 0.004}
    - name: cluster-set
      type: CLUSTER
      weight: 1.0
      gmms:
        members:
          - {name: GMM1, kind: log_linear, weight: 1.0}
      clusters:
        - name: cluster-1
          rate: 0.002
          faults:
            - name: fault-b
              ruptures:
                - {mw: 7.2, r_rup: 20, rate: 1.0}
            - name: fault-c
              ruptures:
                - {mw: 7.1, r_rup: 22, rate: 1.0}
`

func TestParseAndBuildSubstitutesVariables(t *testing.T) {
	p := NewParser(map[string]string{"MODEL_NAME": "test-model"})
	m, err := p.Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	if m.Metadata.Name != "test-model" {
		t.Fatalf("metadata.name = %q, want test-model", m.Metadata.Name)
	}
	if len(m.Spec.SourceSets) != 2 {
		t.Fatalf("expected 2 source-sets, got %d", len(m.Spec.SourceSets))
	}
}

func TestBuildProducesWorkingHazardModel(t *testing.T) {
	p := NewParser(map[string]string{"MODEL_NAME": "test-model"})
	m, err := p.Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	hm, err := Build(m, NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if hm.Name() != "test-model" {
		t.Fatalf("Name() = %q, want test-model", hm.Name())
	}
	sourceSets := hm.SourceSets()
	if len(sourceSets) != 2 {
		t.Fatalf("expected 2 source-sets, got %d", len(sourceSets))
	}

	site := rupture.Site{VS30: 760}
	fault := sourceSets[0]
	if fault.Type() != hazardmodel.FAULT {
		t.Fatalf("sourceSets[0].Type() = %v, want FAULT", fault.Type())
	}
	srcs := fault.Sources(site)
	if len(srcs) != 1 || len(srcs[0].Ruptures(site)) != 2 {
		t.Fatalf("unexpected source shape: %+v", srcs)
	}
	weights := fault.Gmms().WeightMap(10)
	if weights["GMM1"] != 0.6 || weights["GMM2"] != 0.4 {
		t.Fatalf("unexpected default weight map: %v", weights)
	}
	specs := fault.Gmms().Gmms()
	g := srcs[0].Ruptures(site)[0]
	in := rupture.Build(g, site)
	if _, err := specs[0].Eval(in, imt.PGA); err != nil {
		t.Fatalf("gmm eval failed: %v", err)
	}

	cluster := sourceSets[1]
	if cluster.Type() != hazardmodel.CLUSTER {
		t.Fatalf("sourceSets[1].Type() = %v, want CLUSTER", cluster.Type())
	}
	clusters := cluster.Clusters(site)
	if len(clusters) != 1 || len(clusters[0].Faults()) != 2 {
		t.Fatalf("unexpected cluster shape: %+v", clusters)
	}
	if clusters[0].Rate() != 0.002 {
		t.Fatalf("cluster rate = %g, want 0.002", clusters[0].Rate())
	}
}

func TestParserRejectsMissingRequiredFields(t *testing.T) {
	p := NewParser(nil)
	if _, err := p.Parse([]byte("apiVersion: hazard/v1\nkind: HazardModel\n")); err == nil {
		t.Fatal("expected a validation error for missing metadata.name and source_sets")
	}
}

func TestLogLinearGmmDecreasesWithDistance(t *testing.T) {
	fn := LogLinearGmm(LogLinearParams{C1: -1, C2: 0.9, C3: -1.1, H: 6, Mref: 6, Sigma: 0.6})
	near, err := fn(groundmotion.HazardInput{Mw: 7, RRup: 5}, imt.PGA)
	if err != nil {
		t.Fatal(err)
	}
	far, err := fn(groundmotion.HazardInput{Mw: 7, RRup: 100}, imt.PGA)
	if err != nil {
		t.Fatal(err)
	}
	if far.Scalar.Mean >= near.Scalar.Mean {
		t.Fatalf("expected mean ground motion to decay with distance: near=%g far=%g", near.Scalar.Mean, far.Scalar.Mean)
	}
}
