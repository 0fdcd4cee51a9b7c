package main

import (
	"github.com/jihwankim/seismic-hazard/pkg/hazardmodel"
	"github.com/jihwankim/seismic-hazard/pkg/hazardmodel/fixture"
)

// defaultModelYAML is the built-in demo model used whenever --model is
// omitted: one crustal FAULT source-set with two log-linear GMMs, one
// CLUSTER source-set with two jointly-rupturing faults, and one SYSTEM
// source-set with a three-section fault network — enough to exercise
// every source-type branch in pkg/hazard and pkg/deagg without requiring a
// real hazard-model file (model loading is an external collaborator's
// concern per spec §1).
const defaultModelYAML = `
apiVersion: hazard/v1
kind: HazardModel
metadata:
  name: demo-model
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
            params: {c1: -1.1, c2: 0.9, c3: -1.1, sigma: 0.65}
          - name: GMM2
            kind: log_linear
            weight: 0.4
            params: {c1: -1.3, c2: 0.85, c3: -1.0, sigma: 0.7}
      sources:
        - name: fault-a
          ruptures:
            - {mw: 6.0, r_rup: 8,  rate: 0.015}
            - {mw: 6.5, r_rup: 12, rate: 0.008}
            - {mw: 7.0, r_rup: 18, rate: 0.003}
        - name: fault-b
          ruptures:
            - {mw: 6.8, r_rup: 35, rate: 0.004}
            - {mw: 7.3, r_rup: 42, rate: 0.0015}
    - name: cluster-set
      type: CLUSTER
      weight: 1.0
      gmms:
        members:
          - {name: GMM1, kind: log_linear, weight: 1.0, params: {c1: -1.2, c2: 0.9, c3: -1.05, sigma: 0.65}}
      clusters:
        - name: cluster-1
          rate: 0.0008
          faults:
            - name: member-a
              ruptures:
                - {mw: 7.4, r_rup: 25, rate: 1.0}
            - name: member-b
              ruptures:
                - {mw: 7.2, r_rup: 28, rate: 1.0}
    - name: system-set
      type: SYSTEM
      weight: 1.0
      gmms:
        members:
          - {name: GMM1, kind: log_linear, weight: 1.0, params: {c1: -1.0, c2: 0.85, c3: -1.1, sigma: 0.6}}
      system:
        sections: [north, central, south]
        ruptures:
          - {mw: 6.7, r_rup: 15, rate: 0.002, sections: [north]}
          - {mw: 7.1, r_rup: 20, rate: 0.001, sections: [north, central]}
          - {mw: 7.6, r_rup: 30, rate: 0.0004, sections: [north, central, south]}
          - {mw: 6.9, r_rup: 40, rate: 0.0015, sections: [south]}
`

// loadModel parses and builds a hazard model from path, or the built-in
// demo model when path is empty.
func loadModel(path string) (hazardmodel.HazardModel, error) {
	p := fixture.NewParser(nil)
	var m *fixture.Model
	var err error
	if path == "" {
		m, err = p.Parse([]byte(defaultModelYAML))
	} else {
		m, err = p.ParseFile(path)
	}
	if err != nil {
		return nil, err
	}
	return fixture.Build(m, fixture.NewRegistry())
}
