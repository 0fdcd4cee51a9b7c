package fixture

import (
	"fmt"
	"math"

	"github.com/jihwankim/seismic-hazard/pkg/groundmotion"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
)

// LogLinearParams parameterizes a simple point-source attenuation stand-in:
//
//	ln(Y) = C1 + C2*(Mw-Mref) + C3*ln(RRup+H)
//
// with a constant sigma. Real GMM coefficients and period-dependence are an
// external collaborator's concern per spec §1; this exists only so the
// fixture model and demo CLI have something to evaluate.
type LogLinearParams struct {
	C1, C2, C3, H, Mref, Sigma float64
}

// LogLinearGmm builds a groundmotion.GmmFunc from LogLinearParams.
func LogLinearGmm(p LogLinearParams) groundmotion.GmmFunc {
	return func(in groundmotion.HazardInput, i imt.IMT) (groundmotion.ScalarOrMulti, error) {
		mean := p.C1 + p.C2*(in.Mw-p.Mref) + p.C3*math.Log(in.RRup+p.H)
		return groundmotion.ScalarOrMulti{Scalar: groundmotion.ScalarGroundMotion{Mean: mean, Sigma: p.Sigma}}, nil
	}
}

// Registry resolves a GmmMemberDef's Kind string into a concrete
// groundmotion.GmmFunc. Kinds are registered by name rather than switched
// on inline so a caller (e.g. the demo CLI) can add its own before
// building a model.
type Registry struct {
	builders map[string]func(params map[string]float64) (groundmotion.GmmFunc, error)
}

// NewRegistry returns a Registry preloaded with the "log_linear" builtin.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]func(map[string]float64) (groundmotion.GmmFunc, error))}
	r.Register("log_linear", func(params map[string]float64) (groundmotion.GmmFunc, error) {
		p := LogLinearParams{Mref: 6.0, H: 6.0, Sigma: 0.6}
		if v, ok := params["c1"]; ok {
			p.C1 = v
		}
		if v, ok := params["c2"]; ok {
			p.C2 = v
		}
		if v, ok := params["c3"]; ok {
			p.C3 = v
		} else {
			p.C3 = -1.0
		}
		if v, ok := params["h"]; ok {
			p.H = v
		}
		if v, ok := params["mref"]; ok {
			p.Mref = v
		}
		if v, ok := params["sigma"]; ok {
			p.Sigma = v
		}
		return LogLinearGmm(p), nil
	})
	return r
}

// Register adds or replaces a GMM kind builder.
func (r *Registry) Register(kind string, build func(params map[string]float64) (groundmotion.GmmFunc, error)) {
	r.builders[kind] = build
}

// Build resolves one GmmMemberDef into a groundmotion.GmmFunc.
func (r *Registry) Build(kind string, params map[string]float64) (groundmotion.GmmFunc, error) {
	build, ok := r.builders[kind]
	if !ok {
		return nil, fmt.Errorf("fixture: unknown gmm kind %q", kind)
	}
	return build(params)
}
