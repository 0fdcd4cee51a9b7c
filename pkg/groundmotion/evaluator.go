package groundmotion

import (
	"fmt"

	"github.com/jihwankim/seismic-hazard/pkg/imt"
)

// GmmFunc is the opaque (input, imt) -> ScalarOrMulti contract a concrete
// GMM implementation satisfies. GMM coefficient loading and the actual
// attenuation relationship are explicitly out of scope (spec §1); this
// module only consumes the function.
type GmmFunc func(in HazardInput, i imt.IMT) (ScalarOrMulti, error)

// Processor post-processes a scalar ground motion after GMM evaluation —
// e.g. a sigma floor, a basin-depth adjustment. Processors never see a
// MultiScalarGroundMotion branch directly; the evaluator applies them only
// to the scalar case, consistent with spec §4.4's epistemic-uncertainty
// path note that epi adjustments apply "only in contexts where GMMs are
// scalar."
type Processor interface {
	Apply(in HazardInput, sgm ScalarGroundMotion, i imt.IMT) ScalarGroundMotion
}

// GmmSpec names one GMM and its evaluator plus its ordered post-processor
// chain (which may be empty).
type GmmSpec struct {
	Name       imt.Gmm
	Eval       GmmFunc
	Processors []Processor
}

// Evaluate runs the Cartesian product of (imt, gmm, input) for the given
// IMTs and GMM specs against inputs, invoking each GMM's evaluator and then
// its post-processor chain in declared order, and returns a fully
// populated GroundMotions record.
func Evaluate(inputs *InputList, imts []imt.IMT, gmms []GmmSpec) (*GroundMotions, error) {
	b := NewBuilder(inputs)
	n := inputs.Len()
	for _, i := range imts {
		for _, spec := range gmms {
			values := make([]ScalarOrMulti, n)
			for idx := 0; idx < n; idx++ {
				in := inputs.At(idx)
				sgm, err := spec.Eval(in, i)
				if err != nil {
					return nil, fmt.Errorf("groundmotion: gmm %q failed for imt %v input %d: %w", spec.Name, i, idx, err)
				}
				if !sgm.IsMulti() {
					for _, p := range spec.Processors {
						sgm.Scalar = p.Apply(in, sgm.Scalar, i)
					}
				}
				values[idx] = sgm
			}
			if err := b.Set(i, spec.Name, values); err != nil {
				return nil, err
			}
		}
	}
	return b.Build()
}
