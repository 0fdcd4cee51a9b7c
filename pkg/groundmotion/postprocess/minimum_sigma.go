package postprocess

import (
	"fmt"

	"github.com/jihwankim/seismic-hazard/pkg/groundmotion"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
)

// MinimumSigmaProcessor enforces a per-IMT minimum standard deviation,
// guarding against logic-tree aggregation producing an unrealistically
// tight sigma for a particular IMT.
type MinimumSigmaProcessor struct {
	MinByIMT map[imt.IMT]float64
	Default  float64
}

// NewMinimumSigmaProcessor validates that no configured minimum is
// negative.
func NewMinimumSigmaProcessor(minByIMT map[imt.IMT]float64, defaultMin float64) (*MinimumSigmaProcessor, error) {
	if defaultMin < 0 {
		return nil, fmt.Errorf("postprocess: default minimum sigma must be >= 0, got %g", defaultMin)
	}
	for i, v := range minByIMT {
		if v < 0 {
			return nil, fmt.Errorf("postprocess: minimum sigma for %v must be >= 0, got %g", i, v)
		}
	}
	return &MinimumSigmaProcessor{MinByIMT: minByIMT, Default: defaultMin}, nil
}

// Apply raises sgm.Sigma to the configured minimum if it falls below it.
func (p *MinimumSigmaProcessor) Apply(in groundmotion.HazardInput, sgm groundmotion.ScalarGroundMotion, i imt.IMT) groundmotion.ScalarGroundMotion {
	min, ok := p.MinByIMT[i]
	if !ok {
		min = p.Default
	}
	if sgm.Sigma < min {
		sgm.Sigma = min
	}
	return sgm
}
