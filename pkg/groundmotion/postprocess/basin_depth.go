package postprocess

import (
	"fmt"

	"github.com/jihwankim/seismic-hazard/pkg/groundmotion"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
)

// BasinDepthProcessor adjusts the mean by a basin-amplification term that
// is a function of the site's z1p0 basin depth (z2p5 is not used), clamped
// to a configured maximum absolute adjustment. Amplification is modeled as
// proportional to z1p0 in excess of a reference depth, matching the common
// shape of basin-depth correction terms (amplification grows with deeper
// sediment, saturating at the configured clamp).
type BasinDepthProcessor struct {
	ReferenceZ1P0  float64
	Coefficient    float64
	MaxAdjustment  float64
}

// NewBasinDepthProcessor validates MaxAdjustment is non-negative.
func NewBasinDepthProcessor(referenceZ1P0, coefficient, maxAdjustment float64) (*BasinDepthProcessor, error) {
	if maxAdjustment < 0 {
		return nil, fmt.Errorf("postprocess: max basin-depth adjustment must be >= 0, got %g", maxAdjustment)
	}
	return &BasinDepthProcessor{ReferenceZ1P0: referenceZ1P0, Coefficient: coefficient, MaxAdjustment: maxAdjustment}, nil
}

// Apply adds a clamped basin-amplification term to sgm.Mean, derived from
// how far in.Z1P0 exceeds the reference depth.
func (p *BasinDepthProcessor) Apply(in groundmotion.HazardInput, sgm groundmotion.ScalarGroundMotion, i imt.IMT) groundmotion.ScalarGroundMotion {
	delta := p.Coefficient * (in.Z1P0 - p.ReferenceZ1P0)
	if delta > p.MaxAdjustment {
		delta = p.MaxAdjustment
	}
	if delta < -p.MaxAdjustment {
		delta = -p.MaxAdjustment
	}
	sgm.Mean += delta
	return sgm
}
