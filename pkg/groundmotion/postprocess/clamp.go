// Package postprocess supplies concrete GMM post-processors for the
// ordered, configurable chain described in spec §4.3. Grounded on the
// teacher's one-mechanism-per-file layout (pkg/injection/container's
// kill.go/pause.go/restart.go, each validating its own parameters before
// acting against a shared dispatch contract): each processor here is one
// file, validating its own configuration before Apply ever runs.
package postprocess

import (
	"fmt"

	"github.com/jihwankim/seismic-hazard/pkg/groundmotion"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
)

// ClampProcessor clamps sigma to [Floor, Ceiling]. A zero Ceiling means
// unbounded above.
type ClampProcessor struct {
	Floor   float64
	Ceiling float64
}

// NewClampProcessor validates floor <= ceiling (when ceiling is set) and
// returns a ready-to-use processor.
func NewClampProcessor(floor, ceiling float64) (*ClampProcessor, error) {
	if ceiling > 0 && floor > ceiling {
		return nil, fmt.Errorf("postprocess: clamp floor %g exceeds ceiling %g", floor, ceiling)
	}
	return &ClampProcessor{Floor: floor, Ceiling: ceiling}, nil
}

// Apply clamps sgm.Sigma into [Floor, Ceiling], leaving Mean untouched.
func (p *ClampProcessor) Apply(in groundmotion.HazardInput, sgm groundmotion.ScalarGroundMotion, i imt.IMT) groundmotion.ScalarGroundMotion {
	if sgm.Sigma < p.Floor {
		sgm.Sigma = p.Floor
	}
	if p.Ceiling > 0 && sgm.Sigma > p.Ceiling {
		sgm.Sigma = p.Ceiling
	}
	return sgm
}
