package postprocess

import (
	"github.com/jihwankim/seismic-hazard/pkg/groundmotion"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
)

// AdditiveEpistemicProcessor shifts the mean by a fixed, model-specific
// adjustment term (e.g. a regional or host-vs-target correction already
// folded into ln-space). The adjustment can vary by IMT.
type AdditiveEpistemicProcessor struct {
	AdjustmentByIMT map[imt.IMT]float64
}

// NewAdditiveEpistemicProcessor builds a processor from a per-IMT
// adjustment table. A nil or missing entry is treated as zero adjustment.
func NewAdditiveEpistemicProcessor(adjustmentByIMT map[imt.IMT]float64) *AdditiveEpistemicProcessor {
	return &AdditiveEpistemicProcessor{AdjustmentByIMT: adjustmentByIMT}
}

// Apply adds the configured adjustment to sgm.Mean.
func (p *AdditiveEpistemicProcessor) Apply(in groundmotion.HazardInput, sgm groundmotion.ScalarGroundMotion, i imt.IMT) groundmotion.ScalarGroundMotion {
	sgm.Mean += p.AdjustmentByIMT[i]
	return sgm
}
