package curve

import (
	"github.com/jihwankim/seismic-hazard/pkg/exceedance"
	"github.com/jihwankim/seismic-hazard/pkg/groundmotion"
	"github.com/jihwankim/seismic-hazard/pkg/imt"
	"github.com/jihwankim/seismic-hazard/pkg/xysequence"
)

// System integrates a System source-set's single large GroundMotions
// record (one rupture per source) the same way Standard does — spec §4.6
// notes the Curve stage itself is unchanged from the standard path; what's
// different is upstream (one giant materialized InputList with section
// bitsets, built and evaluated in parallel chunks by pkg/pipeline) and
// downstream (the InputList and bitsets are retained past this call only
// if deaggregation will follow, a retention decision the consolidator
// makes, not this package). System is kept as its own named entry point so
// callers don't have to know the two paths happen to share an
// implementation.
func System(gms *groundmotion.GroundMotions, i imt.IMT, gmms []imt.Gmm, model exceedance.Model, n float64, template *xysequence.XYSequence) (map[imt.Gmm]*xysequence.XYSequence, error) {
	return Standard(gms, i, gmms, model, n, template)
}
