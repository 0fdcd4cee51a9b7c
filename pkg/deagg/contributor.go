package deagg

import (
	"math"

	"github.com/jihwankim/seismic-hazard/pkg/xysequence"
)

// ContributorKind distinguishes the provenance levels the tree can record,
// per spec §4.8's per-source-set / per-source / per-cluster / per-section
// granularity.
type ContributorKind int

const (
	SourceSetKind ContributorKind = iota
	SourceKind
	ClusterKind
	SystemSectionKind
)

func (k ContributorKind) String() string {
	switch k {
	case SourceSetKind:
		return "SOURCE_SET"
	case SourceKind:
		return "SOURCE"
	case ClusterKind:
		return "CLUSTER"
	case SystemSectionKind:
		return "SYSTEM_SECTION"
	default:
		return "UNKNOWN"
	}
}

// Point is a (lat, lon) location, used for a contributor's representative
// site-to-source geometry.
type Point struct {
	Lat, Lon float64
}

// Contributor is one node of the provenance tree recorded alongside a
// Dataset: a name, location, azimuth, its own local accumulators (spec
// §4.8.1's "location, azimuth, and these five accumulators" — rScaled,
// mScaled, εScaled, binned, residual), an optional magnitude-frequency
// distribution (System sections only), and child contributors.
type Contributor struct {
	Kind     ContributorKind
	Name     string
	Location Point
	Azimuth  float64

	RScaled, MScaled, EpsScaled float64
	Binned, Residual            float64

	MFD *MFD

	Children []*Contributor
}

// Total is the contributor's own rate (binned + residual), ignoring
// children — the quantity contributor ranking sorts on (spec §4.9).
func (c *Contributor) Total() float64 { return c.Binned + c.Residual }

// addRupture folds one rupture's contribution into this contributor's local
// accumulators. Called once per rupture processed against this contributor,
// mirroring the scalar bookkeeping a Builder performs on the grid.
func (c *Contributor) addRupture(rRup, mw, eps, rate float64, skip bool) {
	c.RScaled += rRup * rate
	c.MScaled += mw * rate
	c.EpsScaled += eps * rate
	if skip {
		c.Residual += rate
	} else {
		c.Binned += rate
	}
}

// MFD is a magnitude-frequency-distribution accumulator with rows at a
// fixed magnitude spacing, used to summarize a System section's
// contribution by magnitude (spec §4.8.3).
type MFD struct {
	MMin, MDelta float64
	Rates        []float64
}

// NewMFD builds an empty MFD with rows at 0.1-Mw spacing covering
// [mMin, mMax], floor/ceil rounded to the grid per spec §4.8.3.
func NewMFD(mMin, mMax float64) *MFD {
	const delta = 0.1
	lo := math.Floor(mMin/delta) * delta
	hi := math.Ceil(mMax/delta) * delta
	n := int(math.Round((hi-lo)/delta)) + 1
	return &MFD{MMin: lo, MDelta: delta, Rates: make([]float64, n)}
}

// Add accumulates rate into the row nearest mw. Magnitudes outside the
// configured range clamp to the nearest edge row rather than being
// dropped — a System source-set's declared Mw range is expected to bound
// every rupture it materializes.
func (m *MFD) Add(mw, rate float64) {
	i := int(math.Round((mw - m.MMin) / m.MDelta))
	if i < 0 {
		i = 0
	}
	if i >= len(m.Rates) {
		i = len(m.Rates) - 1
	}
	m.Rates[i] += rate
}

// XYSequence returns the MFD as a normalized XYSequence (rate per Mw bin):
// x is each row's center magnitude, y is that row's accumulated rate. This
// is the shape the summary/export layer consumes directly, matching
// standard NSHM deaggregation-by-section output.
func (m *MFD) XYSequence() *xysequence.XYSequence {
	xs := make([]float64, len(m.Rates))
	for i := range xs {
		xs[i] = m.MMin + float64(i)*m.MDelta
	}
	return xysequence.NewWithY(xs, m.Rates)
}
