// Package imt defines the intensity measure type enum used to index the
// dense, fixed-size tables that sit on the hot path of the hazard
// calculation (GroundMotions.gmMap, model curves, max-intensity clamps).
package imt

import "fmt"

// IMT is an intensity measure type: PGA, PGV, or spectral acceleration at a
// period. It is a small closed set, so it is represented as an ordinal-backed
// enum rather than a string, letting callers index fixed-size arrays by
// Ordinal() instead of hashing a map.
type IMT int

const (
	PGA IMT = iota
	PGV
	SA0P01
	SA0P02
	SA0P03
	SA0P05
	SA0P075
	SA0P1
	SA0P15
	SA0P2
	SA0P25
	SA0P3
	SA0P4
	SA0P5
	SA0P75
	SA1P0
	SA1P5
	SA2P0
	SA3P0
	SA4P0
	SA5P0
	numIMT
)

// Count is the number of declared IMTs, sized for fixed-array allocation.
const Count = int(numIMT)

// Ordinal returns the dense index of the IMT, suitable for array indexing.
func (i IMT) Ordinal() int { return int(i) }

// Period returns the spectral period in seconds, or 0 for PGA/PGV.
func (i IMT) Period() float64 {
	p, ok := periods[i]
	if !ok {
		return 0
	}
	return p
}

// IsSA reports whether the IMT is a spectral-acceleration period.
func (i IMT) IsSA() bool {
	switch i {
	case PGA, PGV:
		return false
	default:
		return true
	}
}

var periods = map[IMT]float64{
	SA0P01:  0.01,
	SA0P02:  0.02,
	SA0P03:  0.03,
	SA0P05:  0.05,
	SA0P075: 0.075,
	SA0P1:   0.1,
	SA0P15:  0.15,
	SA0P2:   0.2,
	SA0P25:  0.25,
	SA0P3:   0.3,
	SA0P4:   0.4,
	SA0P5:   0.5,
	SA0P75:  0.75,
	SA1P0:   1.0,
	SA1P5:   1.5,
	SA2P0:   2.0,
	SA3P0:   3.0,
	SA4P0:   4.0,
	SA5P0:   5.0,
}

var names = map[IMT]string{
	PGA: "PGA", PGV: "PGV",
	SA0P01: "SA0P01", SA0P02: "SA0P02", SA0P03: "SA0P03", SA0P05: "SA0P05",
	SA0P075: "SA0P075", SA0P1: "SA0P1", SA0P15: "SA0P15", SA0P2: "SA0P2",
	SA0P25: "SA0P25", SA0P3: "SA0P3", SA0P4: "SA0P4", SA0P5: "SA0P5",
	SA0P75: "SA0P75", SA1P0: "SA1P0", SA1P5: "SA1P5", SA2P0: "SA2P0",
	SA3P0: "SA3P0", SA4P0: "SA4P0", SA5P0: "SA5P0",
}

func (i IMT) String() string {
	if n, ok := names[i]; ok {
		return n
	}
	return fmt.Sprintf("IMT(%d)", int(i))
}

// ParseIMT parses the canonical name (as returned by String) back into an
// IMT, for config and model files that name IMTs as strings.
func ParseIMT(s string) (IMT, error) {
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("imt: unknown imt %q", s)
}

// Gmm identifies a ground-motion model by name. The core treats a GMM as an
// opaque evaluator (see pkg/groundmotion.Evaluator); this type is only the
// key used to index GroundMotions.gmMap and weight maps.
type Gmm string

// Key combines an IMT and a GMM for use as a map key where a 2D array isn't
// warranted (e.g. sparse per-rupture caches).
type Key struct {
	IMT IMT
	Gmm Gmm
}
