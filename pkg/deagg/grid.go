// Package deagg implements the deaggregator (spec §4.8): given a target
// return period or intensity measure level, it decomposes the hazard at
// that level into a 3D (distance, magnitude, epsilon) rate grid per
// source-set and GMM, with a tree of contributors recording provenance.
// Grounded on the teacher's pkg/monitoring/detector/failure_detector.go
// shape — a stateful accumulator keyed by name, filled by repeated
// evaluations, then read out as a summary — generalized from per-criterion
// pass/fail counters to per-bin rate accumulators.
package deagg

import (
	"math"
)

// Grid is the configured (min, max, Δ) discretization for each of the three
// deaggregation axes: rupture distance (r), magnitude (m), and epsilon (ε).
type Grid struct {
	RMin, RMax, RDelta     float64
	MMin, MMax, MDelta     float64
	EpsMin, EpsMax, EpsDelta float64
}

// NR, NM, NEps return the number of bins along each axis.
func (g Grid) NR() int   { return int(math.Round((g.RMax-g.RMin)/g.RDelta)) + 1 }
func (g Grid) NM() int   { return int(math.Round((g.MMax-g.MMin)/g.MDelta)) + 1 }
func (g Grid) NEps() int { return int(math.Round((g.EpsMax-g.EpsMin)/g.EpsDelta)) + 1 }

// RIndex, MIndex return the bin index for a value, or -1 when the value
// falls outside [min, max] — the out-of-range signal that routes a rupture
// to the residual accumulator instead of the binned grid (spec §4.8.1).
func (g Grid) RIndex(r float64) int { return boundedIndex(r, g.RMin, g.RMax, g.RDelta, g.NR()) }
func (g Grid) MIndex(m float64) int { return boundedIndex(m, g.MMin, g.MMax, g.MDelta, g.NM()) }

// EpsIndex returns -1 when ε is out of range, same convention as RIndex and
// MIndex.
func (g Grid) EpsIndex(eps float64) int {
	return boundedIndex(eps, g.EpsMin, g.EpsMax, g.EpsDelta, g.NEps())
}

// EpsIndexClamped clamps ε into the grid's bin range rather than signaling
// out-of-range. Spec §4.8.1 specifically clamps the epsilon axis when
// binning a non-skipped rupture ("εIndex = model.epsilonIndex(ε), clamped
// to grid") even though r and m use the strict -1-on-out-of-range form.
func (g Grid) EpsIndexClamped(eps float64) int {
	n := g.NEps()
	i := int(math.Floor((eps - g.EpsMin) / g.EpsDelta))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func boundedIndex(v, min, max, delta float64, n int) int {
	if v < min || v > max {
		return -1
	}
	i := int(math.Floor((v - min) / delta))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// RCenter, MCenter, EpsCenter return the bin-center value for a given axis
// index, used when reporting mode bins and epsilon keys.
func (g Grid) RCenter(i int) float64   { return g.RMin + (float64(i)+0.5)*g.RDelta }
func (g Grid) MCenter(i int) float64   { return g.MMin + (float64(i)+0.5)*g.MDelta }
func (g Grid) EpsCenter(i int) float64 { return g.EpsMin + (float64(i)+0.5)*g.EpsDelta }

// EpsLowerBound, EpsUpperBound return the half-open interval bounds for
// epsilon bin i, per spec §4.9's "epsilon keys" — the first and last bins
// extend to ±∞.
func (g Grid) EpsLowerBound(i int) float64 {
	if i == 0 {
		return math.Inf(-1)
	}
	return g.EpsMin + float64(i)*g.EpsDelta
}

func (g Grid) EpsUpperBound(i int) float64 {
	if i == g.NEps()-1 {
		return math.Inf(1)
	}
	return g.EpsMin + float64(i+1)*g.EpsDelta
}
