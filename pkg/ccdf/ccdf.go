// Package ccdf provides a precomputed standard-normal complementary CDF
// table for O(1) lookup on the hazard calculation's hot path, plus the
// Abramowitz-Stegun approximation used to build it.
package ccdf

import (
	"math"
	"sync"
)

// DefaultMin and DefaultMax bound the default table's epsilon range. The
// data model caps this at [-4, 4]; nshmp-style tables commonly narrow it to
// improve resolution near the tails that matter for hazard (we keep the
// full spec range as the default and let callers build a narrower one).
const (
	DefaultMin = -4.0
	DefaultMax = 4.0
	// TableSize is the length of the precomputed table: 10,000,001 points,
	// matching a step small enough to round to 8 decimal digits of epsilon.
	TableSize = 10_000_001
	roundDigits = 8
)

// Phibar computes the standard-normal CCDF, Φ̄(x) = 1 - Φ(x), via the
// Abramowitz & Stegun 7.1.26 rational approximation (max absolute error
// ~1.5e-7). This is the shared numeric helper referenced throughout the
// exceedance model.
func Phibar(x float64) float64 {
	// Phibar is symmetric about 0: Φ̄(-x) = 1 - Φ̄(x) = Φ(x).
	if x < 0 {
		return 1 - Phibar(-x)
	}
	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)
	z := x / math.Sqrt2
	t := 1.0 / (1.0 + p*z)
	poly := t * (a1 + t*(a2+t*(a3+t*(a4+t*a5))))
	erf := 1.0 - poly*math.Exp(-z*z)
	// Φ̄(x) = 0.5 * erfc(x/sqrt2) = 0.5 * (1 - erf(x/sqrt2))
	return 0.5 * (1.0 - erf)
}

// Table is a precomputed CCDF lookup over [min, max] in epsilon space,
// rounded to 8 decimal digits of step. Values outside [min, max] return 1
// (below min) or 0 (above max), matching a fully-truncated distribution's
// tail behavior. A Table is immutable after construction and safe for
// concurrent reads.
type Table struct {
	min, max float64
	step     float64
	values   []float64
}

// NewTable builds a table over [min, max] with TableSize points.
func NewTable(min, max float64) *Table {
	if max <= min {
		panic("ccdf: max must be greater than min")
	}
	step := (max - min) / float64(TableSize-1)
	step = roundTo(step, roundDigits)
	values := make([]float64, TableSize)
	for i := range values {
		x := min + float64(i)*step
		values[i] = Phibar(x)
	}
	return &Table{min: min, max: max, step: step, values: values}
}

func roundTo(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(v*scale) / scale
}

// Get returns Φ̄(x) for an epsilon value x from the nearest precomputed
// table entry when x falls within [min, max]. Values below min saturate to
// 1; values above max saturate to 0.
func (tb *Table) Get(x float64) float64 {
	if x < tb.min {
		return 1
	}
	if x > tb.max {
		return 0
	}
	idx := int(math.Round((x - tb.min) / tb.step))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(tb.values) {
		idx = len(tb.values) - 1
	}
	return tb.values[idx]
}

// Min and Max report the table's epsilon bounds.
func (tb *Table) Min() float64 { return tb.min }
func (tb *Table) Max() float64 { return tb.max }

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns a lazily-initialized, module-level table spanning
// [DefaultMin, DefaultMax]. Used by the TRUNCATION_3SIGMA_UPPER and
// NSHM_CEUS_3SIGMA_MAX_INTENSITY exceedance variants, which fix n at 3 and
// never need a custom range.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = NewTable(DefaultMin, DefaultMax)
	})
	return defaultTable
}
