// Package groundmotion holds the per-rupture numeric inputs, the scalar and
// logic-tree ground-motion records produced by GMMs, and the evaluator that
// turns a list of inputs into a fully populated GroundMotions record.
package groundmotion

import (
	"fmt"
	"math"
)

// HazardInput is the fixed-schema numeric record a rupture is reduced to,
// relative to a site. It is immutable once constructed. For cluster
// sources, Rate is repurposed to carry the magnitude-variant weight rather
// than an occurrence rate (see spec §4.5).
type HazardInput struct {
	Rate  float64
	Mw    float64
	RJB   float64
	RRup  float64
	RX    float64
	Dip   float64
	Width float64
	ZTop  float64
	ZHyp  float64
	Rake  float64
	VS30  float64
	VsInf bool
	Z1P0  float64
	Z2P5  float64
}

// InputList is an append-only ordered sequence of HazardInput, tracking the
// minimum rJB seen so far and a back-pointer to the owning source or
// source-set name. It is not safe for concurrent use; per spec §5 builders
// are confined to a single task.
type InputList struct {
	name        string
	inputs      []HazardInput
	minDistance float64
	built       bool
}

// NewInputList creates an empty, appendable list attributed to the given
// source or source-set name.
func NewInputList(name string) *InputList {
	return &InputList{name: name, minDistance: math.Inf(1)}
}

// Add appends an input and updates the tracked minimum distance. Panics if
// the list has already been handed to Build (the single-use builder
// guarantee described in spec §5).
func (l *InputList) Add(in HazardInput) *InputList {
	if l.built {
		panic(fmt.Sprintf("groundmotion: Add called on built InputList %q", l.name))
	}
	if len(l.inputs) == 0 {
		l.minDistance = in.RJB
	} else if in.RJB < l.minDistance {
		l.minDistance = in.RJB
	}
	l.inputs = append(l.inputs, in)
	return l
}

// Build marks the list as finalized. A second call returns an error rather
// than panicking — builder misuse is a programming error surfaced to the
// caller, per spec §5's at-most-one guarantee.
func (l *InputList) Build() (*InputList, error) {
	if l.built {
		return nil, fmt.Errorf("groundmotion: InputList %q already built", l.name)
	}
	l.built = true
	return l, nil
}

// Name returns the owning source or source-set name.
func (l *InputList) Name() string { return l.name }

// Len returns the number of inputs.
func (l *InputList) Len() int { return len(l.inputs) }

// At returns the input at index i.
func (l *InputList) At(i int) HazardInput { return l.inputs[i] }

// All returns the underlying slice. Callers must not mutate it.
func (l *InputList) All() []HazardInput { return l.inputs }

// MinDistance returns the minimum rJB observed across all inputs added so
// far. Used by the curve consolidator to key the GMM weight map.
func (l *InputList) MinDistance() float64 { return l.minDistance }
