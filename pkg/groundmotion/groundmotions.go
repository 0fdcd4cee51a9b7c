package groundmotion

import (
	"fmt"

	"github.com/jihwankim/seismic-hazard/pkg/imt"
)

// GroundMotions holds the full (IMT, GMM) matrix of ScalarOrMulti results
// for one InputList. Per spec §9's "nested enum-keyed maps" guidance, the
// IMT axis is a fixed-size array indexed by ordinal (IMT is a small closed
// set known at compile time); the GMM axis remains a map since the set of
// GMMs in play is model-defined, not closed module-wide.
type GroundMotions struct {
	inputs *InputList
	gmMap  [imt.Count]map[imt.Gmm][]ScalarOrMulti
}

// Builder assembles a GroundMotions record for one InputList. Not safe for
// concurrent use; confined to a single task per spec §5.
type Builder struct {
	inputs *InputList
	gmMap  [imt.Count]map[imt.Gmm][]ScalarOrMulti
	built  bool
}

// NewBuilder creates a builder over the given (already-built) InputList.
func NewBuilder(inputs *InputList) *Builder {
	b := &Builder{inputs: inputs}
	for i := range b.gmMap {
		b.gmMap[i] = make(map[imt.Gmm][]ScalarOrMulti)
	}
	return b
}

// Set records the per-input results for one (imt, gmm) pair. values must be
// the same length as the builder's InputList.
func (b *Builder) Set(i imt.IMT, gmm imt.Gmm, values []ScalarOrMulti) error {
	if b.built {
		return fmt.Errorf("groundmotion: Set called on built Builder")
	}
	if len(values) != b.inputs.Len() {
		return fmt.Errorf("groundmotion: Set(%v, %v): got %d values, want %d", i, gmm, len(values), b.inputs.Len())
	}
	b.gmMap[i.Ordinal()][gmm] = values
	return nil
}

// Build finalizes the record. A second call fails rather than panicking,
// matching the builder single-use contract.
func (b *Builder) Build() (*GroundMotions, error) {
	if b.built {
		return nil, fmt.Errorf("groundmotion: Builder already built")
	}
	b.built = true
	return &GroundMotions{inputs: b.inputs, gmMap: b.gmMap}, nil
}

// Inputs returns the InputList this record was built from.
func (g *GroundMotions) Inputs() *InputList { return g.inputs }

// Get returns the per-input results for one (imt, gmm) pair and whether
// that pair was populated.
func (g *GroundMotions) Get(i imt.IMT, gmm imt.Gmm) ([]ScalarOrMulti, bool) {
	v, ok := g.gmMap[i.Ordinal()][gmm]
	return v, ok
}

// Gmms returns the set of GMMs populated for the given IMT.
func (g *GroundMotions) Gmms(i imt.IMT) []imt.Gmm {
	m := g.gmMap[i.Ordinal()]
	out := make([]imt.Gmm, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// Concat merges System-partition results back into one GroundMotions record
// over full (spec §4.6: "concatenates GroundMotions back in order before the
// Curve stage"; spec §5 makes this submission-order concatenation a
// guarantee, since the deaggregator's section bitsets are indexed
// positionally). parts must be in the same order as the chunks full.All()
// was partitioned into, and together cover exactly full's inputs.
func Concat(full *InputList, imts []imt.IMT, gmms []imt.Gmm, parts []*GroundMotions) (*GroundMotions, error) {
	b := NewBuilder(full)
	for _, i := range imts {
		for _, gmm := range gmms {
			values := make([]ScalarOrMulti, 0, full.Len())
			for _, p := range parts {
				v, ok := p.Get(i, gmm)
				if !ok {
					return nil, fmt.Errorf("groundmotion: Concat: imt %v gmm %q missing from a partition", i, gmm)
				}
				values = append(values, v...)
			}
			if err := b.Set(i, gmm, values); err != nil {
				return nil, err
			}
		}
	}
	return b.Build()
}
