package deagg

import "fmt"

// SourceConsolidator sums a source-set's per-GMM datasets into a single
// per-source-set total (spec §4.8.4, "used intra-source-set across GMMs").
// Per-GMM datasets already carry sourceSetWeight and gmmWeight folded into
// their rates (applied per-rupture in PerSource), so this is an
// unweighted sum. root must be the shared contributor tree PerSourceSet,
// Cluster, or System already built across that source-set's sources (the
// same root is attached to every per-GMM dataset returned alongside it),
// since its accumulators already total correctly across sources — summing
// them again here from datasets would double-count across GMMs.
func SourceConsolidator(root *Contributor, datasets []*Dataset) (*Dataset, error) {
	dataset, err := combine(datasets, nil, root)
	if err != nil {
		return nil, fmt.Errorf("deagg: SourceConsolidator %q: %w", root.Name, err)
	}
	return dataset, nil
}

// SourceSetConsolidator sums weighted per-source-set totals into a grand
// total across source-sets (spec §4.8.4). Weight is already folded into
// each source-set's dataset (via SourceConsolidator's inputs), so this is
// also an unweighted sum; it exists as a distinct entry point because it
// operates one tree level up, merging once-each SourceSetKind contributors
// under a single grand-total root.
func SourceSetConsolidator(rootName string, datasets []*Dataset, children []*Contributor) (*Dataset, error) {
	root := &Contributor{Kind: SourceSetKind, Name: rootName, Children: children}
	for _, c := range children {
		root.RScaled += c.RScaled
		root.MScaled += c.MScaled
		root.EpsScaled += c.EpsScaled
		root.Binned += c.Binned
		root.Residual += c.Residual
	}
	dataset, err := combine(datasets, nil, root)
	if err != nil {
		return nil, fmt.Errorf("deagg: SourceSetConsolidator %q: %w", rootName, err)
	}
	return dataset, nil
}
