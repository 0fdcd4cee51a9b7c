package deagg

import (
	"fmt"
	"math"
)

// Dataset is the immutable result of deaggregating one GMM's (or one
// consolidated) contribution at a target IML: a 3D rate grid plus
// per-bin moment accumulators, their 2D (r, m) projections, scalar
// binned/residual totals and rate-weighted means, and a contributor tree
// (spec §3's DeaggDataset entity).
type Dataset struct {
	Grid Grid

	RMEps                         [][][]float64
	RScaled, MScaled, EpsScaled    [][][]float64
	RMWeights                      [][]float64
	RMRScaled, RMMScaled, RMEpsScaled [][]float64

	Binned, Residual       float64
	RBar, MBar, EpsBar     float64

	Root *Contributor
}

// Builder accumulates rupture contributions into a grid before producing
// an immutable Dataset. Not thread-safe and confined to a single task, per
// the at-most-one builder contract shared by every builder type in this
// module.
type Builder struct {
	grid Grid

	rmeps, rScaled, mScaled, epsScaled [][][]float64

	binned, residual                            float64
	totalRScaled, totalMScaled, totalEpsScaled float64

	built bool
}

// NewBuilder allocates a zeroed grid of the given dimensions.
func NewBuilder(grid Grid) *Builder {
	nr, nm, ne := grid.NR(), grid.NM(), grid.NEps()
	return &Builder{
		grid:      grid,
		rmeps:     alloc3D(nr, nm, ne),
		rScaled:   alloc3D(nr, nm, ne),
		mScaled:   alloc3D(nr, nm, ne),
		epsScaled: alloc3D(nr, nm, ne),
	}
}

func alloc3D(nr, nm, ne int) [][][]float64 {
	out := make([][][]float64, nr)
	for i := range out {
		out[i] = make([][]float64, nm)
		for j := range out[i] {
			out[i][j] = make([]float64, ne)
		}
	}
	return out
}

func alloc2D(nr, nm int) [][]float64 {
	out := make([][]float64, nr)
	for i := range out {
		out[i] = make([]float64, nm)
	}
	return out
}

// AddRupture folds one rupture's contribution at the given distance,
// magnitude, and epsilon into the grid (or the residual accumulator, if
// out of the configured r/m range), per spec §4.8.1. Returns whether the
// rupture was skipped (out of range).
func (b *Builder) AddRupture(rRup, mw, eps, rate float64) bool {
	b.totalRScaled += rRup * rate
	b.totalMScaled += mw * rate
	b.totalEpsScaled += eps * rate

	ri := b.grid.RIndex(rRup)
	mi := b.grid.MIndex(mw)
	if ri == -1 || mi == -1 {
		b.residual += rate
		return true
	}
	ei := b.grid.EpsIndexClamped(eps)
	b.rmeps[ri][mi][ei] += rate
	b.rScaled[ri][mi][ei] += rRup * rate
	b.mScaled[ri][mi][ei] += mw * rate
	b.epsScaled[ri][mi][ei] += eps * rate
	b.binned += rate
	return false
}

// Build finalizes the dataset, computing the 2D projections and
// rate-weighted means. A second call returns an error rather than
// panicking, matching the module's builder-misuse convention.
func (b *Builder) Build(root *Contributor) (*Dataset, error) {
	if b.built {
		return nil, fmt.Errorf("deagg: Builder already built")
	}
	b.built = true

	nr, nm, ne := b.grid.NR(), b.grid.NM(), b.grid.NEps()
	rmWeights := alloc2D(nr, nm)
	rmr := alloc2D(nr, nm)
	rmm := alloc2D(nr, nm)
	rme := alloc2D(nr, nm)
	for i := 0; i < nr; i++ {
		for j := 0; j < nm; j++ {
			for k := 0; k < ne; k++ {
				rmWeights[i][j] += b.rmeps[i][j][k]
				rmr[i][j] += b.rScaled[i][j][k]
				rmm[i][j] += b.mScaled[i][j][k]
				rme[i][j] += b.epsScaled[i][j][k]
			}
		}
	}

	total := b.binned + b.residual
	rBar, mBar, epsBar := math.NaN(), math.NaN(), math.NaN()
	if total > 0 {
		rBar = b.totalRScaled / total
		mBar = b.totalMScaled / total
		epsBar = b.totalEpsScaled / total
	}

	return &Dataset{
		Grid:          b.grid,
		RMEps:         b.rmeps,
		RScaled:       b.rScaled,
		MScaled:       b.mScaled,
		EpsScaled:     b.epsScaled,
		RMWeights:     rmWeights,
		RMRScaled:     rmr,
		RMMScaled:     rmm,
		RMEpsScaled:   rme,
		Binned:        b.binned,
		Residual:      b.residual,
		RBar:          rBar,
		MBar:          mBar,
		EpsBar:        epsBar,
		Root:          root,
	}, nil
}

// combine sums several datasets sharing the same grid into one, each
// weighted by the corresponding entry in weights (or 1, if weights is
// nil). This is the shared mechanics behind both consolidation semantics
// of spec §4.8.4 — SOURCE_CONSOLIDATOR (summing across GMMs within a
// source-set) and SOURCE_SET_CONSOLIDATOR (summing weighted totals across
// source-sets, weight already folded in) — which differ only in which
// tree level they're called at, not in the arithmetic. The rate-weighted
// means are recovered exactly from each input dataset's own RBar/MBar/
// EpsBar and its binned+residual total, rather than needing a separate
// running total — a NaN mean (zero-contribution dataset) contributes
// nothing to the recovered total, matching "contributions never exceed
// their parents'."
func combine(datasets []*Dataset, weights []float64, root *Contributor) (*Dataset, error) {
	if len(datasets) == 0 {
		return nil, fmt.Errorf("deagg: combine requires at least one dataset")
	}
	grid := datasets[0].Grid
	nr, nm, ne := grid.NR(), grid.NM(), grid.NEps()
	rmeps := alloc3D(nr, nm, ne)
	rScaled := alloc3D(nr, nm, ne)
	mScaled := alloc3D(nr, nm, ne)
	epsScaled := alloc3D(nr, nm, ne)
	var binned, residual, totalRScaled, totalMScaled, totalEpsScaled float64

	for di, d := range datasets {
		if d.Grid != grid {
			return nil, fmt.Errorf("deagg: combine requires identical grids across all datasets")
		}
		w := 1.0
		if weights != nil {
			w = weights[di]
		}
		for i := 0; i < nr; i++ {
			for j := 0; j < nm; j++ {
				for k := 0; k < ne; k++ {
					rmeps[i][j][k] += d.RMEps[i][j][k] * w
					rScaled[i][j][k] += d.RScaled[i][j][k] * w
					mScaled[i][j][k] += d.MScaled[i][j][k] * w
					epsScaled[i][j][k] += d.EpsScaled[i][j][k] * w
				}
			}
		}
		binned += d.Binned * w
		residual += d.Residual * w
		total := d.Binned + d.Residual
		if total > 0 {
			totalRScaled += d.RBar * total * w
			totalMScaled += d.MBar * total * w
			totalEpsScaled += d.EpsBar * total * w
		}
	}

	rmWeights := alloc2D(nr, nm)
	rmr := alloc2D(nr, nm)
	rmm := alloc2D(nr, nm)
	rme := alloc2D(nr, nm)
	for i := 0; i < nr; i++ {
		for j := 0; j < nm; j++ {
			for k := 0; k < ne; k++ {
				rmWeights[i][j] += rmeps[i][j][k]
				rmr[i][j] += rScaled[i][j][k]
				rmm[i][j] += mScaled[i][j][k]
				rme[i][j] += epsScaled[i][j][k]
			}
		}
	}

	total := binned + residual
	rBar, mBar, epsBar := math.NaN(), math.NaN(), math.NaN()
	if total > 0 {
		rBar = totalRScaled / total
		mBar = totalMScaled / total
		epsBar = totalEpsScaled / total
	}

	return &Dataset{
		Grid:        grid,
		RMEps:       rmeps,
		RScaled:     rScaled,
		MScaled:     mScaled,
		EpsScaled:   epsScaled,
		RMWeights:   rmWeights,
		RMRScaled:   rmr,
		RMMScaled:   rmm,
		RMEpsScaled: rme,
		Binned:      binned,
		Residual:    residual,
		RBar:        rBar,
		MBar:        mBar,
		EpsBar:      epsBar,
		Root:        root,
	}, nil
}

// scale returns a copy of d with every rate and moment accumulator
// multiplied by factor. Used by the cluster rescaling step (spec §4.8.2),
// which forces a cluster's combined dataset to match the cluster rate read
// from its precomputed exceedance curve. The rate-weighted means are
// unaffected by a uniform rescale (both numerator and denominator scale
// together), so RBar/MBar/EpsBar are copied unchanged.
func (d *Dataset) scale(factor float64, root *Contributor) *Dataset {
	nr, nm, ne := d.Grid.NR(), d.Grid.NM(), d.Grid.NEps()
	rmeps := alloc3D(nr, nm, ne)
	rScaled := alloc3D(nr, nm, ne)
	mScaled := alloc3D(nr, nm, ne)
	epsScaled := alloc3D(nr, nm, ne)
	for i := 0; i < nr; i++ {
		for j := 0; j < nm; j++ {
			for k := 0; k < ne; k++ {
				rmeps[i][j][k] = d.RMEps[i][j][k] * factor
				rScaled[i][j][k] = d.RScaled[i][j][k] * factor
				mScaled[i][j][k] = d.MScaled[i][j][k] * factor
				epsScaled[i][j][k] = d.EpsScaled[i][j][k] * factor
			}
		}
	}
	rmWeights := alloc2D(nr, nm)
	rmr := alloc2D(nr, nm)
	rmm := alloc2D(nr, nm)
	rme := alloc2D(nr, nm)
	for i := 0; i < nr; i++ {
		for j := 0; j < nm; j++ {
			rmWeights[i][j] = d.RMWeights[i][j] * factor
			rmr[i][j] = d.RMRScaled[i][j] * factor
			rmm[i][j] = d.RMMScaled[i][j] * factor
			rme[i][j] = d.RMEpsScaled[i][j] * factor
		}
	}
	return &Dataset{
		Grid:        d.Grid,
		RMEps:       rmeps,
		RScaled:     rScaled,
		MScaled:     mScaled,
		EpsScaled:   epsScaled,
		RMWeights:   rmWeights,
		RMRScaled:   rmr,
		RMMScaled:   rmm,
		RMEpsScaled: rme,
		Binned:      d.Binned * factor,
		Residual:    d.Residual * factor,
		RBar:        d.RBar,
		MBar:        d.MBar,
		EpsBar:      d.EpsBar,
		Root:        root,
	}
}
