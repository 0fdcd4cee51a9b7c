// Package rupture converts a rupture's geometry, relative to a site, into
// the fixed-schema HazardInput consumed by the rest of the pipeline. Source
// geometry itself (fault traces, rupture surfaces) is an external
// collaborator's concern per spec §1; this package only consumes whatever
// distance/geometry functions the caller supplies.
package rupture

import "github.com/jihwankim/seismic-hazard/pkg/groundmotion"

// Site carries the site-response parameters attached to every input built
// for that site.
type Site struct {
	Lat, Lon float64
	VS30     float64
	VsInf    bool
	Z1P0     float64
	Z2P5     float64
}

// Geometry is the minimal distance/shape contract a rupture must expose to
// be converted into a HazardInput. Concrete rupture surfaces (and how they
// compute these quantities) are an external collaborator's concern.
type Geometry interface {
	Mw() float64
	RJB(site Site) float64
	RRup(site Site) float64
	RX(site Site) float64
	Dip() float64
	Width() float64
	ZTop() float64
	Rake() float64
	Rate() float64
}

// ZHyp computes hypocentral depth from dip, width, and zTop, following the
// common "middle of the down-dip rupture width, projected to depth" rule:
// zHyp = zTop + 0.5*width*sin(dip). dip is expected in degrees.
func ZHyp(dipDegrees, width, zTop float64) float64 {
	return zTop + 0.5*width*sinDegrees(dipDegrees)
}

// Build converts one rupture's geometry, relative to site, into a
// HazardInput. There is no intrinsic failure mode: malformed geometry is
// the geometry implementation's problem, per spec §4.2.
func Build(g Geometry, site Site) groundmotion.HazardInput {
	dip := g.Dip()
	width := g.Width()
	zTop := g.ZTop()
	return groundmotion.HazardInput{
		Rate:  g.Rate(),
		Mw:    g.Mw(),
		RJB:   g.RJB(site),
		RRup:  g.RRup(site),
		RX:    g.RX(site),
		Dip:   dip,
		Width: width,
		ZTop:  zTop,
		ZHyp:  ZHyp(dip, width, zTop),
		Rake:  g.Rake(),
		VS30:  site.VS30,
		VsInf: site.VsInf,
		Z1P0:  site.Z1P0,
		Z2P5:  site.Z2P5,
	}
}

// BuildAll converts every rupture in ruptures into a HazardInput appended
// to a fresh InputList named after the owning source.
func BuildAll(sourceName string, ruptures []Geometry, site Site) (*groundmotion.InputList, error) {
	list := groundmotion.NewInputList(sourceName)
	for _, r := range ruptures {
		list.Add(Build(r, site))
	}
	return list.Build()
}
