package contour

import (
	"math"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/geom"
)

// areaEps is the smallest loop area considered meaningful. Loops below
// it carry no cuttable geometry.
const areaEps = 1e-9

// Classify labels loops as outers or holes by winding sign and binds
// every hole to the smallest outer loop containing it. Input order is
// preserved; zero-area loops are dropped with a warning. Partial chains
// have no meaningful winding and pass through unclassified.
//
// The convention follows the shoelace sign: counter-clockwise loops
// (positive area) bound material, clockwise loops bound holes. Hole
// containment uses an even-odd point test, which matches how exported
// paths fill in downstream editors.
func Classify(loops []Loop) ([]Loop, []Warning) {
	var warnings []Warning
	out := make([]Loop, 0, len(loops))
	for _, l := range loops {
		if !l.Partial && math.Abs(l.Area()) < areaEps {
			warnings = append(warnings, warnf(WarnDegenerateGeometry,
				"discarded zero-area loop with %d points", len(l.Pts)))
			continue
		}
		out = append(out, l)
	}

	for i := range out {
		if out[i].Partial || out[i].Area() > 0 {
			out[i].Hole = false
			out[i].Parent = -1
		}
	}
	for i := range out {
		if out[i].Partial || out[i].Area() > 0 {
			continue
		}
		out[i].Hole = true
		out[i].Parent = owningOuter(out, i)
		if out[i].Parent < 0 {
			warnings = append(warnings, warnf(WarnAssemblyInconsistency,
				"hole loop with %d points is not contained by any outer loop", len(out[i].Pts)))
		}
	}
	return out, warnings
}

// owningOuter returns the index of the smallest-area outer loop
// containing hole i, or -1.
func owningOuter(loops []Loop, i int) int {
	best := -1
	bestArea := math.Inf(1)
	p := loops[i].Pts[0]
	for j := range loops {
		if j == i || loops[j].Partial || loops[j].Area() <= 0 {
			continue
		}
		if !geom.PointInPolygon(p, loops[j].Pts) {
			continue
		}
		if a := loops[j].Area(); a < bestArea {
			bestArea = a
			best = j
		}
	}
	return best
}
