// Package tabs cuts interconnect notches into panel outlines so that
// perpendicular panels of the same material thickness lock together.
// Notches are square, sized by the material thickness, and alternate
// between tab-out and slot-in along the edge; two mating edges cut with
// opposite phases produce complementary joints.
package tabs

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/geom"
)

// Phase selects which way the first notch on an edge points. Mating
// panels must be cut with opposite phases.
type Phase int

const (
	Male   Phase = iota // first notch protrudes outward
	Female              // first notch cuts inward
)

func (p Phase) String() string {
	switch p {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ParsePhase converts "male" or "female" into a Phase.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "male", "m":
		return Male, nil
	case "female", "f":
		return Female, nil
	default:
		return Male, fmt.Errorf("tabs: unknown phase %q", s)
	}
}

// Apply cuts count notches of width and depth size into edge
// (edge -> edge+1) of the closed polygon pts, alternating direction
// starting with phase. It returns the new outline and the number of
// notches actually cut, which is lower than count when the edge cannot
// fit them all and zero when not even one fits.
//
// The edge's two end vertices are never moved and the outline stays a
// single closed polygon. Each outward notch adds size*size of area,
// each inward notch removes the same amount.
func Apply(pts []r2.Vec, edge, count int, size float64, phase Phase) ([]r2.Vec, int, error) {
	n := len(pts)
	if n < 3 {
		return nil, 0, fmt.Errorf("tabs: polygon has %d points", n)
	}
	if edge < 0 || edge >= n {
		return nil, 0, fmt.Errorf("tabs: edge %d out of range [0,%d)", edge, n)
	}
	if count < 1 {
		return nil, 0, fmt.Errorf("tabs: notch count %d", count)
	}
	if size <= 0 {
		return nil, 0, fmt.Errorf("tabs: notch size %v", size)
	}

	a := pts[edge]
	b := pts[(edge+1)%n]
	length := r2.Norm(r2.Sub(b, a))
	applied := count
	if length < float64(applied)*size {
		applied = int(length / size)
	}
	if applied < 1 {
		return append([]r2.Vec(nil), pts...), 0, nil
	}

	u := r2.Scale(1/length, r2.Sub(b, a))
	// Outward for this edge, by winding: counter-clockwise polygons
	// keep their interior on the left of travel.
	w := r2.Vec{X: u.Y, Y: -u.X}
	if geom.SignedArea(pts) < 0 {
		w = r2.Scale(-1, w)
	}

	out := make([]r2.Vec, 0, n+applied*4)
	out = append(out, pts[:edge+1]...)
	pitch := length / float64(applied)
	for k := 0; k < applied; k++ {
		center := (float64(k) + 0.5) * pitch
		s0 := r2.Add(a, r2.Scale(center-size/2, u))
		s1 := r2.Add(a, r2.Scale(center+size/2, u))
		dir := w
		if outward := (k%2 == 0) == (phase == Male); !outward {
			dir = r2.Scale(-1, w)
		}
		out = append(out,
			s0,
			r2.Add(s0, r2.Scale(size, dir)),
			r2.Add(s1, r2.Scale(size, dir)),
			s1,
		)
	}
	out = append(out, pts[edge+1:]...)
	return geom.Dedup(out, geom.Eps), applied, nil
}

// LongestEdge returns the index of the polygon's longest edge.
func LongestEdge(pts []r2.Vec) int {
	best, bestLen := 0, -1.0
	for i := range pts {
		l := r2.Norm(r2.Sub(pts[(i+1)%len(pts)], pts[i]))
		if l > bestLen {
			best, bestLen = i, l
		}
	}
	return best
}
