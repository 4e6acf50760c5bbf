package contour

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/geom"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/mesh"
)

// Intersect computes the raw, unordered segments where the plane
// axis = value crosses the mesh. It is a pure function: no state, no
// warnings; degenerate crossings are dropped.
//
// A triangle contributes a segment only when exactly two of its edges
// cross the plane. Triangles entirely on one side, coplanar with the
// plane, or touching it at a single point contribute nothing.
func Intersect(m *mesh.Mesh, axis Axis, value float64) []Segment {
	var segs []Segment
	for i := 0; i < m.TriangleCount(); i++ {
		if s, ok := intersectTriangle(m.Triangle(i), axis, value); ok {
			segs = append(segs, s)
		}
	}
	return segs
}

// intersectEdge returns the point where edge ab crosses the plane.
// Endpoints within geom.Eps of the plane count as on-plane; edges whose
// axis extent is below geom.Eps are rejected as degenerate.
func intersectEdge(axis Axis, value float64, a, b r3.Vec) (r3.Vec, bool) {
	da := axis.Coord(a) - value
	db := axis.Coord(b) - value
	if math.Abs(db-da) < geom.Eps {
		return r3.Vec{}, false
	}
	if (da > geom.Eps && db > geom.Eps) || (da < -geom.Eps && db < -geom.Eps) {
		return r3.Vec{}, false
	}
	t := -da / (db - da)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a))), true
}

func intersectTriangle(tri mesh.Triangle, axis Axis, value float64) (Segment, bool) {
	var hits [3]r3.Vec
	n := 0
	for i := 0; i < 3; i++ {
		if p, ok := intersectEdge(axis, value, tri[i], tri[(i+1)%3]); ok {
			hits[n] = p
			n++
		}
	}
	if n != 2 {
		return Segment{}, false
	}
	p1, p2 := hits[0], hits[1]
	if r3.Norm(r3.Sub(p2, p1)) < geom.Eps {
		return Segment{}, false
	}

	// Orient the segment so the solid interior lies on its left: the
	// in-plane component of the facet normal must point to the right
	// of travel.
	a := axis.Project(p1)
	b := axis.Project(p2)
	left := r2.Vec{X: a.Y - b.Y, Y: b.X - a.X}
	fn := r3.Cross(r3.Sub(tri[1], tri[0]), r3.Sub(tri[2], tri[0]))
	if r2.Dot(left, axis.Project(fn)) < 0 {
		return Segment{A: p1, B: p2}, true
	}
	return Segment{A: p2, B: p1}, true
}
