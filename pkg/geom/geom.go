// Package geom provides the 2D polygon math shared by the slicing
// pipeline: grid snapping, signed areas, containment tests and
// bounding boxes over gonum r2 vectors.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Eps is the default absolute tolerance in model units. Coordinates
// closer than this are treated as coincident, and points are snapped
// to a grid of this pitch before loop assembly.
const Eps = 1e-5

// Snap rounds both coordinates of p to the nearest multiple of tol.
func Snap(p r2.Vec, tol float64) r2.Vec {
	return r2.Vec{
		X: math.Round(p.X/tol) * tol,
		Y: math.Round(p.Y/tol) * tol,
	}
}

// Eq reports whether a and b coincide within tol in both coordinates.
func Eq(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// SignedArea computes the shoelace area of a closed polygon. The last
// point is implicitly connected back to the first. Positive area means
// counter-clockwise winding.
func SignedArea(pts []r2.Vec) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// PointInPolygon reports whether p lies inside poly using the even-odd
// crossing rule. Points exactly on an edge may land on either side.
func PointInPolygon(p r2.Vec, poly []r2.Vec) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Bounds returns the axis-aligned bounding box of pts. The zero box is
// returned for an empty slice.
func Bounds(pts []r2.Vec) r2.Box {
	if len(pts) == 0 {
		return r2.Box{}
	}
	b := r2.Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// UnionBounds merges two bounding boxes. An empty box (Min == Max ==
// zero) on either side yields the other box unchanged.
func UnionBounds(a, b r2.Box) r2.Box {
	if a == (r2.Box{}) {
		return b
	}
	if b == (r2.Box{}) {
		return a
	}
	return r2.Box{
		Min: r2.Vec{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y)},
		Max: r2.Vec{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y)},
	}
}

// Dedup removes consecutive points that coincide within tol, including
// the wrap-around pair between the last and first point.
func Dedup(pts []r2.Vec, tol float64) []r2.Vec {
	if len(pts) == 0 {
		return pts
	}
	out := pts[:0:0]
	for _, p := range pts {
		if len(out) > 0 && Eq(out[len(out)-1], p, tol) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && Eq(out[0], out[len(out)-1], tol) {
		out = out[:len(out)-1]
	}
	return out
}

// Dissolve removes points that are collinear with their neighbours
// within tol, after deduplication. Collapsing a polygon below three
// points returns whatever remains; callers decide whether that is an
// error.
func Dissolve(pts []r2.Vec, tol float64) []r2.Vec {
	pts = Dedup(pts, tol)
	if len(pts) < 3 {
		return pts
	}
	out := make([]r2.Vec, 0, len(pts))
	n := len(pts)
	for i := 0; i < n; i++ {
		prev := pts[(i-1+n)%n]
		cur := pts[i]
		next := pts[(i+1)%n]
		if !Collinear(prev, cur, next, tol) {
			out = append(out, cur)
		}
	}
	if len(out) < 3 {
		return pts
	}
	return out
}

// Collinear reports whether b lies on the line through a and c within
// tol, measured as the triangle area relative to the span.
func Collinear(a, b, c r2.Vec, tol float64) bool {
	cross := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
	span := math.Max(r2.Norm(r2.Sub(c, a)), 1)
	return math.Abs(cross)/span <= tol
}

// SegmentIntersection returns the proper crossing point of open
// segments ab and cd, excluding intersections at shared endpoints.
func SegmentIntersection(a, b, c, d r2.Vec) (r2.Vec, bool) {
	r := r2.Sub(b, a)
	s := r2.Sub(d, c)
	denom := r2.Cross(r, s)
	if math.Abs(denom) < 1e-12 {
		return r2.Vec{}, false
	}
	ac := r2.Sub(c, a)
	t := r2.Cross(ac, s) / denom
	u := r2.Cross(ac, r) / denom
	const e = 1e-9
	if t <= e || t >= 1-e || u <= e || u >= 1-e {
		return r2.Vec{}, false
	}
	return r2.Add(a, r2.Scale(t, r)), true
}
