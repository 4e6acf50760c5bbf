// Package kerf grows or shrinks closed polygons to compensate for the
// width of the cutting beam. Offsetting uses mitered edge normals with
// a bevel fallback at sharp corners, followed by a cleanup pass that
// restores simplicity when the offset polygon self-intersects.
package kerf

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/geom"
)

// miterLimit caps the miter length as a multiple of the offset
// distance; corners sharper than that get beveled.
const miterLimit = 4.0

// Offset displaces every edge of the closed polygon pts by d. Positive
// d moves edges away from the enclosed region (the polygon grows),
// negative d moves them inward, independent of winding direction.
//
// The result is simple: self-intersections introduced by inward offsets
// are resolved by discarding the smaller enclosed part. ok is false
// when the polygon collapses entirely, which callers should report and
// drop.
func Offset(pts []r2.Vec, d float64) (out []r2.Vec, ok bool) {
	pts = geom.Dissolve(pts, geom.Eps)
	if len(pts) < 3 {
		return nil, false
	}
	if d == 0 {
		return pts, true
	}

	area := geom.SignedArea(pts)
	// For counter-clockwise polygons the enclosed region lies left of
	// travel, so outward is the right-hand perpendicular.
	sign := 1.0
	if area < 0 {
		sign = -1.0
	}

	n := len(pts)
	out = make([]r2.Vec, 0, n+4)
	for i := 0; i < n; i++ {
		prev := pts[(i-1+n)%n]
		cur := pts[i]
		next := pts[(i+1)%n]

		n1 := outwardNormal(prev, cur, sign)
		n2 := outwardNormal(cur, next, sign)

		m := r2.Add(n1, n2)
		ml := r2.Norm(m)
		if ml < 1e-12 {
			// Edge direction reverses; no meaningful miter.
			out = append(out, offsetPoint(cur, n1, d), offsetPoint(cur, n2, d))
			continue
		}
		m = r2.Scale(1/ml, m)
		denom := r2.Dot(m, n1)
		if denom < 1/miterLimit {
			out = append(out, offsetPoint(cur, n1, d), offsetPoint(cur, n2, d))
			continue
		}
		out = append(out, offsetPoint(cur, m, d/denom))
	}

	out = simplify(out)
	out = geom.Dissolve(out, geom.Eps)
	if len(out) < 3 {
		return nil, false
	}
	newArea := geom.SignedArea(out)
	if newArea*area <= 0 || math.Abs(newArea) < geom.Eps {
		return nil, false
	}
	return out, true
}

// outwardNormal returns the unit normal of edge a->b pointing away from
// the enclosed region. sign is +1 for counter-clockwise polygons.
func outwardNormal(a, b r2.Vec, sign float64) r2.Vec {
	d := r2.Sub(b, a)
	l := r2.Norm(d)
	if l < 1e-12 {
		return r2.Vec{}
	}
	return r2.Scale(sign/l, r2.Vec{X: d.Y, Y: -d.X})
}

func offsetPoint(p, dir r2.Vec, d float64) r2.Vec {
	return r2.Add(p, r2.Scale(d, dir))
}

// simplify removes self-intersection ears: whenever two non-adjacent
// edges cross, the smaller of the two sub-polygons they bound is cut
// away. Repeats until the polygon is simple.
func simplify(pts []r2.Vec) []r2.Vec {
	for len(pts) > 3 {
		x, i, j, found := firstCrossing(pts)
		if !found {
			return pts
		}
		// Split into pts[i+1..j]+x and the complement; keep the part
		// with the larger area.
		inner := append([]r2.Vec{}, pts[i+1:j+1]...)
		inner = append(inner, x)
		outer := append([]r2.Vec{}, pts[:i+1]...)
		outer = append(outer, x)
		outer = append(outer, pts[j+1:]...)
		if math.Abs(geom.SignedArea(inner)) > math.Abs(geom.SignedArea(outer)) {
			pts = inner
		} else {
			pts = outer
		}
		pts = geom.Dedup(pts, geom.Eps)
	}
	return pts
}

func firstCrossing(pts []r2.Vec) (x r2.Vec, i, j int, found bool) {
	n := len(pts)
	for i = 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		for j = i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // adjacent through the wrap-around
			}
			c, d := pts[j], pts[(j+1)%n]
			if p, ok := geom.SegmentIntersection(a, b, c, d); ok {
				return p, i, j, true
			}
		}
	}
	return r2.Vec{}, 0, 0, false
}
