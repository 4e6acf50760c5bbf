package contour

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/mesh"
)

// cuboidMesh builds a closed 12-triangle cuboid spanning [0,x]x[0,y]x[0,z]
// with outward-facing winding on every facet.
func cuboidMesh(x, y, z float64) *mesh.Mesh {
	a := r3.Vec{X: 0, Y: 0, Z: 0}
	b := r3.Vec{X: x, Y: 0, Z: 0}
	c := r3.Vec{X: x, Y: y, Z: 0}
	d := r3.Vec{X: 0, Y: y, Z: 0}
	e := r3.Vec{X: 0, Y: 0, Z: z}
	f := r3.Vec{X: x, Y: 0, Z: z}
	g := r3.Vec{X: x, Y: y, Z: z}
	h := r3.Vec{X: 0, Y: y, Z: z}

	return mesh.FromTriangles([]mesh.Triangle{
		{a, d, c}, {a, c, b}, // bottom, -z
		{e, f, g}, {e, g, h}, // top, +z
		{a, b, f}, {a, f, e}, // front, -y
		{c, d, h}, {c, h, g}, // back, +y
		{a, e, h}, {a, h, d}, // left, -x
		{b, c, g}, {b, g, f}, // right, +x
	})
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in      string
		want    Axis
		wantErr bool
	}{
		{"x", AxisX, false},
		{"Y", AxisY, false},
		{" z ", AxisZ, false},
		{"w", AxisX, true},
		{"", AxisX, true},
	}
	for _, tt := range tests {
		got, err := ParseAxis(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAxis(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseAxis(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAxisProjectionIsRightHanded(t *testing.T) {
	// For each axis, projecting the two other basis vectors in cyclic
	// order must give the plane's +x and +y directions.
	tests := []struct {
		axis   Axis
		px, py r3.Vec
	}{
		{AxisZ, r3.Vec{X: 1}, r3.Vec{Y: 1}},
		{AxisX, r3.Vec{Y: 1}, r3.Vec{Z: 1}},
		{AxisY, r3.Vec{Z: 1}, r3.Vec{X: 1}},
	}
	for _, tt := range tests {
		if got := tt.axis.Project(tt.px); got != (r2.Vec{X: 1}) {
			t.Errorf("axis %v: Project(%v) = %v, want {1 0}", tt.axis, tt.px, got)
		}
		if got := tt.axis.Project(tt.py); got != (r2.Vec{Y: 1}) {
			t.Errorf("axis %v: Project(%v) = %v, want {0 1}", tt.axis, tt.py, got)
		}
	}
}

func TestAxisCoord(t *testing.T) {
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	if AxisX.Coord(p) != 1 || AxisY.Coord(p) != 2 || AxisZ.Coord(p) != 3 {
		t.Errorf("Coord mismatch for %v", p)
	}
}

func TestLoopArea(t *testing.T) {
	l := Loop{Pts: []r2.Vec{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}}
	if a := l.Area(); math.Abs(a-16) > 1e-9 {
		t.Errorf("Area = %v, want 16", a)
	}
}
