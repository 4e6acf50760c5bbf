// Package contour turns a triangle mesh and a slicing plane into
// classified 2D loops. It covers the three stages between mesh and
// kerf compensation: plane intersection, segment-to-loop assembly and
// outer/hole classification.
package contour

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/geom"
)

// Axis selects the slicing direction.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Valid reports whether a names one of the three axes.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// ParseAxis converts "x", "y" or "z" (any case) into an Axis.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	default:
		return AxisX, fmt.Errorf("contour: unknown axis %q", s)
	}
}

// Coord returns the component of p along the axis.
func (a Axis) Coord(p r3.Vec) float64 {
	switch a {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	default:
		return p.Z
	}
}

// Project maps a 3D point into the slicing plane, dropping the axis
// coordinate. The mapping is cyclic (x->yz, y->zx, z->xy) so that
// winding orientation is preserved for every axis.
func (a Axis) Project(p r3.Vec) r2.Vec {
	switch a {
	case AxisX:
		return r2.Vec{X: p.Y, Y: p.Z}
	case AxisY:
		return r2.Vec{X: p.Z, Y: p.X}
	default:
		return r2.Vec{X: p.X, Y: p.Y}
	}
}

// Segment is one triangle's intersection with a slicing plane. A is
// ordered so that walking A to B keeps the solid interior on the left,
// which makes assembled outer loops wind counter-clockwise.
type Segment struct {
	A, B r3.Vec
}

// Loop is a closed polygon in plane coordinates. The last point
// connects implicitly back to the first.
type Loop struct {
	Pts []r2.Vec

	// Hole marks clockwise loops; Parent is the index of the owning
	// outer loop within the same slice, or -1.
	Hole   bool
	Parent int

	// Partial marks a best-effort open chain recovered from an
	// inconsistent contour graph.
	Partial bool
}

// Area returns the loop's shoelace area. Positive means
// counter-clockwise.
func (l Loop) Area() float64 {
	return geom.SignedArea(l.Pts)
}
