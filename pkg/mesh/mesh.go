// Package mesh defines the immutable triangle-soup mesh consumed by the
// slicing pipeline, along with STL file ingest. No shared topology is
// required; triangles are independent and vertex order encodes facet
// orientation.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrEmptyMesh reports a mesh with no triangles where geometry is
// required.
var ErrEmptyMesh = errors.New("mesh: empty mesh")

// Triangle is one mesh facet. Vertex order is counter-clockwise when
// viewed from outside the solid.
type Triangle [3]r3.Vec

// Mesh is a read-only triangle soup backed by a flat coordinate buffer,
// nine float64 values per triangle (x y z for each vertex). The
// bounding box is computed once at construction.
type Mesh struct {
	buf      []float64
	min, max r3.Vec
}

// FromBuffer builds a Mesh from a flat vertex buffer. The buffer length
// must be a multiple of nine. The buffer is copied; callers keep
// ownership of theirs.
func FromBuffer(buf []float64) (*Mesh, error) {
	if len(buf)%9 != 0 {
		return nil, fmt.Errorf("mesh: buffer length %d is not a multiple of 9", len(buf))
	}
	m := &Mesh{buf: append([]float64(nil), buf...)}
	m.computeBounds()
	return m, nil
}

// FromTriangles builds a Mesh from explicit triangles.
func FromTriangles(tris []Triangle) *Mesh {
	buf := make([]float64, 0, len(tris)*9)
	for _, t := range tris {
		for _, v := range t {
			buf = append(buf, v.X, v.Y, v.Z)
		}
	}
	m := &Mesh{buf: buf}
	m.computeBounds()
	return m
}

func (m *Mesh) computeBounds() {
	if len(m.buf) == 0 {
		return
	}
	m.min = r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	m.max = r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := 0; i < len(m.buf); i += 3 {
		m.min.X = math.Min(m.min.X, m.buf[i])
		m.min.Y = math.Min(m.min.Y, m.buf[i+1])
		m.min.Z = math.Min(m.min.Z, m.buf[i+2])
		m.max.X = math.Max(m.max.X, m.buf[i])
		m.max.Y = math.Max(m.max.Y, m.buf[i+1])
		m.max.Z = math.Max(m.max.Z, m.buf[i+2])
	}
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.buf) / 9
}

// Triangle returns triangle i. It panics if i is out of range, matching
// slice indexing semantics.
func (m *Mesh) Triangle(i int) Triangle {
	o := i * 9
	return Triangle{
		{X: m.buf[o], Y: m.buf[o+1], Z: m.buf[o+2]},
		{X: m.buf[o+3], Y: m.buf[o+4], Z: m.buf[o+5]},
		{X: m.buf[o+6], Y: m.buf[o+7], Z: m.buf[o+8]},
	}
}

// Bounds returns the axis-aligned bounding box. Both corners are zero
// for an empty mesh.
func (m *Mesh) Bounds() (min, max r3.Vec) {
	return m.min, m.max
}

// IsEmpty reports whether the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return len(m.buf) == 0
}

// Scaled returns a new mesh with every coordinate multiplied by the
// matching component of s. The receiver is unchanged.
func (m *Mesh) Scaled(s r3.Vec) *Mesh {
	buf := make([]float64, len(m.buf))
	for i := 0; i < len(m.buf); i += 3 {
		buf[i] = m.buf[i] * s.X
		buf[i+1] = m.buf[i+1] * s.Y
		buf[i+2] = m.buf[i+2] * s.Z
	}
	out := &Mesh{buf: buf}
	out.computeBounds()
	return out
}
