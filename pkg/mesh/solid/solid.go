// Package solid generates demo meshes from signed distance fields using
// the github.com/deadsy/sdfx CAD library. It gives the CLI and tests a
// mesh source that needs no input files.
package solid

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/mesh"
)

// DefaultCells is the marching cubes resolution used when callers pass
// a non-positive cell count.
const DefaultCells = 96

// Box returns a box mesh with its minimum corner at the origin, so the
// slicing range starts at zero along every axis.
func Box(x, y, z float64, cells int) (*mesh.Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("solid: box: %w", err)
	}
	// sdf.Box3D centers the box at the origin; shift to min-corner.
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return Tessellate(sdf.Transform3D(s, m), cells), nil
}

// Cylinder returns a z-aligned cylinder mesh centered on the z axis
// with its base at z = 0.
func Cylinder(height, radius float64, cells int) (*mesh.Mesh, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("solid: cylinder: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: height / 2})
	return Tessellate(sdf.Transform3D(s, m), cells), nil
}

// Sphere returns a sphere mesh centered at the origin.
func Sphere(radius float64, cells int) (*mesh.Mesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("solid: sphere: %w", err)
	}
	return Tessellate(s, cells), nil
}

// Tessellate converts any SDF3 into a triangle mesh using uniform
// marching cubes. Facet orientation follows the sdfx convention of
// outward-facing normals.
func Tessellate(s sdf.SDF3, cells int) *mesh.Mesh {
	if cells <= 0 {
		cells = DefaultCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	tris := make([]mesh.Triangle, 0, len(triangles))
	for _, tri := range triangles {
		tris = append(tris, mesh.Triangle{
			{X: tri[0].X, Y: tri[0].Y, Z: tri[0].Z},
			{X: tri[1].X, Y: tri[1].Y, Z: tri[1].Z},
			{X: tri[2].X, Y: tri[2].Y, Z: tri[2].Z},
		})
	}
	return mesh.FromTriangles(tris)
}
