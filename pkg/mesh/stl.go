package mesh

import (
	"fmt"

	"github.com/fogleman/fauxgl"
)

// LoadSTL reads a binary or ASCII STL file into a Mesh. Format
// detection is handled by fauxgl.
func LoadSTL(path string) (*Mesh, error) {
	fm, err := fauxgl.LoadSTL(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: load %s: %w", path, err)
	}
	buf := make([]float64, 0, len(fm.Triangles)*9)
	for _, t := range fm.Triangles {
		for _, v := range []fauxgl.Vector{t.V1.Position, t.V2.Position, t.V3.Position} {
			buf = append(buf, v.X, v.Y, v.Z)
		}
	}
	m := &Mesh{buf: buf}
	m.computeBounds()
	return m, nil
}
