// Package export serializes finished panels to cut-ready vector files:
// SVG for preview and laser software, DXF for CAD toolchains. Loop
// order never affects geometry, only draw order.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo/float"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/contour"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/geom"
)

// ErrNoLoops is returned when a panel has nothing to export. Nothing is
// written to the output in that case.
var ErrNoLoops = errors.New("export: no loops to export")

// Options control serialization. The zero value is usable: scale 1 and
// a 0.1 mm stroke.
type Options struct {
	// StrokeWidth is the SVG stroke width in millimetres.
	StrokeWidth float64
	// Scale multiplies every coordinate on the way out.
	Scale float64
}

func (o Options) strokeWidth() float64 {
	if o.StrokeWidth <= 0 {
		return 0.1
	}
	return o.StrokeWidth
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

// WriteSVG writes one panel as an SVG document: one path per loop,
// absolute move/line commands closed with Z, outer loops stroked red
// and holes black, no fill. The viewBox is the union bounding box of
// all loops and the y axis is flipped into screen convention.
func WriteSVG(w io.Writer, loops []contour.Loop, opt Options) error {
	if len(loops) == 0 {
		return ErrNoLoops
	}
	s := opt.scale()
	box := unionBox(loops)

	width := (box.Max.X - box.Min.X) * s
	height := (box.Max.Y - box.Min.Y) * s
	flip := box.Min.Y + box.Max.Y

	canvas := svg.New(w)
	canvas.Decimals = 3
	canvas.StartviewUnit(width, height, "mm", box.Min.X*s, box.Min.Y*s, width, height)
	for _, l := range loops {
		canvas.Path(pathData(l, s, flip), loopStyle(l, opt))
	}
	canvas.End()
	return nil
}

func loopStyle(l contour.Loop, opt Options) string {
	color := "red"
	if l.Hole {
		color = "black"
	}
	return fmt.Sprintf(`fill="none" stroke="%s" stroke-width="%.3f"`, color, opt.strokeWidth())
}

// pathData renders a loop as absolute move/line commands. Closed loops
// end with Z; best-effort open chains stay open so the gap is visible
// in the output.
func pathData(l contour.Loop, scale, flip float64) string {
	var b strings.Builder
	for i, p := range l.Pts {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&b, "%s %.3f %.3f ", cmd, p.X*scale, (flip-p.Y)*scale)
	}
	if l.Partial {
		return strings.TrimSpace(b.String())
	}
	b.WriteString("Z")
	return b.String()
}

func unionBox(loops []contour.Loop) r2.Box {
	var box r2.Box
	for _, l := range loops {
		box = geom.UnionBounds(box, geom.Bounds(l.Pts))
	}
	return box
}
