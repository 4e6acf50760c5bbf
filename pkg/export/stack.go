package export

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo/float"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/contour"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/geom"
)

// stackGap is the air gap between stacked panels as a fraction of the
// tallest panel.
const stackGap = 0.1

// WriteStack writes every panel of a run into one SVG preview, each
// panel in its own group. Panels are laid out in a column with the
// first panel at the bottom, so the page reads like the assembled
// stack. Panels with no loops occupy an empty row.
func WriteStack(w io.Writer, panels [][]contour.Loop, opt Options) error {
	var box r2.Box
	total := 0
	for _, loops := range panels {
		total += len(loops)
		for _, l := range loops {
			box = geom.UnionBounds(box, geom.Bounds(l.Pts))
		}
	}
	if total == 0 {
		return ErrNoLoops
	}

	s := opt.scale()
	width := (box.Max.X - box.Min.X) * s
	height := (box.Max.Y - box.Min.Y) * s
	flip := box.Min.Y + box.Max.Y
	pitch := height * (1 + stackGap)
	totalHeight := pitch*float64(len(panels)-1) + height

	canvas := svg.New(w)
	canvas.Decimals = 3
	canvas.StartviewUnit(width, totalHeight, "mm", 0, 0, width, totalHeight)
	for i, loops := range panels {
		row := float64(len(panels)-1-i) * pitch
		canvas.Group(fmt.Sprintf(`transform="translate(%.3f,%.3f)"`,
			-box.Min.X*s, row-box.Min.Y*s))
		for _, l := range loops {
			canvas.Path(pathData(l, s, flip), loopStyle(l, opt))
		}
		canvas.Gend()
	}
	canvas.End()
	return nil
}
