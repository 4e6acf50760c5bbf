package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/contour"
)

// WriteDXF writes one panel as minimal R12-style ASCII DXF: a single
// ENTITIES section holding one closed LWPOLYLINE per loop, terminated
// by ENDSEC and EOF. Coordinates are scaled and printed with fixed
// three-decimal precision; outer loops carry color 1 (red) and holes
// color 7, mirroring the SVG stroke convention. DXF keeps the y axis
// pointing up, so no flip is applied.
func WriteDXF(w io.Writer, loops []contour.Loop, opt Options) error {
	if len(loops) == 0 {
		return ErrNoLoops
	}
	s := opt.scale()

	var b strings.Builder
	group(&b, 0, "SECTION")
	group(&b, 2, "ENTITIES")
	for _, l := range loops {
		group(&b, 0, "LWPOLYLINE")
		group(&b, 8, "0")
		color := "1"
		if l.Hole {
			color = "7"
		}
		group(&b, 62, color)
		group(&b, 90, strconv.Itoa(len(l.Pts)))
		flag := "1"
		if l.Partial {
			flag = "0"
		}
		group(&b, 70, flag)
		for _, p := range l.Pts {
			group(&b, 10, fmt.Sprintf("%.3f", p.X*s))
			group(&b, 20, fmt.Sprintf("%.3f", p.Y*s))
		}
	}
	group(&b, 0, "ENDSEC")
	group(&b, 0, "EOF")

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("export: write dxf: %w", err)
	}
	return nil
}

// group emits one DXF code/value pair on two lines.
func group(b *strings.Builder, code int, value string) {
	fmt.Fprintf(b, "%d\n%s\n", code, value)
}
