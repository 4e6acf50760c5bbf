package slicer

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/contour"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/geom"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/kerf"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/mesh"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/tabs"
)

// Panel is one slice after kerf compensation and interconnect cutting,
// ready for export. Index is the plane's position in the run sequence
// and Value the plane offset along the slicing axis in scaled model
// units, kept so the host can re-project panels back into 3D.
type Panel struct {
	Index int
	Value float64
	Loops []contour.Loop
}

// Result is the complete output of one run: the ordered panels, the
// configuration that produced them and every warning collected along
// the way. Planes counts all slicing planes including those whose slice
// came out empty.
type Result struct {
	Config   Config
	Planes   int
	Panels   []Panel
	Warnings []contour.Warning
}

// ProgressFunc receives completed and total slice counts as a run
// advances. It is called from the collecting goroutine only, in
// completion order, so done increases by exactly one per call.
type ProgressFunc func(done, total int)

// Run executes one slicing run to completion. Slices are computed in
// parallel, one worker per CPU, since each plane depends only on its
// own segments; panels come back ordered by plane index regardless.
// Planes whose slice has no loops produce no panel.
//
// The returned error is non-nil only for invalid input or context
// cancellation. Geometric findings never fail the run; they accumulate
// as warnings on the Result, tagged with their slice index.
func Run(ctx context.Context, m *mesh.Mesh, cfg Config, progress ProgressFunc) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, mesh.ErrEmptyMesh)
	}

	scaled := m.Scaled(cfg.Scale)
	lo, hi := scaled.Bounds()
	planes := cfg.PlanePositions(cfg.Axis.Coord(lo), cfg.Axis.Coord(hi))

	type sliceOut struct {
		index    int
		panel    *Panel
		warnings []contour.Warning
	}

	jobs := make(chan int)
	outs := make(chan sliceOut, len(planes))

	workers := runtime.NumCPU()
	if workers > len(planes) {
		workers = len(planes)
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				panel, warns := slicePlane(scaled, cfg, i, planes[i])
				outs <- sliceOut{index: i, panel: panel, warnings: warns}
			}
		}()
	}
	go func() {
		defer close(jobs)
		for i := range planes {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(outs)
	}()

	byIndex := make([]*Panel, len(planes))
	warnings := make([][]contour.Warning, len(planes))
	done := 0
	for out := range outs {
		byIndex[out.index] = out.panel
		warnings[out.index] = out.warnings
		done++
		if progress != nil {
			progress(done, len(planes))
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Config: cfg, Planes: len(planes)}
	for i, p := range byIndex {
		if p != nil {
			res.Panels = append(res.Panels, *p)
		}
		res.Warnings = append(res.Warnings, warnings[i]...)
	}
	return res, nil
}

// slicePlane computes one panel: intersection, loop assembly,
// classification, kerf offset, interconnects. A nil panel means the
// plane misses the mesh or every loop collapsed.
func slicePlane(m *mesh.Mesh, cfg Config, index int, value float64) (*Panel, []contour.Warning) {
	segs := contour.Intersect(m, cfg.Axis, value)
	raw, warns := contour.Assemble(segs, cfg.Axis, geom.Eps)
	loops, clsWarns := contour.Classify(raw)
	warns = append(warns, clsWarns...)

	loops, kerfWarns := offsetLoops(loops, cfg.Kerf/2)
	warns = append(warns, kerfWarns...)

	if cfg.Interconnects >= 3 {
		var tabWarns []contour.Warning
		loops, tabWarns = notchLoops(loops, cfg)
		warns = append(warns, tabWarns...)
	}

	for i := range warns {
		warns[i].Slice = index
	}
	if len(loops) == 0 {
		return nil, warns
	}
	return &Panel{Index: index, Value: value, Loops: loops}, warns
}

// offsetLoops compensates every closed loop for the kerf: outers grow
// by k, holes shrink by k, so the finished part keeps nominal size
// after the cutter removes material on both sides of the path. Partial
// chains cannot be offset and pass through unchanged. Collapsed loops
// are dropped with a warning; holes whose outer collapsed are kept,
// unparented.
func offsetLoops(loops []contour.Loop, k float64) ([]contour.Loop, []contour.Warning) {
	var warnings []contour.Warning
	out := make([]contour.Loop, 0, len(loops))
	oldToNew := make([]int, len(loops))
	for i, l := range loops {
		oldToNew[i] = -1
		if l.Partial {
			oldToNew[i] = len(out)
			out = append(out, l)
			continue
		}
		d := k
		if l.Hole {
			d = -k
		}
		pts, ok := kerf.Offset(l.Pts, d)
		if !ok {
			warnings = append(warnings, contour.Warning{
				Kind:    contour.WarnDegenerateGeometry,
				Slice:   -1,
				Message: fmt.Sprintf("loop with %d points collapsed under %v mm kerf offset", len(l.Pts), math.Abs(d)),
			})
			continue
		}
		l.Pts = pts
		oldToNew[i] = len(out)
		out = append(out, l)
	}
	for i := range out {
		if out[i].Parent >= 0 {
			out[i].Parent = oldToNew[out[i].Parent]
		}
	}
	return out, warnings
}

// notchLoops cuts interconnects into every eligible edge of the outer
// loops. Eligible edges run parallel to one of the plane axes and fit
// at least one notch; holes and partial chains are left alone. The
// notch is square with side length equal to the material thickness, so
// a mating panel of the same stock locks flush.
func notchLoops(loops []contour.Loop, cfg Config) ([]contour.Loop, []contour.Warning) {
	var warnings []contour.Warning
	for i := range loops {
		if loops[i].Hole || loops[i].Partial {
			continue
		}
		pts := loops[i].Pts
		for _, e := range tabEdges(pts, cfg.Thickness) {
			notched, applied, err := tabs.Apply(pts, e, cfg.Interconnects, cfg.Thickness, cfg.Phase)
			if err != nil {
				warnings = append(warnings, contour.Warning{
					Kind:    contour.WarnDegenerateGeometry,
					Slice:   -1,
					Message: fmt.Sprintf("interconnects skipped: %v", err),
				})
				continue
			}
			if applied < cfg.Interconnects {
				warnings = append(warnings, contour.Warning{
					Kind:    contour.WarnTabReduction,
					Slice:   -1,
					Message: fmt.Sprintf("edge %d fits %d of %d interconnects", e, applied, cfg.Interconnects),
				})
			}
			pts = notched
		}
		loops[i].Pts = pts
	}
	return loops, warnings
}

// tabEdges selects the outline edges eligible for interconnects: runs
// parallel to one of the plane axes, long enough for at least one
// notch. Indices come back descending so that notch insertion never
// shifts an edge that is still pending.
func tabEdges(pts []r2.Vec, size float64) []int {
	var edges []int
	n := len(pts)
	for i := n - 1; i >= 0; i-- {
		a, b := pts[i], pts[(i+1)%n]
		d := r2.Sub(b, a)
		if math.Abs(d.X) > geom.Eps && math.Abs(d.Y) > geom.Eps {
			continue
		}
		if r2.Norm(d) < size {
			continue
		}
		edges = append(edges, i)
	}
	return edges
}
