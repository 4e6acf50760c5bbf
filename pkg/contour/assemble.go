package contour

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/geom"
)

// gridKey identifies a snapped plane coordinate. Independently computed
// endpoints from adjacent triangles differ by rounding error, so points
// are bucketed on a grid of pitch tol before identity comparison.
type gridKey struct {
	x, y int64
}

type edge struct {
	u, v int
	used bool
}

// Assemble closes the raw segments of one slice into loops. Endpoints
// are snapped to a grid of pitch tol and deduplicated, the segments
// form an undirected graph, and each connected component is traced by
// following unused edges until the walk returns to its start.
//
// Graphs whose vertices do not all have degree two cannot be traced
// cleanly; the walk still emits best-effort chains, marked Partial, and
// the condition is reported as a warning. A slice with no segments
// yields no loops and no warnings.
func Assemble(segs []Segment, axis Axis, tol float64) ([]Loop, []Warning) {
	if tol <= 0 {
		tol = geom.Eps
	}

	verts := make([]r2.Vec, 0, len(segs))
	ids := make(map[gridKey]int, len(segs))
	intern := func(p r2.Vec) int {
		k := gridKey{
			x: int64(math.Round(p.X / tol)),
			y: int64(math.Round(p.Y / tol)),
		}
		if id, ok := ids[k]; ok {
			return id
		}
		id := len(verts)
		ids[k] = id
		verts = append(verts, r2.Vec{X: float64(k.x) * tol, Y: float64(k.y) * tol})
		return id
	}

	edges := make([]edge, 0, len(segs))
	adj := make(map[int][]int)
	for _, s := range segs {
		u := intern(axis.Project(s.A))
		v := intern(axis.Project(s.B))
		if u == v {
			continue // collapsed by snapping
		}
		id := len(edges)
		edges = append(edges, edge{u: u, v: v})
		adj[u] = append(adj[u], id)
		adj[v] = append(adj[v], id)
	}

	var warnings []Warning
	if bad := countBadDegrees(adj); bad > 0 {
		warnings = append(warnings, warnf(WarnAssemblyInconsistency,
			"%d of %d contour vertices have degree != 2; mesh may be open or loops may touch", bad, len(verts)))
	}

	takeUnused := func(at int) (int, bool) {
		for _, id := range adj[at] {
			if !edges[id].used {
				return id, true
			}
		}
		return 0, false
	}

	var loops []Loop
	for start := range edges {
		if edges[start].used {
			continue
		}
		origin := edges[start].u
		pts := []r2.Vec{verts[origin]}
		cur := origin
		id, ok := start, true
		closed := false
		for ok {
			e := &edges[id]
			e.used = true
			if cur == e.u {
				cur = e.v
			} else {
				cur = e.u
			}
			if cur == origin {
				closed = true
				break
			}
			pts = append(pts, verts[cur])
			id, ok = takeUnused(cur)
		}

		pts = geom.Dedup(pts, tol)
		switch {
		case len(pts) < 3:
			warnings = append(warnings, warnf(WarnDegenerateGeometry,
				"discarded loop with %d distinct points", len(pts)))
		case closed:
			loops = append(loops, Loop{Pts: pts, Parent: -1})
		default:
			loops = append(loops, Loop{Pts: pts, Parent: -1, Partial: true})
			warnings = append(warnings, warnf(WarnAssemblyInconsistency,
				"emitted open contour with %d points", len(pts)))
		}
	}
	return loops, warnings
}

func countBadDegrees(adj map[int][]int) int {
	bad := 0
	for _, ids := range adj {
		if len(ids) != 2 {
			bad++
		}
	}
	return bad
}
