package contour

import "fmt"

// WarningKind classifies recoverable findings raised during slicing.
type WarningKind int

const (
	// WarnDegenerateGeometry covers dropped degenerate intersections,
	// loops with fewer than three distinct points and offset collapse.
	WarnDegenerateGeometry WarningKind = iota
	// WarnAssemblyInconsistency covers contour graphs whose vertices do
	// not all have degree two, typically touching loops or open meshes.
	WarnAssemblyInconsistency
	// WarnTabReduction reports a notch count reduced to fit its edge.
	WarnTabReduction
)

func (k WarningKind) String() string {
	switch k {
	case WarnDegenerateGeometry:
		return "degenerate-geometry"
	case WarnAssemblyInconsistency:
		return "assembly-inconsistency"
	case WarnTabReduction:
		return "tab-reduction"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning is a non-fatal finding attached to a slicing result. Slice is
// the slice index the finding belongs to, or -1 when it is not yet
// bound to a slice.
type Warning struct {
	Kind    WarningKind
	Slice   int
	Message string
}

func (w Warning) String() string {
	if w.Slice >= 0 {
		return fmt.Sprintf("[%s] slice %d: %s", w.Kind, w.Slice, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
}

func warnf(kind WarningKind, format string, args ...interface{}) Warning {
	return Warning{Kind: kind, Slice: -1, Message: fmt.Sprintf(format, args...)}
}
