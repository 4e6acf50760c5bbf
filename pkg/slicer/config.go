// Package slicer drives the slicing pipeline end to end: it computes
// the plane sequence for a mesh, runs intersection, loop assembly,
// classification, kerf compensation and interconnect cutting for every
// plane, and collects the finished panels. The Engine type wraps a run
// in the message-passing contract the host uses: submit, progress,
// complete or fail, with a newer submission superseding the one in
// flight.
package slicer

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/contour"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/tabs"
)

// ErrInvalidInput marks fatal input problems that stop a run before any
// slicing happens: an empty mesh, a non-positive thickness or kerf, a
// bad axis. Detect it with errors.Is.
var ErrInvalidInput = errors.New("slicer: invalid input")

// Config is the immutable per-run configuration. The zero value is not
// valid; start from DefaultConfig or fill every field.
type Config struct {
	// Axis is the slicing direction; planes are normal to it.
	Axis contour.Axis

	// Thickness is the material thickness in millimetres, which is also
	// the spacing between slicing planes and the notch size.
	Thickness float64

	// Kerf is the full width of material removed by the cutter, in
	// millimetres. Cut paths are offset by half of it.
	Kerf float64

	// Interconnects is the number of notches cut into each eligible
	// edge. Zero disables interconnects entirely; otherwise at least
	// three are required.
	Interconnects int

	// Phase picks tab-out or slot-in for the first notch of every edge.
	// A mating panel set is produced by a second run with the opposite
	// phase.
	Phase tabs.Phase

	// Scale multiplies mesh coordinates per axis before slicing. Zero
	// or negative components are rejected by Validate.
	Scale r3.Vec
}

// DefaultConfig returns a configuration for 3 mm material cut along z
// with a 0.2 mm kerf and no interconnects.
func DefaultConfig() Config {
	return Config{
		Axis:      contour.AxisZ,
		Thickness: 3,
		Kerf:      0.2,
		Phase:     tabs.Male,
		Scale:     r3.Vec{X: 1, Y: 1, Z: 1},
	}
}

// Validate reports the first fatal problem with the configuration.
func (c Config) Validate() error {
	if !c.Axis.Valid() {
		return fmt.Errorf("%w: slicing axis %d is not x, y or z", ErrInvalidInput, int(c.Axis))
	}
	if c.Thickness <= 0 {
		return fmt.Errorf("%w: material thickness %v mm", ErrInvalidInput, c.Thickness)
	}
	if c.Kerf <= 0 {
		return fmt.Errorf("%w: kerf width %v mm", ErrInvalidInput, c.Kerf)
	}
	if c.Interconnects != 0 && c.Interconnects < 3 {
		return fmt.Errorf("%w: interconnect count %d, want 0 or at least 3", ErrInvalidInput, c.Interconnects)
	}
	if c.Scale.X <= 0 || c.Scale.Y <= 0 || c.Scale.Z <= 0 {
		return fmt.Errorf("%w: scale factors %v must be positive", ErrInvalidInput, c.Scale)
	}
	return nil
}

// PlanePositions returns the slicing plane offsets for geometry
// spanning [min, max] along the configured axis: one plane per material
// layer, centered inside the layer. The last plane can land past max
// when the span is not an exact multiple of the thickness; its slice
// comes out empty and produces no panel.
func (c Config) PlanePositions(min, max float64) []float64 {
	if max < min {
		return nil
	}
	n := int(math.Floor((max-min)/c.Thickness)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = min + float64(i)*c.Thickness + c.Thickness/2
	}
	return out
}
