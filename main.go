// slicr turns a 3D model into laser-cuttable 2D panels. It slices the
// model into one panel per material layer, compensates cut paths for
// the cutter's kerf, optionally cuts interconnect notches so
// perpendicular panels lock together, and writes one SVG and/or DXF
// file per panel plus an optional stacked preview.
//
// The model comes from an STL file (-stl) or from a generated demo
// solid (-shape box|cylinder|sphere). Run parameters come from flags,
// optionally seeded from a YAML file (-config); explicit flags win.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v2"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/contour"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/export"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/mesh"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/mesh/solid"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/slicer"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/tabs"
)

var (
	stlPath   = flag.String("stl", "", "STL file to slice (binary or ASCII)")
	shapeName = flag.String("shape", "", "generate a demo solid instead of loading -stl: box, cylinder or sphere")
	shapeSize = flag.Float64("size", 60, "demo solid size in mm (box edge, cylinder height, sphere diameter)")
	cells     = flag.Int("cells", solid.DefaultCells, "marching cubes resolution for -shape")

	configPath = flag.String("config", "", "YAML run configuration; explicit flags override its values")
	axisFlag   = flag.String("axis", "z", "slicing axis: x, y or z")
	thickness  = flag.Float64("thickness", 3, "material thickness in mm")
	kerfWidth  = flag.Float64("kerf", 0.2, "cutter kerf width in mm")
	tabCount   = flag.Int("tabs", 0, "interconnect notches per eligible edge (0 disables, otherwise at least 3)")
	phaseFlag  = flag.String("phase", "male", "first-notch phase, male or female; mating panels use the opposite")
	scaleFlag  = flag.String("scale", "1", "model scale: a single factor or x,y,z")

	writeSVGs   = flag.Bool("svg", true, "write one SVG per panel")
	writeDXFs   = flag.Bool("dxf", false, "write one DXF per panel")
	writeStack  = flag.Bool("stack", false, "write a stacked preview SVG of all panels")
	strokeWidth = flag.Float64("stroke", 0.1, "SVG stroke width in mm")
	unitScale   = flag.Float64("units", 1, "output unit multiplier applied to every coordinate")
	outDir      = flag.String("out", ".", "output directory")
	baseName    = flag.String("name", "", "output base name (default: STL file name or shape name)")
)

func main() {
	flag.Parse()

	m, base, err := buildMesh()
	check("load model: %v", err)
	if *baseName != "" {
		base = *baseName
	}

	cfg, err := buildConfig()
	check("configuration: %v", err)

	lo, hi := m.Bounds()
	log.Printf("%d triangles, bounds (%.1f %.1f %.1f)..(%.1f %.1f %.1f)",
		m.TriangleCount(), lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
	log.Printf("slicing along %s every %v mm, kerf %v mm", cfg.Axis, cfg.Thickness, cfg.Kerf)

	job := slicer.NewEngine().Submit(context.Background(), m, cfg)

	var res *slicer.Result
	lastDecile := -1
	for ev := range job.Events() {
		switch ev.Kind {
		case slicer.EventProgress:
			if d := int(ev.Fraction * 10); d > lastDecile {
				log.Printf("slicing %3.0f%%", ev.Fraction*100)
				lastDecile = d
			}
		case slicer.EventFailed:
			log.Fatalf("slicing failed: %v", ev.Err)
		case slicer.EventComplete:
			res = ev.Result
		}
	}

	for _, w := range res.Warnings {
		log.Printf("warning: %s", w)
	}
	log.Printf("%d planes -> %d panels, %d warnings", res.Planes, len(res.Panels), len(res.Warnings))

	outputs := outputSet{
		SVG:     *writeSVGs,
		DXF:     *writeDXFs,
		Stack:   *writeStack,
		Options: export.Options{StrokeWidth: *strokeWidth, Scale: *unitScale},
	}
	paths, err := writeOutputs(res, *outDir, base, outputs)
	check("write outputs: %v", err)
	for _, p := range paths {
		log.Printf("wrote %s", p)
	}
	log.Println("Done.")
}

// buildMesh loads the input model and returns it together with the
// default output base name.
func buildMesh() (*mesh.Mesh, string, error) {
	switch {
	case *stlPath != "" && *shapeName != "":
		return nil, "", fmt.Errorf("-stl and -shape are mutually exclusive")
	case *stlPath != "":
		m, err := mesh.LoadSTL(*stlPath)
		base := strings.TrimSuffix(filepath.Base(*stlPath), filepath.Ext(*stlPath))
		return m, base, err
	case *shapeName != "":
		m, err := demoSolid(*shapeName, *shapeSize, *cells)
		return m, *shapeName, err
	default:
		return nil, "", fmt.Errorf("one of -stl or -shape is required")
	}
}

// demoSolid generates one of the built-in test solids.
func demoSolid(name string, size float64, cells int) (*mesh.Mesh, error) {
	switch name {
	case "box":
		return solid.Box(size, size, size, cells)
	case "cylinder":
		return solid.Cylinder(size, size/3, cells)
	case "sphere":
		return solid.Sphere(size/2, cells)
	default:
		return nil, fmt.Errorf("unknown shape %q: want box, cylinder or sphere", name)
	}
}

// buildConfig resolves the run configuration: defaults, then the YAML
// file when given, then every flag the user set explicitly.
func buildConfig() (slicer.Config, error) {
	cfg := slicer.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadConfig(*configPath, cfg)
		if err != nil {
			return cfg, err
		}
	}

	var err error
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "axis":
			cfg.Axis, err = contour.ParseAxis(*axisFlag)
		case "thickness":
			cfg.Thickness = *thickness
		case "kerf":
			cfg.Kerf = *kerfWidth
		case "tabs":
			cfg.Interconnects = *tabCount
		case "phase":
			cfg.Phase, err = tabs.ParsePhase(*phaseFlag)
		case "scale":
			cfg.Scale, err = parseScale(*scaleFlag)
		}
	})
	return cfg, err
}

// runConfig is the YAML form of a run, so repeat jobs live in a file
// instead of a flag soup. Fields absent from the file keep the values
// they are prefilled with.
type runConfig struct {
	Axis      string    `yaml:"axis"`
	Thickness float64   `yaml:"thickness"`
	Kerf      float64   `yaml:"kerf"`
	Tabs      int       `yaml:"tabs"`
	Phase     string    `yaml:"phase"`
	Scale     []float64 `yaml:"scale"`
}

// loadConfig layers the YAML file at path over base. Unknown keys are
// an error so a typo cannot silently fall back to a default.
func loadConfig(path string, base slicer.Config) (slicer.Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}

	rc := runConfig{
		Axis:      base.Axis.String(),
		Thickness: base.Thickness,
		Kerf:      base.Kerf,
		Tabs:      base.Interconnects,
		Phase:     base.Phase.String(),
		Scale:     []float64{base.Scale.X, base.Scale.Y, base.Scale.Z},
	}
	if err := yaml.UnmarshalStrict(buf, &rc); err != nil {
		return base, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := base
	if cfg.Axis, err = contour.ParseAxis(rc.Axis); err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Thickness = rc.Thickness
	cfg.Kerf = rc.Kerf
	cfg.Interconnects = rc.Tabs
	if cfg.Phase, err = tabs.ParsePhase(rc.Phase); err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	switch len(rc.Scale) {
	case 1:
		cfg.Scale = r3.Vec{X: rc.Scale[0], Y: rc.Scale[0], Z: rc.Scale[0]}
	case 3:
		cfg.Scale = r3.Vec{X: rc.Scale[0], Y: rc.Scale[1], Z: rc.Scale[2]}
	default:
		return base, fmt.Errorf("%s: scale wants 1 or 3 factors, got %d", path, len(rc.Scale))
	}
	return cfg, nil
}

// parseScale accepts a single factor or three comma-separated x,y,z
// factors.
func parseScale(s string) (r3.Vec, error) {
	parts := strings.Split(s, ",")
	vals := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("scale %q: %w", s, err)
		}
		vals = append(vals, v)
	}
	switch len(vals) {
	case 1:
		return r3.Vec{X: vals[0], Y: vals[0], Z: vals[0]}, nil
	case 3:
		return r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]}, nil
	default:
		return r3.Vec{}, fmt.Errorf("scale %q: want 1 or 3 factors", s)
	}
}

// outputSet selects which files writeOutputs produces.
type outputSet struct {
	SVG, DXF, Stack bool
	Options         export.Options
}

// writeOutputs serializes every panel under dir as name-NN.svg /
// name-NN.dxf, numbered by panel index, plus name-stack.svg when the
// stacked preview is enabled. It returns the paths written.
func writeOutputs(res *slicer.Result, dir, name string, set outputSet) ([]string, error) {
	if len(res.Panels) == 0 {
		return nil, fmt.Errorf("no panels to write")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var paths []string
	write := func(path string, fn func(io.Writer) error) error {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			f.Close()
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		paths = append(paths, path)
		return nil
	}

	for _, p := range res.Panels {
		loops := p.Loops
		if set.SVG {
			path := filepath.Join(dir, fmt.Sprintf("%s-%02d.svg", name, p.Index))
			if err := write(path, func(w io.Writer) error {
				return export.WriteSVG(w, loops, set.Options)
			}); err != nil {
				return paths, err
			}
		}
		if set.DXF {
			path := filepath.Join(dir, fmt.Sprintf("%s-%02d.dxf", name, p.Index))
			if err := write(path, func(w io.Writer) error {
				return export.WriteDXF(w, loops, set.Options)
			}); err != nil {
				return paths, err
			}
		}
	}

	if set.Stack {
		panels := make([][]contour.Loop, len(res.Panels))
		for i, p := range res.Panels {
			panels[i] = p.Loops
		}
		path := filepath.Join(dir, name+"-stack.svg")
		if err := write(path, func(w io.Writer) error {
			return export.WriteStack(w, panels, set.Options)
		}); err != nil {
			return paths, err
		}
	}
	return paths, nil
}

// check logs fatally when the last argument is a non-nil error.
func check(fmtStr string, args ...interface{}) {
	err := args[len(args)-1]
	if err != nil {
		log.Fatalf(fmtStr, args...)
	}
}
