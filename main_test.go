package main

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/contour"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/export"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/mesh"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/slicer"
	"github.com/ishouldhaveneverdonethat/slicr/pkg/tabs"
)

// boxMesh builds a closed 12-triangle box spanning [0,x]x[0,y]x[0,z]
// with outward-facing winding.
func boxMesh(x, y, z float64) *mesh.Mesh {
	var p [8]r3.Vec
	for i := range p {
		p[i] = r3.Vec{X: x * float64(i&1), Y: y * float64(i >> 1 & 1), Z: z * float64(i >> 2 & 1)}
	}
	quads := [][4]int{
		{0, 2, 3, 1}, // bottom
		{4, 5, 7, 6}, // top
		{0, 1, 5, 4}, // front
		{3, 2, 6, 7}, // back
		{0, 4, 6, 2}, // left
		{1, 3, 7, 5}, // right
	}
	var tris []mesh.Triangle
	for _, q := range quads {
		tris = append(tris,
			mesh.Triangle{p[q[0]], p[q[1]], p[q[2]]},
			mesh.Triangle{p[q[0]], p[q[2]], p[q[3]]})
	}
	return mesh.FromTriangles(tris)
}

func TestParseScale(t *testing.T) {
	cases := []struct {
		in      string
		want    r3.Vec
		wantErr bool
	}{
		{in: "2", want: r3.Vec{X: 2, Y: 2, Z: 2}},
		{in: "1,2,3", want: r3.Vec{X: 1, Y: 2, Z: 3}},
		{in: " 0.5, 2 , 1 ", want: r3.Vec{X: 0.5, Y: 2, Z: 1}},
		{in: "1,2", wantErr: true},
		{in: "1,2,3,4", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseScale(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseScale(%q) = %v, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseScale(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("parseScale(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, `axis: x
thickness: 6
kerf: 0.15
tabs: 3
phase: female
scale: [2, 2, 1]
`)
	cfg, err := loadConfig(path, slicer.DefaultConfig())
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Axis != contour.AxisX {
		t.Errorf("Axis = %v, want x", cfg.Axis)
	}
	if cfg.Thickness != 6 {
		t.Errorf("Thickness = %v, want 6", cfg.Thickness)
	}
	if cfg.Kerf != 0.15 {
		t.Errorf("Kerf = %v, want 0.15", cfg.Kerf)
	}
	if cfg.Interconnects != 3 {
		t.Errorf("Interconnects = %d, want 3", cfg.Interconnects)
	}
	if cfg.Phase != tabs.Female {
		t.Errorf("Phase = %v, want female", cfg.Phase)
	}
	if want := (r3.Vec{X: 2, Y: 2, Z: 1}); cfg.Scale != want {
		t.Errorf("Scale = %v, want %v", cfg.Scale, want)
	}
}

// Fields absent from the file keep the base configuration's values.
func TestLoadConfigPartial(t *testing.T) {
	path := writeTempConfig(t, "thickness: 6\n")
	base := slicer.DefaultConfig()
	cfg, err := loadConfig(path, base)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Thickness != 6 {
		t.Errorf("Thickness = %v, want 6", cfg.Thickness)
	}
	if cfg.Axis != base.Axis || cfg.Kerf != base.Kerf || cfg.Scale != base.Scale {
		t.Errorf("unrelated fields changed: %+v", cfg)
	}
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown key": "thicknes: 3\n",
		"bad axis":    "axis: w\n",
		"bad phase":   "phase: neutral\n",
		"bad scale":   "scale: [1, 2]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeTempConfig(t, body)
			if _, err := loadConfig(path, slicer.DefaultConfig()); err == nil {
				t.Fatalf("loadConfig accepted %q", body)
			}
		})
	}

	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"), slicer.DefaultConfig()); err == nil {
		t.Fatal("loadConfig accepted a missing file")
	}
}

func TestWriteOutputs(t *testing.T) {
	cfg := slicer.DefaultConfig()
	cfg.Thickness = 5
	res, err := slicer.Run(context.Background(), boxMesh(10, 10, 10), cfg, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Panels) != 2 {
		t.Fatalf("got %d panels, want 2", len(res.Panels))
	}

	dir := filepath.Join(t.TempDir(), "cuts", "part")
	paths, err := writeOutputs(res, dir, "part", outputSet{
		SVG: true, DXF: true, Stack: true,
		Options: export.Options{StrokeWidth: 0.2},
	})
	if err != nil {
		t.Fatalf("writeOutputs: %v", err)
	}

	want := []string{
		filepath.Join(dir, "part-00.svg"),
		filepath.Join(dir, "part-00.dxf"),
		filepath.Join(dir, "part-01.svg"),
		filepath.Join(dir, "part-01.dxf"),
		filepath.Join(dir, "part-stack.svg"),
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("paths[%d] = %s, want %s", i, paths[i], want[i])
		}
	}

	sniff := func(path, magic string) {
		t.Helper()
		buf, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(buf), magic) {
			t.Errorf("%s does not contain %q", path, magic)
		}
	}
	sniff(want[0], "<svg")
	sniff(want[0], "stroke-width=\"0.200\"")
	sniff(want[1], "LWPOLYLINE")
	sniff(want[4], "<g")
}

func TestWriteOutputsNoPanels(t *testing.T) {
	res := &slicer.Result{}
	if _, err := writeOutputs(res, t.TempDir(), "part", outputSet{SVG: true}); err == nil {
		t.Fatal("writeOutputs accepted an empty result")
	}
}

func TestDemoSolid(t *testing.T) {
	if _, err := demoSolid("pyramid", 10, 8); err == nil {
		t.Fatal("demoSolid accepted an unknown shape")
	}

	m, err := demoSolid("box", 10, 16)
	if err != nil {
		t.Fatalf("demoSolid box: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("demo box has no triangles")
	}
	lo, hi := m.Bounds()
	if hi.Z-lo.Z < 5 || math.Abs(lo.X) > 2 {
		t.Errorf("demo box bounds off: %v .. %v", lo, hi)
	}
}
