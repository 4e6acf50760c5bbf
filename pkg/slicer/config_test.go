package slicer

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ishouldhaveneverdonethat/slicr/pkg/contour"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	mod := func(f func(*Config)) Config {
		c := DefaultConfig()
		f(&c)
		return c
	}
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"interconnects disabled", mod(func(c *Config) { c.Interconnects = 0 }), false},
		{"interconnects three", mod(func(c *Config) { c.Interconnects = 3 }), false},
		{"interconnects two", mod(func(c *Config) { c.Interconnects = 2 }), true},
		{"interconnects negative", mod(func(c *Config) { c.Interconnects = -1 }), true},
		{"bad axis", mod(func(c *Config) { c.Axis = contour.Axis(7) }), true},
		{"zero thickness", mod(func(c *Config) { c.Thickness = 0 }), true},
		{"negative thickness", mod(func(c *Config) { c.Thickness = -3 }), true},
		{"zero kerf", mod(func(c *Config) { c.Kerf = 0 }), true},
		{"negative kerf", mod(func(c *Config) { c.Kerf = -0.2 }), true},
		{"zero scale component", mod(func(c *Config) { c.Scale = r3.Vec{X: 1, Y: 0, Z: 1} }), true},
		{"negative scale component", mod(func(c *Config) { c.Scale = r3.Vec{X: 1, Y: 1, Z: -2} }), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error %v does not wrap ErrInvalidInput", err)
			}
		})
	}
}

func TestPlanePositions(t *testing.T) {
	tests := []struct {
		name      string
		min, max  float64
		thickness float64
		want      []float64
	}{
		{"exact multiple", 0, 10, 5, []float64{2.5, 7.5, 12.5}},
		{"with remainder", 0, 12, 5, []float64{2.5, 7.5, 12.5}},
		{"thinner than material", 0, 3, 5, []float64{2.5}},
		{"offset origin", 4, 14, 5, []float64{6.5, 11.5, 16.5}},
		{"flat span", 2, 2, 5, []float64{4.5}},
		{"inverted span", 5, 1, 5, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Thickness = tt.thickness
			got := cfg.PlanePositions(tt.min, tt.max)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("plane %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
