package integrator

import (
	"fmt"
	"strings"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/pdf"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the color seen along ray. lights may be nil, in which
	// case only the materials' own sampling is used.
	RayColor(ray core.Ray, world geometry.Hittable, lights pdf.Source, sampler core.Sampler) core.Color
}

// Mode selects how pixels are shaded
type Mode int

const (
	// Shaded is the importance sampled path tracer
	Shaded Mode = iota
	// Debug shows the number of surface hits along each path
	Debug
	// Depth shows the first hit distance between the near and far planes
	Depth
)

var modeNames = map[Mode]string{
	Shaded: "shaded",
	Debug:  "debug",
	Depth:  "depth",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode converts a mode name into a Mode. "normal" and "bvh" are accepted as aliases.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "shaded", "normal", "":
		return Shaded, nil
	case "debug":
		return Debug, nil
	case "depth", "bvh":
		return Depth, nil
	default:
		return Shaded, fmt.Errorf("integrator: unknown render mode %q", name)
	}
}

// Background supplies the radiance carried by rays that escape the scene
type Background interface {
	Value(ray core.Ray) core.Color
}

// SolidBackground is a constant background color
type SolidBackground struct {
	Color core.Color
}

func (b SolidBackground) Value(ray core.Ray) core.Color {
	return b.Color
}

// GradientBackground blends vertically from Bottom to Top by ray direction
type GradientBackground struct {
	Top    core.Color
	Bottom core.Color
}

// Value maps the unit direction's y from [-1,1] onto the gradient
func (b GradientBackground) Value(ray core.Ray) core.Color {
	unitDirection := ray.Direction.Normalize()
	a := 0.5 * (unitDirection.Y + 1.0)
	return b.Bottom.Multiply(1.0 - a).Add(b.Top.Multiply(a))
}

// New returns the integrator for mode
func New(mode Mode, maxDepth int, background Background, near, far float64) Integrator {
	switch mode {
	case Debug:
		return NewDebugIntegrator(maxDepth)
	case Depth:
		return NewDepthIntegrator(near, far)
	default:
		return NewPathTracingIntegrator(maxDepth, background)
	}
}
