package integrator

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/pdf"
)

// DebugIntegrator follows the material-proposed path and shades by how many
// surfaces it hit before escaping or being absorbed
type DebugIntegrator struct {
	MaxDepth int
}

// NewDebugIntegrator creates a hit-count integrator
func NewDebugIntegrator(maxDepth int) *DebugIntegrator {
	return &DebugIntegrator{MaxDepth: maxDepth}
}

// RayColor returns gray hits/MaxDepth. lights is ignored.
func (d *DebugIntegrator) RayColor(ray core.Ray, world geometry.Hittable, lights pdf.Source, sampler core.Sampler) core.Color {
	if d.MaxDepth <= 0 {
		return core.Color{}
	}

	hits := d.CountHits(ray, world, sampler)
	gray := float64(hits) / float64(d.MaxDepth)
	return core.NewVec3(gray, gray, gray)
}

// CountHits returns the number of surface interactions along the path, at most MaxDepth
func (d *DebugIntegrator) CountHits(ray core.Ray, world geometry.Hittable, sampler core.Sampler) int {
	current := ray
	hits := 0

	for hits < d.MaxDepth {
		hit, isHit := world.Hit(current, core.NewInterval(shadowAcneEpsilon, math.Inf(1)))
		if !isHit {
			break
		}
		hits++

		scatter, didScatter := hit.Material.Scatter(current, *hit, sampler)
		if !didScatter {
			break
		}
		current = scatter.Scattered
	}

	return hits
}
