package integrator

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/pdf"
)

// DepthIntegrator shades by first hit distance mapped over [Near, Far]
type DepthIntegrator struct {
	Near, Far float64
}

// NewDepthIntegrator creates a depth map integrator
func NewDepthIntegrator(near, far float64) *DepthIntegrator {
	return &DepthIntegrator{Near: near, Far: far}
}

// RayColor returns gray in [0,1]: 0 at Near, 1 at Far or beyond. Misses are 1.
func (d *DepthIntegrator) RayColor(ray core.Ray, world geometry.Hittable, lights pdf.Source, sampler core.Sampler) core.Color {
	gray := d.Normalize(FirstHitDistance(ray, world))
	return core.NewVec3(gray, gray, gray)
}

// Normalize maps a distance into [0,1] over the near/far range
func (d *DepthIntegrator) Normalize(distance float64) float64 {
	if math.IsInf(distance, 1) || d.Far <= d.Near {
		return 1
	}
	return core.NewInterval(0, 1).Clamp((distance - d.Near) / (d.Far - d.Near))
}

// FirstHitDistance returns the Euclidean distance from the ray origin to the first hit, +Inf on a miss
func FirstHitDistance(ray core.Ray, world geometry.Hittable) float64 {
	hit, isHit := world.Hit(ray, core.NewInterval(shadowAcneEpsilon, math.Inf(1)))
	if !isHit {
		return math.Inf(1)
	}
	return hit.T * ray.Direction.Length()
}
