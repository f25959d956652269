package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// ConstantMedium is a homogeneous participating medium filling a closed boundary.
// The free-flight uniform is hashed from the ray and Seed, so Hit is read-only
// and the same ray always scatters at the same point.
type ConstantMedium struct {
	Boundary           Hittable
	Phase              material.Material
	Seed               uint64 // Decorrelates media that see the same ray
	negativeInvDensity float64
}

// NewConstantMedium fills boundary with an isotropic medium of the given density and albedo
func NewConstantMedium(boundary Hittable, density float64, albedo core.Color, seed uint64) *ConstantMedium {
	return &ConstantMedium{
		Boundary:           boundary,
		Phase:              material.NewIsotropic(albedo),
		Seed:               seed,
		negativeInvDensity: -1 / density,
	}
}

// Hit finds where the ray enters and leaves the boundary and samples a free-flight
// distance between them
func (m *ConstantMedium) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	entry, ok := m.Boundary.Hit(ray, core.UniverseInterval)
	if !ok {
		return nil, false
	}
	exit, ok := m.Boundary.Hit(ray, core.NewInterval(entry.T+0.0001, math.Inf(1)))
	if !ok {
		return nil, false
	}

	t1 := math.Max(entry.T, rayT.Min)
	t2 := math.Min(exit.T, rayT.Max)
	if t1 >= t2 {
		return nil, false
	}
	t1 = math.Max(t1, 0)

	rayLength := ray.Direction.Length()
	distanceInside := (t2 - t1) * rayLength
	hitDistance := m.negativeInvDensity * math.Log(1-m.flightUniform(ray))
	if hitDistance > distanceInside {
		return nil, false
	}

	t := t1 + hitDistance/rayLength
	return &material.HitRecord{
		T:         t,
		Point:     ray.At(t),
		Normal:    core.NewVec3(1, 0, 0), // arbitrary
		FrontFace: true,
		Material:  m.Phase,
	}, true
}

func (m *ConstantMedium) BoundingBox() core.AABB {
	return m.Boundary.BoundingBox()
}

func (m *ConstantMedium) flightUniform(ray core.Ray) float64 {
	o, d := ray.Origin, ray.Direction
	return core.HashUniform(m.Seed, o.X, o.Y, o.Z, d.X, d.Y, d.Z)
}
