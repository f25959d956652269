package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// Cylinder is an open tube of Radius around the segment BaseCenter-TopCenter
type Cylinder struct {
	BaseCenter core.Vec3
	TopCenter  core.Vec3
	Radius     float64
	Material   material.Material

	axis   core.Vec3 // unit, base to top
	height float64
	bbox   core.AABB
}

// NewCylinder creates an uncapped cylinder. Negative radii are clamped to zero.
func NewCylinder(baseCenter, topCenter core.Vec3, radius float64, mat material.Material) *Cylinder {
	radius = math.Max(0, radius)
	axisVector := topCenter.Subtract(baseCenter)

	c := &Cylinder{
		BaseCenter: baseCenter,
		TopCenter:  topCenter,
		Radius:     radius,
		Material:   mat,
		axis:       axisVector.Normalize(),
		height:     axisVector.Length(),
	}
	c.bbox = roundBounds(baseCenter, topCenter, c.axis, radius, radius)
	return c
}

// roundBounds encloses two discs of radii r0 and r1 centered on a segment with unit axis.
// A disc with normal n extends r*sqrt(1-n_i²) along coordinate axis i.
func roundBounds(a, b, axis core.Vec3, r0, r1 float64) core.AABB {
	extent := func(r float64) core.Vec3 {
		return core.NewVec3(
			r*math.Sqrt(math.Max(0, 1-axis.X*axis.X)),
			r*math.Sqrt(math.Max(0, 1-axis.Y*axis.Y)),
			r*math.Sqrt(math.Max(0, 1-axis.Z*axis.Z)),
		)
	}
	e0, e1 := extent(r0), extent(r1)
	return core.NewAABBEnclosing(
		core.NewAABBFromPoints(a.Subtract(e0), a.Add(e0)),
		core.NewAABBFromPoints(b.Subtract(e1), b.Add(e1)),
	).Pad()
}

func (c *Cylinder) BoundingBox() core.AABB {
	return c.bbox
}

// Hit solves |Δ⊥ + tD⊥|² = r² and keeps the nearest root whose height lies on the segment
func (c *Cylinder) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	if c.height <= 0 || c.Radius <= 0 {
		return nil, false
	}
	delta := ray.Origin.Subtract(c.BaseCenter)

	dv := ray.Direction.Dot(c.axis)
	deltaV := delta.Dot(c.axis)

	a := ray.Direction.LengthSquared() - dv*dv
	h := delta.Dot(ray.Direction) - deltaV*dv
	cc := delta.LengthSquared() - deltaV*deltaV - c.Radius*c.Radius

	// Parallel to the axis
	if math.Abs(a) < 1e-12 {
		return nil, false
	}

	discriminant := h*h - a*cc
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	for _, t := range [2]float64{(-h - sqrtD) / a, (-h + sqrtD) / a} {
		if !rayT.Surrounds(t) {
			continue
		}
		point := ray.At(t)
		height := point.Subtract(c.BaseCenter).Dot(c.axis)
		if height < 0 || height > c.height {
			continue
		}

		axisPoint := c.BaseCenter.Add(c.axis.Multiply(height))
		outwardNormal := point.Subtract(axisPoint).Divide(c.Radius)

		hit := &material.HitRecord{
			T:        t,
			Point:    point,
			Material: c.Material,
			UV:       core.NewVec2(c.angle(outwardNormal), height/c.height),
		}
		hit.SetFaceNormal(ray, outwardNormal)
		hit.SetNormalAngle(ray, outwardNormal)
		return hit, true
	}
	return nil, false
}

// angle maps a radial unit vector to [0,1) around the axis
func (c *Cylinder) angle(radial core.Vec3) float64 {
	basis := core.NewONB(c.axis)
	phi := math.Atan2(radial.Dot(basis.V), radial.Dot(basis.U))
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return phi / (2 * math.Pi)
}
