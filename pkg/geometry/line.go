package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// Line is a capsule: every point within Radius of the segment Start-End
type Line struct {
	Start, End core.Vec3
	Radius     float64
	Material   material.Material
	bbox       core.AABB
}

// NewLine creates a capsule around the segment start-end. Negative radii are clamped to zero.
func NewLine(start, end core.Vec3, radius float64, mat material.Material) *Line {
	radius = math.Max(0, radius)
	r := core.NewVec3(radius, radius, radius)

	return &Line{
		Start:    start,
		End:      end,
		Radius:   radius,
		Material: mat,
		bbox: core.NewAABBEnclosing(
			core.NewAABBFromPoints(start.Subtract(r), start.Add(r)),
			core.NewAABBFromPoints(end.Subtract(r), end.Add(r)),
		).Pad(),
	}
}

// Hit intersects the cylindrical body and both spherical caps and keeps the closest root in rayT
func (l *Line) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	axis := l.End.Subtract(l.Start)
	axisLengthSquared := axis.LengthSquared()
	oa := ray.Origin.Subtract(l.Start)

	closest := math.Inf(1)
	consider := func(t float64) {
		if rayT.Surrounds(t) && t < closest {
			closest = t
		}
	}
	along := func(t float64) float64 {
		return oa.Add(ray.Direction.Multiply(t)).Dot(axis)
	}

	// Body: infinite cylinder restricted to the segment
	if axisLengthSquared > 0 {
		perpDirection := ray.Direction.Subtract(axis.Multiply(ray.Direction.Dot(axis) / axisLengthSquared))
		perpOrigin := oa.Subtract(axis.Multiply(oa.Dot(axis) / axisLengthSquared))

		a := perpDirection.LengthSquared()
		if a > 1e-12 {
			h := perpDirection.Dot(perpOrigin)
			c := perpOrigin.LengthSquared() - l.Radius*l.Radius
			if discriminant := h*h - a*c; discriminant >= 0 {
				sqrtD := math.Sqrt(discriminant)
				for _, t := range []float64{(-h - sqrtD) / a, (-h + sqrtD) / a} {
					if y := along(t); y > 0 && y < axisLengthSquared {
						consider(t)
					}
				}
			}
		}
	}

	// Caps: spheres at each end, only on their outer side
	for i, center := range []core.Vec3{l.Start, l.End} {
		for _, t := range sphereRoots(ray, center, l.Radius) {
			y := along(t)
			if (i == 0 && y <= 0) || (i == 1 && y >= axisLengthSquared) {
				consider(t)
			}
		}
	}

	if math.IsInf(closest, 1) {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        closest,
		Point:    ray.At(closest),
		Material: l.Material,
	}

	segmentT := 0.0
	if axisLengthSquared > 0 {
		segmentT = math.Max(0, math.Min(1, along(closest)/axisLengthSquared))
	}
	onAxis := l.Start.Add(axis.Multiply(segmentT))
	outwardNormal := hitRecord.Point.Subtract(onAxis).Normalize()

	hitRecord.SetFaceNormal(ray, outwardNormal)
	hitRecord.SetNormalAngle(ray, outwardNormal)
	hitRecord.UV = core.NewVec2(segmentT, 0)

	return hitRecord, true
}

// BoundingBox returns the segment bounds grown by the radius
func (l *Line) BoundingBox() core.AABB {
	return l.bbox
}

// sphereRoots returns both real roots of the ray-sphere quadratic, if any
func sphereRoots(ray core.Ray, center core.Vec3, radius float64) []float64 {
	oc := center.Subtract(ray.Origin)
	a := ray.Direction.LengthSquared()
	if a == 0 {
		return nil
	}
	h := ray.Direction.Dot(oc)
	c := oc.LengthSquared() - radius*radius

	discriminant := h*h - a*c
	if discriminant < 0 {
		return nil
	}
	sqrtD := math.Sqrt(discriminant)
	return []float64{(h - sqrtD) / a, (h + sqrtD) / a}
}
