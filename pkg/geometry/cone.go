package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// Cone is a finite cone (TopRadius 0) or frustum between two parallel discs
type Cone struct {
	BaseCenter core.Vec3
	BaseRadius float64
	TopCenter  core.Vec3
	TopRadius  float64
	Capped     bool
	Material   material.Material

	axis     core.Vec3 // unit, base to top
	height   float64
	tanAngle float64
	apex     core.Vec3 // tip of the infinite cone the body lies on
	bbox     core.AABB
}

// NewCone creates a cone or frustum. The base must be wider than the top.
func NewCone(baseCenter core.Vec3, baseRadius float64, topCenter core.Vec3, topRadius float64, capped bool, mat material.Material) (*Cone, error) {
	if baseRadius <= 0 {
		return nil, fmt.Errorf("base radius must be positive, got %f", baseRadius)
	}
	if topRadius < 0 {
		return nil, fmt.Errorf("top radius must be non-negative, got %f", topRadius)
	}
	if baseRadius <= topRadius {
		return nil, fmt.Errorf("base radius must exceed top radius (base=%f, top=%f), use a cylinder for equal radii", baseRadius, topRadius)
	}

	axisVector := topCenter.Subtract(baseCenter)
	height := axisVector.Length()
	if height <= 0 {
		return nil, fmt.Errorf("base and top centers coincide")
	}
	axis := axisVector.Normalize()

	apex := topCenter
	if topRadius > 0 {
		apex = topCenter.Add(axis.Multiply(topRadius * height / (baseRadius - topRadius)))
	}

	return &Cone{
		BaseCenter: baseCenter,
		BaseRadius: baseRadius,
		TopCenter:  topCenter,
		TopRadius:  topRadius,
		Capped:     capped,
		Material:   mat,
		axis:       axis,
		height:     height,
		tanAngle:   (baseRadius - topRadius) / height,
		apex:       apex,
		bbox:       roundBounds(baseCenter, topCenter, axis, baseRadius, topRadius),
	}, nil
}

func (c *Cone) BoundingBox() core.AABB {
	return c.bbox
}

// Hit returns the nearest of the body and, when capped, the end discs
func (c *Cone) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	var closest *material.HitRecord

	if hit := c.hitBody(ray, rayT); hit != nil {
		closest = hit
		rayT.Max = hit.T
	}

	if c.Capped {
		if hit := c.hitCap(ray, c.BaseCenter, c.axis.Negate(), c.BaseRadius, rayT); hit != nil {
			closest = hit
			rayT.Max = hit.T
		}
		if c.TopRadius > 0 {
			if hit := c.hitCap(ray, c.TopCenter, c.axis, c.TopRadius, rayT); hit != nil {
				closest = hit
			}
		}
	}

	return closest, closest != nil
}

// hitBody intersects the lateral surface
func (c *Cone) hitBody(ray core.Ray, rayT core.Interval) *material.HitRecord {
	co := ray.Origin.Subtract(c.apex)
	dv := ray.Direction.Dot(c.axis)
	cov := co.Dot(c.axis)
	k := 1 + c.tanAngle*c.tanAngle

	a := ray.Direction.LengthSquared() - k*dv*dv
	h := ray.Direction.Dot(co) - k*dv*cov
	cc := co.LengthSquared() - k*cov*cov

	if math.Abs(a) < 1e-12 {
		return nil
	}
	discriminant := h*h - a*cc
	if discriminant < 0 {
		return nil
	}
	sqrtD := math.Sqrt(discriminant)

	t0, t1 := (-h-sqrtD)/a, (-h+sqrtD)/a
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	for _, t := range [2]float64{t0, t1} {
		if !rayT.Surrounds(t) {
			continue
		}
		point := ray.At(t)
		height := point.Subtract(c.BaseCenter).Dot(c.axis)
		if height < 0 || height > c.height {
			continue
		}

		radial := point.Subtract(c.BaseCenter.Add(c.axis.Multiply(height)))
		outwardNormal := radial.Add(c.axis.Multiply(radial.Length() * c.tanAngle)).Normalize()

		hit := &material.HitRecord{
			T:        t,
			Point:    point,
			Material: c.Material,
			UV:       core.NewVec2(0, height/c.height),
		}
		hit.SetFaceNormal(ray, outwardNormal)
		hit.SetNormalAngle(ray, outwardNormal)
		return hit
	}
	return nil
}

// hitCap intersects a disc of radius centered at center facing normal
func (c *Cone) hitCap(ray core.Ray, center, normal core.Vec3, radius float64, rayT core.Interval) *material.HitRecord {
	denom := ray.Direction.Dot(normal)
	if math.Abs(denom) < 1e-12 {
		return nil
	}

	t := center.Subtract(ray.Origin).Dot(normal) / denom
	if !rayT.Surrounds(t) {
		return nil
	}
	point := ray.At(t)
	offset := point.Subtract(center)
	if offset.LengthSquared() > radius*radius {
		return nil
	}

	hit := &material.HitRecord{
		T:        t,
		Point:    point,
		Material: c.Material,
		UV:       core.NewVec2(0.5, offset.Length()/radius),
	}
	hit.SetFaceNormal(ray, normal)
	hit.SetNormalAngle(ray, normal)
	return hit
}
