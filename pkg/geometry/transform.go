package geometry

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// Translate moves a hittable by Offset
type Translate struct {
	Object Hittable
	Offset core.Vec3
	bbox   core.AABB
}

// NewTranslate wraps object so it appears displaced by offset
func NewTranslate(object Hittable, offset core.Vec3) *Translate {
	return &Translate{
		Object: object,
		Offset: offset,
		bbox:   object.BoundingBox().Translate(offset),
	}
}

// Hit moves the ray into object space and the hit point back out
func (t *Translate) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	offsetRay := core.NewRay(ray.Origin.Subtract(t.Offset), ray.Direction)

	hit, ok := t.Object.Hit(offsetRay, rayT)
	if !ok {
		return nil, false
	}

	hit.Point = hit.Point.Add(t.Offset)
	return hit, true
}

func (t *Translate) BoundingBox() core.AABB {
	return t.bbox
}

// Rotate turns a hittable by Angle degrees about an axis through the origin
type Rotate struct {
	Object  Hittable
	Axis    core.Vec3
	Angle   float64
	forward r3.Rotation
	inverse r3.Rotation
	bbox    core.AABB
}

// NewRotate wraps object rotated by angle degrees about axis
func NewRotate(object Hittable, axis core.Vec3, angle float64) *Rotate {
	radians := core.DegreesToRadians(angle)
	unitAxis := toR3(axis.Normalize())

	r := &Rotate{
		Object:  object,
		Axis:    axis,
		Angle:   angle,
		forward: r3.NewRotation(radians, unitAxis),
		inverse: r3.NewRotation(-radians, unitAxis),
	}

	// Rotation does not commute with axis alignment, so rebound all 8 corners
	corners := object.BoundingBox().Corners()
	for i, corner := range corners {
		corners[i] = r.toWorld(corner)
	}
	r.bbox = core.NewAABBFromPoints(corners[:]...)

	return r
}

// NewRotateY rotates object about the Y axis
func NewRotateY(object Hittable, angle float64) *Rotate {
	return NewRotate(object, core.NewVec3(0, 1, 0), angle)
}

// Hit rotates the ray into object space, then the hit point and normal back to world space
func (r *Rotate) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	objectRay := core.NewRay(r.toObject(ray.Origin), r.toObject(ray.Direction))

	hit, ok := r.Object.Hit(objectRay, rayT)
	if !ok {
		return nil, false
	}

	hit.Point = r.toWorld(hit.Point)
	hit.Normal = r.toWorld(hit.Normal)
	return hit, true
}

func (r *Rotate) BoundingBox() core.AABB {
	return r.bbox
}

func (r *Rotate) toWorld(v core.Vec3) core.Vec3 {
	return fromR3(r.forward.Rotate(toR3(v)))
}

func (r *Rotate) toObject(v core.Vec3) core.Vec3 {
	return fromR3(r.inverse.Rotate(toR3(v)))
}

func toR3(v core.Vec3) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func fromR3(v r3.Vec) core.Vec3 {
	return core.NewVec3(v.X, v.Y, v.Z)
}
