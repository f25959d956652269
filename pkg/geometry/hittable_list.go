package geometry

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/pdf"
)

// HittableList is an ordered collection of hittables tested by linear scan
type HittableList struct {
	objects []Hittable
	bbox    core.AABB
}

// NewHittableList creates a list holding objects
func NewHittableList(objects ...Hittable) *HittableList {
	list := &HittableList{bbox: core.EmptyAABB}
	for _, object := range objects {
		list.Add(object)
	}
	return list
}

// Add appends an object and grows the list's bounding box
func (l *HittableList) Add(object Hittable) {
	l.objects = append(l.objects, object)
	l.bbox = core.NewAABBEnclosing(l.bbox, object.BoundingBox())
}

// Objects returns the list's objects in insertion order
func (l *HittableList) Objects() []Hittable {
	return l.objects
}

// Len returns the number of objects. A nil list is empty.
func (l *HittableList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.objects)
}

// AsLightSource returns the list as a light source, or an untyped nil when
// it holds no lights so callers can test it with == nil
func (l *HittableList) AsLightSource() pdf.Source {
	if l.Len() == 0 {
		return nil
	}
	return l
}

// Hit tests every object, shrinking the interval to the closest hit so far
func (l *HittableList) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestSoFar := rayT.Max

	for _, object := range l.objects {
		if hit, ok := object.Hit(ray, core.NewInterval(rayT.Min, closestSoFar)); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}

	return closest, closest != nil
}

// BoundingBox returns the union of every object's box
func (l *HittableList) BoundingBox() core.AABB {
	return l.bbox
}

// PDFValue averages the light densities of every sampleable member with equal weight
func (l *HittableList) PDFValue(origin, direction core.Vec3) float64 {
	if len(l.objects) == 0 {
		return 0
	}

	weight := 1.0 / float64(len(l.objects))
	sum := 0.0
	for _, object := range l.objects {
		if source, ok := object.(Sampleable); ok {
			sum += weight * source.PDFValue(origin, direction)
		}
	}
	return sum
}

// Random picks a member uniformly and samples a direction toward it
func (l *HittableList) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	if len(l.objects) == 0 {
		return core.NewVec3(1, 0, 0)
	}

	index := int(sampler.Get1D() * float64(len(l.objects)))
	if index >= len(l.objects) {
		index = len(l.objects) - 1
	}

	if source, ok := l.objects[index].(Sampleable); ok {
		return source.Random(origin, sampler)
	}
	// Members that cannot be sampled fall back to their box center
	return l.objects[index].BoundingBox().Center().Subtract(origin)
}

// GatherBoxes appends the boxes of composite members
func (l *HittableList) GatherBoxes(boxes []core.AABB) []core.AABB {
	for _, object := range l.objects {
		if gatherer, ok := object.(BoxGatherer); ok {
			boxes = gatherer.GatherBoxes(boxes)
		}
	}
	return boxes
}
