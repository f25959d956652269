package geometry

import (
	"errors"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/pdf"
)

// ErrEmptyScene is returned when an acceleration structure is built over nothing
var ErrEmptyScene = errors.New("geometry: cannot build a BVH over an empty scene")

// Hittable interface for objects that can be hit by rays
type Hittable interface {
	// Hit returns the closest intersection with t inside rayT
	Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool)
	BoundingBox() core.AABB
}

// Sampleable is a hittable that can be importance sampled as an area light
type Sampleable interface {
	Hittable
	pdf.Source
}

// BoxGatherer is implemented by composites that can report their internal bounding boxes
type BoxGatherer interface {
	GatherBoxes(boxes []core.AABB) []core.AABB
}
