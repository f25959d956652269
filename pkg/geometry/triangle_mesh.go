package geometry

import (
	"fmt"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// TriangleMesh is an indexed triangle set with its own BVH
type TriangleMesh struct {
	triangles []Hittable
	bvh       *BVHNode
}

// NewTriangleMesh builds a mesh from vertices and face indices, three per triangle.
// materials optionally overrides mat per face.
func NewTriangleMesh(vertices []core.Vec3, faces []int, mat material.Material, materials []material.Material) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("face index count %d is not a multiple of 3", len(faces))
	}
	count := len(faces) / 3
	if materials != nil && len(materials) != count {
		return nil, fmt.Errorf("got %d face materials for %d triangles", len(materials), count)
	}

	triangles := make([]Hittable, count)
	for i := range triangles {
		var corners [3]core.Vec3
		for k := range corners {
			index := faces[i*3+k]
			if index < 0 || index >= len(vertices) {
				return nil, fmt.Errorf("face %d: vertex index %d out of range [0,%d)", i, index, len(vertices))
			}
			corners[k] = vertices[index]
		}

		faceMaterial := mat
		if materials != nil {
			faceMaterial = materials[i]
		}
		triangles[i] = NewTriangle(corners[0], corners[1], corners[2], faceMaterial)
	}

	bvh, err := NewBVH(triangles)
	if err != nil {
		return nil, err
	}
	return &TriangleMesh{triangles: triangles, bvh: bvh}, nil
}

// Hit defers to the mesh's BVH
func (m *TriangleMesh) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	return m.bvh.Hit(ray, rayT)
}

func (m *TriangleMesh) BoundingBox() core.AABB {
	return m.bvh.BoundingBox()
}

// TriangleCount returns the number of faces
func (m *TriangleMesh) TriangleCount() int {
	return len(m.triangles)
}
