package geometry

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// Triangle represents the triangle Q, Q+u, Q+v
type Triangle struct {
	planar
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	return NewTriangleEdges(v0, v1.Subtract(v0), v2.Subtract(v0), mat)
}

// NewTriangleEdges creates a triangle from a vertex and the two edges leaving it
func NewTriangleEdges(q, u, v core.Vec3, mat material.Material) *Triangle {
	triangle := &Triangle{planar: newPlanar(q, u, v, mat)}
	triangle.area /= 2
	triangle.bbox = core.NewAABBFromPoints(q, q.Add(u), q.Add(v)).Pad()
	return triangle
}

// Hit tests if a ray intersects with the triangle. Edges and vertices are excluded.
func (t *Triangle) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	hitT, alpha, beta, ok := t.hit(ray, rayT)
	if !ok || !insideTriangle(alpha, beta) {
		return nil, false
	}
	return t.record(ray, hitT, core.NewVec2(alpha, beta)), true
}

func insideTriangle(alpha, beta float64) bool {
	return alpha > 0 && beta > 0 && alpha+beta < 1
}

// BoundingBox returns the padded bounding box of the triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Area returns |u×v|/2
func (t *Triangle) Area() float64 {
	return t.area
}

// PDFValue returns distance²/(|cosθ|·area) for directions that hit the triangle, 0 otherwise
func (t *Triangle) PDFValue(origin, direction core.Vec3) float64 {
	hit, ok := t.Hit(core.NewRay(origin, direction), lightRay)
	if !ok {
		return 0
	}
	return t.lightPDF(hit, direction, t.area)
}

// Random returns a direction from origin to a uniformly chosen point on the triangle
func (t *Triangle) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	sample := sampler.Get2D()
	alpha, beta := sample.X, sample.Y
	// Fold the upper half of the unit square back onto the triangle
	if alpha+beta > 1 {
		alpha, beta = 1-alpha, 1-beta
	}
	return t.pointAt(alpha, beta).Subtract(origin)
}
