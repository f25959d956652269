package geometry

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// Quad represents a parallelogram defined by a corner Q and two edge vectors
type Quad struct {
	planar
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(q, u, v core.Vec3, mat material.Material) *Quad {
	quad := &Quad{planar: newPlanar(q, u, v, mat)}

	diagonal1 := core.NewAABBFromPoints(q, q.Add(u).Add(v))
	diagonal2 := core.NewAABBFromPoints(q.Add(u), q.Add(v))
	quad.bbox = core.NewAABBEnclosing(diagonal1, diagonal2).Pad()

	return quad
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	t, alpha, beta, ok := q.hit(ray, rayT)
	if !ok || !insideQuad(alpha, beta) {
		return nil, false
	}
	return q.record(ray, t, core.NewVec2(alpha, beta)), true
}

// insideQuad accepts the closed unit square
func insideQuad(alpha, beta float64) bool {
	unit := core.NewInterval(0, 1)
	return unit.Contains(alpha) && unit.Contains(beta)
}

// BoundingBox returns the padded bounding box of the quad
func (q *Quad) BoundingBox() core.AABB {
	return q.bbox
}

// Area returns |u×v|
func (q *Quad) Area() float64 {
	return q.area
}

// PDFValue returns distance²/(|cosθ|·area) for directions that hit the quad, 0 otherwise
func (q *Quad) PDFValue(origin, direction core.Vec3) float64 {
	hit, ok := q.Hit(core.NewRay(origin, direction), lightRay)
	if !ok {
		return 0
	}
	return q.lightPDF(hit, direction, q.area)
}

// Random returns a direction from origin to a uniformly chosen point on the quad
func (q *Quad) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	sample := sampler.Get2D()
	return q.pointAt(sample.X, sample.Y).Subtract(origin)
}
