package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// planar holds the plane state shared by quads, triangles and disks: an origin
// Q and two edge vectors u and v spanning the plane
type planar struct {
	Q, U, V  core.Vec3
	Material material.Material

	normal core.Vec3
	d      float64   // Plane equation constant: normal·p = d
	w      core.Vec3 // n/(n·n), used to solve for planar coordinates
	area   float64
	bbox   core.AABB
}

func newPlanar(q, u, v core.Vec3, mat material.Material) planar {
	n := u.Cross(v)
	normal := n.Normalize()

	return planar{
		Q:        q,
		U:        u,
		V:        v,
		Material: mat,
		normal:   normal,
		d:        normal.Dot(q),
		w:        n.Divide(n.Dot(n)),
		area:     n.Length(),
	}
}

// hit intersects the ray with the plane and returns the hit t and planar coordinates
func (p *planar) hit(ray core.Ray, rayT core.Interval) (t, alpha, beta float64, ok bool) {
	denominator := p.normal.Dot(ray.Direction)

	// Ray is parallel to the plane
	if math.Abs(denominator) < 1e-8 {
		return 0, 0, 0, false
	}

	t = (p.d - p.normal.Dot(ray.Origin)) / denominator
	if !rayT.Contains(t) {
		return 0, 0, 0, false
	}

	planarHit := ray.At(t).Subtract(p.Q)
	alpha = p.w.Dot(planarHit.Cross(p.V))
	beta = p.w.Dot(p.U.Cross(planarHit))

	return t, alpha, beta, true
}

// record builds the hit record for a confirmed interior hit
func (p *planar) record(ray core.Ray, t float64, uv core.Vec2) *material.HitRecord {
	hitRecord := &material.HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: p.Material,
		UV:       uv,
	}
	hitRecord.SetFaceNormal(ray, p.normal)
	hitRecord.SetNormalAngle(ray, p.normal)
	return hitRecord
}

// lightPDF converts a uniform area density into solid angle as seen from origin.
// Grazing directions yield zero.
func (p *planar) lightPDF(hit *material.HitRecord, direction core.Vec3, area float64) float64 {
	if area <= 0 {
		return 0
	}

	distanceSquared := hit.T * hit.T * direction.LengthSquared()
	cosine := math.Abs(direction.Dot(hit.Normal)) / direction.Length()
	if cosine < 1e-8 {
		return 0
	}

	return distanceSquared / (cosine * area)
}

// pointAt maps planar coordinates back into world space
func (p *planar) pointAt(alpha, beta float64) core.Vec3 {
	return p.Q.Add(p.U.Multiply(alpha)).Add(p.V.Multiply(beta))
}

// Normal returns the unit plane normal (u×v)
func (p *planar) Normal() core.Vec3 {
	return p.normal
}

// lightRay is the shadow-ray interval used when evaluating light densities
var lightRay = core.NewInterval(0.001, math.Inf(1))
