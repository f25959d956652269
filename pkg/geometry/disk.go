package geometry

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// Disk is an ellipse centered at Q with half-axes u and v. Perpendicular
// axes of equal length give a circular disk.
type Disk struct {
	planar
}

// NewDisk creates a disk centered at q spanned by the half-axes u and v
func NewDisk(q, u, v core.Vec3, mat material.Material) *Disk {
	disk := &Disk{planar: newPlanar(q, u, v, mat)}
	disk.area *= math.Pi
	disk.bbox = core.NewAABBFromPoints(
		q.Subtract(u).Subtract(v),
		q.Add(u).Add(v),
		q.Add(u).Subtract(v),
		q.Subtract(u).Add(v),
	).Pad()
	return disk
}

// NewCircle creates a circular disk of the given radius facing along normal
func NewCircle(center, normal core.Vec3, radius float64, mat material.Material) *Disk {
	basis := core.NewONB(normal)
	return NewDisk(center, basis.U.Multiply(radius), basis.V.Multiply(radius), mat)
}

// Hit tests if a ray intersects with the disk
func (d *Disk) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	t, alpha, beta, ok := d.hit(ray, rayT)
	if !ok || !insideDisk(alpha, beta) {
		return nil, false
	}
	uv := core.NewVec2((alpha+1)/2, (beta+1)/2)
	return d.record(ray, t, uv), true
}

func insideDisk(alpha, beta float64) bool {
	return alpha*alpha+beta*beta <= 1
}

// BoundingBox returns the padded bounding box of the disk
func (d *Disk) BoundingBox() core.AABB {
	return d.bbox
}

// Area returns π|u×v|
func (d *Disk) Area() float64 {
	return d.area
}

// PDFValue returns distance²/(|cosθ|·area) for directions that hit the disk, 0 otherwise
func (d *Disk) PDFValue(origin, direction core.Vec3) float64 {
	hit, ok := d.Hit(core.NewRay(origin, direction), lightRay)
	if !ok {
		return 0
	}
	return d.lightPDF(hit, direction, d.area)
}

// Random returns a direction from origin to a uniformly chosen point on the disk
func (d *Disk) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	p := core.SamplePointInUnitDisk(sampler.Get2D())
	return d.pointAt(p.X, p.Y).Subtract(origin)
}
