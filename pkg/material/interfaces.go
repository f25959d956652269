package material

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/pdf"
)

// Material interface for objects that can scatter rays
type Material interface {
	// Scatter reports how an incoming ray leaves the surface. false means the ray was absorbed.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)

	// ScatteringPDF returns the density of the material's own sampling
	// distribution for an arbitrary scattered ray
	ScatteringPDF(rayIn core.Ray, hit HitRecord, scattered core.Ray) float64

	// Emitted returns the radiance emitted at the hit point
	Emitted(rayIn core.Ray, hit HitRecord) core.Color
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Attenuation core.Color // Color attenuation
	Scattered   core.Ray   // The scattered ray proposed by the material
	PDF         pdf.PDF    // Sampling strategy the direction was drawn from (nil for specular)
	Specular    bool       // Delta scattering, Scattered must be used as-is
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point       core.Vec3 // Point of intersection
	Normal      core.Vec3 // Surface normal, always facing against the ray
	Material    Material  // Material of the hit object
	T           float64   // Parameter t along the ray
	UV          core.Vec2 // Surface coordinates
	FrontFace   bool      // Whether ray hit the front face
	NormalAngle float64   // Angle between the ray and the outward normal, in radians
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// SetNormalAngle records the angle between the unit ray direction and the outward normal
func (h *HitRecord) SetNormalAngle(ray core.Ray, outwardNormal core.Vec3) {
	cosine := ray.Direction.Normalize().Dot(outwardNormal)
	h.NormalAngle = math.Acos(math.Max(-1, math.Min(1, cosine)))
}

// Base provides the non-emitting, non-sampling defaults a material can embed
type Base struct{}

// Emitted returns black
func (Base) Emitted(rayIn core.Ray, hit HitRecord) core.Color {
	return core.Color{}
}

// ScatteringPDF returns 0
func (Base) ScatteringPDF(rayIn core.Ray, hit HitRecord, scattered core.Ray) float64 {
	return 0
}
