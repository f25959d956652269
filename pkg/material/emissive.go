package material

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// DiffuseLight represents a light-emitting material
type DiffuseLight struct {
	Base
	Emission Texture // Emitted radiance
}

// NewDiffuseLight creates a new emissive material with constant radiance
func NewDiffuseLight(emission core.Color) *DiffuseLight {
	return &DiffuseLight{Emission: NewSolidColor(emission)}
}

// NewTexturedDiffuseLight creates a new emissive material driven by a texture
func NewTexturedDiffuseLight(emission Texture) *DiffuseLight {
	return &DiffuseLight{Emission: emission}
}

// Scatter absorbs every incoming ray
func (e *DiffuseLight) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emitted returns the emitted light for this material
func (e *DiffuseLight) Emitted(rayIn core.Ray, hit HitRecord) core.Color {
	return e.Emission.Value(hit.UV, hit.Point)
}
