package material

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/pdf"
)

// Isotropic scatters uniformly in all directions, used as the phase function of volumes
type Isotropic struct {
	Base
	Albedo Texture
}

// NewIsotropic creates an isotropic phase function with a constant albedo
func NewIsotropic(albedo core.Color) *Isotropic {
	return &Isotropic{Albedo: NewSolidColor(albedo)}
}

func (i *Isotropic) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	sphere := pdf.NewSpherePDF()

	return ScatterResult{
		Attenuation: i.Albedo.Value(hit.UV, hit.Point),
		Scattered:   core.NewRay(hit.Point, sphere.Generate(sampler)),
		PDF:         sphere,
	}, true
}

func (i *Isotropic) ScatteringPDF(rayIn core.Ray, hit HitRecord, scattered core.Ray) float64 {
	return 1 / (4 * math.Pi)
}
