package integrator

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/pdf"
)

// minMixtureDensity is the smallest sampling density a path may continue with
const minMixtureDensity = 1e-8

// shadowAcneEpsilon keeps secondary rays from re-hitting the surface they leave
const shadowAcneEpsilon = 0.001

// PathTracingIntegrator implements unidirectional path tracing with light sampling
type PathTracingIntegrator struct {
	MaxDepth   int
	Background Background
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int, background Background) *PathTracingIntegrator {
	if background == nil {
		background = SolidBackground{}
	}
	return &PathTracingIntegrator{
		MaxDepth:   maxDepth,
		Background: background,
	}
}

// RayColor traces a path of at most MaxDepth surface interactions. Diffuse
// bounces draw their direction from an equal mixture of light sampling and
// the material's own distribution; specular bounces keep the material's ray.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Hittable, lights pdf.Source, sampler core.Sampler) core.Color {
	attenuation := core.NewVec3(1, 1, 1)
	radiance := core.Color{}
	current := ray

	for depth := 0; depth < pt.MaxDepth; depth++ {
		hit, isHit := world.Hit(current, core.NewInterval(shadowAcneEpsilon, math.Inf(1)))
		if !isHit {
			return radiance.Add(attenuation.MultiplyVec(pt.Background.Value(current)))
		}

		radiance = radiance.Add(attenuation.MultiplyVec(hit.Material.Emitted(current, *hit)))

		scatter, didScatter := hit.Material.Scatter(current, *hit, sampler)
		if !didScatter {
			return radiance
		}

		if scatter.Specular || scatter.PDF == nil {
			attenuation = attenuation.MultiplyVec(scatter.Attenuation)
			current = scatter.Scattered
			continue
		}

		sampling := scatter.PDF
		if lights != nil {
			sampling = pdf.NewMixturePDF(pdf.NewHittablePDF(lights, hit.Point), scatter.PDF)
		}

		next := core.NewRay(hit.Point, sampling.Generate(sampler))
		samplingDensity := sampling.Value(next.Direction)
		if samplingDensity < minMixtureDensity {
			return radiance
		}

		scatteringPDF := hit.Material.ScatteringPDF(current, *hit, next)
		attenuation = attenuation.MultiplyVec(scatter.Attenuation).Multiply(scatteringPDF / samplingDensity)
		current = next
	}

	return radiance
}
