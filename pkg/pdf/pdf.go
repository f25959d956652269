package pdf

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// PDF is a direction sampling strategy that can also evaluate its own density
type PDF interface {
	// Value returns the solid angle density of direction
	Value(direction core.Vec3) float64
	// Generate draws a direction from the distribution
	Generate(sampler core.Sampler) core.Vec3
}

// Source is implemented by geometry that can be sampled as an area light
type Source interface {
	// PDFValue returns the solid angle density of sampling direction from origin
	PDFValue(origin, direction core.Vec3) float64
	// Random returns a direction from origin toward a random point on the source
	Random(origin core.Vec3, sampler core.Sampler) core.Vec3
}

// SpherePDF samples directions uniformly over the unit sphere
type SpherePDF struct{}

// NewSpherePDF creates a uniform sphere PDF
func NewSpherePDF() SpherePDF {
	return SpherePDF{}
}

func (SpherePDF) Value(direction core.Vec3) float64 {
	return 1 / (4 * math.Pi)
}

func (SpherePDF) Generate(sampler core.Sampler) core.Vec3 {
	return core.SampleOnUnitSphere(sampler.Get2D())
}

// CosinePDF samples a cosine-weighted hemisphere around a normal
type CosinePDF struct {
	basis core.ONB
}

// NewCosinePDF creates a cosine PDF around normal
func NewCosinePDF(normal core.Vec3) CosinePDF {
	return CosinePDF{basis: core.NewONB(normal)}
}

func (c CosinePDF) Value(direction core.Vec3) float64 {
	cosTheta := direction.Normalize().Dot(c.basis.W)
	return math.Max(0, cosTheta/math.Pi)
}

func (c CosinePDF) Generate(sampler core.Sampler) core.Vec3 {
	return c.basis.Transform(core.SampleCosineDirection(sampler.Get2D()))
}

// HittablePDF samples directions from Origin toward a light source
type HittablePDF struct {
	Source Source
	Origin core.Vec3
}

// NewHittablePDF creates a PDF that samples source as seen from origin
func NewHittablePDF(source Source, origin core.Vec3) HittablePDF {
	return HittablePDF{Source: source, Origin: origin}
}

func (h HittablePDF) Value(direction core.Vec3) float64 {
	return h.Source.PDFValue(h.Origin, direction)
}

func (h HittablePDF) Generate(sampler core.Sampler) core.Vec3 {
	return h.Source.Random(h.Origin, sampler)
}

// MixturePDF blends component PDFs by weight. Sampling picks one component
// with probability proportional to its weight; the density is the weighted sum.
type MixturePDF struct {
	components []PDF
	weights    []float64
}

// NewMixturePDF mixes a and b with equal weight
func NewMixturePDF(a, b PDF) *MixturePDF {
	return NewWeightedMixturePDF([]PDF{a, b}, []float64{0.5, 0.5})
}

// NewWeightedMixturePDF mixes components with the given weights, which are normalized to sum to 1
func NewWeightedMixturePDF(components []PDF, weights []float64) *MixturePDF {
	total := 0.0
	for _, w := range weights {
		total += w
	}

	normalized := make([]float64, len(weights))
	for i, w := range weights {
		if total > 0 {
			normalized[i] = w / total
		} else {
			normalized[i] = 1 / float64(len(weights))
		}
	}

	return &MixturePDF{components: components, weights: normalized}
}

func (m *MixturePDF) Value(direction core.Vec3) float64 {
	sum := 0.0
	for i, c := range m.components {
		if m.weights[i] == 0 {
			continue
		}
		sum += m.weights[i] * c.Value(direction)
	}
	return sum
}

func (m *MixturePDF) Generate(sampler core.Sampler) core.Vec3 {
	u := sampler.Get1D()
	cumulative := 0.0
	for i, c := range m.components {
		cumulative += m.weights[i]
		if u < cumulative {
			return c.Generate(sampler)
		}
	}
	return m.components[len(m.components)-1].Generate(sampler)
}
