package material

import (
	"math"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

func TestLambertian_ScatterMatchesPDF(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(0.8, 0.8, 0.8))
	sampler := core.NewSeededSampler(42)

	normal := core.NewVec3(0, 0, 1)
	hit := HitRecord{Point: core.NewVec3(0, 0, 0), Normal: normal}
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	for i := 0; i < 100; i++ {
		scatter, didScatter := lambertian.Scatter(ray, hit, sampler)
		if !didScatter {
			t.Fatal("Lambertian should always scatter")
		}
		if scatter.Specular {
			t.Fatal("Lambertian should not be specular")
		}

		// The material's own density and the returned sampling PDF agree
		expected := lambertian.ScatteringPDF(ray, hit, scatter.Scattered)
		if math.Abs(scatter.PDF.Value(scatter.Scattered.Direction)-expected) > 1e-10 {
			t.Errorf("PDF mismatch: got %f, expected %f", scatter.PDF.Value(scatter.Scattered.Direction), expected)
		}
		if scatter.Scattered.Direction.Dot(normal) < 0 {
			t.Errorf("Scattered below surface: %v", scatter.Scattered.Direction)
		}
	}
}

func TestLambertian_ScatteringPDF(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	hit := HitRecord{Normal: core.NewVec3(0, 1, 0)}
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	tests := []struct {
		name      string
		direction core.Vec3
		expected  float64
	}{
		{"Normal direction", core.NewVec3(0, 3, 0), 1 / math.Pi},
		{"Below surface", core.NewVec3(0, -1, 0), 0},
		{"Oblique", core.NewVec3(1, 1, 0), math.Sqrt2 / 2 / math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lambertian.ScatteringPDF(ray, hit, core.NewRay(core.Vec3{}, tt.direction))
			if math.Abs(got-tt.expected) > 1e-10 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestLambertian_CheckerAlbedo(t *testing.T) {
	even := core.NewVec3(0.9, 0.9, 0.9)
	odd := core.NewVec3(0.1, 0.1, 0.1)
	lambertian := NewTexturedLambertian(NewCheckerColors(1.0, even, odd))
	sampler := core.NewSeededSampler(1)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	tests := []struct {
		point    core.Vec3
		expected core.Color
	}{
		{core.NewVec3(0.5, 0.5, 0.5), even},
		{core.NewVec3(1.5, 0.5, 0.5), odd},
		{core.NewVec3(-0.5, 0.5, 0.5), odd},
		{core.NewVec3(-0.5, -0.5, 0.5), even},
	}

	for _, tt := range tests {
		hit := HitRecord{Point: tt.point, Normal: core.NewVec3(0, 1, 0)}
		scatter, _ := lambertian.Scatter(ray, hit, sampler)
		if scatter.Attenuation != tt.expected {
			t.Errorf("At %v expected %v, got %v", tt.point, tt.expected, scatter.Attenuation)
		}
	}
}
