package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

var forward = core.NewInterval(0, math.Inf(1))

func TestSphere_Hit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1.0, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	tests := []struct {
		name           string
		ray            core.Ray
		shouldHit      bool
		expectedT      float64
		expectedNormal core.Vec3
		frontFace      bool
	}{
		{
			name:           "From outside takes the near root",
			ray:            core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
			shouldHit:      true,
			expectedT:      4.0,
			expectedNormal: core.NewVec3(0, 0, 1),
			frontFace:      true,
		},
		{
			name:           "Unnormalized direction",
			ray:            core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -2)),
			shouldHit:      true,
			expectedT:      2.0,
			expectedNormal: core.NewVec3(0, 0, 1),
			frontFace:      true,
		},
		{
			name:           "From inside takes the far root",
			ray:            core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, -1)),
			shouldHit:      true,
			expectedT:      1.0,
			expectedNormal: core.NewVec3(0, 0, 1),
			frontFace:      false,
		},
		{
			name:      "Miss",
			ray:       core.NewRay(core.NewVec3(0, 2, 0), core.NewVec3(0, 0, -1)),
			shouldHit: false,
		},
		{
			name:      "Behind the ray",
			ray:       core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := sphere.Hit(tt.ray, forward)
			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, isHit)
			}
			if !tt.shouldHit {
				return
			}

			const tolerance = 1e-9
			if math.Abs(hit.T-tt.expectedT) > tolerance {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
			if hit.Normal.Subtract(tt.expectedNormal).Length() > tolerance {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			if hit.FrontFace != tt.frontFace {
				t.Errorf("Expected front face %v, got %v", tt.frontFace, hit.FrontFace)
			}
		})
	}
}

func TestSphere_BoundaryRootRejected(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	// t=4 sits exactly on the interval bound, so the far root is taken
	hit, ok := sphere.Hit(ray, core.NewInterval(4, 10))
	if !ok || hit.T != 6 {
		t.Fatalf("Expected far root t=6, got %+v (hit=%v)", hit, ok)
	}

	if _, ok := sphere.Hit(ray, core.NewInterval(0, 4)); ok {
		t.Error("A root equal to the interval max should be rejected")
	}
}

func TestSphere_NegativeRadiusClamped(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), -2, nil)
	if sphere.Radius != 0 {
		t.Errorf("Expected radius clamped to 0, got %f", sphere.Radius)
	}
	box := sphere.BoundingBox()
	if box.Min() != box.Max() {
		t.Errorf("Expected a point box, got %v", box)
	}

	// Aimed straight at the center, the quadratic has a double root
	ray := core.NewRay(core.NewVec3(1, 2, -2), core.NewVec3(0, 0, 1))
	if hit, ok := sphere.Hit(ray, forward); ok {
		t.Errorf("Expected miss on a zero radius sphere, got normal %v", hit.Normal)
	}
	if got := sphere.PDFValue(ray.Origin, ray.Direction); got != 0 {
		t.Errorf("Expected zero light density, got %f", got)
	}
}

func TestSphere_UV(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	hit, ok := sphere.Hit(core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)), forward)
	if !ok {
		t.Fatal("Expected hit, but got miss")
	}
	// The north pole maps to v=1
	if math.Abs(hit.UV.Y-1) > 1e-9 {
		t.Errorf("Expected v=1 at the pole, got %f", hit.UV.Y)
	}
}

func TestSphere_LightPDF(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -4), 1.0, nil)
	origin := core.NewVec3(0, 0, 0)

	cosThetaMax := math.Sqrt(1 - 1.0/16.0)
	expected := 1 / (2 * math.Pi * (1 - cosThetaMax))
	if got := sphere.PDFValue(origin, core.NewVec3(0, 0, -1)); math.Abs(got-expected) > 1e-9 {
		t.Errorf("Expected %f toward the center, got %f", expected, got)
	}
	if got := sphere.PDFValue(origin, core.NewVec3(0, 1, 0)); got != 0 {
		t.Errorf("Expected 0 for a direction that misses, got %f", got)
	}

	sampler := core.NewSeededSampler(3)
	for i := 0; i < 200; i++ {
		direction := sphere.Random(origin, sampler)
		if _, ok := sphere.Hit(core.NewRay(origin, direction), forward); !ok {
			t.Fatalf("Sampled direction %v misses the sphere", direction)
		}
	}
}
