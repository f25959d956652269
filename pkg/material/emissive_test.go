package material

import (
	"math"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

func TestDiffuseLight_NeverScatters(t *testing.T) {
	light := NewDiffuseLight(core.NewVec3(4, 4, 4))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit := HitRecord{Point: core.NewVec3(0, 0, -1), Normal: core.NewVec3(0, 0, 1), FrontFace: true}

	if _, scattered := light.Scatter(ray, hit, core.NewSeededSampler(1)); scattered {
		t.Error("Diffuse light should absorb every ray")
	}
	if got := light.Emitted(ray, hit); got != core.NewVec3(4, 4, 4) {
		t.Errorf("Expected emission (4,4,4), got %v", got)
	}
}

func TestBase_Defaults(t *testing.T) {
	var materials = []Material{
		NewMetal(core.NewVec3(1, 1, 1), 0),
		NewDielectric(1.5),
		NewLambertian(core.NewVec3(0.5, 0.5, 0.5)),
	}

	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := HitRecord{Normal: core.NewVec3(0, 1, 0)}
	for _, m := range materials {
		if got := m.Emitted(ray, hit); got != (core.Color{}) {
			t.Errorf("%T should not emit, got %v", m, got)
		}
	}
}

func TestIsotropic_UniformDensity(t *testing.T) {
	iso := NewIsotropic(core.NewVec3(0.7, 0.7, 0.7))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))
	hit := HitRecord{Point: core.NewVec3(1, 0, 0)}

	scatter, ok := iso.Scatter(ray, hit, core.NewSeededSampler(9))
	if !ok {
		t.Fatal("Isotropic should always scatter")
	}
	if scatter.Attenuation != core.NewVec3(0.7, 0.7, 0.7) {
		t.Errorf("Unexpected attenuation %v", scatter.Attenuation)
	}

	expected := 1 / (4 * math.Pi)
	if got := iso.ScatteringPDF(ray, hit, scatter.Scattered); math.Abs(got-expected) > 1e-12 {
		t.Errorf("Expected %f, got %f", expected, got)
	}
	if math.Abs(scatter.Scattered.Direction.Length()-1) > 1e-9 {
		t.Errorf("Expected a unit direction, got %v", scatter.Scattered.Direction)
	}
}

func TestHitRecord_SetFaceNormal(t *testing.T) {
	outward := core.NewVec3(0, 1, 0)

	var front HitRecord
	front.SetFaceNormal(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), outward)
	if !front.FrontFace || front.Normal != outward {
		t.Errorf("Expected front face with outward normal, got %+v", front)
	}

	var back HitRecord
	back.SetFaceNormal(core.NewRay(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0)), outward)
	if back.FrontFace || back.Normal != outward.Negate() {
		t.Errorf("Expected back face with flipped normal, got %+v", back)
	}

	back.SetNormalAngle(core.NewRay(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0)), outward)
	if back.NormalAngle != 0 {
		t.Errorf("Expected zero angle for a ray along the normal, got %f", back.NormalAngle)
	}
}
