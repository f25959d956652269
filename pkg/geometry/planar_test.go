package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

func TestQuad_CenterCoordinates(t *testing.T) {
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 3, 0), nil)

	hit, ok := quad.Hit(core.NewRay(core.NewVec3(1, 1.5, 5), core.NewVec3(0, 0, -1)), forward)
	if !ok {
		t.Fatal("Expected hit at the quad center, but got miss")
	}
	if hit.UV != core.NewVec2(0.5, 0.5) {
		t.Errorf("Expected planar coordinates (0.5,0.5), got %v", hit.UV)
	}
	if hit.T != 5 {
		t.Errorf("Expected t=5, got %f", hit.T)
	}
}

func TestQuad_InteriorBoundary(t *testing.T) {
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 3, 0), nil)

	tests := []struct {
		name     string
		x, y     float64
		expected bool
	}{
		{"Corner is inside", 0, 0, true},
		{"Opposite corner is inside", 2, 3, true},
		{"Just past u", 2.001, 1.5, false},
		{"Just before origin on v", 1, -0.001, false},
		{"Just past v", 1, 3.001, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := quad.Hit(core.NewRay(core.NewVec3(tt.x, tt.y, 5), core.NewVec3(0, 0, -1)), forward)
			if ok != tt.expected {
				t.Errorf("Expected hit=%v, got %v", tt.expected, ok)
			}
		})
	}
}

func TestQuad_ParallelRayMisses(t *testing.T) {
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil)
	if _, ok := quad.Hit(core.NewRay(core.NewVec3(0.5, 0.5, 0), core.NewVec3(1, 0, 0)), forward); ok {
		t.Error("Expected miss for a ray parallel to the plane")
	}
}

func TestQuad_BoundingBoxIsPadded(t *testing.T) {
	quad := NewQuad(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), nil)
	box := quad.BoundingBox()
	if box.Y.Size() <= 0 {
		t.Errorf("Expected a padded Y extent, got %v", box.Y)
	}
	if !box.Hit(core.NewRay(core.NewVec3(0.5, 5, 0.5), core.NewVec3(0, -1, 0)), forward) {
		t.Error("A ray through the quad should hit its box")
	}
}

func TestQuad_PDFValue(t *testing.T) {
	// Light on the plane y=2 facing down, centered above the origin
	light := NewQuad(core.NewVec3(-1, 2, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), nil)
	origin := core.NewVec3(0, 0, 0)

	t.Run("Miss is exactly zero", func(t *testing.T) {
		for _, direction := range []core.Vec3{
			core.NewVec3(1, 0, 0),
			core.NewVec3(0, -1, 0),
			core.NewVec3(5, 1, 0),
		} {
			if got := light.PDFValue(origin, direction); got != 0 {
				t.Errorf("Direction %v: expected 0, got %f", direction, got)
			}
		}
	})

	t.Run("Dead center matches solid angle conversion", func(t *testing.T) {
		center := core.NewVec3(0, 2, 0)
		toCenter := center.Subtract(origin)
		distanceSquared := toCenter.LengthSquared()
		area := core.NewVec3(2, 0, 0).Cross(core.NewVec3(0, 0, 2)).Length()
		cosTheta := math.Abs(toCenter.Normalize().Dot(core.NewVec3(0, -1, 0)))
		expected := distanceSquared / (cosTheta * area)

		for _, scale := range []float64{0.5, 1, 3} {
			got := light.PDFValue(origin, toCenter.Multiply(scale))
			if math.Abs(got-expected) > 1e-12 {
				t.Errorf("Scale %f: expected %f, got %f", scale, expected, got)
			}
		}
	})

	t.Run("Oblique direction", func(t *testing.T) {
		target := core.NewVec3(0.5, 2, 0.5)
		direction := target.Subtract(origin)
		cosTheta := math.Abs(direction.Normalize().Y)
		expected := direction.LengthSquared() / (cosTheta * 4)

		if got := light.PDFValue(origin, direction); math.Abs(got-expected) > 1e-9 {
			t.Errorf("Expected %f, got %f", expected, got)
		}
	})

	t.Run("Direction in the light's plane", func(t *testing.T) {
		if got := light.PDFValue(core.NewVec3(-5, 2, 0), core.NewVec3(1, 0, 0)); got != 0 {
			t.Errorf("Expected 0, got %f", got)
		}
	})

	t.Run("Grazing cosine", func(t *testing.T) {
		// A long direction passes the parallel test but its cosine is about 2e-9
		origin := core.NewVec3(0, 2-2e-9, -1)
		direction := core.NewVec3(0, 1e-6, 500)
		if _, ok := light.Hit(core.NewRay(origin, direction), lightRay); !ok {
			t.Fatal("Expected hit, but got miss")
		}
		if got := light.PDFValue(origin, direction); got != 0 {
			t.Errorf("Expected 0 below the grazing threshold, got %g", got)
		}

		// Cosine about 1e-7 is above the threshold
		origin = core.NewVec3(0, 2-2e-9, -0.01)
		direction = core.NewVec3(0, 1e-6, 10)
		if got := light.PDFValue(origin, direction); got <= 0 || math.IsInf(got, 0) {
			t.Errorf("Expected a finite positive density, got %g", got)
		}
	})

	t.Run("Samples land on the light", func(t *testing.T) {
		sampler := core.NewSeededSampler(8)
		for i := 0; i < 200; i++ {
			direction := light.Random(origin, sampler)
			if light.PDFValue(origin, direction) <= 0 {
				t.Fatalf("Sampled direction %v has zero density", direction)
			}
		}
	})
}

func TestTriangle_EdgesExcluded(t *testing.T) {
	triangle := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil)

	tests := []struct {
		name     string
		x, y     float64
		expected bool
	}{
		{"Interior", 0.25, 0.25, true},
		{"Hypotenuse alpha+beta=1", 0.5, 0.5, false},
		{"Edge alpha=0", 0, 0.5, false},
		{"Edge beta=0", 0.5, 0, false},
		{"Vertex", 0, 0, false},
		{"Outside", 0.75, 0.75, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := triangle.Hit(core.NewRay(core.NewVec3(tt.x, tt.y, 1), core.NewVec3(0, 0, -1)), forward)
			if ok != tt.expected {
				t.Errorf("Expected hit=%v, got %v", tt.expected, ok)
			}
		})
	}
}

func TestTriangle_AreaAndSampling(t *testing.T) {
	triangle := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), nil)
	if triangle.Area() != 2 {
		t.Errorf("Expected area 2, got %f", triangle.Area())
	}

	origin := core.NewVec3(0.1, 0.1, 3)
	sampler := core.NewSeededSampler(4)
	for i := 0; i < 200; i++ {
		p := origin.Add(triangle.Random(origin, sampler))
		if p.X < -1e-9 || p.Y < -1e-9 || p.X+p.Y > 2+1e-9 {
			t.Fatalf("Sample %v outside the triangle", p)
		}
	}
}

func TestDisk_Interior(t *testing.T) {
	disk := NewDisk(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil)

	tests := []struct {
		name     string
		x, y     float64
		expected bool
	}{
		{"Center", 0, 0, true},
		{"On the rim", 1, 0, true},
		{"Inside the square but outside the circle", 0.8, 0.8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := disk.Hit(core.NewRay(core.NewVec3(tt.x, tt.y, 1), core.NewVec3(0, 0, -1)), forward)
			if ok != tt.expected {
				t.Errorf("Expected hit=%v, got %v", tt.expected, ok)
			}
		})
	}

	if math.Abs(disk.Area()-math.Pi) > 1e-12 {
		t.Errorf("Expected area π, got %f", disk.Area())
	}

	box := disk.BoundingBox()
	if box.X.Min != -1 || box.X.Max != 1 || box.Y.Min != -1 || box.Y.Max != 1 {
		t.Errorf("Expected box spanning Q±u±v, got %v", box)
	}
}

func TestNewBox_SixFaces(t *testing.T) {
	box := NewBox(core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0), nil)
	if box.Len() != 6 {
		t.Fatalf("Expected 6 faces, got %d", box.Len())
	}

	directions := []core.Vec3{
		core.NewVec3(1, 0, 0), core.NewVec3(-1, 0, 0),
		core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1),
	}
	center := core.NewVec3(0.5, 0.5, 0.5)
	for _, d := range directions {
		origin := center.Subtract(d.Multiply(5))
		hit, ok := box.Hit(core.NewRay(origin, d), forward)
		if !ok {
			t.Fatalf("Ray along %v should hit the box", d)
		}
		if math.Abs(hit.T-4.5) > 1e-9 {
			t.Errorf("Ray along %v: expected t=4.5, got %f", d, hit.T)
		}
		if !hit.FrontFace {
			t.Errorf("Ray along %v should hit an outward facing side", d)
		}
	}
}
