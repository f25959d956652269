package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
)

// unitSquare is two triangles covering [0,1]x[0,1] at z=0
func unitSquare() ([]core.Vec3, []int) {
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(1, 1, 0),
		core.NewVec3(0, 1, 0),
	}
	faces := []int{
		0, 1, 2,
		0, 2, 3,
	}
	return vertices, faces
}

func TestTriangleMesh_Creation(t *testing.T) {
	vertices, faces := unitSquare()
	mesh, err := NewTriangleMesh(vertices, faces, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)), nil)
	if err != nil {
		t.Fatalf("NewTriangleMesh failed: %v", err)
	}

	if mesh.TriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}

	bbox := mesh.BoundingBox()
	if bbox.X.Min != 0 || bbox.X.Max != 1 || bbox.Y.Min != 0 || bbox.Y.Max != 1 {
		t.Errorf("Expected the unit square in XY, got %v", bbox)
	}
}

func TestTriangleMesh_Hit(t *testing.T) {
	vertices, faces := unitSquare()
	red := material.NewLambertian(core.NewVec3(1, 0, 0))
	green := material.NewLambertian(core.NewVec3(0, 1, 0))
	mesh, err := NewTriangleMesh(vertices, faces, nil, []material.Material{red, green})
	if err != nil {
		t.Fatalf("NewTriangleMesh failed: %v", err)
	}

	tests := []struct {
		name     string
		x, y     float64
		material material.Material
	}{
		{"first face", 0.75, 0.25, red},
		{"second face", 0.25, 0.75, green},
		{"outside", 1.5, 0.5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(tt.x, tt.y, 1), core.NewVec3(0, 0, -1))
			hit, ok := mesh.Hit(ray, forward)
			if tt.material == nil {
				if ok {
					t.Errorf("Expected miss, but got hit at t=%f", hit.T)
				}
				return
			}
			if !ok {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.T-1) > 1e-9 {
				t.Errorf("Expected t=1, got %f", hit.T)
			}
			if hit.Material != tt.material {
				t.Errorf("Expected the face material %v, got %v", tt.material, hit.Material)
			}
		})
	}
}

func TestTriangleMesh_Errors(t *testing.T) {
	vertices, faces := unitSquare()

	tests := []struct {
		name      string
		faces     []int
		materials []material.Material
	}{
		{"ragged faces", faces[:4], nil},
		{"index out of range", []int{0, 1, 4}, nil},
		{"negative index", []int{0, -1, 2}, nil},
		{"material count", faces, []material.Material{nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTriangleMesh(vertices, tt.faces, nil, tt.materials); err == nil {
				t.Error("Expected an error")
			}
		})
	}

	if _, err := NewTriangleMesh(vertices, nil, nil, nil); !errors.Is(err, ErrEmptyScene) {
		t.Errorf("Expected ErrEmptyScene for a mesh with no faces, got %v", err)
	}
}
