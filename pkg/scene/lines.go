package scene

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

// NewLinesScene creates a helix of capsule lines around a pyramid of triangles
func NewLinesScene(cfg *renderer.Config, s *Scene) error {
	cfg.AspectRatio = 16.0 / 9.0
	cfg.ImageWidth = 600
	cfg.VFov = 50
	cfg.LookFrom = core.NewVec3(0, 2.5, 6)
	cfg.LookAt = core.NewVec3(0, 1, 0)
	cfg.VUp = core.NewVec3(0, 1, 0)
	cfg.DefocusAngle = 0
	cfg.FocusDist = 0
	cfg.Background = skyGradient
	cfg.Near, cfg.Far = 2, 12

	ground := material.NewTexturedLambertian(
		material.NewCheckerColors(0.5, core.NewVec3(0.2, 0.3, 0.1), core.NewVec3(0.9, 0.9, 0.9)),
	)
	s.Add(NewGroundQuad(core.NewVec3(0, 0, 0), 40, ground))

	// Helix of short capsules winding up around the Y axis
	segments := 36
	radius := 1.6
	for k := 0; k < segments; k++ {
		a0 := float64(k) / float64(segments) * 4 * math.Pi
		a1 := float64(k+1) / float64(segments) * 4 * math.Pi
		start := core.NewVec3(radius*math.Cos(a0), 0.2+float64(k)*0.07, radius*math.Sin(a0))
		end := core.NewVec3(radius*math.Cos(a1), 0.2+float64(k+1)*0.07, radius*math.Sin(a1))

		mat := material.NewMetal(oklchToRGB(0.7, 0.15, float64(k)*10), 0.1)
		s.Add(geometry.NewLine(start, end, 0.06, mat))
	}

	// Pyramid of four triangles
	apex := core.NewVec3(0, 1.6, 0)
	base := [4]core.Vec3{
		core.NewVec3(-0.7, 0, -0.7),
		core.NewVec3(0.7, 0, -0.7),
		core.NewVec3(0.7, 0, 0.7),
		core.NewVec3(-0.7, 0, 0.7),
	}
	faces := []material.Material{
		material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05)),
		material.NewDielectric(1.5),
		material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15)),
		material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.2),
	}
	for k := range base {
		s.Add(geometry.NewTriangle(base[k], base[(k+1)%4], apex, faces[k]))
	}

	s.AddDiskLight(core.NewVec3(0, 5, 0), core.NewVec3(1.2, 0, 0), core.NewVec3(0, 0, 1.2), core.NewVec3(6, 6, 6))
	return nil
}
