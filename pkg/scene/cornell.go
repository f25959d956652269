package scene

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

// Cornell box dimensions (standard 555x555x555 units)
const boxSize = 555.0

func cornellCamera(cfg *renderer.Config) {
	cfg.AspectRatio = 1.0
	cfg.ImageWidth = 600
	cfg.VFov = 40
	cfg.LookFrom = core.NewVec3(278, 278, -800)
	cfg.LookAt = core.NewVec3(278, 278, 0)
	cfg.VUp = core.NewVec3(0, 1, 0)
	cfg.DefocusAngle = 0
	cfg.FocusDist = 0
	cfg.Background = integrator.SolidBackground{}
	cfg.Near, cfg.Far = 800, 1400
}

// addCornellWalls adds the five walls and returns the white material
func addCornellWalls(s *Scene) material.Material {
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	s.Add(
		geometry.NewQuad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), green),
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), red),
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white),
		geometry.NewQuad(core.NewVec3(boxSize, boxSize, boxSize), core.NewVec3(-boxSize, 0, 0), core.NewVec3(0, 0, -boxSize), white),
		geometry.NewQuad(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), white),
	)
	return white
}

// cornellBoxes returns the tall and short boxes, rotated about Y and moved into place
func cornellBoxes(mat material.Material) (tall, short geometry.Hittable) {
	tallBox := geometry.NewBox(core.NewVec3(0, 0, 0), core.NewVec3(165, 330, 165), mat)
	tall = geometry.NewTranslate(geometry.NewRotateY(tallBox, 15), core.NewVec3(265, 0, 295))

	shortBox := geometry.NewBox(core.NewVec3(0, 0, 0), core.NewVec3(165, 165, 165), mat)
	short = geometry.NewTranslate(geometry.NewRotateY(shortBox, -18), core.NewVec3(130, 0, 65))
	return tall, short
}

// NewCornellScene creates a classic Cornell box scene with quad walls and area lighting
func NewCornellScene(cfg *renderer.Config, s *Scene) error {
	cornellCamera(cfg)
	white := addCornellWalls(s)

	s.AddQuadLight(
		core.NewVec3(343, 554, 332), // corner (just below the ceiling)
		core.NewVec3(-130, 0, 0),
		core.NewVec3(0, 0, -105),
		core.NewVec3(15, 15, 15),
	)

	tall, short := cornellBoxes(white)
	s.Add(tall, short)
	return nil
}

// NewCornellSmokeScene replaces the Cornell boxes with dark smoke and white fog
func NewCornellSmokeScene(cfg *renderer.Config, s *Scene) error {
	cornellCamera(cfg)
	white := addCornellWalls(s)

	s.AddQuadLight(
		core.NewVec3(113, 554, 127),
		core.NewVec3(330, 0, 0),
		core.NewVec3(0, 0, 305),
		core.NewVec3(7, 7, 7),
	)

	tall, short := cornellBoxes(white)
	s.Add(
		geometry.NewConstantMedium(tall, 0.01, core.NewVec3(0, 0, 0), 1),
		geometry.NewConstantMedium(short, 0.01, core.NewVec3(1, 1, 1), 2),
	)
	return nil
}
