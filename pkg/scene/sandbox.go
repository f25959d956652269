package scene

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

// skyGradient is the blue-to-white daylight background
var skyGradient = integrator.GradientBackground{
	Top:    core.NewVec3(0.5, 0.7, 1.0),
	Bottom: core.NewVec3(1.0, 1.0, 1.0),
}

// addSandboxObjects adds the sandbox ground and spheres
func addSandboxObjects(s *Scene) {
	checker := material.NewCheckerColors(1.0, core.NewVec3(0.01, 0.01, 0.01), core.NewVec3(0.9, 0.9, 0.9))
	ground := material.NewTexturedLambertian(checker)
	center := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.5)
	bubble := material.NewDielectric(1.0 / 1.5)
	mirror := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)

	s.Add(
		geometry.NewSphere(core.NewVec3(0, -1000.5, -1), 1000, ground),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, glass),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.4, bubble),
		geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5, center),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, mirror),
	)
}

func sandboxCamera(cfg *renderer.Config) {
	cfg.AspectRatio = 16.0 / 9.0
	cfg.ImageWidth = 800
	cfg.VFov = 90
	cfg.LookFrom = core.NewVec3(0, 0, 2)
	cfg.LookAt = core.NewVec3(0, 0, 0)
	cfg.VUp = core.NewVec3(0, 1, 0)
	cfg.DefocusAngle = 0
	cfg.FocusDist = 0
	cfg.Background = integrator.SolidBackground{Color: core.NewVec3(0.05, 0.05, 0.08)}
	cfg.Near, cfg.Far = 0, 12
}

// NewSandboxScene creates the sandbox lit by a quad above the spheres
func NewSandboxScene(cfg *renderer.Config, s *Scene) error {
	sandboxCamera(cfg)
	addSandboxObjects(s)
	s.AddQuadLight(
		core.NewVec3(-1, 2, -2), // corner
		core.NewVec3(2, 0, 0),   // u vector (X direction)
		core.NewVec3(0, 0, 2),   // v vector (Z direction)
		core.NewVec3(4, 4, 4),
	)
	return nil
}

// NewSandboxDiskScene creates the sandbox lit by a unit disk light
func NewSandboxDiskScene(cfg *renderer.Config, s *Scene) error {
	sandboxCamera(cfg)
	addSandboxObjects(s)
	s.AddDiskLight(
		core.NewVec3(0, 2, -1),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(4, 4, 4),
	)
	return nil
}

// NewTwoSpheresScene creates a small deterministic scene without area lights
func NewTwoSpheresScene(cfg *renderer.Config, s *Scene) error {
	cfg.AspectRatio = 16.0 / 9.0
	cfg.ImageWidth = 400
	cfg.VFov = 90
	cfg.LookFrom = core.NewVec3(0, 0, 0)
	cfg.LookAt = core.NewVec3(0, 0, -1)
	cfg.VUp = core.NewVec3(0, 1, 0)
	cfg.DefocusAngle = 0
	cfg.FocusDist = 0
	cfg.Background = skyGradient
	cfg.Near, cfg.Far = 0, 5

	s.Add(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))),
		geometry.NewSphere(core.NewVec3(0, 0, -1.2), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
	)
	return nil
}
