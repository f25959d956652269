package scene

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

// sphereGridSize is the number of spheres along each side of the grid
const sphereGridSize = 20

// oklchToRGB converts OKLCH color values to linear RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	hRad := core.DegreesToRadians(h)
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to cone response, then cubed
	lc := l + 0.3963377774*a + 0.2158037573*b
	mc := l - 0.1055613458*a - 0.0638541728*b
	sc := l - 0.0894841775*a - 1.2914855480*b
	lc, mc, sc = lc*lc*lc, mc*mc*mc, sc*sc*sc

	rgb := core.NewVec3(
		+4.0767416621*lc-3.3077115913*mc+0.2309699292*sc,
		-1.2684380046*lc+2.6097574011*mc-0.3413193965*sc,
		-0.0041960863*lc-0.7034186147*mc+1.7076147010*sc,
	)
	return rgb.Clamp(0, 1)
}

// NewSphereGridScene creates a grid of metal spheres on a ground quad under a sun-like sphere light
func NewSphereGridScene(cfg *renderer.Config, s *Scene) error {
	cfg.AspectRatio = 16.0 / 9.0
	cfg.ImageWidth = 800
	cfg.VFov = 40
	cfg.LookFrom = core.NewVec3(4.5, 6, 18)
	cfg.LookAt = core.NewVec3(4.5, 0.8, 4.5)
	cfg.VUp = core.NewVec3(0, 1, 0)
	cfg.DefocusAngle = 0.2
	cfg.FocusDist = 0
	cfg.Background = skyGradient
	cfg.Near, cfg.Far = 5, 30

	s.AddSphereLight(core.NewVec3(20, 25, 20), 8, core.NewVec3(12.0, 11.5, 10.0))
	s.Add(NewGroundQuad(core.NewVec3(4.5, 0, 4.5), 200, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	// Fit the grid into a 9x9 area around x=z=4.5
	targetArea := 9.0
	spacing := targetArea / float64(sphereGridSize-1)
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	for i := 0; i < sphereGridSize; i++ {
		for j := 0; j < sphereGridSize; j++ {
			x := float64(i)*spacing - targetArea/2 + 4.5
			z := float64(j)*spacing - targetArea/2 + 4.5

			// Hue across X, chroma across Z
			hue := float64(i) / float64(sphereGridSize-1) * 360.0
			chroma := 0.05 + float64(j)/float64(sphereGridSize-1)*0.2
			lightness := 0.65 + 0.1*math.Sin(float64(i+j)*0.5)

			fuzz := 0.05 + 0.1*float64((i+j)%3)/2.0
			mat := material.NewMetal(oklchToRGB(lightness, chroma, hue), fuzz)
			s.Add(geometry.NewSphere(core.NewVec3(x, radius, z), radius, mat))
		}
	}
	return nil
}
