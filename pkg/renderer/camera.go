package renderer

import (
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Camera generates rays for rendering
type Camera struct {
	ImageWidth  int
	ImageHeight int

	center      core.Vec3 // Camera position
	pixel00     core.Vec3 // Center of the top-left pixel
	pixelDeltaU core.Vec3 // Offset to the pixel on the right
	pixelDeltaV core.Vec3 // Offset to the pixel below
	u, v, w     core.Vec3 // Camera frame; w points away from the view direction

	viewportWidth  float64
	viewportHeight float64
	focusDist      float64

	defocusAngle float64
	defocusDiskU core.Vec3
	defocusDiskV core.Vec3

	sqrtSpp      int
	recipSqrtSpp float64
}

// NewCamera derives a camera from the current config
func NewCamera(cfg Config) *Camera {
	width := cfg.ImageWidth
	height := cfg.ImageHeight()

	focusDist := cfg.FocusDist
	if focusDist <= 0 {
		focusDist = cfg.LookFrom.Subtract(cfg.LookAt).Length()
	}

	theta := core.DegreesToRadians(cfg.VFov)
	viewportHeight := 2 * math.Tan(theta/2) * focusDist
	viewportWidth := viewportHeight * float64(width) / float64(height)

	w := cfg.LookFrom.Subtract(cfg.LookAt).Normalize()
	u := cfg.VUp.Cross(w).Normalize()
	v := w.Cross(u)

	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Negate().Multiply(viewportHeight)
	pixelDeltaU := viewportU.Divide(float64(width))
	pixelDeltaV := viewportV.Divide(float64(height))

	upperLeft := cfg.LookFrom.
		Subtract(w.Multiply(focusDist)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))

	defocusRadius := focusDist * math.Tan(core.DegreesToRadians(cfg.DefocusAngle/2))

	sqrtSpp := int(math.Sqrt(float64(cfg.SamplesPerPixel)))
	if sqrtSpp < 1 {
		sqrtSpp = 1
	}

	return &Camera{
		ImageWidth:     width,
		ImageHeight:    height,
		center:         cfg.LookFrom,
		pixel00:        upperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5)),
		pixelDeltaU:    pixelDeltaU,
		pixelDeltaV:    pixelDeltaV,
		u:              u,
		v:              v,
		w:              w,
		viewportWidth:  viewportWidth,
		viewportHeight: viewportHeight,
		focusDist:      focusDist,
		defocusAngle:   cfg.DefocusAngle,
		defocusDiskU:   u.Multiply(defocusRadius),
		defocusDiskV:   v.Multiply(defocusRadius),
		sqrtSpp:        sqrtSpp,
		recipSqrtSpp:   1.0 / float64(sqrtSpp),
	}
}

// SqrtSamples is the side of the stratification grid
func (c *Camera) SqrtSamples() int {
	return c.sqrtSpp
}

// GetRay returns a ray through a random point of stratum (si, sj) inside
// pixel (i, j), originating on the defocus disk when the aperture is open
func (c *Camera) GetRay(i, j, si, sj int, sampler core.Sampler) core.Ray {
	jitter := sampler.Get2D()
	offsetX := (float64(si)+jitter.X)*c.recipSqrtSpp - 0.5
	offsetY := (float64(sj)+jitter.Y)*c.recipSqrtSpp - 0.5

	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i) + offsetX)).
		Add(c.pixelDeltaV.Multiply(float64(j) + offsetY))

	origin := c.center
	if c.defocusAngle > 0 {
		p := core.SamplePointInUnitDisk(sampler.Get2D())
		origin = c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
	}

	return core.NewRay(origin, pixelSample.Subtract(origin))
}

// CenterRay returns the pinhole ray through the center of pixel (i, j)
func (c *Camera) CenterRay(i, j int) core.Ray {
	pixelCenter := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i))).
		Add(c.pixelDeltaV.Multiply(float64(j)))
	return core.NewRay(c.center, pixelCenter.Subtract(c.center))
}

// ViewDepth is the distance of point in front of the camera along the view axis
func (c *Camera) ViewDepth(point core.Vec3) float64 {
	return c.center.Subtract(point).Dot(c.w)
}

// Project maps a world point to continuous pixel coordinates, where pixel
// (i, j) has its center at (i, j), plus its view depth. ok is false for
// points at or behind the camera plane.
func (c *Camera) Project(point core.Vec3) (x, y, depth float64, ok bool) {
	rel := point.Subtract(c.center)
	depth = -rel.Dot(c.w)
	if depth <= 1e-9 {
		return 0, 0, depth, false
	}

	planeX := rel.Dot(c.u) / depth * c.focusDist
	planeY := rel.Dot(c.v) / depth * c.focusDist

	x = (planeX+c.viewportWidth/2)/c.viewportWidth*float64(c.ImageWidth) - 0.5
	y = (c.viewportHeight/2-planeY)/c.viewportHeight*float64(c.ImageHeight) - 0.5
	return x, y, depth, true
}
