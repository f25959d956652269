package renderer

import (
	"errors"
	"fmt"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid render config")

// Config is the snapshot of camera and sampling parameters a render reads.
// It is copied at render start, so editing the caller's value afterwards
// has no effect on a render in progress.
type Config struct {
	AspectRatio     float64 // Ideal width over height
	ImageWidth      int     // Rendered image width in pixels
	SamplesPerPixel int     // Rounded down to a perfect square for stratification
	MaxDepth        int     // Maximum surface interactions per path

	Background integrator.Background // Radiance for escaped rays

	VFov     float64   // Vertical field of view in degrees
	LookFrom core.Vec3 // Camera position
	LookAt   core.Vec3 // Point the camera looks at
	VUp      core.Vec3 // Camera-relative up direction

	DefocusAngle float64 // Aperture cone angle in degrees, 0 for a pinhole
	FocusDist    float64 // Distance to the plane of perfect focus, 0 uses |LookFrom-LookAt|

	Mode      integrator.Mode
	Near, Far float64 // Depth mode distance range
	ShowBVH   bool    // Overlay BVH node boxes after rendering

	Seed int64 // Sampler seed; equal configs render identical buffers
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		AspectRatio:     16.0 / 9.0,
		ImageWidth:      400,
		SamplesPerPixel: 16,
		MaxDepth:        10,
		Background: integrator.GradientBackground{
			Top:    core.NewVec3(0.5, 0.7, 1.0),
			Bottom: core.NewVec3(1.0, 1.0, 1.0),
		},
		VFov:     90,
		LookFrom: core.NewVec3(0, 0, 0),
		LookAt:   core.NewVec3(0, 0, -1),
		VUp:      core.NewVec3(0, 1, 0),
		Mode:     integrator.Shaded,
		Near:     0,
		Far:      20,
		Seed:     42,
	}
}

// ImageHeight derives the pixel height from width and aspect ratio, at least 1
func (c Config) ImageHeight() int {
	if c.AspectRatio <= 0 {
		return 1
	}
	height := int(float64(c.ImageWidth) / c.AspectRatio)
	if height < 1 {
		return 1
	}
	return height
}

// Validate reports the first unusable parameter
func (c Config) Validate() error {
	switch {
	case c.ImageWidth <= 0:
		return fmt.Errorf("%w: image width must be positive, got %d", ErrInvalidConfig, c.ImageWidth)
	case c.AspectRatio <= 0:
		return fmt.Errorf("%w: aspect ratio must be positive, got %g", ErrInvalidConfig, c.AspectRatio)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidConfig, c.MaxDepth)
	case c.VFov <= 0 || c.VFov >= 180:
		return fmt.Errorf("%w: vertical fov must be in (0, 180), got %g", ErrInvalidConfig, c.VFov)
	case c.LookFrom == c.LookAt:
		return fmt.Errorf("%w: lookfrom and lookat coincide at %v", ErrInvalidConfig, c.LookFrom)
	case c.VUp.NearZero():
		return fmt.Errorf("%w: view up vector is zero", ErrInvalidConfig)
	case c.Mode == integrator.Depth && c.Far <= c.Near:
		return fmt.Errorf("%w: depth range [%g, %g] is empty", ErrInvalidConfig, c.Near, c.Far)
	}
	return nil
}
