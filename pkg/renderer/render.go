package renderer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
	"github.com/df07/go-bvh-pathtracer/pkg/log"
	"github.com/df07/go-bvh-pathtracer/pkg/pdf"
)

var logger = log.New("renderer")

var (
	// ErrInterrupted is returned when the context is cancelled between scanlines
	ErrInterrupted = errors.New("render interrupted")
	// ErrBufferSize is returned when the frame buffer does not match the config
	ErrBufferSize = errors.New("frame buffer size mismatch")
	// ErrNoWorld is returned when there is nothing to render
	ErrNoWorld = errors.New("no world to render")
)

// ProgressFunc is called after each completed scanline
type ProgressFunc func(rowsDone, totalRows int)

type renderOptions struct {
	progress ProgressFunc
	sampler  core.Sampler
}

// Option customizes a single Render call
type Option func(*renderOptions)

// WithProgress reports per-row progress to fn
func WithProgress(fn ProgressFunc) Option {
	return func(o *renderOptions) {
		o.progress = fn
	}
}

// WithSampler replaces the config-seeded sampler
func WithSampler(sampler core.Sampler) Option {
	return func(o *renderOptions) {
		o.sampler = sampler
	}
}

// Render writes every pixel of fb exactly once, scanline by scanline from
// the top. The context is checked before each scanline; on cancellation
// the rows already written are kept and ErrInterrupted is returned.
// With no lights, pass an untyped nil such as HittableList.AsLightSource
// returns. Nil and empty *geometry.HittableList values are treated the same,
// other typed nils are not detected.
func Render(ctx context.Context, cfg Config, world geometry.Hittable, lights pdf.Source, fb *FrameBuffer, opts ...Option) (RenderStats, error) {
	start := time.Now()
	stats := RenderStats{Mode: cfg.Mode, InterruptedRow: -1}

	if err := cfg.Validate(); err != nil {
		return stats, err
	}
	if world == nil {
		return stats, ErrNoWorld
	}

	camera := NewCamera(cfg)
	stats.Width, stats.Height = camera.ImageWidth, camera.ImageHeight
	if fb == nil || fb.Width != camera.ImageWidth || fb.Height != camera.ImageHeight ||
		len(fb.Pixels) != fb.Width*fb.Height || len(fb.Depth) != len(fb.Pixels) {
		return stats, fmt.Errorf("%w: want %dx%d", ErrBufferSize, camera.ImageWidth, camera.ImageHeight)
	}

	options := renderOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	sampler := options.sampler
	if sampler == nil {
		sampler = core.NewSeededSampler(cfg.Seed)
	}

	lights = normalizeLights(lights)
	tracer := integrator.New(cfg.Mode, cfg.MaxDepth, cfg.Background, cfg.Near, cfg.Far)

	sqrtSpp := camera.SqrtSamples()
	stats.Samples = sqrtSpp * sqrtSpp
	pixelSampleScale := 1.0 / float64(stats.Samples)
	fillDepth := cfg.Mode == integrator.Depth || cfg.ShowBVH

	logger.Infof("rendering %dx%d, %d spp, max depth %d, mode %s",
		stats.Width, stats.Height, stats.Samples, cfg.MaxDepth, cfg.Mode)

	for j := 0; j < camera.ImageHeight; j++ {
		if err := ctx.Err(); err != nil {
			stats.InterruptedRow = j
			stats.Elapsed = time.Since(start)
			logger.Noticef("render interrupted at row %d of %d", j, camera.ImageHeight)
			return stats, fmt.Errorf("%w at row %d: %v", ErrInterrupted, j, err)
		}

		for i := 0; i < camera.ImageWidth; i++ {
			pixelColor := core.Color{}
			for sj := 0; sj < sqrtSpp; sj++ {
				for si := 0; si < sqrtSpp; si++ {
					ray := camera.GetRay(i, j, si, sj, sampler)
					pixelColor = pixelColor.Add(tracer.RayColor(ray, world, lights, sampler))
				}
			}
			fb.Set(i, j, pixelColor.Multiply(pixelSampleScale))

			if fillDepth {
				fb.Depth[j*fb.Width+i] = firstHitViewDepth(camera, world, i, j)
			}
		}

		stats.PrimaryRays += int64(camera.ImageWidth * stats.Samples)
		stats.RowsCompleted = j + 1
		logger.Debugf("row %d/%d done", j+1, camera.ImageHeight)
		if options.progress != nil {
			options.progress(j+1, camera.ImageHeight)
		}
	}

	if cfg.ShowBVH {
		if gatherer, ok := world.(geometry.BoxGatherer); ok {
			boxes := gatherer.GatherBoxes(nil)
			stats.OverlayPixels = DrawBoxes(fb, camera, boxes)
			logger.Infof("overlaid %d boxes, %d pixels", len(boxes), stats.OverlayPixels)
		} else {
			logger.Warningf("world %T has no boxes to overlay", world)
		}
	}

	stats.Elapsed = time.Since(start)
	logger.Infof("render finished in %s (%d primary rays)", stats.Elapsed, stats.PrimaryRays)
	return stats, nil
}

// firstHitViewDepth traces the pixel's center ray and returns the view depth of the nearest hit
func firstHitViewDepth(camera *Camera, world geometry.Hittable, i, j int) float32 {
	ray := camera.CenterRay(i, j)
	hit, isHit := world.Hit(ray, core.NewInterval(0.001, math.Inf(1)))
	if !isHit {
		return float32(math.Inf(1))
	}
	return float32(camera.ViewDepth(hit.Point))
}

// normalizeLights turns empty or typed-nil light lists into a nil source
func normalizeLights(lights pdf.Source) pdf.Source {
	if list, ok := lights.(*geometry.HittableList); ok {
		return list.AsLightSource()
	}
	return lights
}
