package server

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/imageio"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
	"github.com/df07/go-bvh-pathtracer/pkg/loaders"
	"github.com/df07/go-bvh-pathtracer/pkg/pdf"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
)

// renderJob is a resolved scene plus the config a request asked for
type renderJob struct {
	name   string
	cfg    renderer.Config
	world  *geometry.BVHNode
	lights pdf.Source
	format imageio.Format
}

// RenderStats is the JSON form of renderer.RenderStats
type RenderStats struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Samples       int     `json:"samples"`
	RowsCompleted int     `json:"rowsCompleted"`
	PrimaryRays   int64   `json:"primaryRays"`
	RaysPerSecond float64 `json:"raysPerSecond"`
	OverlayPixels int     `json:"overlayPixels"`
	Mode          string  `json:"mode"`
	ElapsedMs     int64   `json:"elapsedMs"`
}

func newRenderStats(stats renderer.RenderStats) RenderStats {
	return RenderStats{
		Width:         stats.Width,
		Height:        stats.Height,
		Samples:       stats.Samples,
		RowsCompleted: stats.RowsCompleted,
		PrimaryRays:   stats.PrimaryRays,
		RaysPerSecond: stats.RaysPerSecond(),
		OverlayPixels: stats.OverlayPixels,
		Mode:          stats.Mode.String(),
		ElapsedMs:     stats.Elapsed.Milliseconds(),
	}
}

// prepareRender resolves the scene named by the query and applies the
// requested overrides. Parameters left out keep the scene's values.
func (s *Server) prepareRender(query url.Values) (*renderJob, error) {
	id := query.Get("scene")
	if id == "" {
		id = "cornell"
	}
	// Only scenes from the listing, never arbitrary paths
	if strings.EqualFold(filepath.Ext(id), ".json") {
		return nil, fmt.Errorf("%w: %q", scene.ErrUnknownScene, id)
	}
	sc, cfg, err := loaders.Resolve(id, s.cfg.ScenesDir, nil)
	if err != nil {
		return nil, err
	}

	if cfg.ImageWidth, err = parseIntParam(query, "width", min(cfg.ImageWidth, s.cfg.MaxWidth), 1, s.cfg.MaxWidth); err != nil {
		return nil, err
	}
	if cfg.SamplesPerPixel, err = parseIntParam(query, "spp", min(cfg.SamplesPerPixel, s.cfg.MaxSamples), 1, s.cfg.MaxSamples); err != nil {
		return nil, err
	}
	if cfg.MaxDepth, err = parseIntParam(query, "depth", cfg.MaxDepth, 0, 1000); err != nil {
		return nil, err
	}
	if value := query.Get("seed"); value != "" {
		if cfg.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}
	if value := query.Get("mode"); value != "" {
		if cfg.Mode, err = integrator.ParseMode(value); err != nil {
			return nil, err
		}
	}
	if value := query.Get("bvh"); value != "" {
		if cfg.ShowBVH, err = strconv.ParseBool(value); err != nil {
			return nil, fmt.Errorf("invalid bvh: %s", value)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	format := imageio.PNG
	if value := query.Get("format"); value != "" {
		format = imageio.Format(value)
		if format != imageio.PNG && format != imageio.PPM {
			return nil, fmt.Errorf("%w: %q", imageio.ErrUnsupportedFormat, value)
		}
	}

	world, lights, err := sc.World()
	if err != nil {
		return nil, err
	}
	return &renderJob{name: sc.Name, cfg: cfg, world: world, lights: lights, format: format}, nil
}

// requestErrorStatus maps a prepareRender error to an HTTP status
func requestErrorStatus(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) || errors.Is(err, fs.ErrNotExist) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// handleRender renders the whole image and returns it encoded. A client
// disconnect cancels the render through the request context.
func (s *Server) handleRender(c echo.Context) error {
	job, err := s.prepareRender(c.QueryParams())
	if err != nil {
		return c.JSON(requestErrorStatus(err), map[string]string{"error": err.Error()})
	}

	logger.Infof("rendering %s at %dx%d, %d spp, %s", job.name, job.cfg.ImageWidth, job.cfg.ImageHeight(), job.cfg.SamplesPerPixel, job.cfg.Mode)
	fb := renderer.NewFrameBuffer(job.cfg.ImageWidth, job.cfg.ImageHeight())
	stats, err := renderer.Render(c.Request().Context(), job.cfg, job.world, job.lights, fb)
	if errors.Is(err, renderer.ErrInterrupted) {
		logger.Infof("render of %s abandoned: %v", job.name, err)
		return nil
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	var buf bytes.Buffer
	if err := imageio.Write(&buf, fb, job.format); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	header := c.Response().Header()
	header.Set("X-Render-Samples", strconv.Itoa(stats.Samples))
	header.Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))

	contentType := "image/png"
	if job.format == imageio.PPM {
		contentType = "image/x-portable-pixmap"
	}
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
