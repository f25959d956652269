package renderer

import (
	"time"

	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
)

// RenderStats contains statistics about a finished or interrupted render
type RenderStats struct {
	Width          int             // Image width in pixels
	Height         int             // Image height in pixels
	Samples        int             // Samples actually taken per pixel
	RowsCompleted  int             // Scanlines fully written
	PrimaryRays    int64           // Camera rays traced
	OverlayPixels  int             // Pixels written by the BVH overlay
	Elapsed        time.Duration   // Wall time spent in Render
	Mode           integrator.Mode // Shading mode used
	InterruptedRow int             // First row not rendered, -1 when complete
}

// TotalPixels is the number of pixels in the image
func (s RenderStats) TotalPixels() int {
	return s.Width * s.Height
}

// RaysPerSecond reports primary ray throughput
func (s RenderStats) RaysPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.PrimaryRays) / s.Elapsed.Seconds()
}

// Complete reports whether every row was rendered
func (s RenderStats) Complete() bool {
	return s.InterruptedRow < 0
}
