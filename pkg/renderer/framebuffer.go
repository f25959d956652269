package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// intensity is the range linear components are clamped to before quantizing
var intensity = core.NewInterval(0.000, 0.999)

// FrameBuffer holds packed pixels, one uint32 per pixel in row-major order
// from the top-left. Byte 0 is red, byte 1 green, byte 2 blue and byte 3 is
// always 0xFF, so a little-endian RGBA texture upload can use it directly.
type FrameBuffer struct {
	Width  int
	Height int
	Pixels []uint32
	Depth  []float32 // View depth of the first hit per pixel, +Inf on a miss
}

// opaqueBlack is the packed value of a pixel that has not been rendered
const opaqueBlack = 0xFF000000

// NewFrameBuffer allocates a buffer of opaque black pixels at infinite depth
func NewFrameBuffer(width, height int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
		Depth:  make([]float32, width*height),
	}
	for i := range fb.Pixels {
		fb.Pixels[i] = opaqueBlack
	}
	fb.ClearDepth()
	return fb
}

// ClearDepth resets every depth sample to +Inf
func (fb *FrameBuffer) ClearDepth() {
	inf := float32(math.Inf(1))
	for i := range fb.Depth {
		fb.Depth[i] = inf
	}
}

// linearToGamma applies gamma 2
func linearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

func toByte(linear float64) uint32 {
	if math.IsNaN(linear) {
		return 0
	}
	return uint32(256 * intensity.Clamp(linearToGamma(linear)))
}

// PackColor converts a linear color to the packed gamma-corrected format
func PackColor(c core.Color) uint32 {
	r := toByte(c.X)
	g := toByte(c.Y)
	b := toByte(c.Z)
	return 0xFF<<24 | b<<16 | g<<8 | r
}

// UnpackColor splits a packed pixel into its 8-bit channels
func UnpackColor(pixel uint32) (r, g, b uint8) {
	return uint8(pixel), uint8(pixel >> 8), uint8(pixel >> 16)
}

// Set stores a linear color at pixel (x, y)
func (fb *FrameBuffer) Set(x, y int, c core.Color) {
	fb.Pixels[y*fb.Width+x] = PackColor(c)
}

// At returns the 8-bit channels of pixel (x, y)
func (fb *FrameBuffer) At(x, y int) (r, g, b uint8) {
	return UnpackColor(fb.Pixels[y*fb.Width+x])
}

// ToImage copies the buffer into a standard library image
func (fb *FrameBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := fb.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xFF})
		}
	}
	return img
}
