package material

import (
	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// ImageTexture looks up colors in a row-major image by UV coordinate
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Color // Pixels[y*Width + x], row 0 at the top
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Color) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// NewUVTexture builds a texture showing U in red and V in green
func NewUVTexture(width, height int) *ImageTexture {
	pixels := make([]core.Color, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			u := float64(x) / float64(max(width-1, 1))
			v := 1 - float64(y)/float64(max(height-1, 1))
			pixels[y*width+x] = core.NewVec3(u, v, 0)
		}
	}
	return NewImageTexture(width, height, pixels)
}

// Value samples the texture with nearest-neighbor filtering. UVs wrap, and
// V=0 is the bottom row of the image. An empty image is magenta.
func (t *ImageTexture) Value(uv core.Vec2, point core.Vec3) core.Color {
	if t.Width <= 0 || t.Height <= 0 || len(t.Pixels) < t.Width*t.Height {
		return core.NewVec3(1, 0, 1)
	}

	u := uv.X - float64(int(uv.X))
	v := uv.Y - float64(int(uv.Y))
	if u < 0 {
		u += 1.0
	}
	if v < 0 {
		v += 1.0
	}

	x := min(max(int(u*float64(t.Width)), 0), t.Width-1)
	y := min(max(int((1.0-v)*float64(t.Height)), 0), t.Height-1)
	return t.Pixels[y*t.Width+x]
}
