package renderer

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// overlayColor is opaque green in the packed pixel format
const overlayColor uint32 = 0xFF00FF00

// overlayDepthSlack lets edges lying on a surface win the depth test
const overlayDepthSlack float32 = 1e-3

// boxEdges pairs AABB.Corners indices into the 12 edges of a box
var boxEdges = [12][2]int{
	{0, 1}, {0, 2}, {1, 3}, {2, 3},
	{4, 5}, {4, 6}, {5, 7}, {6, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// screenVertex is a projected point in pixel coordinates with its view depth
type screenVertex struct {
	pos   f32.Vec2
	depth float32
}

// DrawBoxes rasterizes the edges of every box into fb, hidden where the
// depth buffer holds a nearer surface. Edges with an endpoint behind the
// camera are skipped. It returns the number of pixels written.
func DrawBoxes(fb *FrameBuffer, cam *Camera, boxes []core.AABB) int {
	drawn := 0
	for _, box := range boxes {
		if !box.IsFinite() {
			continue
		}

		var vertices [8]screenVertex
		var visible [8]bool
		for k, corner := range box.Corners() {
			x, y, depth, ok := cam.Project(corner)
			vertices[k] = screenVertex{pos: f32.Vec2{float32(x), float32(y)}, depth: float32(depth)}
			visible[k] = ok
		}

		for _, edge := range boxEdges {
			if !visible[edge[0]] || !visible[edge[1]] {
				continue
			}
			a, b, ok := clipToScreen(vertices[edge[0]], vertices[edge[1]], fb.Width, fb.Height)
			if !ok {
				continue
			}
			drawn += drawLine(fb, a, b)
		}
	}
	return drawn
}

// clipToScreen clips segment ab to the pixel rectangle (Liang-Barsky)
func clipToScreen(a, b screenVertex, width, height int) (screenVertex, screenVertex, bool) {
	dx := b.pos[0] - a.pos[0]
	dy := b.pos[1] - a.pos[1]
	t0, t1 := float32(0), float32(1)

	maxX := float32(width) - 0.5
	maxY := float32(height) - 0.5
	p := [4]float32{-dx, dx, -dy, dy}
	q := [4]float32{a.pos[0] + 0.5, maxX - a.pos[0], a.pos[1] + 0.5, maxY - a.pos[1]}

	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return a, b, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			t0 = math32.Max(t0, r)
		} else {
			t1 = math32.Min(t1, r)
		}
		if t0 > t1 {
			return a, b, false
		}
	}

	return lerpVertex(a, b, t0), lerpVertex(a, b, t1), true
}

func lerpVertex(a, b screenVertex, t float32) screenVertex {
	return screenVertex{
		pos: f32.Vec2{
			a.pos[0] + (b.pos[0]-a.pos[0])*t,
			a.pos[1] + (b.pos[1]-a.pos[1])*t,
		},
		depth: a.depth + (b.depth-a.depth)*t,
	}
}

// drawLine walks the segment with Bresenham's algorithm, interpolating depth
func drawLine(fb *FrameBuffer, a, b screenVertex) int {
	x0, y0 := roundPixel(a.pos[0]), roundPixel(a.pos[1])
	x1, y1 := roundPixel(b.pos[0]), roundPixel(b.pos[1])

	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	steps := dx
	if -dy > steps {
		steps = -dy
	}

	drawn := 0
	err := dx + dy
	for n := 0; ; n++ {
		t := float32(0)
		if steps > 0 {
			t = float32(n) / float32(steps)
		}
		if plot(fb, x0, y0, a.depth+(b.depth-a.depth)*t) {
			drawn++
		}

		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
	return drawn
}

func plot(fb *FrameBuffer, x, y int, depth float32) bool {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return false
	}
	idx := y*fb.Width + x
	if depth > fb.Depth[idx]*(1+overlayDepthSlack) {
		return false
	}
	fb.Pixels[idx] = overlayColor
	return true
}

func roundPixel(v float32) int {
	return int(math32.Floor(v + 0.5))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
