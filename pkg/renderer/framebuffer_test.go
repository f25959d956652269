package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

func TestPackColor(t *testing.T) {
	tests := []struct {
		name     string
		color    core.Color
		expected uint32
	}{
		{"Black", core.NewVec3(0, 0, 0), 0xFF000000},
		{"White saturates at 255", core.NewVec3(1, 1, 1), 0xFFFFFFFF},
		{"Over-bright clamps", core.NewVec3(20, 20, 20), 0xFFFFFFFF},
		{"Gamma on red", core.NewVec3(0.25, 0, 0), 0xFF000080},
		{"Channel order", core.NewVec3(0.25, 1, 0), 0xFF00FF80},
		{"Blue in byte 2", core.NewVec3(0, 0, 1), 0xFFFF0000},
		{"Negative and NaN are black", core.NewVec3(-1, math.NaN(), 0), 0xFF000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PackColor(tt.color); got != tt.expected {
				t.Errorf("Expected 0x%08X, got 0x%08X", tt.expected, got)
			}
		})
	}
}

func TestNewFrameBufferIsOpaque(t *testing.T) {
	fb := NewFrameBuffer(4, 3)
	for i, p := range fb.Pixels {
		if p != 0xFF000000 {
			t.Fatalf("Expected opaque black at %d, got 0x%08X", i, p)
		}
	}
	if c := fb.ToImage().RGBAAt(3, 2); c.A != 0xFF {
		t.Errorf("Expected an opaque image pixel, got %v", c)
	}
}

func TestFrameBufferSetAndImage(t *testing.T) {
	fb := NewFrameBuffer(3, 2)
	fb.Set(2, 1, core.NewVec3(0.25, 1, 0))

	r, g, b := fb.At(2, 1)
	if r != 0x80 || g != 0xFF || b != 0 {
		t.Errorf("Expected (128,255,0), got (%d,%d,%d)", r, g, b)
	}
	if fb.Pixels[5] != 0xFF00FF80 {
		t.Errorf("Expected row-major index 5 to hold the pixel, got 0x%08X", fb.Pixels[5])
	}

	img := fb.ToImage()
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("Unexpected image bounds %v", img.Bounds())
	}
	c := img.RGBAAt(2, 1)
	if c.R != 0x80 || c.G != 0xFF || c.B != 0 || c.A != 0xFF {
		t.Errorf("Unexpected image pixel %v", c)
	}

	for i, d := range fb.Depth {
		if !math.IsInf(float64(d), 1) {
			t.Fatalf("Expected cleared depth at %d, got %f", i, d)
		}
	}
}
