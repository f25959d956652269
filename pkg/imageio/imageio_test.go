package imageio

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

// testBuffer is 2x2 with red, green / blue, white
func testBuffer() *renderer.FrameBuffer {
	fb := renderer.NewFrameBuffer(2, 2)
	fb.Pixels[0] = 0xFF0000FF
	fb.Pixels[1] = 0xFF00FF00
	fb.Pixels[2] = 0xFFFF0000
	fb.Pixels[3] = 0xFFFFFFFF
	return fb
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, testBuffer()); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	expected := "P3\n2 2\n255\n255 0 0\n0 255 0\n0 0 255\n255 255 255\n"
	if buf.String() != expected {
		t.Errorf("Expected:\n%q\ngot:\n%q", expected, buf.String())
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	fb := testBuffer()
	if err := WritePNG(&buf, fb); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			wr, wg, wb := fb.At(x, y)
			if uint8(r>>8) != wr || uint8(g>>8) != wg || uint8(b>>8) != wb || a != 0xFFFF {
				t.Errorf("Pixel (%d,%d): expected %d %d %d, got %d %d %d %d", x, y, wr, wg, wb, r>>8, g>>8, b>>8, a>>8)
			}
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out.ppm", PPM, false},
		{"out.PNG", PNG, false},
		{"dir/render.png", PNG, false},
		{"out.jpg", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Expected %q, got %q (err %v)", tt.want, got, err)
			}
		})
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	fb := testBuffer()

	ppmPath := filepath.Join(dir, "nested", "out.ppm")
	if err := Save(ppmPath, fb); err != nil {
		t.Fatalf("Save ppm failed: %v", err)
	}
	data, err := os.ReadFile(ppmPath)
	if err != nil {
		t.Fatalf("Failed to read back: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("P3\n2 2\n255\n")) {
		t.Errorf("Expected a P3 header, got %q", data[:min(len(data), 16)])
	}

	pngPath := filepath.Join(dir, "out.png")
	if err := Save(pngPath, fb); err != nil {
		t.Fatalf("Save png failed: %v", err)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatalf("Failed to open png: %v", err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("Saved file is not a PNG: %v", err)
	}

	if err := Save(filepath.Join(dir, "out.bmp"), fb); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}
