// Package imageio writes rendered frame buffers to disk
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

// ErrUnsupportedFormat is returned by Save for unknown file extensions
var ErrUnsupportedFormat = errors.New("unsupported image format")

// WritePPM writes fb as a plain-text P3 image, one "R G B" line per pixel in row-major order
func WritePPM(w io.Writer, fb *renderer.FrameBuffer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return err
	}
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := fb.At(x, y)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", r, g, b); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WritePNG encodes fb as an opaque PNG
func WritePNG(w io.Writer, fb *renderer.FrameBuffer) error {
	return png.Encode(w, fb.ToImage())
}

// Format names an output encoding
type Format string

const (
	PPM Format = "ppm"
	PNG Format = "png"
)

// FormatFromPath picks the encoding from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		return PPM, nil
	case ".png":
		return PNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Write encodes fb in the given format
func Write(w io.Writer, fb *renderer.FrameBuffer, format Format) error {
	switch format {
	case PPM:
		return WritePPM(w, fb)
	case PNG:
		return WritePNG(w, fb)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Save writes fb to path, choosing the encoding by extension. Missing parent directories are created.
func Save(path string, fb *renderer.FrameBuffer) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(file, fb, format); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}
