// Package output converts rendered framebuffers to 8-bit images and encodes them.
package output

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// maxComponent keeps int(256*c) below 256
const maxComponent = 0.999

// ToneMap gamma-corrects an averaged linear color (gamma 2) and quantizes it to 8 bits.
// NaN and negative components map to 0.
func ToneMap(c core.Vec3) (r, g, b uint8) {
	return quantize(c.X), quantize(c.Y), quantize(c.Z)
}

func quantize(x float64) uint8 {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	x = math.Sqrt(x)
	if x > maxComponent {
		x = maxComponent
	}
	return uint8(256 * x)
}

// WritePPM writes the framebuffer as an ASCII PPM (P3) image, top row first
func WritePPM(w io.Writer, fb *renderer.Framebuffer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", fb.Width, fb.Height)

	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := ToneMap(fb.At(x, y))
			fmt.Fprintf(bw, "%d %d %d\n", r, g, b)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write PPM: %w", err)
	}
	return nil
}

// ToImage converts the framebuffer to an opaque RGBA image
func ToImage(fb *renderer.Framebuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := ToneMap(fb.At(x, y))
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

// WritePNG encodes the framebuffer as PNG
func WritePNG(w io.Writer, fb *renderer.Framebuffer) error {
	if err := png.Encode(w, ToImage(fb)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// WriteWebP encodes the framebuffer as lossless WebP
func WriteWebP(w io.Writer, fb *renderer.Framebuffer) error {
	if err := nativewebp.Encode(w, ToImage(fb), nil); err != nil {
		return fmt.Errorf("failed to encode WebP: %w", err)
	}
	return nil
}

// Encoder writes a framebuffer in one image format
type Encoder func(w io.Writer, fb *renderer.Framebuffer) error

// EncoderFor picks the encoder matching a file extension (.ppm, .png, .webp)
func EncoderFor(path string) (Encoder, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ppm":
		return WritePPM, nil
	case ".png":
		return WritePNG, nil
	case ".webp":
		return WriteWebP, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (use .ppm, .png or .webp)", ext)
	}
}

// WriteFile encodes the framebuffer to path, choosing the format by extension.
// Missing parent directories are created.
func WriteFile(path string, fb *renderer.Framebuffer) error {
	encode, err := EncoderFor(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := encode(file, fb); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
