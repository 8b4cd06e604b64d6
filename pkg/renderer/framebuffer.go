package renderer

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Framebuffer holds accumulated samples in image order: row 0 is the top of the picture
type Framebuffer struct {
	Width  int
	Height int
	Pixels []PixelStats // Row-major, Width*Height entries
}

// NewFramebuffer allocates an empty framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]PixelStats, width*height),
	}
}

// At returns the averaged color of the pixel at column x, image row y
func (fb *Framebuffer) At(x, y int) core.Vec3 {
	return fb.Pixels[y*fb.Width+x].GetColor()
}

// Row returns the pixel accumulators for image row y
func (fb *Framebuffer) Row(y int) []PixelStats {
	return fb.Pixels[y*fb.Width : (y+1)*fb.Width]
}

// SetScanline stores a camera scanline; camera row 0 is the bottom of the picture
func (fb *Framebuffer) SetScanline(scanline int, pixels []PixelStats) {
	copy(fb.Row(fb.Height-1-scanline), pixels)
}
