package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// bytesPerPixel is the RGB stride of ImageTexture.Pixels
const bytesPerPixel = 3

// missingTextureColor flags surfaces whose image failed to load
var missingTextureColor = core.NewVec3(1, 0, 1)

// ImageTexture provides color from a decoded 2D image
type ImageTexture struct {
	Width  int
	Height int
	Pixels []byte // Row-major RGB, row 0 at the top: Pixels[(y*Width + x)*3]
}

// NewImageTexture creates a new image texture from RGB bytes.
// A nil or short pixel buffer produces a texture that renders magenta.
func NewImageTexture(width, height int, pixels []byte) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Loaded reports whether the texture has pixel data to sample
func (t *ImageTexture) Loaded() bool {
	return t.Width > 0 && t.Height > 0 && len(t.Pixels) >= t.Width*t.Height*bytesPerPixel
}

// Value samples the texture at given UV coordinates using nearest-neighbor filtering
func (t *ImageTexture) Value(u, v float64, p core.Vec3) core.Vec3 {
	if !t.Loaded() {
		return missingTextureColor
	}

	// Clamp to [0,1]; V=0 is the bottom row so flip for image coordinates
	u = max(0, min(1, u))
	v = 1.0 - max(0, min(1, v))

	x := int(u * float64(t.Width))
	y := int(v * float64(t.Height))

	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}

	const colorScale = 1.0 / 255.0
	offset := (y*t.Width + x) * bytesPerPixel
	return core.NewVec3(
		colorScale*float64(t.Pixels[offset]),
		colorScale*float64(t.Pixels[offset+1]),
		colorScale*float64(t.Pixels[offset+2]),
	)
}
