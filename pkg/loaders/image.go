package loaders

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// bytesPerPixel is the stride of ImageData.Pixels
const bytesPerPixel = 3

// ImageData contains a decoded image as packed 8-bit RGB
type ImageData struct {
	Width  int
	Height int
	Pixels []byte // Row-major RGB, row 0 at the top
	Format string // Decoder that read the file (png, jpeg, bmp, tiff, webp, tga)
}

type decodeFunc func(io.Reader) (image.Image, error)

// decoders maps file extensions to their decoder.
// TGA has no magic number, so dispatch is by extension rather than header sniffing.
var decoders = map[string]struct {
	format string
	decode decodeFunc
}{
	".png":  {"png", png.Decode},
	".jpg":  {"jpeg", jpeg.Decode},
	".jpeg": {"jpeg", jpeg.Decode},
	".bmp":  {"bmp", bmp.Decode},
	".tif":  {"tiff", tiff.Decode},
	".tiff": {"tiff", tiff.Decode},
	".webp": {"webp", webp.Decode},
	".tga":  {"tga", tga.Decode},
}

// SupportedExtensions lists the file extensions LoadImage knows how to decode
func SupportedExtensions() []string {
	exts := make([]string, 0, len(decoders))
	for ext := range decoders {
		exts = append(exts, ext)
	}
	return exts
}

// LoadImage decodes an image file and converts it to packed RGB bytes; alpha is dropped.
// Files with an unknown extension fall back to header sniffing.
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	var img image.Image
	var format string
	if d, ok := decoders[strings.ToLower(filepath.Ext(filename))]; ok {
		img, err = d.decode(file)
		format = d.format
	} else {
		img, format, err = image.Decode(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}

	data := toRGB(img)
	data.Format = format
	return data, nil
}

// toRGB converts any decoded image into packed RGB bytes
func toRGB(src image.Image) *ImageData {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// Normalize every color model to non-premultiplied 8-bit channels first
	nrgba, ok := src.(*image.NRGBA)
	if !ok || bounds.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)
	}

	pixels := make([]byte, width*height*bytesPerPixel)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := nrgba.PixOffset(x, y)
			o := (y*width + x) * bytesPerPixel
			copy(pixels[o:o+bytesPerPixel], nrgba.Pix[i:i+bytesPerPixel])
		}
	}

	return &ImageData{Width: width, Height: height, Pixels: pixels}
}
