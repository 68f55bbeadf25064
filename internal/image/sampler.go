// Package image provides utilities for loading and sampling images.
package image

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP format
)

// ScaleNone is the sentinel downscale factor meaning "process at native
// resolution". Any factor >= 1 behaves the same way.
const ScaleNone = 0.0

// Sentinel errors for the two failure classes of image loading.
var (
	// ErrNotFound indicates the image reference could not be resolved.
	ErrNotFound = errors.New("image not found")

	// ErrDecode indicates the image data could not be decoded into a
	// three-channel representation (corrupt bytes, unsupported format).
	ErrDecode = errors.New("image decode failed")
)

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given path.
	Load(path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path.
// Supported formats: JPEG, PNG, GIF, WebP.
func (l *FileLoader) Load(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrNotFound)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: stat %s: %v", ErrNotFound, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrNotFound, path, err)
	}
	defer file.Close()

	return Decode(file)
}

// Decode decodes image bytes from a reader.
// Any decode failure is reported as ErrDecode.
func Decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w (format: %s): %v", ErrDecode, format, err)
	}
	return img, nil
}

// Downscale resizes both image dimensions by factor using a Catmull-Rom
// resampling kernel. The kernel averages neighbouring source pixels, so
// downscaled output does not carry the aliasing artifacts that
// nearest-neighbour sampling would feed into clustering.
//
// Factors of ScaleNone or >= 1 return the image converted to RGBA at
// native resolution. Output dimensions are floor(dim*factor), clamped
// to a minimum of 1px.
func Downscale(img image.Image, factor float64) *image.RGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if factor > ScaleNone && factor < 1 {
		width = max(int(float64(width)*factor), 1)
		height = max(int(float64(height)*factor), 1)
	}

	// Drawing into an RGBA canvas also normalises alpha-carrying and
	// single-channel sources into a uniform four-byte layout; the alpha
	// channel is discarded during flattening.
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}

// Flatten converts an RGBA grid into a row-major sequence of normalised
// colours, one per pixel. Alpha is discarded.
func Flatten(img *image.RGBA) []colorful.Color {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	samples := make([]colorful.Color, 0, width*height)
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for x := 0; x < width; x++ {
			samples = append(samples, colorful.Color{
				R: float64(row[x*4]) / 255.0,
				G: float64(row[x*4+1]) / 255.0,
				B: float64(row[x*4+2]) / 255.0,
			})
		}
	}
	return samples
}

// Sample downscales an image by factor and flattens it into normalised
// colour samples, ready for clustering.
func Sample(img image.Image, factor float64) []colorful.Color {
	return Flatten(Downscale(img, factor))
}
