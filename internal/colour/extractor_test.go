package colour

import (
	"bytes"
	"errors"
	stdimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/paleta-go/paleta/internal/image"
)

// solidImage returns a w x h image filled with a single colour.
func solidImage(w, h int, c color.RGBA) *stdimage.RGBA {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// bandedImage returns a 30x10 image with three equal 10px-wide vertical
// bands (red, green, blue). Each pixel carries a small position-derived
// perturbation so the image has more distinct colours than any requested
// cluster count, forcing clustering to actually run, while keeping the
// fixture fully deterministic.
func bandedImage() *stdimage.RGBA {
	bases := []color.RGBA{
		{R: 200, G: 30, B: 30, A: 255},
		{R: 30, G: 200, B: 30, A: 255},
		{R: 30, G: 30, B: 200, A: 255},
	}

	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 30, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 30; x++ {
			base := bases[x/10]
			delta := uint8((x*7 + y*13) % 5)
			img.SetRGBA(x, y, color.RGBA{
				R: base.R + delta,
				G: base.G + delta,
				B: base.B + delta,
				A: 255,
			})
		}
	}
	return img
}

// nativeConfig returns the default config with downscaling disabled, so
// fixture pixel values reach the clusterer unresampled.
func nativeConfig() Config {
	cfg := DefaultConfig()
	cfg.Scale = image.ScaleNone
	return cfg
}

func TestExtractSolidImage(t *testing.T) {
	img := solidImage(10, 10, color.RGBA{R: 180, G: 90, B: 45, A: 255})

	cfg := nativeConfig()
	cfg.Colours = 8
	cfg.Tolerance = 0.05

	palette, err := NewExtractor(nil).ExtractImage(img, cfg)
	if err != nil {
		t.Fatalf("ExtractImage failed: %v", err)
	}

	if palette.Len() != 1 {
		t.Fatalf("palette has %d colours, want 1", palette.Len())
	}

	want := colorful.Color{R: 180.0 / 255, G: 90.0 / 255, B: 45.0 / 255}
	got, _ := palette.Get(0)
	if d := got.DistanceRgb(want); d > 0.02 {
		t.Errorf("palette colour %v is %g away from %v", got, d, want)
	}
}

func TestExtractBandedImage(t *testing.T) {
	cfg := nativeConfig()
	cfg.Colours = 8
	cfg.Tolerance = 0.05

	palette, err := NewExtractor(nil).ExtractImage(bandedImage(), cfg)
	if err != nil {
		t.Fatalf("ExtractImage failed: %v", err)
	}

	// The clusterer may return up to 8 centroids, but every centroid sits
	// near one of the three band colours, so deduplication collapses the
	// palette to at most three entries.
	if palette.Len() > 3 {
		t.Errorf("palette has %d colours, want at most 3", palette.Len())
	}
	if palette.Len() == 0 {
		t.Error("palette is empty")
	}
}

func TestExtractInvariants(t *testing.T) {
	cfg := nativeConfig()
	cfg.Colours = 8
	cfg.Tolerance = 0.05

	palette, err := NewExtractor(nil).ExtractImage(bandedImage(), cfg)
	if err != nil {
		t.Fatalf("ExtractImage failed: %v", err)
	}

	if palette.Len() > cfg.Colours {
		t.Errorf("palette has %d colours, config allows at most %d", palette.Len(), cfg.Colours)
	}
	for i := 0; i < palette.Len(); i++ {
		for j := i + 1; j < palette.Len(); j++ {
			a := palette.Colours[i]
			b := palette.Colours[j]
			if d := a.DistanceRgb(b); d < cfg.Tolerance {
				t.Errorf("colours %d and %d are %g apart, want >= %g", i, j, d, cfg.Tolerance)
			}
		}
	}
}

func TestExtractDeterministic(t *testing.T) {
	cfg := nativeConfig()
	cfg.Colours = 6

	extractor := NewExtractor(nil)
	first, err := extractor.ExtractImage(bandedImage(), cfg)
	if err != nil {
		t.Fatalf("first extraction failed: %v", err)
	}
	second, err := extractor.ExtractImage(bandedImage(), cfg)
	if err != nil {
		t.Fatalf("second extraction failed: %v", err)
	}

	if !reflect.DeepEqual(first.Colours, second.Colours) {
		t.Errorf("repeated extraction diverged:\n%v\n%v", first.Colours, second.Colours)
	}
}

func TestExtractZeroTolerance(t *testing.T) {
	cfg := nativeConfig()
	cfg.Colours = 8
	cfg.Tolerance = 0

	palette, err := NewExtractor(nil).ExtractImage(bandedImage(), cfg)
	if err != nil {
		t.Fatalf("ExtractImage failed: %v", err)
	}

	// With zero tolerance nothing is discarded: the palette holds the
	// clusterer's full centroid count.
	if palette.Len() != cfg.Colours {
		t.Errorf("palette has %d colours, want %d", palette.Len(), cfg.Colours)
	}
}

func TestExtractInsufficientSamples(t *testing.T) {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{B: 255, A: 255})

	cfg := nativeConfig()
	cfg.Colours = 10

	_, err := NewExtractor(nil).ExtractImage(img, cfg)
	if !errors.Is(err, ErrInsufficientSamples) {
		t.Fatalf("ExtractImage error = %v, want %v", err, ErrInsufficientSamples)
	}

	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("error %v is not an *ExtractionError", err)
	}
	if extErr.Stage != "cluster" {
		t.Errorf("error stage = %q, want %q", extErr.Stage, "cluster")
	}
}

func TestExtractInvalidConfig(t *testing.T) {
	cfg := nativeConfig()
	cfg.Colours = 1

	_, err := NewExtractor(nil).ExtractImage(solidImage(4, 4, color.RGBA{A: 255}), cfg)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("ExtractImage error = %v, want %v", err, ErrInvalidConfig)
	}

	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("error %v is not an *ExtractionError", err)
	}
	if extErr.Stage != "config" {
		t.Errorf("error stage = %q, want %q", extErr.Stage, "config")
	}
}

func TestExtractFromFile(t *testing.T) {
	dir := t.TempDir()

	validPath := filepath.Join(dir, "fixture.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, bandedImage()); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	if err := os.WriteFile(validPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	corruptPath := filepath.Join(dir, "corrupt.jpg")
	if err := os.WriteFile(corruptPath, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{
			name: "valid image",
			path: validPath,
		},
		{
			name:    "missing image",
			path:    filepath.Join(dir, "missing.png"),
			wantErr: ErrImageNotFound,
		},
		{
			name:    "corrupt image",
			path:    corruptPath,
			wantErr: ErrImageDecode,
		},
	}

	extractor := NewExtractor(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			palette, err := extractor.Extract(tt.path, nativeConfig())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Extract(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract(%q) unexpected error: %v", tt.path, err)
			}
			if palette.Len() == 0 {
				t.Error("palette is empty")
			}
		})
	}
}

func TestExtractReader(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, bandedImage()); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}

	extractor := NewExtractor(nil)
	fromReader, err := extractor.ExtractReader(bytes.NewReader(buf.Bytes()), nativeConfig())
	if err != nil {
		t.Fatalf("ExtractReader failed: %v", err)
	}

	// The reader path and the in-memory path agree bit for bit.
	fromImage, err := extractor.ExtractImage(bandedImage(), nativeConfig())
	if err != nil {
		t.Fatalf("ExtractImage failed: %v", err)
	}
	if !reflect.DeepEqual(fromReader.Colours, fromImage.Colours) {
		t.Errorf("reader and image extraction diverged:\n%v\n%v", fromReader.Colours, fromImage.Colours)
	}
}
