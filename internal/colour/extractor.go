package colour

import (
	"errors"
	stdimage "image"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/paleta-go/paleta/internal/image"
)

// Extractor runs the full palette extraction pipeline: sample an image
// down to colour observations, cluster them into representative
// centroids, and deduplicate near-identical centroids. Each call is a
// pure function of its inputs; the fixed seed in Config makes repeated
// extractions bit-identical.
//
// Failures never escape as anything other than *ExtractionError, and no
// stage retries: both decoding and clustering are deterministic, so
// retrying without changing input or configuration cannot help.
type Extractor struct {
	loader image.Loader
	logger hclog.Logger
}

// NewExtractor creates an extractor that loads images from the local
// filesystem. A nil logger disables logging.
func NewExtractor(logger hclog.Logger) *Extractor {
	return NewExtractorWithLoader(image.NewFileLoader(), logger)
}

// NewExtractorWithLoader creates an extractor with a custom image
// loader.
func NewExtractorWithLoader(loader image.Loader, logger hclog.Logger) *Extractor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Extractor{loader: loader, logger: logger}
}

// Extract loads the image at path and extracts its palette.
func (e *Extractor) Extract(path string, cfg Config) (*Palette, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &ExtractionError{Stage: "config", Kind: ErrInvalidConfig, Cause: err}
	}

	img, err := e.loader.Load(path)
	if err != nil {
		return nil, translateLoadError(err)
	}

	return e.extract(img, cfg)
}

// ExtractReader decodes image bytes from r and extracts their palette.
func (e *Extractor) ExtractReader(r io.Reader, cfg Config) (*Palette, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &ExtractionError{Stage: "config", Kind: ErrInvalidConfig, Cause: err}
	}

	img, err := image.Decode(r)
	if err != nil {
		return nil, translateLoadError(err)
	}

	return e.extract(img, cfg)
}

// ExtractImage extracts the palette of an already-decoded image.
func (e *Extractor) ExtractImage(img stdimage.Image, cfg Config) (*Palette, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &ExtractionError{Stage: "config", Kind: ErrInvalidConfig, Cause: err}
	}
	return e.extract(img, cfg)
}

func (e *Extractor) extract(img stdimage.Image, cfg Config) (*Palette, error) {
	bounds := img.Bounds()
	samples := image.Sample(img, cfg.Scale)
	e.logger.Debug("sampled image",
		"width", bounds.Dx(), "height", bounds.Dy(),
		"scale", cfg.Scale, "samples", len(samples))

	clusterer := NewKMeans(cfg.Seed, cfg.Attempts)
	centroids, err := clusterer.Cluster(samples, cfg.Colours)
	if err != nil {
		if errors.Is(err, ErrInsufficientSamples) {
			return nil, &ExtractionError{Stage: "cluster", Kind: ErrInsufficientSamples, Cause: err}
		}
		return nil, &ExtractionError{Stage: "cluster", Kind: err, Cause: err}
	}
	e.logger.Debug("clustered samples", "requested", cfg.Colours, "centroids", len(centroids))

	unique := Dedupe(centroids, cfg.Tolerance)
	e.logger.Debug("deduplicated centroids",
		"tolerance", cfg.Tolerance, "kept", len(unique), "discarded", len(centroids)-len(unique))

	// An empty palette is structurally valid here; callers decide
	// whether to treat it as an error.
	return NewPalette(unique), nil
}

// translateLoadError maps sampler failures onto the extraction taxonomy.
func translateLoadError(err error) *ExtractionError {
	switch {
	case errors.Is(err, image.ErrNotFound):
		return &ExtractionError{Stage: "sample", Kind: ErrImageNotFound, Cause: err}
	case errors.Is(err, image.ErrDecode):
		return &ExtractionError{Stage: "sample", Kind: ErrImageDecode, Cause: err}
	default:
		return &ExtractionError{Stage: "sample", Kind: ErrImageDecode, Cause: err}
	}
}
