package colour

import (
	"fmt"

	"github.com/paleta-go/paleta/internal/image"
)

// Configuration bounds. These mirror the ranges exposed to end users:
// palettes hold between 2 and 64 colours, and the similarity tolerance
// is capped at 0.1 even though RGB distances range up to sqrt(3).
const (
	MinColours = 2
	MaxColours = 64

	// MaxTolerance is the upper bound of the validated tolerance range.
	MaxTolerance = 0.1
)

// Config holds the parameters for one palette extraction. It is a plain
// immutable value: construct one with DefaultConfig, adjust fields, and
// pass it by value.
type Config struct {
	// Colours is the number of clusters requested from the clusterer.
	// It is an upper bound on palette size, not a guarantee.
	Colours int

	// Scale is the downscale factor applied to both image dimensions
	// before clustering, bounding compute cost. image.ScaleNone disables
	// downscaling.
	Scale float64

	// Tolerance is the minimum Euclidean RGB distance between two
	// normalised colours for both to remain in the palette. Zero keeps
	// every centroid.
	Tolerance float64

	// Seed fixes the random source for centroid initialisation so that
	// repeated extractions of the same image produce identical palettes.
	Seed int64

	// Attempts is the number of independent clustering initialisations;
	// the attempt with the lowest within-cluster variance wins.
	Attempts int
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		Colours:   8,
		Scale:     0.3,
		Tolerance: 0.05,
		Seed:      0,
		Attempts:  10,
	}
}

// Validate checks every configuration value against its declared range.
// It is called before any expensive work begins so invalid input fails
// fast.
func (c Config) Validate() error {
	if c.Colours < MinColours || c.Colours > MaxColours {
		return fmt.Errorf("%w: colours must be between %d and %d, got %d",
			ErrInvalidConfig, MinColours, MaxColours, c.Colours)
	}
	if c.Scale != image.ScaleNone && (c.Scale <= 0 || c.Scale > 1) {
		return fmt.Errorf("%w: scale must be in (0, 1] or ScaleNone, got %g",
			ErrInvalidConfig, c.Scale)
	}
	if c.Tolerance < 0 || c.Tolerance > MaxTolerance {
		return fmt.Errorf("%w: tolerance must be between 0 and %g, got %g",
			ErrInvalidConfig, MaxTolerance, c.Tolerance)
	}
	if c.Attempts < 1 {
		return fmt.Errorf("%w: attempts must be at least 1, got %d",
			ErrInvalidConfig, c.Attempts)
	}
	return nil
}
