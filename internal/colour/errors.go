// Package colour provides dominant-colour extraction and palette
// generation functionality.
package colour

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the extraction failure taxonomy. All of them
// are recoverable: the caller can retry with a different image or
// configuration.
var (
	// ErrImageNotFound indicates the image reference could not be resolved.
	ErrImageNotFound = errors.New("image not found")

	// ErrImageDecode indicates the image bytes could not be decoded.
	ErrImageDecode = errors.New("image decode failed")

	// ErrInsufficientSamples indicates fewer pixel samples were available
	// than the requested cluster count.
	ErrInsufficientSamples = errors.New("insufficient samples for requested colour count")

	// ErrEmptyPalette indicates deduplication produced zero usable colours.
	ErrEmptyPalette = errors.New("empty palette")

	// ErrInvalidConfig indicates a configuration value outside its
	// declared range.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ExtractionError is the single error type returned by the extractor.
// It records which pipeline stage failed, the taxonomy sentinel the
// failure belongs to, and the underlying cause. errors.Is matches both
// Kind and Cause.
type ExtractionError struct {
	Stage string // "config", "sample", "cluster" or "deduplicate"
	Kind  error  // one of the sentinel errors above
	Cause error  // underlying failure, may be nil
}

// Error returns a human-readable description of the failure.
func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extract: %s stage: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("extract: %s stage: %v", e.Stage, e.Kind)
}

// Unwrap exposes both the taxonomy sentinel and the underlying cause.
func (e *ExtractionError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}
