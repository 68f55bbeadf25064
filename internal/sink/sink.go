// Package sink defines how extracted palettes are handed to a host
// environment. The core pipeline never touches host types; anything that
// can render a sequence of colours (a 3D scene, a theming engine, a
// directory of material files) implements Sink.
package sink

import (
	"fmt"

	"github.com/paleta-go/paleta/internal/colour"
)

// Sink consumes a finished palette. Implementations own the rendering
// side of the contract: one entry per colour, named with the given
// prefix, and any previous entries sharing that prefix removed first so
// re-running an extraction never accumulates duplicates.
type Sink interface {
	Apply(p *colour.Palette, prefix string) error
}

// EntryName returns the canonical name for the palette entry at index:
// the prefix followed by a zero-padded two-digit index.
func EntryName(prefix string, index int) string {
	return fmt.Sprintf("%s%02d", prefix, index)
}
