package colour

import (
	"encoding/json"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is an ordered sequence of visually distinct colours extracted
// from an image. Order follows the clusterer's centroid order as filtered
// by deduplication; it is deterministic for a fixed seed but not sorted
// by any visual property.
type Palette struct {
	Colours []colorful.Color
}

// NewPalette creates a new Palette with the given colours.
func NewPalette(colours []colorful.Color) *Palette {
	return &Palette{Colours: colours}
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	return len(p.Colours)
}

// Get returns the colour at the specified index.
// Returns an error if the index is out of bounds.
func (p *Palette) Get(index int) (colorful.Color, error) {
	if index < 0 || index >= len(p.Colours) {
		return colorful.Color{}, fmt.Errorf("index out of bounds: %d (palette has %d colours)", index, len(p.Colours))
	}
	return p.Colours[index], nil
}

// All returns an iterator over all colours in the palette.
func (p *Palette) All() func(func(int, colorful.Color) bool) {
	return func(yield func(int, colorful.Color) bool) {
		for i, c := range p.Colours {
			if !yield(i, c) {
				return
			}
		}
	}
}

// RGB represents a colour quantised to 8-bit channels.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// ToRGB quantises a normalised colour to 8-bit channels.
func ToRGB(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// ToHex converts the palette colours to hex strings.
func (p *Palette) ToHex() []string {
	hexColours := make([]string, len(p.Colours))
	for i, c := range p.Colours {
		hexColours[i] = ToRGB(c).Hex()
	}
	return hexColours
}

// ToRGBSlice converts the palette colours to 8-bit RGB values.
func (p *Palette) ToRGBSlice() []RGB {
	rgbColours := make([]RGB, len(p.Colours))
	for i, c := range p.Colours {
		rgbColours[i] = ToRGB(c)
	}
	return rgbColours
}

// ColourJSON represents a colour in JSON output format. The normalised
// channels are included alongside the quantised ones so hosts working in
// linear colour pipelines do not have to re-derive them.
type ColourJSON struct {
	Hex        string     `json:"hex"`
	RGB        RGB        `json:"rgb"`
	Normalised [3]float64 `json:"normalised"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count   int          `json:"count"`
	Colours []ColourJSON `json:"colours"`
}

// ToJSON converts the palette to indented JSON.
func (p *Palette) ToJSON() ([]byte, error) {
	colours := make([]ColourJSON, len(p.Colours))
	for i, c := range p.Colours {
		rgb := ToRGB(c)
		colours[i] = ColourJSON{
			Hex:        rgb.Hex(),
			RGB:        rgb,
			Normalised: [3]float64{c.R, c.G, c.B},
		}
	}

	return json.MarshalIndent(PaletteJSON{
		Count:   len(p.Colours),
		Colours: colours,
	}, "", "  ")
}

// String returns a human-readable representation of the palette.
func (p *Palette) String() string {
	if len(p.Colours) == 0 {
		return "Empty palette"
	}

	result := fmt.Sprintf("Palette with %d colours:\n", len(p.Colours))
	for i, c := range p.Colours {
		rgb := ToRGB(c)
		result += fmt.Sprintf("  %2d: %s (%s)\n", i+1, rgb.Hex(), rgb.String())
	}
	return result
}
