package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/paleta-go/paleta/internal/colour"
	"github.com/paleta-go/paleta/internal/sink"
)

var (
	// Extract command flags
	extractColours     int
	extractScale       float64
	extractTolerance   float64
	extractSeed        int64
	extractAttempts    int
	extractFormat      string
	extractOutput      string
	extractShowPreview bool

	// Sink flags
	sinkDir           string
	sinkPrefix        string
	sinkMaterialsOnly bool
)

// extractCmd represents the extract command.
var extractCmd = &cobra.Command{
	Use:   "extract <image>",
	Short: "Extract a dominant-colour palette from an image",
	Long: `Extract a palette of visually distinct dominant colours from an image.

The image is downscaled by the processing scale, its pixels are clustered
into the requested number of centroids, and centroids closer than the
similarity tolerance to an already-kept colour are discarded. The result
is an ordered palette of at most --colours entries.

Supported image formats: JPEG, PNG, GIF, WebP

Examples:
  # Extract 8 colours (default) from an image
  paleta extract wallpaper.jpg

  # Extract 5 colours with terminal previews
  paleta extract --preview --colours 5 wallpaper.png

  # Keep more near-duplicates by lowering the tolerance
  paleta extract --tolerance 0.02 wallpaper.jpg

  # Output as JSON and save to a file
  paleta extract --format json --output palette.json wallpaper.jpg

  # Write material and object files for a host application
  paleta extract --apply ./materials --prefix Paleta_ wallpaper.jpg

  # Materials only, no reference objects
  paleta extract --apply ./materials --materials-only wallpaper.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	defaults := colour.DefaultConfig()

	extractCmd.Flags().IntVarP(&extractColours, "colours", "c", defaults.Colours,
		fmt.Sprintf("number of colours to extract (%d-%d)", colour.MinColours, colour.MaxColours))
	extractCmd.Flags().Float64VarP(&extractScale, "scale", "s", defaults.Scale,
		"processing downscale factor in (0, 1]; 0 disables downscaling")
	extractCmd.Flags().Float64Var(&extractTolerance, "tolerance", defaults.Tolerance,
		fmt.Sprintf("minimum distance between palette colours (0-%g)", colour.MaxTolerance))
	extractCmd.Flags().Int64Var(&extractSeed, "seed", defaults.Seed,
		"random seed for clustering (fixed seed keeps runs reproducible)")
	extractCmd.Flags().IntVar(&extractAttempts, "attempts", defaults.Attempts,
		"independent clustering initialisations; the best one wins")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "hex",
		"output format (hex, rgb, json)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "",
		"output file (default: stdout)")
	extractCmd.Flags().BoolVar(&extractShowPreview, "preview", false,
		"show colour previews in the terminal")

	registerSinkFlags(extractCmd.Flags())
}

// registerSinkFlags adds the host-side flags controlling how a palette
// is applied to a directory sink.
func registerSinkFlags(fs *pflag.FlagSet) {
	fs.StringVar(&sinkDir, "apply", "",
		"write material/object files for each colour into this directory")
	fs.StringVarP(&sinkPrefix, "prefix", "p", "Paleta_",
		"naming prefix for generated materials and objects")
	fs.BoolVar(&sinkMaterialsOnly, "materials-only", false,
		"emit materials only, skip reference objects")
}

// runExtract executes the extract command.
func runExtract(cmd *cobra.Command, args []string) error {
	imagePath := args[0]
	logger := newLogger(cmd)

	cfg := colour.DefaultConfig()
	cfg.Colours = extractColours
	cfg.Scale = extractScale
	cfg.Tolerance = extractTolerance
	cfg.Seed = extractSeed
	cfg.Attempts = extractAttempts

	extractor := colour.NewExtractor(logger)
	palette, err := extractor.Extract(imagePath, cfg)
	if err != nil {
		if errors.Is(err, colour.ErrInsufficientSamples) {
			return fmt.Errorf("%w (try a smaller --colours value)", err)
		}
		return err
	}

	// The core reports an empty deduplicated palette as a valid result;
	// for a user it is indistinguishable from failure.
	if palette.Len() == 0 {
		return fmt.Errorf("%w: no usable colours extracted from %s", colour.ErrEmptyPalette, imagePath)
	}

	logger.Debug("extraction complete", "colours", palette.Len())

	if sinkDir != "" {
		dirSink := sink.NewDirSink(sinkDir, sinkMaterialsOnly, logger)
		if err := dirSink.Apply(palette, sinkPrefix); err != nil {
			return fmt.Errorf("failed to apply palette: %w", err)
		}
	}

	// Previews only make sense on a terminal.
	preview := extractShowPreview && term.IsTerminal(int(os.Stdout.Fd()))

	output, err := formatPalette(palette, extractFormat, preview)
	if err != nil {
		return err
	}

	if extractOutput != "" {
		if err := os.WriteFile(extractOutput, []byte(output), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	fmt.Print(output)
	return nil
}

// formatPalette formats the palette according to the specified format.
func formatPalette(palette *colour.Palette, format string, showPreview bool) (string, error) {
	switch format {
	case "hex":
		return formatHex(palette, showPreview), nil
	case "rgb":
		return formatRGB(palette, showPreview), nil
	case "json":
		jsonBytes, err := palette.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(jsonBytes) + "\n", nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: hex, rgb, json)", format)
	}
}

// formatHex formats the palette as hex colour codes, one per line.
func formatHex(palette *colour.Palette, showPreview bool) string {
	output := ""
	for _, rgb := range palette.ToRGBSlice() {
		if showPreview {
			output += colour.FormatWithPreview(rgb, 8) + "\n"
		} else {
			output += rgb.Hex() + "\n"
		}
	}
	return output
}

// formatRGB formats the palette as RGB values, one per line.
func formatRGB(palette *colour.Palette, showPreview bool) string {
	output := ""
	for _, rgb := range palette.ToRGBSlice() {
		if showPreview {
			output += colour.Preview(rgb, 8) + "  " + rgb.String() + "\n"
		} else {
			output += rgb.String() + "\n"
		}
	}
	return output
}
