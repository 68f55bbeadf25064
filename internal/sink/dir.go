package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/paleta-go/paleta/internal/colour"
)

// Material is the serialised form of one palette colour: an opaque
// diffuse RGBA value.
type Material struct {
	Name    string     `json:"name"`
	Hex     string     `json:"hex"`
	Diffuse [4]float64 `json:"diffuse"`
}

// Object is a renderable reference entry for one palette colour: a
// sphere placed along the X axis, pointing at its material.
type Object struct {
	Name     string     `json:"name"`
	Material string     `json:"material"`
	Radius   float64    `json:"radius"`
	Location [3]float64 `json:"location"`
}

const (
	materialSuffix = ".mat.json"
	objectSuffix   = ".obj.json"

	objectRadius  = 0.5
	objectSpacing = 1.5
)

// DirSink writes a palette to a directory as one material file per
// colour and, unless MaterialsOnly is set, one object file per colour.
// Applying it twice with the same prefix leaves exactly one file set
// per colour: stale prefix-matched files are removed before writing.
type DirSink struct {
	Dir           string
	MaterialsOnly bool
	Logger        hclog.Logger
}

// NewDirSink creates a sink writing into dir. A nil logger disables
// logging.
func NewDirSink(dir string, materialsOnly bool, logger hclog.Logger) *DirSink {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &DirSink{Dir: dir, MaterialsOnly: materialsOnly, Logger: logger}
}

// Apply writes the palette into the sink directory.
// Refuses an empty palette: a host cannot render zero colours.
func (s *DirSink) Apply(p *colour.Palette, prefix string) error {
	if p == nil || p.Len() == 0 {
		return colour.ErrEmptyPalette
	}
	if prefix == "" {
		return fmt.Errorf("naming prefix cannot be empty")
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create sink directory: %w", err)
	}

	if err := s.removeStale(prefix); err != nil {
		return err
	}

	for i, c := range p.Colours {
		name := EntryName(prefix, i)
		rgb := colour.ToRGB(c)

		mat := Material{
			Name:    name,
			Hex:     rgb.Hex(),
			Diffuse: [4]float64{c.R, c.G, c.B, 1.0},
		}
		if err := s.writeJSON(name+materialSuffix, mat); err != nil {
			return err
		}

		if s.MaterialsOnly {
			continue
		}
		obj := Object{
			Name:     name,
			Material: name,
			Radius:   objectRadius,
			Location: [3]float64{float64(i) * objectSpacing, 0, 0},
		}
		if err := s.writeJSON(name+objectSuffix, obj); err != nil {
			return err
		}
	}

	s.Logger.Debug("applied palette", "dir", s.Dir, "prefix", prefix,
		"colours", p.Len(), "materials_only", s.MaterialsOnly)
	return nil
}

// removeStale deletes every previously written file in the sink
// directory whose name starts with the prefix.
func (s *DirSink) removeStale(prefix string) error {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return fmt.Errorf("failed to read sink directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove stale entry %s: %w", entry.Name(), err)
		}
		s.Logger.Debug("removed stale entry", "name", entry.Name())
	}
	return nil
}

func (s *DirSink) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
