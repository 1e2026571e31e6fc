// Package preset stores named band sets as YAML documents.
package preset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/spectral-eq/dsp/band"
)

// Version is the schema version written by this package.
const Version = 1

var (
	// ErrUnsupportedVersion is returned for documents newer than Version or without one.
	ErrUnsupportedVersion = errors.New("preset: unsupported version")
	// ErrNoBands is returned for presets without bands.
	ErrNoBands = errors.New("preset: no bands")
)

// Preset is a named set of bands.
type Preset struct {
	Version int         `yaml:"version"`
	Name    string      `yaml:"name"`
	Bands   []band.Band `yaml:"bands"`
}

// Validate checks the version and every band. When strict is set
// overlapping bands are rejected too.
func (p *Preset) Validate(strict bool) error {
	if p.Version < 1 || p.Version > Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, p.Version)
	}
	if len(p.Bands) == 0 {
		return ErrNoBands
	}

	var opts []band.ValidateOption
	if strict {
		opts = append(opts, band.RejectOverlap())
	}
	if err := band.Validate(p.Bands, opts...); err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}
	return nil
}

// Decode reads and validates a preset.
func Decode(r io.Reader, strict bool) (*Preset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Preset
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("preset: empty document")
		}
		return nil, fmt.Errorf("preset: decode: %w", err)
	}
	if err := p.Validate(strict); err != nil {
		return nil, err
	}
	return &p, nil
}

// Encode validates p and writes it as YAML. A zero Version is written as
// the current one.
func Encode(w io.Writer, p *Preset) error {
	out := *p
	if out.Version == 0 {
		out.Version = Version
	}
	if err := out.Validate(false); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("preset: encode: %w", err)
	}
	return enc.Close()
}

// Load reads a preset from path.
func Load(path string, strict bool) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}
	p, err := Decode(bytes.NewReader(data), strict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path, replacing any existing file.
func Save(path string, p *Preset) error {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("preset: %w", err)
	}
	return nil
}

// Example returns a starter preset: a gentle low cut, a presence lift and a
// muted band around 8 kHz.
func Example() *Preset {
	return &Preset{
		Version: Version,
		Name:    "example",
		Bands: []band.Band{
			{MinHz: 0, MaxHz: 80, Gain: 0.5},
			{MinHz: 2000, MaxHz: 5000, Gain: 1.5},
			{MinHz: 7800, MaxHz: 8200, Gain: 0},
		},
	}
}
