// Package config reads the TOML configuration of the rgb2spec command.
//
// Example file:
//
//	workers  = 8
//	encoding = "float16"
//	max_size = 2048
//
//	[bands]
//	start = 400.0
//	end   = 700.0
//	step  = 5.0
//
// Setting bands.list overrides start, end and step.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/rgb2spec"
	"github.com/gogpu/rgb2spec/internal/pipeline"
)

// ErrInvalid is returned for configurations that cannot be used.
var ErrInvalid = errors.New("config: invalid")

// Config holds the settings of a conversion run.
type Config struct {
	Bands    Bands  `toml:"bands"`
	Workers  int    `toml:"workers"`
	Encoding string `toml:"encoding"`
	MaxSize  int    `toml:"max_size"`
}

// Bands describes the sampled wavelengths either as an evenly spaced range
// or as an explicit list.
type Bands struct {
	Start float64   `toml:"start"`
	End   float64   `toml:"end"`
	Step  float64   `toml:"step"`
	List  []float64 `toml:"list,omitempty"`
}

// Default returns the built-in configuration: 31 bands from 380 to 680 nm,
// GOMAXPROCS workers, float32 output, no downscaling.
func Default() Config {
	return Config{
		Bands: Bands{
			Start: rgb2spec.DefaultBandStart,
			End:   rgb2spec.DefaultBandEnd,
			Step:  rgb2spec.DefaultBandStep,
		},
		Encoding: pipeline.EncodingFloat32.String(),
	}
}

// Load reads the file at path on top of Default.
func Load(path string) (Config, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer func() { _ = f.Close() }()

	c, err := Parse(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes TOML from r on top of Default. Unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	c := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			keys := make([]string, len(strict.Errors))
			for i := range strict.Errors {
				keys[i] = strings.Join(strict.Errors[i].Key(), ".")
			}
			return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers = %d", ErrInvalid, c.Workers)
	}
	if c.MaxSize < 0 {
		return fmt.Errorf("%w: max_size = %d", ErrInvalid, c.MaxSize)
	}
	if _, err := pipeline.ParseEncoding(c.Encoding); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.Bands.Resolve(); err != nil {
		return fmt.Errorf("%w: bands: %w", ErrInvalid, err)
	}
	return nil
}

// Resolve returns the band grid described by b.
func (b Bands) Resolve() (rgb2spec.Bands, error) {
	if len(b.List) > 0 {
		out := append(rgb2spec.Bands(nil), b.List...)
		if err := out.Validate(); err != nil {
			return nil, err
		}
		return out, nil
	}
	return rgb2spec.NewBands(b.Start, b.End, b.Step)
}

// Options translates c into pipeline options.
func (c Config) Options() ([]pipeline.Option, error) {
	bands, err := c.Bands.Resolve()
	if err != nil {
		return nil, fmt.Errorf("%w: bands: %w", ErrInvalid, err)
	}
	enc, err := pipeline.ParseEncoding(c.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return []pipeline.Option{
		pipeline.WithBands(bands),
		pipeline.WithWorkers(c.Workers),
		pipeline.WithEncoding(enc),
	}, nil
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(c)
}
