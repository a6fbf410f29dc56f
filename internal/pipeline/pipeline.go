// Package pipeline converts linear-light images into spectral reflectance
// cubes.
//
// The cube is laid out row-major with bands innermost: sample b of pixel
// (x, y) is at index (y·width + x)·len(bands) + b.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gogpu/rgb2spec"
	"github.com/gogpu/rgb2spec/internal/fsutil"
	"github.com/gogpu/rgb2spec/internal/image"
	"github.com/gogpu/rgb2spec/internal/parallel"
)

// ErrInvalidOption is returned by New for unusable options.
var ErrInvalidOption = errors.New("pipeline: invalid option")

// Converter turns linear RGB buffers into spectral cubes with one model.
// A Converter is safe for concurrent use.
type Converter struct {
	model *rgb2spec.Model
	opts  options
}

// New returns a Converter for m.
func New(m *rgb2spec.Model, opts ...Option) (*Converter, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil model", ErrInvalidOption)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.bands.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	if !o.encoding.valid() {
		return nil, fmt.Errorf("%w: encoding %v", ErrInvalidOption, o.encoding)
	}
	o.bands = append(rgb2spec.Bands(nil), o.bands...)
	return &Converter{model: m, opts: o}, nil
}

// Bands returns a copy of the band grid.
func (c *Converter) Bands() rgb2spec.Bands {
	return append(rgb2spec.Bands(nil), c.opts.bands...)
}

// Encoding returns the output sample encoding.
func (c *Converter) Encoding() Encoding {
	return c.opts.encoding
}

func (c *Converter) logger() *slog.Logger {
	if c.opts.logger != nil {
		return c.opts.logger
	}
	return rgb2spec.Logger()
}

// Convert computes the spectral cube of img. Work is split into row
// stripes; ctx is checked before each stripe starts.
func (c *Converter) Convert(ctx context.Context, img *image.LinearBuf) ([]float32, error) {
	nb := len(c.opts.bands)
	width, height := img.Width(), img.Height()
	cube := make([]float32, width*height*nb)

	pool := parallel.NewWorkerPool(c.opts.workers)
	defer pool.Close()

	stripe := c.opts.stripeRows
	if stripe <= 0 {
		stripe = parallel.DefaultStripeRows
	}
	c.logger().Debug("pipeline: converting",
		"width", width, "height", height, "bands", nb,
		"workers", pool.Workers(), "stripe_rows", stripe)

	err := pool.Stripes(ctx, height, stripe, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := img.Row(y)
			off := y * width * nb
			for x := range width {
				rgb := [3]float32{row[3*x], row[3*x+1], row[3*x+2]}
				c.model.Spectrum(rgb, c.opts.bands, cube[off:off:off+nb])
				off += nb
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return cube, nil
}

// Encode writes cube to w in the configured encoding, without a header.
func (c *Converter) Encode(w io.Writer, cube []float32) (int64, error) {
	return writeSamples(w, cube, c.opts.encoding)
}

// Result summarizes a file conversion.
type Result struct {
	Format   string
	Width    int
	Height   int
	Bands    int
	Bytes    int64
	Duration time.Duration
}

// ConvertFile decodes the image at in, optionally downscales it so that
// neither side exceeds maxSize, converts it and writes the cube to out.
// The output file appears only once it is complete.
func (c *Converter) ConvertFile(ctx context.Context, in, out string, maxSize int) (Result, error) {
	start := time.Now()

	src, format, err := image.Load(in)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: %w", err)
	}
	if scaled := image.Downscale(src, maxSize); scaled.Bounds() != src.Bounds() {
		c.logger().Info("pipeline: image downscaled",
			"from", src.Bounds().Size(), "to", scaled.Bounds().Size())
		src = scaled
	}
	buf, err := image.FromImage(src)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: %s: %w", in, err)
	}

	cube, err := c.Convert(ctx, buf)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: convert %s: %w", in, err)
	}

	var n int64
	err = fsutil.WriteAtomic(out, func(w io.Writer) error {
		var werr error
		n, werr = c.Encode(w, cube)
		return werr
	})
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: write %s: %w", out, err)
	}

	res := Result{
		Format:   format,
		Width:    buf.Width(),
		Height:   buf.Height(),
		Bands:    len(c.opts.bands),
		Bytes:    n,
		Duration: time.Since(start),
	}
	c.logger().Info("pipeline: conversion finished",
		"input", in, "output", out, "width", res.Width, "height", res.Height,
		"bands", res.Bands, "encoding", c.opts.encoding, "duration", res.Duration)
	return res, nil
}
