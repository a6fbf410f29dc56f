package pipeline

import (
	"log/slog"

	"github.com/gogpu/rgb2spec"
)

// Option configures a Converter.
//
// Example:
//
//	conv, err := pipeline.New(model,
//		pipeline.WithBands(bands),
//		pipeline.WithEncoding(pipeline.EncodingFloat16))
type Option func(*options)

type options struct {
	bands      rgb2spec.Bands
	workers    int
	stripeRows int
	encoding   Encoding
	logger     *slog.Logger
}

func defaultOptions() options {
	return options{
		bands:    rgb2spec.DefaultBands(),
		workers:  0, // GOMAXPROCS
		encoding: EncodingFloat32,
	}
}

// WithBands sets the wavelengths sampled per pixel.
func WithBands(b rgb2spec.Bands) Option {
	return func(o *options) {
		o.bands = b
	}
}

// WithWorkers sets the number of worker goroutines. Zero or negative
// selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithStripeRows sets how many image rows a worker converts at a time.
func WithStripeRows(n int) Option {
	return func(o *options) {
		o.stripeRows = n
	}
}

// WithEncoding selects the sample encoding of the output cube.
func WithEncoding(e Encoding) Option {
	return func(o *options) {
		o.encoding = e
	}
}

// WithLogger overrides the logger. By default the converter logs through
// rgb2spec.Logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
