package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/rgb2spec"
	"github.com/gogpu/rgb2spec/internal/cie"
	"github.com/gogpu/rgb2spec/internal/config"
	"github.com/gogpu/rgb2spec/internal/pipeline"
	"github.com/gogpu/rgb2spec/internal/plot"
)

// errTolerance is returned by check when the worst error is too large.
var errTolerance = errors.New("round-trip error above tolerance")

// maxCheckSteps bounds the check lattice to 256³ colors.
const maxCheckSteps = 256

// printer formats numbers with digit grouping.
var printer = message.NewPrinter(language.English)

func runConvert(e *env, args []string) error {
	fs, lf := e.newFlagSet("convert", "<image> <model> <output>")
	configPath := fs.String("config", "", "TOML configuration `file`")
	bands := fs.String("bands", "", "wavelengths in nm as start:end:step or a comma separated list")
	workers := fs.Int("workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	half := fs.Bool("half", false, "write float16 instead of float32 samples")
	maxSize := fs.Int("max-size", 0, "downscale so neither side exceeds this many pixels (0 = off)")
	pos, err := e.parse(fs, lf, args, 3, 3)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["workers"] {
		cfg.Workers = *workers
	}
	if set["max-size"] {
		cfg.MaxSize = *maxSize
	}
	if set["half"] {
		cfg.Encoding = pipeline.EncodingFloat32.String()
		if *half {
			cfg.Encoding = pipeline.EncodingFloat16.String()
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	if set["bands"] {
		b, err := parseBands(*bands)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithBands(b))
	}
	opts = append(opts, pipeline.WithLogger(e.logger))

	m, err := rgb2spec.Load(pos[1])
	if err != nil {
		return err
	}
	conv, err := pipeline.New(m, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := conv.ConvertFile(ctx, pos[0], pos[2], cfg.MaxSize)
	if err != nil {
		return err
	}
	printer.Fprintf(e.stdout, "%s: %d×%d pixels, %d bands, %s, %s\n",
		pos[2], res.Width, res.Height, res.Bands, conv.Encoding(), humanize.IBytes(uint64(res.Bytes))) //nolint:gosec // size is non-negative
	return nil
}

func runInfo(e *env, args []string) error {
	fs, lf := e.newFlagSet("info", "<model>")
	pos, err := e.parse(fs, lf, args, 1, 1)
	if err != nil {
		return err
	}
	m, err := rgb2spec.Load(pos[0])
	if err != nil {
		return err
	}

	res := m.Resolution()
	scale := m.Scale()
	cube := int64(1_000_000) * int64(len(rgb2spec.DefaultBands())) * 4

	printer.Fprintf(e.stdout, "model:        %s\n", pos[0])
	printer.Fprintf(e.stdout, "resolution:   %d\n", res)
	printer.Fprintf(e.stdout, "grid values:  %d\n", rgb2spec.GridLen(res))
	printer.Fprintf(e.stdout, "scale:        [%.6g, %.6g]\n", scale[0], scale[res-1])
	printer.Fprintf(e.stdout, "file size:    %s\n", humanize.IBytes(uint64(rgb2spec.FileSize(res)))) //nolint:gosec // non-negative
	printer.Fprintf(e.stdout, "memory:       %s\n", humanize.IBytes(uint64(m.Size())))                //nolint:gosec // non-negative
	printer.Fprintf(e.stdout, "cube per MP:  %s (%d bands, float32)\n", humanize.IBytes(uint64(cube)), len(rgb2spec.DefaultBands()))
	return nil
}

func runEval(e *env, args []string) error {
	fs, lf := e.newFlagSet("eval", "<model> <r> <g> <b>")
	srgb := fs.Bool("srgb", false, "components are sRGB encoded")
	bandSpec := fs.String("bands", "", "wavelengths in nm as start:end:step or a comma separated list")
	pos, err := e.parse(fs, lf, args, 4, 4)
	if err != nil {
		return err
	}
	bands := rgb2spec.DefaultBands()
	if *bandSpec != "" {
		if bands, err = parseBands(*bandSpec); err != nil {
			return err
		}
	}
	colors, err := parseRGB(pos[1:], *srgb)
	if err != nil {
		return err
	}
	m, err := rgb2spec.Load(pos[0])
	if err != nil {
		return err
	}

	rgb := colors[0]
	c := m.Fetch(rgb)
	fmt.Fprintf(e.stdout, "linear rgb    %.6g %.6g %.6g\n", rgb[0], rgb[1], rgb[2])
	fmt.Fprintf(e.stdout, "major         %d\n", rgb2spec.MajorComponent(rgb))
	fmt.Fprintf(e.stdout, "coefficients  %.9g %.9g %.9g\n", c[0], c[1], c[2])
	fmt.Fprintln(e.stdout, "lambda_nm  reflectance")
	for _, l := range bands {
		fmt.Fprintf(e.stdout, "%9.6g  %.6f\n", l, rgb2spec.EvalPrecise(c, l))
	}
	return nil
}

func runCheck(e *env, args []string) error {
	fs, lf := e.newFlagSet("check", "<model>")
	steps := fs.Int("steps", 9, "lattice points per RGB axis")
	step := fs.Float64("step", 5, "integration step in nm")
	tolerance := fs.Float64("tolerance", 0, "fail when the worst error exceeds this (0 = report only)")
	pos, err := e.parse(fs, lf, args, 1, 1)
	if err != nil {
		return err
	}
	if *steps < 2 || *steps > maxCheckSteps {
		return fmt.Errorf("%w: -steps must be between 2 and %d", errUsage, maxCheckSteps)
	}
	integ, err := cie.NewIntegrator(*step)
	if err != nil {
		return err
	}
	m, err := rgb2spec.Load(pos[0])
	if err != nil {
		return err
	}

	n := *steps
	errs := make([]float64, 0, n*n*n)
	var worst [3]float32
	worstErr := -1.0
	for i := range n * n * n {
		rgb := [3]float32{
			float32(i%n) / float32(n-1),
			float32(i/n%n) / float32(n-1),
			float32(i/(n*n)) / float32(n-1),
		}
		c := m.Fetch(rgb)
		got := integ.RGB(func(l float64) float64 { return rgb2spec.EvalPrecise(c, l) })
		d := cie.MaxAbsDiff(got, [3]float64{float64(rgb[0]), float64(rgb[1]), float64(rgb[2])})
		errs = append(errs, d)
		if d > worstErr {
			worstErr, worst = d, rgb
		}
	}
	s := cie.Summarize(errs)
	e.logger.Info("check finished", "samples", s.Samples, "max", s.Max)

	printer.Fprintf(e.stdout, "samples:  %d\n", s.Samples)
	printer.Fprintf(e.stdout, "mean:     %.6f\n", s.Mean)
	printer.Fprintf(e.stdout, "stddev:   %.6f\n", s.StdDev)
	printer.Fprintf(e.stdout, "p95:      %.6f\n", s.P95)
	printer.Fprintf(e.stdout, "max:      %.6f at rgb(%.3g, %.3g, %.3g)\n", s.Max, worst[0], worst[1], worst[2])

	if *tolerance > 0 && s.Max > *tolerance {
		return fmt.Errorf("%w: %.6f > %.6f", errTolerance, s.Max, *tolerance)
	}
	return nil
}

func runPlot(e *env, args []string) error {
	fs, lf := e.newFlagSet("plot", "<model> <r> <g> <b> [<r> <g> <b> ...]")
	out := fs.String("o", "reflectance.png", "output `file`; the extension selects PNG, SVG or PDF")
	srgb := fs.Bool("srgb", false, "components are sRGB encoded")
	title := fs.String("title", "Reflectance", "plot title")
	pos, err := e.parse(fs, lf, args, 4, -1)
	if err != nil {
		return err
	}
	colors, err := parseRGB(pos[1:], *srgb)
	if err != nil {
		return err
	}
	m, err := rgb2spec.Load(pos[0])
	if err != nil {
		return err
	}

	curves := make([]plot.Curve, len(colors))
	for i, rgb := range colors {
		curves[i] = plot.Curve{
			Label:        fmt.Sprintf("(%.3g, %.3g, %.3g)", rgb[0], rgb[1], rgb[2]),
			RGB:          rgb,
			Coefficients: m.Fetch(rgb),
		}
	}
	o := plot.DefaultOptions()
	o.Title = *title
	p, err := plot.Reflectance(curves, o)
	if err != nil {
		return err
	}
	if err := plot.Save(p, *out); err != nil {
		return err
	}
	e.logger.Info("plot written", "path", *out, "curves", len(curves))
	return nil
}
