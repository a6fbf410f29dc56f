package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/rgb2spec"
	lin "github.com/gogpu/rgb2spec/internal/color"
)

// parseBands accepts "start:end:step" or a comma separated list of
// wavelengths in nanometers.
func parseBands(s string) (rgb2spec.Bands, error) {
	s = strings.TrimSpace(s)
	if parts := strings.Split(s, ":"); len(parts) == 3 {
		var v [3]float64
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", rgb2spec.ErrInvalidBands, s)
			}
			v[i] = f
		}
		return rgb2spec.NewBands(v[0], v[1], v[2])
	}

	var b rgb2spec.Bands
	for _, p := range strings.Split(s, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", rgb2spec.ErrInvalidBands, s)
		}
		b = append(b, f)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// parseRGB reads consecutive triples of components in [0, 1]. With srgb
// set the components are sRGB encoded and get linearized.
func parseRGB(args []string, srgb bool) ([][3]float32, error) {
	if len(args) == 0 || len(args)%3 != 0 {
		return nil, fmt.Errorf("%w: colors are given as <r> <g> <b> triples", errUsage)
	}
	out := make([][3]float32, 0, len(args)/3)
	for i := 0; i < len(args); i += 3 {
		var c [3]float32
		for k := range c {
			f, err := strconv.ParseFloat(args[i+k], 32)
			if err != nil {
				return nil, fmt.Errorf("%w: component %q: %w", errUsage, args[i+k], err)
			}
			if f < 0 || f > 1 {
				return nil, fmt.Errorf("%w: component %g outside [0, 1]", errUsage, f)
			}
			c[k] = float32(f)
			if srgb {
				c[k] = lin.SRGBToLinear(c[k])
			}
		}
		out = append(out, c)
	}
	return out, nil
}
