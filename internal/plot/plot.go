// Package plot draws reflectance curves with gonum/plot.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gogpu/rgb2spec"
	lin "github.com/gogpu/rgb2spec/internal/color"
	"github.com/gogpu/rgb2spec/internal/fsutil"
)

// Errors returned by the plot package.
var (
	ErrNoCurves = errors.New("plot: no curves")
	ErrRange    = errors.New("plot: invalid wavelength range")
)

// Default figure size.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// Curve is one reflectance spectrum to draw. RGB is the linear color the
// coefficients were fetched for; it sets the line color.
type Curve struct {
	Label        string
	RGB          [3]float32
	Coefficients rgb2spec.Coefficients
}

// Options controls the sampled wavelength range.
type Options struct {
	Title string
	Min   float64 // nm
	Max   float64 // nm
	Step  float64 // nm
}

// DefaultOptions samples 360 to 830 nm every nanometer.
func DefaultOptions() Options {
	return Options{Title: "Reflectance", Min: 360, Max: 830, Step: 1}
}

// Reflectance builds a plot of the given curves.
func Reflectance(curves []Curve, o Options) (*plot.Plot, error) {
	if len(curves) == 0 {
		return nil, ErrNoCurves
	}
	if !(o.Step > 0) || !(o.Max > o.Min) {
		return nil, fmt.Errorf("%w: [%g, %g] step %g", ErrRange, o.Min, o.Max, o.Step)
	}

	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "Wavelength (nm)"
	p.Y.Label.Text = "Reflectance"
	p.X.Min, p.X.Max = o.Min, o.Max
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	n := int((o.Max-o.Min)/o.Step) + 1
	for _, c := range curves {
		pts := make(plotter.XYs, n)
		for i := range pts {
			l := o.Min + float64(i)*o.Step
			pts[i] = plotter.XY{X: l, Y: rgb2spec.EvalPrecise(c.Coefficients, l)}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("plot: %w", err)
		}
		line.Color = lineColor(c.RGB)
		line.Width = vg.Points(1.5)
		p.Add(line)
		if c.Label != "" {
			p.Legend.Add(c.Label, line)
		}
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// lineColor returns the sRGB color of rgb, darkened when it would vanish
// against the white background.
func lineColor(rgb [3]float32) color.Color {
	c := lin.RGB(rgb)
	if luminance := 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]; luminance > 0.6 {
		k := 0.6 / luminance
		c = lin.RGB{c[0] * k, c[1] * k, c[2] * k}
	}
	r, g, b := c.ToSRGB8()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Write renders p to w. format is an image format known to gonum/plot,
// such as "png", "svg" or "pdf".
func Write(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, format)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("plot: write %s: %w", format, err)
	}
	return nil
}

// Save renders p to path, choosing the format from the extension. The
// file appears only once it is complete.
func Save(p *plot.Plot, path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		format = "png"
	}
	// Render first so an unknown format never touches the destination.
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, format)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	return fsutil.WriteAtomic(path, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
}
