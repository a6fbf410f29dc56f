package cie

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidStep is returned for a non-positive integration step.
var ErrInvalidStep = errors.New("cie: invalid integration step")

// xyzToLinearSRGB converts D65-relative XYZ to linear sRGB (IEC 61966-2-1).
var xyzToLinearSRGB = mat.NewDense(3, 3, []float64{
	3.2404542, -1.5371385, -0.4985314,
	-0.9692660, 1.8760108, 0.0415560,
	0.0556434, -0.2040259, 1.0572252,
})

// XYZToLinearSRGB converts a D65-relative XYZ triple to linear sRGB.
func XYZToLinearSRGB(xyz [3]float64) [3]float64 {
	var out mat.VecDense
	out.MulVec(xyzToLinearSRGB, mat.NewVecDense(3, []float64{xyz[0], xyz[1], xyz[2]}))
	return [3]float64{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

// Integrator computes tristimulus values of reflectance spectra lit by
// D65. It precomputes the weighted matching functions on a fixed grid and
// is safe for concurrent use.
type Integrator struct {
	lambda     []float64
	wx, wy, wz []float64
	// white is the linear sRGB of the perfect reflector before balancing.
	white [3]float64
}

// MinStep is the finest integration step accepted by NewIntegrator, in
// nanometers.
const MinStep = 0.01

// NewIntegrator returns an Integrator sampling [MinWavelength,
// MaxWavelength] every step nanometers, MinStep <= step <= 400.
func NewIntegrator(step float64) (*Integrator, error) {
	if !(step >= MinStep) || step > MaxWavelength-MinWavelength {
		return nil, fmt.Errorf("%w: %g", ErrInvalidStep, step)
	}
	n := int((MaxWavelength-MinWavelength)/step+1e-9) + 1
	in := &Integrator{
		lambda: make([]float64, n),
		wx:     make([]float64, n),
		wy:     make([]float64, n),
		wz:     make([]float64, n),
	}
	for i := range n {
		l := MinWavelength + float64(i)*step
		x, y, z := CMF(l)
		s := D65(l)
		in.lambda[i] = l
		in.wx[i], in.wy[i], in.wz[i] = s*x, s*y, s*z
	}

	// Normalize so that the perfect reflector has Y = 1.
	norm := integrate.Trapezoidal(in.lambda, in.wy)
	for i := range n {
		in.wx[i] /= norm
		in.wy[i] /= norm
		in.wz[i] /= norm
	}

	in.white = XYZToLinearSRGB(in.XYZ(func(float64) float64 { return 1 }))
	return in, nil
}

// Wavelengths returns the integration grid.
func (in *Integrator) Wavelengths() []float64 {
	out := make([]float64, len(in.lambda))
	copy(out, in.lambda)
	return out
}

// XYZ integrates the reflectance spectrum against the weighted matching
// functions.
func (in *Integrator) XYZ(spectrum func(lambda float64) float64) [3]float64 {
	n := len(in.lambda)
	fx := make([]float64, n)
	fy := make([]float64, n)
	fz := make([]float64, n)
	for i, l := range in.lambda {
		r := spectrum(l)
		fx[i], fy[i], fz[i] = r*in.wx[i], r*in.wy[i], r*in.wz[i]
	}
	return [3]float64{
		integrate.Trapezoidal(in.lambda, fx),
		integrate.Trapezoidal(in.lambda, fy),
		integrate.Trapezoidal(in.lambda, fz),
	}
}

// RGB returns the linear sRGB of a reflectance spectrum. Each channel is
// divided by the perfect reflector's value, so a constant spectrum v maps
// to (v, v, v) regardless of the small error of the analytic observer.
func (in *Integrator) RGB(spectrum func(lambda float64) float64) [3]float64 {
	rgb := XYZToLinearSRGB(in.XYZ(spectrum))
	for i := range rgb {
		rgb[i] /= in.white[i]
	}
	return rgb
}
