// Package cie integrates reflectance spectra against the CIE 1931 standard
// observer under the D65 illuminant and converts the result to linear sRGB.
//
// The color matching functions use the multi-lobe analytic fit of Wyman,
// Sloan and Shirley ("Simple Analytic Approximations to the CIE XYZ Color
// Matching Functions", JCGT 2013), which stays within a few percent of the
// tabulated 2° observer.
package cie

import "math"

// Visible range covered by the integration grid, in nanometers.
const (
	MinWavelength = 380
	MaxWavelength = 780
)

// lobe is an asymmetric Gaussian with separate widths left and right of
// its peak.
type lobe struct {
	weight, mu, left, right float64
}

func (l lobe) at(lambda float64) float64 {
	s := l.right
	if lambda < l.mu {
		s = l.left
	}
	t := (lambda - l.mu) / s
	return l.weight * math.Exp(-0.5*t*t)
}

var (
	xLobes = []lobe{{1.056, 599.8, 37.9, 31.0}, {0.362, 442.0, 16.0, 26.7}, {-0.065, 501.1, 20.4, 26.2}}
	yLobes = []lobe{{0.821, 568.8, 46.9, 40.5}, {0.286, 530.9, 16.3, 31.1}}
	zLobes = []lobe{{1.217, 437.0, 11.8, 36.0}, {0.681, 459.0, 26.0, 13.8}}
)

func sumLobes(lobes []lobe, lambda float64) float64 {
	var s float64
	for _, l := range lobes {
		s += l.at(lambda)
	}
	return s
}

// CMF returns the CIE 1931 2° color matching functions x̄, ȳ, z̄ at lambda.
func CMF(lambda float64) (x, y, z float64) {
	return sumLobes(xLobes, lambda), sumLobes(yLobes, lambda), sumLobes(zLobes, lambda)
}

// d65 is the relative spectral power of CIE illuminant D65 from 380 to
// 780 nm in 10 nm steps.
var d65 = [...]float64{
	49.9755, 54.6482, 82.7549, 91.486, 93.4318, 86.6823, 104.865, 117.008,
	117.812, 114.861, 115.923, 108.811, 109.354, 107.802, 104.790, 107.689,
	104.405, 104.046, 100.000, 96.3342, 95.788, 88.6856, 90.0062, 89.5991,
	87.6987, 83.2886, 83.6992, 80.0268, 80.2146, 82.2778, 78.2842, 69.7213,
	71.6091, 74.349, 61.604, 69.8856, 75.087, 63.5927, 46.4182, 66.8054,
	63.3828,
}

// D65 returns the relative spectral power of illuminant D65 at lambda,
// linearly interpolated between 10 nm samples. It is zero outside
// [MinWavelength, MaxWavelength].
func D65(lambda float64) float64 {
	if lambda < MinWavelength || lambda > MaxWavelength || math.IsNaN(lambda) {
		return 0
	}
	f := (lambda - MinWavelength) / 10
	i := int(f)
	if i >= len(d65)-1 {
		return d65[len(d65)-1]
	}
	t := f - float64(i)
	return (1-t)*d65[i] + t*d65[i+1]
}
