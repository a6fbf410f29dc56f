package rgb2spec

import (
	"math"

	"github.com/chewxy/math32"
)

// Coefficients is a coefficient triple (c0, c1, c2) describing the
// polynomial p(λ) = c0·λ² + c1·λ + c2. The reflectance at λ is Sigmoid(p(λ)).
type Coefficients [3]float32

// Sigmoid maps the real line onto [0, 1]:
//
//	S(x) = 0.5 + x / (2·√(1 + x²))
//
// S is monotone, S(0) = 0.5 and S(-x) = 1 - S(x). Infinite inputs map to
// 0 or 1 and NaN maps to 0.5.
func Sigmoid(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0.5
	case math.IsInf(x, 1):
		return 1
	case math.IsInf(x, -1):
		return 0
	}
	// Hypot avoids overflowing x² for large |x|.
	return 0.5 + 0.5*(x/math.Hypot(1, x))
}

// Polynomial evaluates c0·λ² + c1·λ + c2 in Horner form using fused
// multiply-add.
func (c Coefficients) Polynomial(lambda float64) float64 {
	return math.FMA(math.FMA(float64(c[0]), lambda, float64(c[1])), lambda, float64(c[2]))
}

// EvalPrecise returns the reflectance described by c at wavelength lambda.
// The wavelength is given in the unit the model was built with (nanometers
// for the sRGB models). The result is always in [0, 1].
func EvalPrecise(c Coefficients, lambda float64) float64 {
	return Sigmoid(c.Polynomial(lambda))
}

// Eval is a faster, single precision variant of EvalPrecise.
//
// The polynomial is evaluated in float64 without FMA. Products of float32
// operands are exact in float64, so only the sigmoid runs at reduced
// precision. The absolute difference to EvalPrecise stays below 1e-6 over
// the visible range.
func Eval(c Coefficients, lambda float32) float32 {
	l := float64(lambda)
	x := float32((float64(c[0])*l+float64(c[1]))*l + float64(c[2]))
	return sigmoid32(x)
}

func sigmoid32(x float32) float32 {
	switch {
	case math32.IsNaN(x):
		return 0.5
	case math32.IsInf(x, 1):
		return 1
	case math32.IsInf(x, -1):
		return 0
	}
	if math32.Abs(x) > 1e18 {
		// x² would overflow float32; the curve is saturated.
		if x > 0 {
			return 1
		}
		return 0
	}
	return 0.5 + 0.5*(x/math32.Sqrt(1+x*x))
}
