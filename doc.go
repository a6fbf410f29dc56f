// Package rgb2spec turns RGB colors into smooth reflectance spectra.
//
// # Overview
//
// A spectral upsampling model maps every linear RGB triple inside the sRGB
// gamut to three coefficients (c0, c1, c2). The reflectance at wavelength λ
// is
//
//	ρ(λ) = S(c0·λ² + c1·λ + c2),  S(x) = 0.5 + x / (2·√(1 + x²))
//
// which is smooth and always in [0, 1]. Integrating ρ against the CIE color
// matching functions under the model's illuminant reproduces the input RGB
// (Jakob & Hanika, "A Low-Dimensional Function Space for Efficient Spectral
// Upsampling", 2019).
//
// # Quick Start
//
//	m, err := rgb2spec.Load("srgb_64.spec")
//	if err != nil {
//		return err
//	}
//	c := m.Fetch([3]float32{0.8, 0.3, 0.1})
//	r := rgb2spec.EvalPrecise(c, 550)
//
// # Model Files
//
// A model file is little-endian and laid out as
//
//	offset 0       "SPEC"
//	offset 4       N (uint32)
//	offset 8       scale[N] (float32)
//	offset 8+4N    grid[3][N][N][N][3] (float32)
//
// The grid is indexed [major][z][v][u][coef]. The major index selects the
// largest RGB channel; z is that channel's value on the warped scale axis;
// u and v are the two following channels (cyclically) divided by z.
//
// # Concurrency
//
// A Model is immutable once loaded. Fetch, Eval and EvalPrecise are pure
// and may be called from any number of goroutines.
//
// # Logging
//
// The package is silent by default. See [SetLogger].
package rgb2spec
