package rgb2spec

import (
	"fmt"
	"math"
	"sort"
)

// Magic is the four byte tag at the start of every model file.
const Magic = "SPEC"

// MaxResolution is the largest grid edge length accepted by the loader.
// A model of this size occupies 36 GiB.
const MaxResolution = 1024

// Model is a spectral upsampling model: three cubic grids of coefficient
// triples, one per choice of the largest RGB channel, plus the nonlinear
// scale of the largest-channel axis.
//
// A Model is immutable after construction. All methods are safe for
// concurrent use without synchronization.
type Model struct {
	res   int
	scale []float32
	// data is indexed [major][z][v][u][coef], coef innermost.
	data []float32
}

// NewModel validates scale and data and returns a Model that owns them.
// The caller must not modify the slices afterwards.
//
// len(scale) must equal res and len(data) must equal 9·res³.
func NewModel(res int, scale, data []float32) (*Model, error) {
	if res < 2 || res > MaxResolution {
		return nil, fmt.Errorf("%w: %d", ErrBadResolution, res)
	}
	if len(scale) != res {
		return nil, fmt.Errorf("%w: scale has %d entries, want %d", ErrBadResolution, len(scale), res)
	}
	if want := GridLen(res); len(data) != want {
		return nil, fmt.Errorf("%w: grid has %d values, want %d", ErrBadResolution, len(data), want)
	}
	if i := checkScale(scale); i >= 0 {
		return nil, fmt.Errorf("%w: scale[%d] = %g", ErrNonMonotonicScale, i, scale[i])
	}
	if i := checkFinite(data); i >= 0 {
		return nil, fmt.Errorf("%w: grid[%d] = %g", ErrNonFiniteCoefficient, i, data[i])
	}
	return &Model{res: res, scale: scale, data: data}, nil
}

// GridLen returns the number of float32 values in the coefficient grid of
// a model with resolution res.
func GridLen(res int) int {
	return 3 * res * res * res * 3
}

// checkScale returns the index of the first entry breaking monotonicity,
// or -1.
func checkScale(scale []float32) int {
	for i, s := range scale {
		if math.IsNaN(float64(s)) {
			return i
		}
		if i > 0 && s < scale[i-1] {
			return i
		}
	}
	return -1
}

// checkFinite returns the index of the first NaN or infinite value, or -1.
func checkFinite(data []float32) int {
	for i, v := range data {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return i
		}
	}
	return -1
}

// Resolution returns the grid edge length N.
func (m *Model) Resolution() int {
	return m.res
}

// Scale returns a copy of the largest-channel axis scale.
func (m *Model) Scale() []float32 {
	out := make([]float32, len(m.scale))
	copy(out, m.scale)
	return out
}

// Size returns the in-memory footprint of the model data in bytes.
func (m *Model) Size() int64 {
	return 4 * int64(len(m.scale)+len(m.data))
}

// FileSize returns the size in bytes of the serialized form of a model
// with resolution res.
func FileSize(res int) int64 {
	n := int64(res)
	return 8 + 4*n + 36*n*n*n
}

// At returns the stored coefficient triple at a grid node. It panics if an
// index is out of range.
func (m *Model) At(major, z, v, u int) Coefficients {
	if major < 0 || major > 2 || z < 0 || z >= m.res || v < 0 || v >= m.res || u < 0 || u >= m.res {
		panic(fmt.Sprintf("rgb2spec: node (%d, %d, %d, %d) out of range", major, z, v, u))
	}
	off := m.offset(major, z, v, u)
	return Coefficients{m.data[off], m.data[off+1], m.data[off+2]}
}

func (m *Model) offset(major, z, v, u int) int {
	return (((major*m.res+z)*m.res+v)*m.res + u) * 3
}

// MajorComponent returns the index of the largest channel of rgb after
// clamping. Ties go to the smaller index.
func MajorComponent(rgb [3]float32) int {
	r, g, b := clamp01(rgb[0]), clamp01(rgb[1]), clamp01(rgb[2])
	return major(r, g, b)
}

func major(r, g, b float32) int {
	switch {
	case r >= g && r >= b:
		return 0
	case g >= b:
		return 1
	default:
		return 2
	}
}

// clamp01 clamps x to [0, 1]. NaN maps to 0.
func clamp01(x float32) float32 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Fetch returns the coefficient triple for a linear RGB input.
//
// Components outside [0, 1] are clamped and NaN is treated as 0. The result
// is a trilinear interpolation of the stored grid and is continuous in rgb.
// Fetch never fails.
func (m *Model) Fetch(rgb [3]float32) Coefficients {
	c := [3]float32{clamp01(rgb[0]), clamp01(rgb[1]), clamp01(rgb[2])}
	i := major(c[0], c[1], c[2])

	z := c[i]
	var u, v float64
	if z > 0 {
		u = float64(c[(i+1)%3]) / float64(z)
		v = float64(c[(i+2)%3]) / float64(z)
	}

	kz, tz := m.findInterval(z)
	ku, tu := m.cell(u)
	kv, tv := m.cell(v)

	res := m.res
	dx := 3
	dy := 3 * res
	dz := 3 * res * res
	base := m.offset(i, kz, kv, ku)

	var out Coefficients
	for j := range 3 {
		d := m.data[base+j:]
		c00 := lerp(float64(d[0]), float64(d[dx]), tu)
		c01 := lerp(float64(d[dy]), float64(d[dy+dx]), tu)
		c10 := lerp(float64(d[dz]), float64(d[dz+dx]), tu)
		c11 := lerp(float64(d[dz+dy]), float64(d[dz+dy+dx]), tu)
		c0 := lerp(c00, c01, tv)
		c1 := lerp(c10, c11, tv)
		out[j] = float32(lerp(c0, c1, tz))
	}
	return out
}

func lerp(a, b, t float64) float64 {
	return (1-t)*a + t*b
}

// cell splits a uniform coordinate in [0, 1] into a cell index in
// [0, N-2] and a fraction in [0, 1].
func (m *Model) cell(x float64) (int, float64) {
	f := x * float64(m.res-1)
	k := int(f)
	if k > m.res-2 {
		k = m.res - 2
	}
	if k < 0 {
		k = 0
	}
	return k, clampFrac(f - float64(k))
}

// findInterval locates z on the warped axis: scale[k] <= z <= scale[k+1].
func (m *Model) findInterval(z float32) (int, float64) {
	n := m.res
	if z <= m.scale[0] {
		return 0, 0
	}
	if z >= m.scale[n-1] {
		return n - 2, 1
	}
	// First index with scale[k] > z, minus one.
	k := sort.Search(n, func(j int) bool { return m.scale[j] > z }) - 1
	if k < 0 {
		k = 0
	}
	if k > n-2 {
		k = n - 2
	}
	lo, hi := float64(m.scale[k]), float64(m.scale[k+1])
	if hi <= lo {
		return k, 0
	}
	return k, clampFrac((float64(z) - lo) / (hi - lo))
}

func clampFrac(t float64) float64 {
	if !(t > 0) {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
