package rgb2spec

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidBands is returned when a band grid is empty or malformed.
var ErrInvalidBands = errors.New("rgb2spec: invalid band grid")

// Bands is an ordered list of wavelengths, in nanometers, at which
// reflectance is sampled.
type Bands []float64

// MaxBands is the largest number of samples NewBands produces.
const MaxBands = 1 << 16

// Default band grid: 31 samples from 380 to 680 nm in 10 nm steps.
const (
	DefaultBandStart = 380
	DefaultBandEnd   = 680
	DefaultBandStep  = 10
)

// DefaultBands returns the default 31-band grid.
func DefaultBands() Bands {
	b, _ := NewBands(DefaultBandStart, DefaultBandEnd, DefaultBandStep)
	return b
}

// NewBands returns the wavelengths start, start+step, ... up to and
// including end.
func NewBands(start, end, step float64) (Bands, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("%w: step %g", ErrInvalidBands, step)
	}
	if math.IsNaN(start) || math.IsNaN(end) || end < start {
		return nil, fmt.Errorf("%w: range [%g, %g]", ErrInvalidBands, start, end)
	}
	q := (end - start) / step
	if math.IsInf(q, 0) || math.IsNaN(q) || q >= MaxBands {
		return nil, fmt.Errorf("%w: more than %d samples", ErrInvalidBands, MaxBands)
	}
	// Tolerate rounding in q so that end is included.
	n := int(math.Floor(q+1e-9)) + 1
	b := make(Bands, n)
	for i := range b {
		b[i] = start + float64(i)*step
	}
	return b, nil
}

// Validate checks that the grid is non-empty, finite and strictly
// increasing.
func (b Bands) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidBands)
	}
	for i, l := range b {
		if math.IsNaN(l) || math.IsInf(l, 0) || l <= 0 {
			return fmt.Errorf("%w: band %d = %g", ErrInvalidBands, i, l)
		}
		if i > 0 && l <= b[i-1] {
			return fmt.Errorf("%w: band %d (%g nm) not above %g nm", ErrInvalidBands, i, l, b[i-1])
		}
	}
	return nil
}

// Spectrum fetches the coefficients for rgb once and evaluates them at
// every band, appending the reflectances to dst.
func (m *Model) Spectrum(rgb [3]float32, bands Bands, dst []float32) []float32 {
	c := m.Fetch(rgb)
	for _, l := range bands {
		dst = append(dst, float32(EvalPrecise(c, l)))
	}
	return dst
}
