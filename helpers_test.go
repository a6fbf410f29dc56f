package rgb2spec

import (
	"bytes"
	"math"
	"testing"
)

// uniformScale returns res evenly spaced values from 0 to 1.
func uniformScale(res int) []float32 {
	s := make([]float32, res)
	for i := range s {
		s[i] = float32(i) / float32(res-1)
	}
	return s
}

// smoothstepScale returns the doubly smoothstepped scale used by the
// published sRGB models.
func smoothstepScale(res int) []float32 {
	smooth := func(x float64) float64 { return x * x * (3 - 2*x) }
	s := make([]float32, res)
	for i := range s {
		s[i] = float32(smooth(smooth(float64(i) / float64(res-1))))
	}
	return s
}

// buildModel fills every grid node with f applied to the linear RGB that
// the node represents.
func buildModel(tb testing.TB, scale []float32, f func(rgb [3]float64) Coefficients) *Model {
	tb.Helper()
	res := len(scale)
	data := make([]float32, GridLen(res))
	for i := range 3 {
		for z := range res {
			for v := range res {
				for u := range res {
					zz := float64(scale[z])
					var rgb [3]float64
					rgb[i] = zz
					rgb[(i+1)%3] = float64(u) / float64(res-1) * zz
					rgb[(i+2)%3] = float64(v) / float64(res-1) * zz
					c := f(rgb)
					off := (((i*res+z)*res+v)*res + u) * 3
					copy(data[off:off+3], c[:])
				}
			}
		}
	}
	m, err := NewModel(res, scale, data)
	if err != nil {
		tb.Fatalf("NewModel failed: %v", err)
	}
	return m
}

// constModel stores c at every node of a uniform grid.
func constModel(res int, c Coefficients) *Model {
	data := make([]float32, GridLen(res))
	for i := 0; i < len(data); i += 3 {
		copy(data[i:i+3], c[:])
	}
	m, err := NewModel(res, uniformScale(res), data)
	if err != nil {
		panic(err)
	}
	return m
}

// majorModel stores (0, 0, i) in the sub-grid of major component i.
func majorModel(res int) *Model {
	data := make([]float32, GridLen(res))
	per := len(data) / 3
	for i := range 3 {
		for j := i * per; j < (i+1)*per; j += 3 {
			data[j+2] = float32(i)
		}
	}
	m, err := NewModel(res, uniformScale(res), data)
	if err != nil {
		panic(err)
	}
	return m
}

// smoothCoefficients is a slowly varying field whose gray axis produces
// flat spectra.
func smoothCoefficients(rgb [3]float64) Coefficients {
	return Coefficients{
		float32(1e-6 * (rgb[0] - rgb[2])),
		float32(1e-3 * (rgb[1] - rgb[0])),
		float32(2*(rgb[0]+rgb[1]+rgb[2]) - 3),
	}
}

// logit inverts Sigmoid, clamping y away from 0 and 1.
func logit(y float64) float64 {
	y = math.Min(math.Max(y, 1e-12), 1-1e-12)
	return (2*y - 1) / (2 * math.Sqrt(y*(1-y)))
}

// grayCoefficients produces a flat spectrum equal to the mean of rgb.
func grayCoefficients(rgb [3]float64) Coefficients {
	return Coefficients{0, 0, float32(logit((rgb[0] + rgb[1] + rgb[2]) / 3))}
}

// encodeModel serializes m.
func encodeModel(tb testing.TB, m *Model) []byte {
	tb.Helper()
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		tb.Fatalf("WriteTo failed: %v", err)
	}
	return buf.Bytes()
}

// streamReader hides io.Seeker from Decode.
type streamReader struct {
	r *bytes.Reader
}

func (s streamReader) Read(p []byte) (int, error) { return s.r.Read(p) }
