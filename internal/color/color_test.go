package color

import (
	"math"
	"testing"
)

func floatNear(a, b, epsilon float32) bool {
	return math.Abs(float64(a-b)) <= float64(epsilon)
}

func TestSRGBToLinearEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input float32
		want  float32
	}{
		{"black", 0.0, 0.0},
		{"white", 1.0, 1.0},
		{"threshold", 0.04045, 0.04045 / 12.92},
		{"just above threshold", 0.04046, float32(math.Pow((0.04046+0.055)/1.055, 2.4))},
		{"mid gray", 0.5, float32(math.Pow((0.5+0.055)/1.055, 2.4))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SRGBToLinear(tt.input)
			if !floatNear(got, tt.want, 1e-6) {
				t.Errorf("SRGBToLinear(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLinearToSRGBEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input float32
		want  float32
	}{
		{"black", 0.0, 0.0},
		{"white", 1.0, 1.0},
		{"threshold", 0.0031308, 0.0031308 * 12.92},
		{"mid gray linear", 0.21404, float32(1.055*math.Pow(0.21404, 1.0/2.4) - 0.055)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LinearToSRGB(tt.input)
			if !floatNear(got, tt.want, 1e-6) {
				t.Errorf("LinearToSRGB(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoundTripSRGBLinear(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		s := float32(i) / 1000
		back := LinearToSRGB(SRGBToLinear(s))
		if !floatNear(back, s, 1e-5) {
			t.Errorf("round trip %v -> %v", s, back)
		}
	}
}

func TestSRGBToLinearMonotone(t *testing.T) {
	prev := float32(-1)
	for i := 0; i <= 4096; i++ {
		l := SRGBToLinear(float32(i) / 4096)
		if l < prev {
			t.Fatalf("not monotone at %d: %v < %v", i, l, prev)
		}
		prev = l
	}
}

func TestFromSRGB(t *testing.T) {
	c := FromSRGB(1, 0.5, 0)
	want := RGB{1, SRGBToLinear(0.5), 0}
	if c != want {
		t.Errorf("FromSRGB = %v, want %v", c, want)
	}
	r, g, b := c.ToSRGB8()
	if r != 255 || b != 0 || (g != 127 && g != 128) {
		t.Errorf("ToSRGB8 = (%d, %d, %d), want (255, ~128, 0)", r, g, b)
	}
}
