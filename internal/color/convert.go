package color

import "math"

// SRGBToLinear applies the sRGB decoding curve to s in [0, 1].
// The power is evaluated in float64.
func SRGBToLinear(s float32) float32 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return float32(math.Pow((float64(s)+0.055)/1.055, 2.4))
}

// LinearToSRGB applies the sRGB encoding curve to l in [0, 1].
func LinearToSRGB(l float32) float32 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return float32(1.055*math.Pow(float64(l), 1.0/2.4) - 0.055)
}
