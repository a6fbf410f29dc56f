// Package color linearizes sRGB-encoded samples.
//
// Decoded images arrive as 8- or 16-bit sRGB. The spectral model is keyed
// by linear RGB, so every sample passes through the sRGB decoding curve
// (IEC 61966-2-1) first:
//
//	c <= 0.04045:  c / 12.92
//	otherwise:     ((c + 0.055) / 1.055)^2.4
package color

// RGB is a linear-light RGB triple with components nominally in [0, 1].
type RGB [3]float32

// FromSRGB linearizes an sRGB triple with components in [0, 1].
func FromSRGB(r, g, b float32) RGB {
	return RGB{SRGBToLinear(r), SRGBToLinear(g), SRGBToLinear(b)}
}

// ToSRGB8 encodes a linear triple as 8-bit sRGB, clamping to [0, 1].
func (c RGB) ToSRGB8() (r, g, b uint8) {
	return LinearToSRGB8(c[0]), LinearToSRGB8(c[1]), LinearToSRGB8(c[2])
}
