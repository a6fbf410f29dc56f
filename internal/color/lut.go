package color

import (
	"math"
	"sync"
)

// srgb8ToLinear maps every 8-bit sRGB code to linear light (1 KiB).
var srgb8ToLinear [256]float32

// linearToSRGB8 maps linear light, quantized to 12 bits, to 8-bit sRGB.
var linearToSRGB8 [4096]uint8

// srgb16ToLinear is built on first use; it costs 256 KiB.
var srgb16ToLinear = sync.OnceValue(func() []float32 {
	t := make([]float32, 1<<16)
	for i := range t {
		t[i] = SRGBToLinear(float32(float64(i) / 65535))
	}
	return t
})

func init() {
	for i := range srgb8ToLinear {
		srgb8ToLinear[i] = SRGBToLinear(float32(float64(i) / 255))
	}
	for i := range linearToSRGB8 {
		s := float64(LinearToSRGB(float32(float64(i) / 4095)))
		linearToSRGB8[i] = uint8(math.Min(math.Max(math.Round(s*255), 0), 255))
	}
}

// SRGB8ToLinear converts an 8-bit sRGB code to linear light.
func SRGB8ToLinear(s uint8) float32 {
	return srgb8ToLinear[s]
}

// SRGB16ToLinear converts a 16-bit sRGB code to linear light.
func SRGB16ToLinear(s uint16) float32 {
	return srgb16ToLinear()[s]
}

// LinearToSRGB8 converts linear light to an 8-bit sRGB code. The input is
// clamped to [0, 1]; NaN maps to 0.
func LinearToSRGB8(l float32) uint8 {
	if !(l > 0) {
		return 0
	}
	if l > 1 {
		l = 1
	}
	return linearToSRGB8[int(l*4095+0.5)]
}
