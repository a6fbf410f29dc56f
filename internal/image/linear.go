package image

import (
	"errors"
	"image"
	"image/color"

	"github.com/gogpu/rgb2spec"
	lin "github.com/gogpu/rgb2spec/internal/color"
)

// ErrInvalidDimensions is returned when width or height is non-positive.
var ErrInvalidDimensions = errors.New("image: invalid dimensions")

// LinearBuf holds linear-light RGB samples, three float32 per pixel,
// row-major without padding.
type LinearBuf struct {
	width  int
	height int
	pix    []float32
}

// NewLinearBuf allocates a zeroed buffer.
func NewLinearBuf(width, height int) (*LinearBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &LinearBuf{width: width, height: height, pix: make([]float32, 3*width*height)}, nil
}

// Width returns the width in pixels.
func (b *LinearBuf) Width() int { return b.width }

// Height returns the height in pixels.
func (b *LinearBuf) Height() int { return b.height }

// Pixels returns the number of pixels.
func (b *LinearBuf) Pixels() int { return b.width * b.height }

// Row returns the samples of row y. The slice aliases the buffer.
func (b *LinearBuf) Row(y int) []float32 {
	i := 3 * y * b.width
	return b.pix[i : i+3*b.width]
}

// At returns the linear RGB triple at (x, y).
func (b *LinearBuf) At(x, y int) [3]float32 {
	i := 3 * (y*b.width + x)
	return [3]float32{b.pix[i], b.pix[i+1], b.pix[i+2]}
}

// Set stores a linear RGB triple at (x, y).
func (b *LinearBuf) Set(x, y int, rgb [3]float32) {
	i := 3 * (y*b.width + x)
	copy(b.pix[i:i+3], rgb[:])
}

// FromImage linearizes img. Premultiplied sources are un-premultiplied
// first; alpha is then dropped, with a warning when the image is not
// opaque.
func FromImage(img image.Image) (*LinearBuf, error) {
	bounds := img.Bounds()
	buf, err := NewLinearBuf(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
		rgb2spec.Logger().Warn("image: alpha channel discarded",
			"width", buf.width, "height", buf.height)
	}

	switch src := img.(type) {
	case *image.NRGBA:
		buf.fromNRGBA(src)
	case *image.RGBA:
		buf.fromRGBA(src)
	case *image.Gray:
		buf.fromGray(src)
	case *image.NRGBA64:
		buf.fromNRGBA64(src)
	case *image.Gray16:
		buf.fromGray16(src)
	default:
		buf.fromGeneric(img)
	}
	return buf, nil
}

func (b *LinearBuf) fromNRGBA(src *image.NRGBA) {
	for y := range b.height {
		s := src.Pix[y*src.Stride:]
		d := b.Row(y)
		for x := range b.width {
			d[3*x] = lin.SRGB8ToLinear(s[4*x])
			d[3*x+1] = lin.SRGB8ToLinear(s[4*x+1])
			d[3*x+2] = lin.SRGB8ToLinear(s[4*x+2])
		}
	}
}

func (b *LinearBuf) fromRGBA(src *image.RGBA) {
	for y := range b.height {
		s := src.Pix[y*src.Stride:]
		d := b.Row(y)
		for x := range b.width {
			a := s[4*x+3]
			d[3*x] = lin.SRGB8ToLinear(unpremul8(s[4*x], a))
			d[3*x+1] = lin.SRGB8ToLinear(unpremul8(s[4*x+1], a))
			d[3*x+2] = lin.SRGB8ToLinear(unpremul8(s[4*x+2], a))
		}
	}
}

func (b *LinearBuf) fromGray(src *image.Gray) {
	for y := range b.height {
		s := src.Pix[y*src.Stride:]
		d := b.Row(y)
		for x := range b.width {
			v := lin.SRGB8ToLinear(s[x])
			d[3*x], d[3*x+1], d[3*x+2] = v, v, v
		}
	}
}

func (b *LinearBuf) fromNRGBA64(src *image.NRGBA64) {
	for y := range b.height {
		s := src.Pix[y*src.Stride:]
		d := b.Row(y)
		for x := range b.width {
			p := s[8*x:]
			d[3*x] = lin.SRGB16ToLinear(be16(p[0:]))
			d[3*x+1] = lin.SRGB16ToLinear(be16(p[2:]))
			d[3*x+2] = lin.SRGB16ToLinear(be16(p[4:]))
		}
	}
}

func (b *LinearBuf) fromGray16(src *image.Gray16) {
	for y := range b.height {
		s := src.Pix[y*src.Stride:]
		d := b.Row(y)
		for x := range b.width {
			v := lin.SRGB16ToLinear(be16(s[2*x:]))
			d[3*x], d[3*x+1], d[3*x+2] = v, v, v
		}
	}
}

// fromGeneric goes through color.NRGBA64Model, which un-premultiplies.
func (b *LinearBuf) fromGeneric(img image.Image) {
	bounds := img.Bounds()
	for y := range b.height {
		d := b.Row(y)
		for x := range b.width {
			c := color.NRGBA64Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA64)
			d[3*x] = lin.SRGB16ToLinear(c.R)
			d[3*x+1] = lin.SRGB16ToLinear(c.G)
			d[3*x+2] = lin.SRGB16ToLinear(c.B)
		}
	}
}

// unpremul8 recovers the straight color value from a premultiplied one.
func unpremul8(c, a uint8) uint8 {
	switch a {
	case 0:
		return 0
	case 255:
		return c
	}
	v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
	return uint8(min(v, 255)) //nolint:gosec // clamped
}

func be16(p []byte) uint16 {
	return uint16(p[0])<<8 | uint16(p[1])
}
