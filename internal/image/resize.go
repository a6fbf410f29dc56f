package image

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
)

// Downscale shrinks img so that neither side exceeds maxSize, keeping the
// aspect ratio. Images already small enough, and maxSize <= 0, return img
// unchanged. Filtering happens on the encoded sRGB values.
func Downscale(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	if w >= h {
		h = max(1, (h*maxSize+w/2)/w)
		w = maxSize
	} else {
		w = max(1, (w*maxSize+h/2)/h)
		h = maxSize
	}
	return transform.Resize(img, w, h, transform.Linear)
}
