// Package image decodes raster images and converts them to linear-light
// float buffers for spectral upsampling.
package image

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	// Decoders registered with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/h2non/filetype"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the input is not a decodable image.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when the input is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// sniffLen is the number of leading bytes inspected for type detection.
const sniffLen = 262

// Load decodes the image at path. It returns the decoded image and the
// format name registered with the image package ("png", "jpeg", ...).
func Load(path string) (image.Image, string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, "", fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, format, err := Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return img, format, nil
}

// Decode sniffs the content type of r and decodes it. Inputs that are not
// images at all (text, archives, ...) fail with ErrUnsupportedFormat before
// any decoder runs.
func Decode(r io.Reader) (image.Image, string, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("image: read header: %w", err)
	}
	if len(head) == 0 {
		return nil, "", ErrEmptyData
	}

	kind, _ := filetype.Match(head)
	if !filetype.IsImage(head) {
		if kind == filetype.Unknown {
			return nil, "", fmt.Errorf("%w: unrecognized content", ErrUnsupportedFormat)
		}
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
	}

	img, format, err := image.Decode(br)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
		}
		return nil, "", fmt.Errorf("image: decode %s: %w", kind.Extension, err)
	}
	return img, format, nil
}
