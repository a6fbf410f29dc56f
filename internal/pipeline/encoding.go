package pipeline

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/x448/float16"
)

// Encoding is the on-disk representation of one reflectance sample.
type Encoding uint8

const (
	// EncodingFloat32 writes IEEE 754 binary32, little-endian.
	EncodingFloat32 Encoding = iota

	// EncodingFloat16 writes IEEE 754 binary16, little-endian.
	EncodingFloat16
)

// ParseEncoding accepts "float32" ("f32") and "float16" ("f16", "half").
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float32", "f32", "":
		return EncodingFloat32, nil
	case "float16", "f16", "half":
		return EncodingFloat16, nil
	}
	return 0, fmt.Errorf("%w: encoding %q", ErrInvalidOption, s)
}

// String returns the canonical name of e.
func (e Encoding) String() string {
	switch e {
	case EncodingFloat32:
		return "float32"
	case EncodingFloat16:
		return "float16"
	}
	return fmt.Sprintf("Encoding(%d)", uint8(e))
}

// SampleSize returns the number of bytes per sample.
func (e Encoding) SampleSize() int {
	if e == EncodingFloat16 {
		return 2
	}
	return 4
}

func (e Encoding) valid() bool {
	return e == EncodingFloat32 || e == EncodingFloat16
}

// encodeChunk is the number of samples converted per write.
const encodeChunk = 1 << 14

// writeSamples writes vals to w in encoding e and returns the byte count.
func writeSamples(w io.Writer, vals []float32, e Encoding) (int64, error) {
	bw := bufio.NewWriterSize(w, 1<<20)
	size := e.SampleSize()
	buf := make([]byte, size*min(len(vals), encodeChunk))

	var total int64
	for len(vals) > 0 {
		k := min(len(vals), encodeChunk)
		b := buf[:size*k]
		switch e {
		case EncodingFloat16:
			for i, v := range vals[:k] {
				binary.LittleEndian.PutUint16(b[2*i:], float16.Fromfloat32(v).Bits())
			}
		default:
			for i, v := range vals[:k] {
				binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
			}
		}
		n, err := bw.Write(b)
		total += int64(n)
		if err != nil {
			return total, err
		}
		vals = vals[k:]
	}
	return total, bw.Flush()
}
