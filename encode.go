package rgb2spec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/rgb2spec/internal/fsutil"
)

// WriteTo serializes the model in the on-disk format read by Decode:
// the "SPEC" tag, the resolution as little-endian uint32, the scale and
// the coefficient grid as little-endian float32.
func (m *Model) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriterSize(w, 64<<10)

	var hdr [8]byte
	copy(hdr[:4], Magic)
	binary.LittleEndian.PutUint32(hdr[4:], uint32(m.res)) //nolint:gosec // res <= MaxResolution

	n, err := bw.Write(hdr[:])
	total := int64(n)
	if err != nil {
		return total, err
	}
	k, err := writeFloats(bw, m.scale)
	total += k
	if err != nil {
		return total, err
	}
	k, err = writeFloats(bw, m.data)
	total += k
	if err != nil {
		return total, err
	}
	return total, bw.Flush()
}

func writeFloats(w io.Writer, vals []float32) (int64, error) {
	var total int64
	buf := make([]byte, 4*min(len(vals), readChunk))
	for len(vals) > 0 {
		k := min(len(vals), readChunk)
		b := buf[:4*k]
		for i, v := range vals[:k] {
			binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
		}
		n, err := w.Write(b)
		total += int64(n)
		if err != nil {
			return total, err
		}
		vals = vals[k:]
	}
	return total, nil
}

// Save writes the model to path. The file is replaced atomically.
func (m *Model) Save(path string) error {
	err := fsutil.WriteAtomic(path, func(w io.Writer) error {
		_, err := m.WriteTo(w)
		return err
	})
	if err != nil {
		return fmt.Errorf("rgb2spec: save %s: %w", path, err)
	}
	return nil
}
