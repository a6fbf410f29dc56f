package rgb2spec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// readChunk is the number of float32 values decoded per read. Reading in
// bounded chunks keeps a header that lies about its resolution from
// forcing a huge allocation before the data actually arrives.
const readChunk = 1 << 16

// Load reads a model file from disk.
func Load(path string) (*Model, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() { _ = f.Close() }()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	Logger().Info("rgb2spec: model loaded", "path", path, "resolution", m.res)
	return m, nil
}

// Decode parses a serialized model from r.
//
// If r implements io.Seeker the remaining size is checked against the
// resolution before any payload is read: a longer source fails with
// ErrBadResolution and a shorter one with ErrUnexpectedEOF. For plain
// streams truncation is detected while reading and trailing bytes after
// the grid are rejected with ErrBadResolution.
func Decode(r io.Reader) (*Model, error) {
	remaining := int64(-1)
	if s, ok := r.(io.Seeker); ok {
		remaining = remainingSize(s)
	}
	br := bufio.NewReaderSize(r, 64<<10)

	var hdr [8]byte
	if err := readFull(br, hdr[:4], "magic", 0); err != nil {
		return nil, err
	}
	if string(hdr[:4]) != Magic {
		return nil, loadError("magic", 0, fmt.Errorf("%w: %q", ErrBadMagic, hdr[:4]))
	}
	if err := readFull(br, hdr[4:], "resolution", 4); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(hdr[4:])
	if n < 2 || n > MaxResolution {
		return nil, loadError("resolution", 4, fmt.Errorf("%w: %d", ErrBadResolution, n))
	}
	res := int(n)

	payload := FileSize(res) - 8
	if remaining >= 0 {
		rest := remaining - 8
		switch {
		case rest > payload:
			return nil, loadError("resolution", 4,
				fmt.Errorf("%w: %d payload bytes for resolution %d, want %d", ErrBadResolution, rest, res, payload))
		case rest < payload:
			return nil, loadError("data", remaining,
				fmt.Errorf("%w: %d payload bytes for resolution %d, want %d", ErrUnexpectedEOF, rest, res, payload))
		}
	}

	scale, err := readFloats(br, res, res, "scale", 8)
	if err != nil {
		return nil, err
	}
	if i := checkScale(scale); i >= 0 {
		return nil, loadError("scale", 8+4*int64(i),
			fmt.Errorf("%w: scale[%d] = %g after %g", ErrNonMonotonicScale, i, scale[i], scale[max(i-1, 0)]))
	}

	dataOff := 8 + 4*int64(res)
	hint := readChunk
	if remaining >= 0 {
		hint = GridLen(res)
	}
	data, err := readFloats(br, GridLen(res), hint, "data", dataOff)
	if err != nil {
		return nil, err
	}
	if i := checkFinite(data); i >= 0 {
		return nil, loadError("data", dataOff+4*int64(i),
			fmt.Errorf("%w: grid[%d] = %g", ErrNonFiniteCoefficient, i, data[i]))
	}

	if remaining < 0 {
		end := FileSize(res)
		_, err := br.ReadByte()
		switch {
		case err == nil:
			return nil, loadError("data", end, fmt.Errorf("%w: trailing data after grid", ErrBadResolution))
		case !errors.Is(err, io.EOF):
			return nil, loadError("data", end, fmt.Errorf("%w: %w", ErrIO, err))
		}
	}

	Logger().Debug("rgb2spec: model decoded", "resolution", res, "bytes", FileSize(res))
	return &Model{res: res, scale: scale, data: data}, nil
}

// remainingSize reports the number of bytes between the current position
// of s and its end, or -1 if s cannot tell.
func remainingSize(s io.Seeker) int64 {
	cur, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return -1
	}
	if _, err := s.Seek(cur, io.SeekStart); err != nil {
		return -1
	}
	return end - cur
}

func readFull(r io.Reader, b []byte, op string, offset int64) error {
	got, err := io.ReadFull(r, b)
	if err == nil {
		return nil
	}
	return readError(op, offset+int64(got), err)
}

func readError(op string, at int64, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return loadError(op, at, ErrUnexpectedEOF)
	}
	return loadError(op, at, fmt.Errorf("%w: %w", ErrIO, err))
}

// readFloats decodes n little-endian float32 values. capHint bounds the
// initial allocation.
func readFloats(r io.Reader, n, capHint int, op string, offset int64) ([]float32, error) {
	out := make([]float32, 0, min(n, capHint))
	buf := make([]byte, 4*min(n, readChunk))
	for len(out) < n {
		k := min(n-len(out), readChunk)
		b := buf[:4*k]
		if err := readFull(r, b, op, offset+4*int64(len(out))); err != nil {
			return nil, err
		}
		for i := range k {
			out = append(out, math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:])))
		}
	}
	return out, nil
}
