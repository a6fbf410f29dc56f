package rgb2spec

import (
	"errors"
	"fmt"
)

// Loader errors. Every error returned by Decode and Load wraps
// exactly one of these, so callers can test for them with errors.Is.
var (
	// ErrIO is returned when the underlying byte source fails.
	ErrIO = errors.New("rgb2spec: i/o error")

	// ErrBadMagic is returned when the file does not start with "SPEC".
	ErrBadMagic = errors.New("rgb2spec: bad magic")

	// ErrBadResolution is returned when the resolution is out of range or
	// the payload size does not match it.
	ErrBadResolution = errors.New("rgb2spec: bad resolution")

	// ErrNonMonotonicScale is returned when the scale axis decreases.
	ErrNonMonotonicScale = errors.New("rgb2spec: scale is not monotonic")

	// ErrUnexpectedEOF is returned when the payload is truncated.
	ErrUnexpectedEOF = errors.New("rgb2spec: unexpected end of data")

	// ErrNonFiniteCoefficient is returned when the grid holds NaN or ±Inf.
	ErrNonFiniteCoefficient = errors.New("rgb2spec: non-finite coefficient")
)

// LoadError records the loader step that failed and the byte offset at
// which it was detected.
type LoadError struct {
	Op     string // "magic", "resolution", "scale", "data"
	Offset int64
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%v (%s at offset %d)", e.Err, e.Op, e.Offset)
}

func (e *LoadError) Unwrap() error { return e.Err }

func loadError(op string, offset int64, err error) error {
	return &LoadError{Op: op, Offset: offset, Err: err}
}
