// Package fsutil provides file helpers shared by the model encoder and the
// pixel pipeline.
package fsutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrEmptyPath is returned when the destination path is empty.
var ErrEmptyPath = errors.New("fsutil: empty path")

// WriteAtomic writes a file through fn and commits it with a rename.
//
// The data is written to a temporary file in the destination directory.
// The destination only appears once fn, the flush and the sync have all
// succeeded; on any failure the temporary file is removed and the
// destination is left untouched.
func WriteAtomic(path string, fn func(w io.Writer) error) (err error) {
	if path == "" {
		return ErrEmptyPath
	}
	path = filepath.Clean(path)
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("fsutil: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriterSize(tmp, 1<<20)
	if err = fn(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("fsutil: flush %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("fsutil: sync %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("fsutil: close %s: %w", tmpName, err)
	}
	mode := os.FileMode(0o644)
	if fi, serr := os.Stat(path); serr == nil {
		mode = fi.Mode().Perm()
	}
	if err = os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("fsutil: chmod %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("fsutil: rename to %s: %w", path, err)
	}
	return nil
}
