package peg

import (
	"os"

	"golang.org/x/exp/mmap"
)

// ReadFile reads the whole file at `path` into memory and returns an
// input over it, labelled with the path
func ReadFile(path string, opts ...InputOption) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InputError{Op: "read", Path: path, Err: unwrapPathError(err)}
	}
	return NewInput(data, path, opts...), nil
}

// MmapFile maps the file at `path` into memory and returns an input
// over its contents.  The contents are copied into the input and the
// file is unmapped before returning.
func MmapFile(path string, opts ...InputOption) (*Input, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, &InputError{Op: "mmap", Path: path, Err: unwrapPathError(err)}
	}
	defer r.Close()

	data := make([]byte, r.Len())
	if _, err := r.ReadAt(data, 0); err != nil && r.Len() > 0 {
		return nil, &InputError{Op: "mmap", Path: path, Err: err}
	}
	return NewInput(data, path, opts...), nil
}

// unwrapPathError drops the *os.PathError wrapper since InputError
// already carries the operation and the path
func unwrapPathError(err error) error {
	if pe, ok := err.(*os.PathError); ok {
		return pe.Err
	}
	return err
}
