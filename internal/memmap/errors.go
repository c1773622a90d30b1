package memmap

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidSource        = errors.New("source must be a *tensor.RawTensor or a memory-mapped tensor")
	ErrAutogradTensor       = errors.New("memory-mapped storage is incompatible with gradient-tracking tensors: detach first")
	ErrUnsupportedOperand   = errors.New("unsupported operand type")
	ErrOwnershipTransferred = errors.New("ownership of the backing file was already transferred")
	ErrClosed               = errors.New("mapped tensor is closed")
	ErrInvalidMagic         = errors.New("invalid magic bytes")
	ErrUnsupportedVersion   = errors.New("unsupported snapshot version")
	ErrChecksumMismatch     = errors.New("checksum mismatch: snapshot may be corrupted")
)

// StorageError reports a failure to create, open, size, map or sync a
// backing file. It wraps the underlying OS error.
type StorageError struct {
	Op   string // "create", "size", "open", "stat", "map", "sync"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("memmap %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op, path string, err error) error {
	return &StorageError{Op: op, Path: path, Err: err}
}
