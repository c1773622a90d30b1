// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package memmap provides memory-mapped tensor storage.
//
// A memmap.Tensor stores its contents in a memory-mapped temporary file
// instead of process memory, so large tensors can be shared between processes
// and survive serialization without copying the payload.
//
// Basic usage:
//
//	backend := cpu.New()
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
//	m, err := memmap.FromTensor(x)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer m.Close()
//
//	raw, _ := m.Load() // materialize into an in-memory tensor
//
// Ownership of the backing file follows an explicit protocol: the creating
// tensor owns (and on Close deletes) its file unless ownership is handed off
// through Snapshot, CommitTransfer, and FromState. See the Tensor
// documentation for details.
package memmap

import (
	"github.com/born-ml/memmap/internal/memmap"
	"github.com/born-ml/memmap/tensor"
)

// Tensor is a tensor backed by a memory-mapped temporary file.
type Tensor = memmap.Tensor

// State is the serializable snapshot of a mapped tensor's identity and
// ownership flags. It carries no payload: the receiving side re-attaches to
// the backing file named in Filename.
type State = memmap.State

// StorageError wraps a failure of a backing-file operation with the
// operation name and path.
type StorageError = memmap.StorageError

// Option configures a mapped tensor at construction time.
type Option = memmap.Option

// Sentinel errors.
var (
	// ErrInvalidSource is returned when a constructor receives a value it
	// cannot turn into a mapped tensor.
	ErrInvalidSource = memmap.ErrInvalidSource

	// ErrAutogradTensor is returned when the source tensor tracks gradients.
	ErrAutogradTensor = memmap.ErrAutogradTensor

	// ErrUnsupportedOperand is returned by arithmetic methods when the
	// operand is not a tensor, mapped tensor, or supported scalar.
	ErrUnsupportedOperand = memmap.ErrUnsupportedOperand

	// ErrOwnershipTransferred is returned when ownership of a backing file
	// is committed for transfer a second time.
	ErrOwnershipTransferred = memmap.ErrOwnershipTransferred

	// ErrClosed is returned by operations on a closed mapped tensor.
	ErrClosed = memmap.ErrClosed

	// ErrInvalidMagic is returned when a snapshot file does not start with
	// the expected magic bytes.
	ErrInvalidMagic = memmap.ErrInvalidMagic

	// ErrUnsupportedVersion is returned when a snapshot file was written by
	// an unknown format version.
	ErrUnsupportedVersion = memmap.ErrUnsupportedVersion

	// ErrChecksumMismatch is returned when a snapshot payload does not match
	// its recorded checksum.
	ErrChecksumMismatch = memmap.ErrChecksumMismatch
)

// WithTransferOwnership sets whether serializing the tensor hands ownership
// of the backing file to the deserialized copy.
func WithTransferOwnership(v bool) Option {
	return memmap.WithTransferOwnership(v)
}

// New creates a mapped tensor from a source value.
//
// Accepted sources are *tensor.RawTensor (contents are copied into a fresh
// backing file) and *Tensor (cloned into a fresh backing file). Any other
// value returns ErrInvalidSource.
func New(src any, opts ...Option) (*Tensor, error) {
	return memmap.New(src, opts...)
}

// FromTensor creates a mapped tensor from a typed tensor.
//
// Tensors that track gradients are rejected with ErrAutogradTensor.
func FromTensor[T tensor.DType, B tensor.Backend](t *tensor.Tensor[T, B], opts ...Option) (*Tensor, error) {
	return memmap.FromTensor(t, opts...)
}

// FromState reconstructs a mapped tensor from a snapshot, re-attaching to
// the existing backing file. The reconstructed tensor owns the file only if
// the snapshot both requested transfer and still held ownership when taken.
func FromState(st State) (*Tensor, error) {
	return memmap.FromState(st)
}

// LoadSnapshot reads a snapshot file written by Tensor.Save and returns a
// brand-new mapped tensor owning a fresh backing file.
func LoadSnapshot(path string) (*Tensor, error) {
	return memmap.LoadSnapshot(path)
}

// Stack materializes the given mapped tensors and stacks them along a new
// dimension.
func Stack(tensors []*Tensor, dim int) (*tensor.RawTensor, error) {
	return memmap.Stack(tensors, dim)
}

// Cat materializes the given mapped tensors and concatenates them along an
// existing dimension.
func Cat(tensors []*Tensor, dim int) (*tensor.RawTensor, error) {
	return memmap.Cat(tensors, dim)
}

// Unbind splits a mapped tensor along a dimension, removing it, and returns
// one materialized tensor per slice.
func Unbind(m *Tensor, dim int) ([]*tensor.RawTensor, error) {
	return memmap.Unbind(m, dim)
}

// SetTransferOwnership toggles the transfer-ownership flag on a mapped
// tensor.
func SetTransferOwnership(m *Tensor, v bool) {
	memmap.SetTransferOwnership(m, v)
}
