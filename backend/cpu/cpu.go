// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU compute backend.
//
// The CPU backend executes all tensor operations on the host and is the
// backend used to materialize memory-mapped tensors.
package cpu

import (
	internalcpu "github.com/born-ml/memmap/internal/backend/cpu"
	"github.com/born-ml/memmap/tensor"
)

// Backend is the CPU compute backend.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
func New() *Backend {
	return internalcpu.New()
}
