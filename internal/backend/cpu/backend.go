// Package cpu implements the host compute backend used when memory-mapped
// tensors are materialized. Float64 kernels delegate to gonum; all other
// data types use typed Go loops.
package cpu

import (
	"fmt"

	"github.com/born-ml/memmap/internal/tensor"
)

// CPUBackend implements tensor operations on the host CPU.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// number constrains kernels to arithmetic element types.
type number interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8
}

// checkBinary validates that two operands agree on dtype and shape.
func checkBinary(op string, a, b *tensor.RawTensor) {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("%s: shape mismatch %v vs %v", op, a.Shape(), b.Shape()))
	}
}

// newResult allocates a result tensor or panics; kernels have no error path.
func (cpu *CPUBackend) newResult(op string, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return result
}

func binaryLoop[T number](dst, a, b []T, f func(T, T) T) {
	for i := range dst {
		dst[i] = f(a[i], b[i])
	}
}

func scalarLoop[T number](dst, src []T, s T, f func(T, T) T) {
	for i := range dst {
		dst[i] = f(src[i], s)
	}
}
