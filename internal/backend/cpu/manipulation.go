package cpu

import (
	"fmt"

	"github.com/born-ml/memmap/internal/tensor"
)

// Manipulation kernels operate on raw byte blocks: for row-major layouts a
// concatenation, stack or chunk along any dimension is a block copy that is
// independent of the element type.

// blockSizes returns the number of elements before dim (outer) and from dim
// onward (inner) for a row-major shape.
func blockSizes(shape tensor.Shape, dim int) (outer, inner int) {
	outer, inner = 1, 1
	for i, d := range shape {
		if i < dim {
			outer *= d
		} else {
			inner *= d
		}
	}
	return outer, inner
}

// Cat concatenates tensors along the specified dimension.
//
// All tensors must have the same shape except along the concatenation
// dimension. Supports negative dim indexing (-1 = last dimension).
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()
	dim = shape.NormalizeDim("cat", dim)

	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim
	result := cpu.newResult("cat", outShape, dtype)

	outer, outInner := blockSizes(outShape, dim)
	outInnerBytes := outInner * dtype.Size()
	off := 0
	for _, t := range tensors {
		_, inner := blockSizes(t.Shape(), dim)
		innerBytes := inner * dtype.Size()
		src := t.Data()
		dst := result.Data()
		for o := 0; o < outer; o++ {
			copy(dst[o*outInnerBytes+off:o*outInnerBytes+off+innerBytes], src[o*innerBytes:(o+1)*innerBytes])
		}
		off += innerBytes
	}
	return result
}

// Stack stacks tensors along a new dimension of size len(tensors).
// All tensors must have identical shapes and dtypes.
func (cpu *CPUBackend) Stack(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("stack: at least one tensor required")
	}

	shape := tensors[0].Shape()
	dtype := tensors[0].DType()
	ndim := len(shape)
	// The new dimension may be inserted at the end, so the valid range is
	// one wider than for cat.
	if dim < 0 {
		dim = ndim + 1 + dim
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("stack: dimension %d out of range for %dD tensor", dim, ndim))
	}

	for i, t := range tensors {
		if !t.Shape().Equal(shape) {
			panic(fmt.Sprintf("stack: tensor %d has shape %v, expected %v", i, t.Shape(), shape))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("stack: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
	}

	n := len(tensors)
	outShape := make(tensor.Shape, 0, ndim+1)
	outShape = append(outShape, shape[:dim]...)
	outShape = append(outShape, n)
	outShape = append(outShape, shape[dim:]...)
	result := cpu.newResult("stack", outShape, dtype)

	outer, inner := blockSizes(shape, dim)
	innerBytes := inner * dtype.Size()
	dst := result.Data()
	for i, t := range tensors {
		src := t.Data()
		for o := 0; o < outer; o++ {
			copy(dst[(o*n+i)*innerBytes:(o*n+i+1)*innerBytes], src[o*innerBytes:(o+1)*innerBytes])
		}
	}
	return result
}

// Chunk splits tensor into n equal parts along the specified dimension.
// The dimension size must be divisible by n.
func (cpu *CPUBackend) Chunk(x *tensor.RawTensor, n, dim int) []*tensor.RawTensor {
	if n <= 0 {
		panic(fmt.Sprintf("chunk: n must be positive, got %d", n))
	}

	shape := x.Shape()
	dim = shape.NormalizeDim("chunk", dim)
	if shape[dim]%n != 0 {
		panic(fmt.Sprintf("chunk: dimension %d size %d not divisible by %d", dim, shape[dim], n))
	}

	partShape := shape.Clone()
	partShape[dim] = shape[dim] / n

	outer, srcInner := blockSizes(shape, dim)
	_, partInner := blockSizes(partShape, dim)
	srcInnerBytes := srcInner * x.DType().Size()
	partInnerBytes := partInner * x.DType().Size()

	src := x.Data()
	parts := make([]*tensor.RawTensor, n)
	for i := 0; i < n; i++ {
		part := cpu.newResult("chunk", partShape, x.DType())
		dst := part.Data()
		for o := 0; o < outer; o++ {
			start := o*srcInnerBytes + i*partInnerBytes
			copy(dst[o*partInnerBytes:(o+1)*partInnerBytes], src[start:start+partInnerBytes])
		}
		parts[i] = part
	}
	return parts
}

// Squeeze removes a dimension of size 1. This is a view operation: the
// returned tensor shares the input's buffer.
func (cpu *CPUBackend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = shape.NormalizeDim("squeeze", dim)
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, expected 1", dim, shape[dim]))
	}

	newShape := make(tensor.Shape, 0, len(shape)-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)

	result, err := tensor.WrapBytes(x.Data(), newShape, x.DType(), x.Device())
	if err != nil {
		panic(fmt.Sprintf("squeeze: %v", err))
	}
	return result
}

// Unsqueeze adds a dimension of size 1. This is a view operation: the
// returned tensor shares the input's buffer.
func (cpu *CPUBackend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + 1 + dim
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("unsqueeze: dimension %d out of range for %dD tensor", dim, ndim))
	}

	newShape := make(tensor.Shape, 0, ndim+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)

	result, err := tensor.WrapBytes(x.Data(), newShape, x.DType(), x.Device())
	if err != nil {
		panic(fmt.Sprintf("unsqueeze: %v", err))
	}
	return result
}
