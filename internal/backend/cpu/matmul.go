package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/memmap/internal/parallel"
	"github.com/born-ml/memmap/internal/tensor"
)

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) → (M, N).
// Float64 uses gonum's BLAS-backed mat.Dense; float32 uses a cache-friendly
// ikj loop.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.NDim() != 2 || b.NDim() != 2 {
		panic(fmt.Sprintf("matmul: requires 2D tensors, got %dD @ %dD", a.NDim(), b.NDim()))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	m, k := a.Shape()[0], a.Shape()[1]
	k2, n := b.Shape()[0], b.Shape()[1]
	if k != k2 {
		panic(fmt.Sprintf("matmul: inner dimensions do not match: (%d, %d) @ (%d, %d)", m, k, k2, n))
	}

	result := cpu.newResult("matmul", tensor.Shape{m, n}, a.DType())

	switch a.DType() {
	case tensor.Float64:
		am := mat.NewDense(m, k, a.AsFloat64())
		bm := mat.NewDense(k2, n, b.AsFloat64())
		rm := mat.NewDense(m, n, result.AsFloat64())
		rm.Mul(am, bm)
	case tensor.Float32:
		matmulFloat32(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s (only float32/float64 supported)", a.DType()))
	}
	return result
}

func matmulFloat32(dst, a, b []float32, m, k, n int) {
	// Rows are independent, so the outer loop parallelizes cleanly.
	parallel.For(m, func(i int) {
		for p := 0; p < k; p++ {
			av := a[i*k+p]
			if av == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				dst[i*n+j] += av * b[p*n+j]
			}
		}
	}, parallel.DefaultConfig())
}
