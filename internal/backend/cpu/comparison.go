package cpu

import (
	"fmt"

	"github.com/born-ml/memmap/internal/tensor"
)

// Equal compares element-wise and returns a Bool tensor.
// Operands must share dtype and shape. NaN compares unequal to itself,
// matching IEEE 754 semantics.
func (cpu *CPUBackend) Equal(a, b *tensor.RawTensor) *tensor.RawTensor {
	checkBinary("equal", a, b)
	result := cpu.newResult("equal", a.Shape(), tensor.Bool)
	dst := result.AsBool()

	switch a.DType() {
	case tensor.Float32:
		equalLoop(dst, a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		equalLoop(dst, a.AsFloat64(), b.AsFloat64())
	case tensor.Int32:
		equalLoop(dst, a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		equalLoop(dst, a.AsInt64(), b.AsInt64())
	case tensor.Uint8:
		equalLoop(dst, a.AsUint8(), b.AsUint8())
	case tensor.Bool:
		equalLoop(dst, a.AsBool(), b.AsBool())
	default:
		panic(fmt.Sprintf("equal: unsupported dtype %s", a.DType()))
	}
	return result
}

func equalLoop[T comparable](dst []bool, a, b []T) {
	for i := range dst {
		dst[i] = a[i] == b[i]
	}
}
