package cpu

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/memmap/internal/tensor"
)

// Add performs element-wise addition. Operands must share dtype and shape.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	checkBinary("add", a, b)
	result := cpu.newResult("add", a.Shape(), a.DType())

	switch a.DType() {
	case tensor.Float64:
		floats.AddTo(result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	case tensor.Float32:
		binaryLoop(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), func(x, y float32) float32 { return x + y })
	case tensor.Int32:
		binaryLoop(result.AsInt32(), a.AsInt32(), b.AsInt32(), func(x, y int32) int32 { return x + y })
	case tensor.Int64:
		binaryLoop(result.AsInt64(), a.AsInt64(), b.AsInt64(), func(x, y int64) int64 { return x + y })
	case tensor.Uint8:
		binaryLoop(result.AsUint8(), a.AsUint8(), b.AsUint8(), func(x, y uint8) uint8 { return x + y })
	default:
		panic(fmt.Sprintf("add: unsupported dtype %s", a.DType()))
	}
	return result
}

// Sub performs element-wise subtraction.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	checkBinary("sub", a, b)
	result := cpu.newResult("sub", a.Shape(), a.DType())

	switch a.DType() {
	case tensor.Float64:
		floats.SubTo(result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	case tensor.Float32:
		binaryLoop(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), func(x, y float32) float32 { return x - y })
	case tensor.Int32:
		binaryLoop(result.AsInt32(), a.AsInt32(), b.AsInt32(), func(x, y int32) int32 { return x - y })
	case tensor.Int64:
		binaryLoop(result.AsInt64(), a.AsInt64(), b.AsInt64(), func(x, y int64) int64 { return x - y })
	case tensor.Uint8:
		binaryLoop(result.AsUint8(), a.AsUint8(), b.AsUint8(), func(x, y uint8) uint8 { return x - y })
	default:
		panic(fmt.Sprintf("sub: unsupported dtype %s", a.DType()))
	}
	return result
}

// Mul performs element-wise multiplication.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	checkBinary("mul", a, b)
	result := cpu.newResult("mul", a.Shape(), a.DType())

	switch a.DType() {
	case tensor.Float64:
		floats.MulTo(result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	case tensor.Float32:
		binaryLoop(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), func(x, y float32) float32 { return x * y })
	case tensor.Int32:
		binaryLoop(result.AsInt32(), a.AsInt32(), b.AsInt32(), func(x, y int32) int32 { return x * y })
	case tensor.Int64:
		binaryLoop(result.AsInt64(), a.AsInt64(), b.AsInt64(), func(x, y int64) int64 { return x * y })
	case tensor.Uint8:
		binaryLoop(result.AsUint8(), a.AsUint8(), b.AsUint8(), func(x, y uint8) uint8 { return x * y })
	default:
		panic(fmt.Sprintf("mul: unsupported dtype %s", a.DType()))
	}
	return result
}

// Div performs element-wise division.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	checkBinary("div", a, b)
	result := cpu.newResult("div", a.Shape(), a.DType())

	switch a.DType() {
	case tensor.Float64:
		floats.DivTo(result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	case tensor.Float32:
		binaryLoop(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), func(x, y float32) float32 { return x / y })
	case tensor.Int32:
		binaryLoop(result.AsInt32(), a.AsInt32(), b.AsInt32(), func(x, y int32) int32 { return x / y })
	case tensor.Int64:
		binaryLoop(result.AsInt64(), a.AsInt64(), b.AsInt64(), func(x, y int64) int64 { return x / y })
	case tensor.Uint8:
		binaryLoop(result.AsUint8(), a.AsUint8(), b.AsUint8(), func(x, y uint8) uint8 { return x / y })
	default:
		panic(fmt.Sprintf("div: unsupported dtype %s", a.DType()))
	}
	return result
}

// Pow raises each element of a to the power of the corresponding element of b.
// Only float32 and float64 are supported.
func (cpu *CPUBackend) Pow(a, b *tensor.RawTensor) *tensor.RawTensor {
	checkBinary("pow", a, b)
	result := cpu.newResult("pow", a.Shape(), a.DType())

	switch a.DType() {
	case tensor.Float64:
		binaryLoop(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), math.Pow)
	case tensor.Float32:
		binaryLoop(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), func(x, y float32) float32 {
			return float32(math.Pow(float64(x), float64(y)))
		})
	default:
		panic(fmt.Sprintf("pow: unsupported dtype %s (only float32/float64 supported)", a.DType()))
	}
	return result
}

// Neg negates each element.
func (cpu *CPUBackend) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.newResult("neg", x.Shape(), x.DType())

	switch x.DType() {
	case tensor.Float64:
		floats.ScaleTo(result.AsFloat64(), -1, x.AsFloat64())
	case tensor.Float32:
		scalarLoop(result.AsFloat32(), x.AsFloat32(), 0, func(v, _ float32) float32 { return -v })
	case tensor.Int32:
		scalarLoop(result.AsInt32(), x.AsInt32(), 0, func(v, _ int32) int32 { return -v })
	case tensor.Int64:
		scalarLoop(result.AsInt64(), x.AsInt64(), 0, func(v, _ int64) int64 { return -v })
	default:
		panic(fmt.Sprintf("neg: unsupported dtype %s", x.DType()))
	}
	return result
}
