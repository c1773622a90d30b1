package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/memmap/internal/tensor"
)

// Scalar operations - element-wise operations with a scalar value.
// The scalar must already be converted to the tensor's element type
// (see tensor.ScalarOf); a wrong type panics via the type assertion.

// AddScalar adds a scalar value to each element of the tensor.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := cpu.newResult("addScalar", x.Shape(), x.DType())

	switch x.DType() {
	case tensor.Float32:
		scalarLoop(result.AsFloat32(), x.AsFloat32(), scalar.(float32), func(v, s float32) float32 { return v + s })
	case tensor.Float64:
		scalarLoop(result.AsFloat64(), x.AsFloat64(), scalar.(float64), func(v, s float64) float64 { return v + s })
	case tensor.Int32:
		scalarLoop(result.AsInt32(), x.AsInt32(), scalar.(int32), func(v, s int32) int32 { return v + s })
	case tensor.Int64:
		scalarLoop(result.AsInt64(), x.AsInt64(), scalar.(int64), func(v, s int64) int64 { return v + s })
	case tensor.Uint8:
		scalarLoop(result.AsUint8(), x.AsUint8(), scalar.(uint8), func(v, s uint8) uint8 { return v + s })
	default:
		panic(fmt.Sprintf("addScalar: unsupported dtype %s", x.DType()))
	}
	return result
}

// SubScalar subtracts a scalar value from each element of the tensor.
func (cpu *CPUBackend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := cpu.newResult("subScalar", x.Shape(), x.DType())

	switch x.DType() {
	case tensor.Float32:
		scalarLoop(result.AsFloat32(), x.AsFloat32(), scalar.(float32), func(v, s float32) float32 { return v - s })
	case tensor.Float64:
		scalarLoop(result.AsFloat64(), x.AsFloat64(), scalar.(float64), func(v, s float64) float64 { return v - s })
	case tensor.Int32:
		scalarLoop(result.AsInt32(), x.AsInt32(), scalar.(int32), func(v, s int32) int32 { return v - s })
	case tensor.Int64:
		scalarLoop(result.AsInt64(), x.AsInt64(), scalar.(int64), func(v, s int64) int64 { return v - s })
	case tensor.Uint8:
		scalarLoop(result.AsUint8(), x.AsUint8(), scalar.(uint8), func(v, s uint8) uint8 { return v - s })
	default:
		panic(fmt.Sprintf("subScalar: unsupported dtype %s", x.DType()))
	}
	return result
}

// MulScalar multiplies each element of the tensor by a scalar value.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := cpu.newResult("mulScalar", x.Shape(), x.DType())

	switch x.DType() {
	case tensor.Float32:
		scalarLoop(result.AsFloat32(), x.AsFloat32(), scalar.(float32), func(v, s float32) float32 { return v * s })
	case tensor.Float64:
		scalarLoop(result.AsFloat64(), x.AsFloat64(), scalar.(float64), func(v, s float64) float64 { return v * s })
	case tensor.Int32:
		scalarLoop(result.AsInt32(), x.AsInt32(), scalar.(int32), func(v, s int32) int32 { return v * s })
	case tensor.Int64:
		scalarLoop(result.AsInt64(), x.AsInt64(), scalar.(int64), func(v, s int64) int64 { return v * s })
	case tensor.Uint8:
		scalarLoop(result.AsUint8(), x.AsUint8(), scalar.(uint8), func(v, s uint8) uint8 { return v * s })
	default:
		panic(fmt.Sprintf("mulScalar: unsupported dtype %s", x.DType()))
	}
	return result
}

// DivScalar divides each element of the tensor by a scalar value.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := cpu.newResult("divScalar", x.Shape(), x.DType())

	switch x.DType() {
	case tensor.Float32:
		scalarLoop(result.AsFloat32(), x.AsFloat32(), scalar.(float32), func(v, s float32) float32 { return v / s })
	case tensor.Float64:
		scalarLoop(result.AsFloat64(), x.AsFloat64(), scalar.(float64), func(v, s float64) float64 { return v / s })
	case tensor.Int32:
		scalarLoop(result.AsInt32(), x.AsInt32(), scalar.(int32), func(v, s int32) int32 { return v / s })
	case tensor.Int64:
		scalarLoop(result.AsInt64(), x.AsInt64(), scalar.(int64), func(v, s int64) int64 { return v / s })
	case tensor.Uint8:
		scalarLoop(result.AsUint8(), x.AsUint8(), scalar.(uint8), func(v, s uint8) uint8 { return v / s })
	default:
		panic(fmt.Sprintf("divScalar: unsupported dtype %s", x.DType()))
	}
	return result
}

// PowScalar raises each element of the tensor to a scalar power.
// Only float32 and float64 are supported.
func (cpu *CPUBackend) PowScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := cpu.newResult("powScalar", x.Shape(), x.DType())

	switch x.DType() {
	case tensor.Float32:
		scalarLoop(result.AsFloat32(), x.AsFloat32(), scalar.(float32), func(v, s float32) float32 {
			return float32(math.Pow(float64(v), float64(s)))
		})
	case tensor.Float64:
		scalarLoop(result.AsFloat64(), x.AsFloat64(), scalar.(float64), math.Pow)
	default:
		panic(fmt.Sprintf("powScalar: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}
	return result
}
