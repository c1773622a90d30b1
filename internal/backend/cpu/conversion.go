package cpu

import (
	"fmt"

	"github.com/born-ml/memmap/internal/tensor"
)

// Cast converts the tensor to a different data type.
// Returns the input unchanged when the dtype already matches.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x
	}

	result := cpu.newResult("cast", x.Shape(), dtype)

	switch x.DType() {
	case tensor.Float32:
		castNumeric(result, x.AsFloat32())
	case tensor.Float64:
		castNumeric(result, x.AsFloat64())
	case tensor.Int32:
		castNumeric(result, x.AsInt32())
	case tensor.Int64:
		castNumeric(result, x.AsInt64())
	case tensor.Uint8:
		castNumeric(result, x.AsUint8())
	case tensor.Bool:
		castFromBool(result, x.AsBool())
	default:
		panic(fmt.Sprintf("cast: unsupported source dtype %s", x.DType()))
	}
	return result
}

// castNumeric converts a typed numeric source into the result's dtype.
// Numeric-to-bool follows the usual convention: zero → false.
func castNumeric[S number](result *tensor.RawTensor, src []S) {
	switch result.DType() {
	case tensor.Float32:
		dst := result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(v)
		}
	case tensor.Float64:
		dst := result.AsFloat64()
		for i, v := range src {
			dst[i] = float64(v)
		}
	case tensor.Int32:
		dst := result.AsInt32()
		for i, v := range src {
			dst[i] = int32(v)
		}
	case tensor.Int64:
		dst := result.AsInt64()
		for i, v := range src {
			dst[i] = int64(v)
		}
	case tensor.Uint8:
		dst := result.AsUint8()
		for i, v := range src {
			dst[i] = uint8(v)
		}
	case tensor.Bool:
		dst := result.AsBool()
		for i, v := range src {
			dst[i] = v != 0
		}
	default:
		panic(fmt.Sprintf("cast: unsupported target dtype %s", result.DType()))
	}
}

// castFromBool converts a bool source: true → 1, false → 0.
func castFromBool(result *tensor.RawTensor, src []bool) {
	one := func(v bool) uint8 {
		if v {
			return 1
		}
		return 0
	}

	switch result.DType() {
	case tensor.Float32:
		dst := result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(one(v))
		}
	case tensor.Float64:
		dst := result.AsFloat64()
		for i, v := range src {
			dst[i] = float64(one(v))
		}
	case tensor.Int32:
		dst := result.AsInt32()
		for i, v := range src {
			dst[i] = int32(one(v))
		}
	case tensor.Int64:
		dst := result.AsInt64()
		for i, v := range src {
			dst[i] = int64(one(v))
		}
	case tensor.Uint8:
		dst := result.AsUint8()
		for i, v := range src {
			dst[i] = one(v)
		}
	default:
		panic(fmt.Sprintf("cast: unsupported target dtype %s", result.DType()))
	}
}
