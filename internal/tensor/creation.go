package tensor

import "fmt"

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype, b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var one T
	switch p := any(&one).(type) {
	case *float32:
		*p = 1
	case *float64:
		*p = 1
	case *int32:
		*p = 1
	case *int64:
		*p = 1
	case *uint8:
		*p = 1
	case *bool:
		*p = true
	}
	return Full[T, B](shape, one, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full[float32](Shape{2, 3}, 3.14, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Arange creates a 1D tensor with values from 0 to n (exclusive).
func Arange[T DType, B Backend](n int, b B) *Tensor[T, B] {
	t := Zeros[T, B](Shape{n}, b)
	data := t.Data()
	for i := range data {
		switch p := any(&data[i]).(type) {
		case *float32:
			*p = float32(i)
		case *float64:
			*p = float64(i)
		case *int32:
			*p = int32(i)
		case *int64:
			*p = int64(i)
		case *uint8:
			*p = uint8(i)
		default:
			panic("arange: unsupported type")
		}
	}
	return t
}

// FullRaw creates a RawTensor filled with a scalar value of the given dtype.
// The scalar must already be converted to the dtype's Go type (see ScalarOf).
func FullRaw(shape Shape, dtype DataType, device Device, value any) (*RawTensor, error) {
	raw, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, err
	}

	switch dtype {
	case Float32:
		fill(raw.AsFloat32(), value.(float32))
	case Float64:
		fill(raw.AsFloat64(), value.(float64))
	case Int32:
		fill(raw.AsInt32(), value.(int32))
	case Int64:
		fill(raw.AsInt64(), value.(int64))
	case Uint8:
		fill(raw.AsUint8(), value.(uint8))
	case Bool:
		fill(raw.AsBool(), value.(bool))
	default:
		return nil, fmt.Errorf("full: unsupported dtype %s", dtype)
	}
	return raw, nil
}

func fill[T DType](data []T, value T) {
	for i := range data {
		data[i] = value
	}
}

// ScalarOf converts a Go numeric value to the Go type matching dtype.
// Accepted inputs: int, int32, int64, float32, float64, uint8, bool.
// Returns an error for non-numeric values or a dtype the value cannot
// represent (e.g. a bool for a float tensor).
func ScalarOf(dtype DataType, v any) (any, error) {
	if b, ok := v.(bool); ok {
		if dtype != Bool {
			return nil, fmt.Errorf("cannot use bool scalar with dtype %s", dtype)
		}
		return b, nil
	}

	var f float64
	switch x := v.(type) {
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint8:
		f = float64(x)
	case float32:
		f = float64(x)
	case float64:
		f = x
	default:
		return nil, fmt.Errorf("unsupported scalar type %T", v)
	}

	switch dtype {
	case Float32:
		return float32(f), nil
	case Float64:
		return f, nil
	case Int32:
		return int32(f), nil
	case Int64:
		return int64(f), nil
	case Uint8:
		return uint8(f), nil
	default:
		return nil, fmt.Errorf("cannot use numeric scalar with dtype %s", dtype)
	}
}
