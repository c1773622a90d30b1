package tensor

import (
	"fmt"
	"unsafe"
)

// Device represents the logical placement of tensor data.
// Memory-mapped storage is always host-resident; the device tag only
// governs where materialized copies are placed.
type Device int

// Supported devices.
const (
	CPU Device = iota
	CUDA
	Vulkan
	Metal
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// ParseDevice converts a string produced by Device.String back to a Device.
func ParseDevice(s string) (Device, error) {
	switch s {
	case "CPU":
		return CPU, nil
	case "CUDA":
		return CUDA, nil
	case "Vulkan":
		return Vulkan, nil
	case "Metal":
		return Metal, nil
	case "WebGPU":
		return WebGPU, nil
	default:
		return 0, fmt.Errorf("unknown device %q", s)
	}
}

// RawTensor is the low-level tensor representation: a flat byte buffer
// interpreted with a shape, row-major strides and a runtime data type.
//
// The buffer may be owned (allocated by NewRaw) or borrowed (wrapped around
// externally managed memory such as a file mapping, see WrapBytes).
type RawTensor struct {
	data   []byte
	shape  Shape
	stride []int
	dtype  DataType
	device Device
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		data:   make([]byte, shape.NumElements()*dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// WrapBytes creates a RawTensor view over an existing byte buffer without
// copying. Writes through the returned tensor mutate the buffer directly,
// which is how the memmap layer writes into a file mapping.
// The buffer must hold exactly shape.NumElements()*dtype.Size() bytes.
func WrapBytes(data []byte, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if want := shape.NumElements() * dtype.Size(); len(data) != want {
		return nil, fmt.Errorf("buffer holds %d bytes, shape %v with dtype %s requires %d",
			len(data), shape, dtype, want)
	}

	return &RawTensor{
		data:   data,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's device tag.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// NDim returns the number of dimensions.
func (r *RawTensor) NDim() int {
	return len(r.shape)
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data
}

// typed reinterprets the buffer as a typed slice without copying.
func typed[T DType](r *RawTensor, want DataType) []T {
	if r.dtype != want {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, want))
	}
	if len(r.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length bounded by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsFloat32 interprets the data as []float32. Panics on dtype mismatch.
func (r *RawTensor) AsFloat32() []float32 { return typed[float32](r, Float32) }

// AsFloat64 interprets the data as []float64. Panics on dtype mismatch.
func (r *RawTensor) AsFloat64() []float64 { return typed[float64](r, Float64) }

// AsInt32 interprets the data as []int32. Panics on dtype mismatch.
func (r *RawTensor) AsInt32() []int32 { return typed[int32](r, Int32) }

// AsInt64 interprets the data as []int64. Panics on dtype mismatch.
func (r *RawTensor) AsInt64() []int64 { return typed[int64](r, Int64) }

// AsUint8 interprets the data as []uint8. Panics on dtype mismatch.
func (r *RawTensor) AsUint8() []uint8 { return typed[uint8](r, Uint8) }

// AsBool interprets the data as []bool. Panics on dtype mismatch.
func (r *RawTensor) AsBool() []bool { return typed[bool](r, Bool) }

// Clone creates a deep copy of the RawTensor with its own buffer.
func (r *RawTensor) Clone() *RawTensor {
	data := make([]byte, len(r.data))
	copy(data, r.data)
	return &RawTensor{
		data:   data,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
	}
}

// WithDevice returns a tensor sharing the same buffer but tagged with a
// different device. Data stays host-resident.
func (r *RawTensor) WithDevice(device Device) *RawTensor {
	return &RawTensor{
		data:   r.data,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: device,
	}
}

// String returns a human-readable representation of the tensor.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor[%s]%v on %s", r.dtype, r.shape, r.device)
}
