package memmap

import (
	"fmt"

	"github.com/born-ml/memmap/internal/tensor"
)

// Arithmetic on mapped tensors materializes the operands and delegates to
// the host backend; results are conventional in-memory tensors, never new
// mapped files. Operands may be another mapped *Tensor, a *tensor.RawTensor
// or a numeric scalar.

// operand coerces v into either a materialized tensor or a dtype-typed
// scalar. Anything else fails with ErrUnsupportedOperand.
func (m *Tensor) operand(v any) (*tensor.RawTensor, any, error) {
	switch x := v.(type) {
	case *Tensor:
		raw, err := x.Load()
		return raw, nil, err
	case *tensor.RawTensor:
		return x, nil, nil
	default:
		s, err := tensor.ScalarOf(m.dtype, v)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedOperand, err)
		}
		return nil, s, nil
	}
}

func (m *Tensor) binary(
	other any,
	tensorOp func(a, b *tensor.RawTensor) *tensor.RawTensor,
	scalarOp func(x *tensor.RawTensor, s any) *tensor.RawTensor,
) (*tensor.RawTensor, error) {
	self, err := m.Load()
	if err != nil {
		return nil, err
	}
	raw, scalar, err := m.operand(other)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		return tensorOp(self, raw), nil
	}
	return scalarOp(self, scalar), nil
}

// Add returns self + other element-wise.
func (m *Tensor) Add(other any) (*tensor.RawTensor, error) {
	return m.binary(other, hostBackend.Add, hostBackend.AddScalar)
}

// Sub returns self - other element-wise.
func (m *Tensor) Sub(other any) (*tensor.RawTensor, error) {
	return m.binary(other, hostBackend.Sub, hostBackend.SubScalar)
}

// Mul returns self * other element-wise.
func (m *Tensor) Mul(other any) (*tensor.RawTensor, error) {
	return m.binary(other, hostBackend.Mul, hostBackend.MulScalar)
}

// Div returns self / other element-wise.
func (m *Tensor) Div(other any) (*tensor.RawTensor, error) {
	return m.binary(other, hostBackend.Div, hostBackend.DivScalar)
}

// Pow returns self raised to the power of other element-wise.
func (m *Tensor) Pow(other any) (*tensor.RawTensor, error) {
	return m.binary(other, hostBackend.Pow, hostBackend.PowScalar)
}

// Neg returns the element-wise negation.
func (m *Tensor) Neg() (*tensor.RawTensor, error) {
	self, err := m.Load()
	if err != nil {
		return nil, err
	}
	return hostBackend.Neg(self), nil
}

// MatMul returns the matrix product with a tensor operand.
func (m *Tensor) MatMul(other any) (*tensor.RawTensor, error) {
	self, err := m.Load()
	if err != nil {
		return nil, err
	}
	raw, _, err := m.operand(other)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: matmul requires a tensor operand", ErrUnsupportedOperand)
	}
	return hostBackend.MatMul(self, raw), nil
}

// Equal compares element-wise and returns a Bool tensor. The operand must
// be a mapped *Tensor, a *tensor.RawTensor or a numeric scalar; anything
// else fails with ErrUnsupportedOperand.
func (m *Tensor) Equal(other any) (*tensor.RawTensor, error) {
	self, err := m.Load()
	if err != nil {
		return nil, err
	}
	raw, scalar, err := m.operand(other)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		raw, err = tensor.FullRaw(m.shape, m.dtype, tensor.CPU, scalar)
		if err != nil {
			return nil, err
		}
	}
	return hostBackend.Equal(self, raw), nil
}

// To returns a materialized copy placed on the given device. This is a view
// operation: the host-mapped storage is unaffected and keeps its own device
// tag.
func (m *Tensor) To(device tensor.Device) (*tensor.RawTensor, error) {
	raw, err := m.Load()
	if err != nil {
		return nil, err
	}
	return raw.WithDevice(device), nil
}

// AsType returns a brand-new mapped tensor with the content cast to dtype
// and copied into a new backing file.
func (m *Tensor) AsType(dtype tensor.DataType) (*Tensor, error) {
	if dtype == m.dtype {
		return m.Clone()
	}
	raw, err := m.Load()
	if err != nil {
		return nil, err
	}
	return New(hostBackend.Cast(raw, dtype).WithDevice(m.device))
}

// Unbind splits the tensor along dim into one materialized slice per index.
// The results are conventional in-memory tensors, not new mapped files.
func (m *Tensor) Unbind(dim int) ([]*tensor.RawTensor, error) {
	raw, err := m.Load()
	if err != nil {
		return nil, err
	}

	dim = m.shape.NormalizeDim("unbind", dim)
	parts := hostBackend.Chunk(raw, m.shape[dim], dim)
	out := make([]*tensor.RawTensor, len(parts))
	for i, p := range parts {
		out[i] = hostBackend.Squeeze(p, dim)
	}
	return out, nil
}

// Stack materializes every mapped tensor and stacks them along a new
// dimension.
func Stack(tensors []*Tensor, dim int) (*tensor.RawTensor, error) {
	raws, err := materializeAll(tensors)
	if err != nil {
		return nil, err
	}
	return hostBackend.Stack(raws, dim), nil
}

// Cat materializes every mapped tensor and concatenates them along dim.
func Cat(tensors []*Tensor, dim int) (*tensor.RawTensor, error) {
	raws, err := materializeAll(tensors)
	if err != nil {
		return nil, err
	}
	return hostBackend.Cat(raws, dim), nil
}

// Unbind splits a mapped tensor along dim; see Tensor.Unbind.
func Unbind(m *Tensor, dim int) ([]*tensor.RawTensor, error) {
	return m.Unbind(dim)
}

// SetTransferOwnership sets the transfer flag on a mapped tensor.
func SetTransferOwnership(m *Tensor, v bool) {
	m.SetTransferOwnership(v)
}

func materializeAll(tensors []*Tensor) ([]*tensor.RawTensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("%w: at least one tensor required", ErrUnsupportedOperand)
	}
	raws := make([]*tensor.RawTensor, len(tensors))
	for i, t := range tensors {
		raw, err := t.Load()
		if err != nil {
			return nil, err
		}
		raws[i] = raw
	}
	return raws, nil
}
