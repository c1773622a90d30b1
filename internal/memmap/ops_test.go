package memmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/memmap/internal/tensor"
)

func TestAddScalar(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2, 3}, tensor.Shape{3})

	result, err := m.Add(1.5)
	require.NoError(t, err)
	assert.Equal(t, []float32{2.5, 3.5, 4.5}, result.AsFloat32())

	// Integer scalars convert to the tensor's dtype.
	result, err = m.Add(2)
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4, 5}, result.AsFloat32())
}

func TestAddTensorOperands(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2, 3}, tensor.Shape{3})

	// Raw tensor operand.
	result, err := m.Add(newTestRaw(t, []float32{10, 20, 30}, tensor.Shape{3}))
	require.NoError(t, err)
	assert.Equal(t, []float32{11, 22, 33}, result.AsFloat32())

	// Mapped tensor operand.
	other := newTestMapped(t, []float32{100, 100, 100}, tensor.Shape{3})
	result, err = m.Add(other)
	require.NoError(t, err)
	assert.Equal(t, []float32{101, 102, 103}, result.AsFloat32())
}

func TestArithmeticDoesNotMutateStorage(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2, 3}, tensor.Shape{3})

	_, err := m.Mul(10)
	require.NoError(t, err)

	raw, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, raw.AsFloat32())
}

func TestSubMulDivPow(t *testing.T) {
	m := newTestMapped(t, []float32{2, 4, 8}, tensor.Shape{3})

	sub, err := m.Sub(1)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 3, 7}, sub.AsFloat32())

	mul, err := m.Mul(3)
	require.NoError(t, err)
	assert.Equal(t, []float32{6, 12, 24}, mul.AsFloat32())

	div, err := m.Div(2)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 4}, div.AsFloat32())

	pow, err := m.Pow(2)
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 16, 64}, pow.AsFloat32())
}

func TestNegMapped(t *testing.T) {
	m := newTestMapped(t, []float32{1, -2, 3}, tensor.Shape{3})

	result, err := m.Neg()
	require.NoError(t, err)
	assert.Equal(t, []float32{-1, 2, -3}, result.AsFloat32())
}

func TestUnsupportedOperand(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2}, tensor.Shape{2})

	_, err := m.Add("two")
	assert.ErrorIs(t, err, ErrUnsupportedOperand)

	_, err = m.Equal("two")
	assert.ErrorIs(t, err, ErrUnsupportedOperand)
}

func TestMatMulMapped(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	other := newTestRaw(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	result, err := m.MatMul(other)
	require.NoError(t, err)
	assert.True(t, result.Shape().Equal(tensor.Shape{2, 2}))
	assert.Equal(t, []float32{58, 64, 139, 154}, result.AsFloat32())

	_, err = m.MatMul(2.0)
	assert.ErrorIs(t, err, ErrUnsupportedOperand)
}

func TestEqualMapped(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2, 3}, tensor.Shape{3})

	// Against a tensor.
	result, err := m.Equal(newTestRaw(t, []float32{1, 5, 3}, tensor.Shape{3}))
	require.NoError(t, err)
	assert.Equal(t, tensor.Bool, result.DType())
	assert.Equal(t, []bool{true, false, true}, result.AsBool())

	// Against itself: everything matches.
	self, err := m.Equal(m)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true}, self.AsBool())

	// Against a scalar.
	scalar, err := m.Equal(2)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false}, scalar.AsBool())
}

func TestTo(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2}, tensor.Shape{2})

	moved, err := m.To(tensor.CUDA)
	require.NoError(t, err)
	assert.Equal(t, tensor.CUDA, moved.Device())
	assert.Equal(t, []float32{1, 2}, moved.AsFloat32())

	// The mapped handle itself keeps its device tag.
	assert.Equal(t, tensor.CPU, m.Device())
}

func TestAsType(t *testing.T) {
	m := newTestMapped(t, []float32{1.9, 2.1}, tensor.Shape{2})

	cast, err := m.AsType(tensor.Int32)
	require.NoError(t, err)
	defer cast.Close()

	assert.Equal(t, tensor.Int32, cast.DType())
	assert.NotEqual(t, m.Filename(), cast.Filename())

	raw, err := cast.Load()
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, raw.AsInt32())

	// Same dtype degenerates to a clone.
	same, err := m.AsType(tensor.Float32)
	require.NoError(t, err)
	defer same.Close()
	assert.Equal(t, tensor.Float32, same.DType())
	assert.NotEqual(t, m.Filename(), same.Filename())
}

func TestUnbind(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, tensor.Shape{4, 3})

	parts, err := m.Unbind(0)
	require.NoError(t, err)
	require.Len(t, parts, 4)

	for i, part := range parts {
		assert.True(t, part.Shape().Equal(tensor.Shape{3}), "part %d shape = %v", i, part.Shape())
	}
	assert.Equal(t, []float32{1, 2, 3}, parts[0].AsFloat32())
	assert.Equal(t, []float32{10, 11, 12}, parts[3].AsFloat32())

	cols, err := m.Unbind(1)
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.True(t, cols[0].Shape().Equal(tensor.Shape{4}))
	assert.Equal(t, []float32{1, 4, 7, 10}, cols[0].AsFloat32())

	neg, err := Unbind(m, -1)
	require.NoError(t, err)
	assert.Len(t, neg, 3)
}

func TestStackMapped(t *testing.T) {
	a := newTestMapped(t, []float32{1, 2}, tensor.Shape{2})
	b := newTestMapped(t, []float32{3, 4}, tensor.Shape{2})

	result, err := Stack([]*Tensor{a, b}, 0)
	require.NoError(t, err)
	assert.True(t, result.Shape().Equal(tensor.Shape{2, 2}))
	assert.Equal(t, []float32{1, 2, 3, 4}, result.AsFloat32())

	_, err = Stack(nil, 0)
	assert.ErrorIs(t, err, ErrUnsupportedOperand)
}

func TestCatMapped(t *testing.T) {
	a := newTestMapped(t, []float32{1, 2}, tensor.Shape{2})
	b := newTestMapped(t, []float32{3, 4, 5}, tensor.Shape{3})

	result, err := Cat([]*Tensor{a, b}, 0)
	require.NoError(t, err)
	assert.True(t, result.Shape().Equal(tensor.Shape{5}))
	assert.Equal(t, []float32{1, 2, 3, 4, 5}, result.AsFloat32())

	_, err = Cat(nil, 0)
	assert.ErrorIs(t, err, ErrUnsupportedOperand)
}
