package cpu

import (
	"math"
	"testing"

	"github.com/born-ml/memmap/internal/tensor"
)

const epsilon = 1e-5

func newFloat32(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("Failed to create tensor: %v", err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

func newFloat64(t *testing.T, data []float64, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float64, tensor.CPU)
	if err != nil {
		t.Fatalf("Failed to create tensor: %v", err)
	}
	copy(raw.AsFloat64(), data)
	return raw
}

func newInt64(t *testing.T, data []int64, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Int64, tensor.CPU)
	if err != nil {
		t.Fatalf("Failed to create tensor: %v", err)
	}
	copy(raw.AsInt64(), data)
	return raw
}

func TestAddFloat32(t *testing.T) {
	backend := New()
	a := newFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := newFloat32(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})

	result := backend.Add(a, b)

	want := []float32{11, 22, 33, 44}
	got := result.AsFloat32()
	for i, w := range want {
		if got[i] != w {
			t.Errorf("element %d = %f, want %f", i, got[i], w)
		}
	}
}

func TestAddFloat64(t *testing.T) {
	backend := New()
	a := newFloat64(t, []float64{1.5, 2.5, 3.5}, tensor.Shape{3})
	b := newFloat64(t, []float64{0.5, 0.5, 0.5}, tensor.Shape{3})

	result := backend.Add(a, b)

	want := []float64{2, 3, 4}
	got := result.AsFloat64()
	for i, w := range want {
		if math.Abs(got[i]-w) > epsilon {
			t.Errorf("element %d = %f, want %f", i, got[i], w)
		}
	}
}

func TestSubInt64(t *testing.T) {
	backend := New()
	a := newInt64(t, []int64{10, 20, 30}, tensor.Shape{3})
	b := newInt64(t, []int64{1, 2, 3}, tensor.Shape{3})

	result := backend.Sub(a, b)

	want := []int64{9, 18, 27}
	got := result.AsInt64()
	for i, w := range want {
		if got[i] != w {
			t.Errorf("element %d = %d, want %d", i, got[i], w)
		}
	}
}

func TestMulDiv(t *testing.T) {
	backend := New()
	a := newFloat32(t, []float32{2, 4, 6}, tensor.Shape{3})
	b := newFloat32(t, []float32{2, 2, 2}, tensor.Shape{3})

	mul := backend.Mul(a, b).AsFloat32()
	div := backend.Div(a, b).AsFloat32()

	for i, w := range []float32{4, 8, 12} {
		if mul[i] != w {
			t.Errorf("mul element %d = %f, want %f", i, mul[i], w)
		}
	}
	for i, w := range []float32{1, 2, 3} {
		if div[i] != w {
			t.Errorf("div element %d = %f, want %f", i, div[i], w)
		}
	}
}

func TestPow(t *testing.T) {
	backend := New()
	a := newFloat64(t, []float64{2, 3, 4}, tensor.Shape{3})
	b := newFloat64(t, []float64{2, 2, 0.5}, tensor.Shape{3})

	result := backend.Pow(a, b)

	want := []float64{4, 9, 2}
	got := result.AsFloat64()
	for i, w := range want {
		if math.Abs(got[i]-w) > epsilon {
			t.Errorf("element %d = %f, want %f", i, got[i], w)
		}
	}
}

func TestNeg(t *testing.T) {
	backend := New()

	f := newFloat64(t, []float64{1, -2, 3}, tensor.Shape{3})
	got := backend.Neg(f).AsFloat64()
	for i, w := range []float64{-1, 2, -3} {
		if got[i] != w {
			t.Errorf("float64 element %d = %f, want %f", i, got[i], w)
		}
	}

	n := newInt64(t, []int64{5, -6}, tensor.Shape{2})
	gotInt := backend.Neg(n).AsInt64()
	for i, w := range []int64{-5, 6} {
		if gotInt[i] != w {
			t.Errorf("int64 element %d = %d, want %d", i, gotInt[i], w)
		}
	}
}

func TestScalarOps(t *testing.T) {
	backend := New()
	a := newFloat32(t, []float32{1, 2, 3}, tensor.Shape{3})

	tests := []struct {
		name string
		op   func(*tensor.RawTensor, any) *tensor.RawTensor
		want []float32
	}{
		{"add", backend.AddScalar, []float32{3, 4, 5}},
		{"sub", backend.SubScalar, []float32{-1, 0, 1}},
		{"mul", backend.MulScalar, []float32{2, 4, 6}},
		{"div", backend.DivScalar, []float32{0.5, 1, 1.5}},
		{"pow", backend.PowScalar, []float32{1, 4, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.op(a, float32(2)).AsFloat32()
			for i, w := range tt.want {
				if math.Abs(float64(got[i]-w)) > epsilon {
					t.Errorf("element %d = %f, want %f", i, got[i], w)
				}
			}
		})
	}
}

func TestAddShapeMismatchPanics(t *testing.T) {
	backend := New()
	a := newFloat32(t, []float32{1, 2}, tensor.Shape{2})
	b := newFloat32(t, []float32{1, 2, 3}, tensor.Shape{3})

	defer func() {
		if r := recover(); r == nil {
			t.Error("Add should panic on shape mismatch")
		}
	}()
	backend.Add(a, b)
}

func TestAddDTypeMismatchPanics(t *testing.T) {
	backend := New()
	a := newFloat32(t, []float32{1, 2}, tensor.Shape{2})
	b := newInt64(t, []int64{1, 2}, tensor.Shape{2})

	defer func() {
		if r := recover(); r == nil {
			t.Error("Add should panic on dtype mismatch")
		}
	}()
	backend.Add(a, b)
}
