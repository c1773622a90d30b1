package cpu

import (
	"math"
	"testing"

	"github.com/born-ml/memmap/internal/tensor"
)

func TestMatMulFloat32(t *testing.T) {
	backend := New()
	a := newFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := newFloat32(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	result := backend.MatMul(a, b)

	if !result.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("result shape = %v, want [2 2]", result.Shape())
	}
	want := []float32{58, 64, 139, 154}
	got := result.AsFloat32()
	for i, w := range want {
		if math.Abs(float64(got[i]-w)) > epsilon {
			t.Errorf("element %d = %f, want %f", i, got[i], w)
		}
	}
}

func TestMatMulFloat64(t *testing.T) {
	backend := New()
	a := newFloat64(t, []float64{1, 0, 0, 1}, tensor.Shape{2, 2})
	b := newFloat64(t, []float64{3, 4, 5, 6}, tensor.Shape{2, 2})

	result := backend.MatMul(a, b)

	want := []float64{3, 4, 5, 6}
	got := result.AsFloat64()
	for i, w := range want {
		if math.Abs(got[i]-w) > epsilon {
			t.Errorf("element %d = %f, want %f", i, got[i], w)
		}
	}
}

func TestMatMulInnerDimMismatchPanics(t *testing.T) {
	backend := New()
	a := newFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := newFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})

	defer func() {
		if r := recover(); r == nil {
			t.Error("MatMul should panic on inner dimension mismatch")
		}
	}()
	backend.MatMul(a, b)
}
