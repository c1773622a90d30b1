package tensor

import (
	"testing"
)

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  int
	}{
		{"scalar-like", Shape{1}, 1},
		{"vector", Shape{5}, 5},
		{"matrix", Shape{2, 3}, 6},
		{"3D", Shape{2, 3, 4}, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.NumElements(); got != tt.want {
				t.Errorf("NumElements() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("Validate() on valid shape returned %v", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("Validate() should reject zero dimension")
	}
	if err := (Shape{-1, 3}).Validate(); err == nil {
		t.Error("Validate() should reject negative dimension")
	}
}

func TestShapeEqual(t *testing.T) {
	a := Shape{2, 3}
	if !a.Equal(Shape{2, 3}) {
		t.Error("Equal shapes reported unequal")
	}
	if a.Equal(Shape{3, 2}) {
		t.Error("Different shapes reported equal")
	}
	if a.Equal(Shape{2, 3, 1}) {
		t.Error("Shapes of different rank reported equal")
	}
}

func TestShapeClone(t *testing.T) {
	a := Shape{2, 3}
	b := a.Clone()
	b[0] = 99

	if a[0] != 2 {
		t.Error("Clone should not share backing storage")
	}
}

func TestShapeComputeStrides(t *testing.T) {
	strides := Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}

	for i, s := range want {
		if strides[i] != s {
			t.Errorf("strides = %v, want %v", strides, want)
			break
		}
	}
}

func TestShapeNormalizeDim(t *testing.T) {
	s := Shape{2, 3, 4}

	if got := s.NormalizeDim("test", 1); got != 1 {
		t.Errorf("NormalizeDim(1) = %d, want 1", got)
	}
	if got := s.NormalizeDim("test", -1); got != 2 {
		t.Errorf("NormalizeDim(-1) = %d, want 2", got)
	}
	if got := s.NormalizeDim("test", -3); got != 0 {
		t.Errorf("NormalizeDim(-3) = %d, want 0", got)
	}
}

func TestShapeNormalizeDimPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NormalizeDim should panic on out-of-range dim")
		}
	}()
	Shape{2, 3}.NormalizeDim("test", 5)
}
