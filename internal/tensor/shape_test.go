package tensor_test

import (
	"testing"

	"github.com/mirage-ml/mirage/internal/tensor"
)

func TestShape_NumElements(t *testing.T) {
	tests := []struct {
		shape tensor.Shape
		want  int
	}{
		{tensor.Shape{}, 1},
		{tensor.Shape{5}, 5},
		{tensor.Shape{2, 3}, 6},
		{tensor.Shape{2, 3, 4}, 24},
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("NumElements(%v): got %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShape_Validate(t *testing.T) {
	if err := (tensor.Shape{2, 3}).Validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if err := (tensor.Shape{2, 0}).Validate(); err == nil {
		t.Error("zero dimension accepted")
	}
	if err := (tensor.Shape{-1, 3}).Validate(); err == nil {
		t.Error("negative dimension accepted")
	}
}

func TestShape_ComputeStrides(t *testing.T) {
	strides := tensor.Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Fatalf("strides: got %v, want %v", strides, want)
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b      tensor.Shape
		want      tensor.Shape
		broadcast bool
	}{
		{tensor.Shape{2, 3}, tensor.Shape{2, 3}, tensor.Shape{2, 3}, false},
		{tensor.Shape{2, 3}, tensor.Shape{1, 3}, tensor.Shape{2, 3}, true},
		{tensor.Shape{2, 3}, tensor.Shape{3}, tensor.Shape{2, 3}, true},
		{tensor.Shape{4, 1, 3}, tensor.Shape{2, 1}, tensor.Shape{4, 2, 3}, true},
	}

	for _, tt := range tests {
		got, broadcast, err := tensor.BroadcastShapes(tt.a, tt.b)
		if err != nil {
			t.Errorf("BroadcastShapes(%v, %v): %v", tt.a, tt.b, err)
			continue
		}
		if !got.Equal(tt.want) || broadcast != tt.broadcast {
			t.Errorf("BroadcastShapes(%v, %v): got %v/%v, want %v/%v",
				tt.a, tt.b, got, broadcast, tt.want, tt.broadcast)
		}
	}
}

func TestBroadcastShapes_Incompatible(t *testing.T) {
	if _, _, err := tensor.BroadcastShapes(tensor.Shape{2, 3}, tensor.Shape{2, 4}); err == nil {
		t.Error("incompatible shapes accepted")
	}
}

func TestShape_Clone(t *testing.T) {
	s := tensor.Shape{2, 3}
	c := s.Clone()
	c[0] = 99
	if s[0] != 2 {
		t.Error("Clone shares storage with the original")
	}
}
