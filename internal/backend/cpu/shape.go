package cpu

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// Reshape returns a view with the same data but a different shape.
// The result shares the input's buffer; only the tape identity is new.
func (c *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result, err := t.View(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return result
}

// Transpose permutes the tensor's dimensions.
// With no axes, all dimensions are reversed.
func (c *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(newShape)
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	inData, outData := t.Data(), result.Data()
	inStrides := t.Strides()
	outStrides := newShape.ComputeStrides()

	for i := range outData {
		srcIdx := 0
		for d := 0; d < ndim; d++ {
			coord := (i / outStrides[d]) % newShape[d]
			srcIdx += coord * inStrides[axes[d]]
		}
		outData[i] = inData[srcIdx]
	}

	return result
}
