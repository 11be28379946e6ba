package cpu

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// SumDim sums along one dimension, optionally keeping it with size 1.
func (c *Backend) SumDim(t *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("sumdim: invalid dim %d for %dD tensor", dim, ndim))
	}

	outShape := make(tensor.Shape, 0, ndim)
	for d, size := range shape {
		switch {
		case d != dim:
			outShape = append(outShape, size)
		case keepDim:
			outShape = append(outShape, 1)
		}
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result, err := tensor.NewRaw(outShape)
	if err != nil {
		panic(fmt.Sprintf("sumdim: %v", err))
	}

	inData, outData := t.Data(), result.Data()
	strides := t.Strides()

	// outer iterates over dims before dim, inner over dims after it.
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	inner := strides[dim]

	for o := 0; o < outer; o++ {
		base := o * shape[dim] * inner
		for in := 0; in < inner; in++ {
			var sum float32
			for k := 0; k < shape[dim]; k++ {
				sum += inData[base+k*inner+in]
			}
			outData[o*inner+in] = sum
		}
	}

	return result
}
