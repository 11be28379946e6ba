package ops

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// MaxDimOp represents a maximum along one dimension, dropping it.
// Used by the maxout layer to pick the winning affine piece.
//
// The forward pass stores the flat index of each winning element;
// backward routes the output gradient only to those positions, like a
// max-pool gradient.
type MaxDimOp struct {
	input      *tensor.RawTensor
	output     *tensor.RawTensor
	dim        int
	maxIndices []int // flat index into input for each output element
}

// MaxDim computes the forward pass and returns the op ready for the tape.
func MaxDim(input *tensor.RawTensor, dim int) *MaxDimOp {
	inShape := input.Shape()
	ndim := len(inShape)
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("maxdim: invalid dim %d for %dD tensor", dim, ndim))
	}

	outShape := make(tensor.Shape, 0, ndim-1)
	for d, size := range inShape {
		if d != dim {
			outShape = append(outShape, size)
		}
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	output, err := tensor.NewRaw(outShape)
	if err != nil {
		panic(fmt.Sprintf("maxdim: %v", err))
	}

	inData, outData := input.Data(), output.Data()
	strides := inShape.ComputeStrides()
	maxIndices := make([]int, len(outData))

	outer := 1
	for d := 0; d < dim; d++ {
		outer *= inShape[d]
	}
	inner := strides[dim]

	for o := 0; o < outer; o++ {
		base := o * inShape[dim] * inner
		for in := 0; in < inner; in++ {
			bestIdx := base + in
			best := inData[bestIdx]
			for k := 1; k < inShape[dim]; k++ {
				idx := base + k*inner + in
				if inData[idx] > best {
					best = inData[idx]
					bestIdx = idx
				}
			}
			outPos := o*inner + in
			outData[outPos] = best
			maxIndices[outPos] = bestIdx
		}
	}

	return &MaxDimOp{input: input, output: output, dim: dim, maxIndices: maxIndices}
}

// Backward scatters the output gradient to the winning input positions.
func (op *MaxDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad, err := tensor.NewRaw(op.input.Shape())
	if err != nil {
		panic(fmt.Sprintf("maxdim: %v", err))
	}

	gradData, outGradData := grad.Data(), outputGrad.Data()
	for outPos, inIdx := range op.maxIndices {
		gradData[inIdx] += outGradData[outPos]
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *MaxDimOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the reduced tensor.
func (op *MaxDimOp) Output() *tensor.RawTensor {
	return op.output
}
