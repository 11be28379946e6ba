package ops

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// SumDimOp represents a sum along one dimension.
//
// Backward pass: the output gradient is replicated along the summed
// dimension, since every summand contributes with weight 1.
type SumDimOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	dim    int
}

// NewSumDimOp creates a new SumDimOp.
func NewSumDimOp(input, output *tensor.RawTensor, dim int) *SumDimOp {
	return &SumDimOp{input: input, output: output, dim: dim}
}

// Backward replicates the output gradient along the summed dimension.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inShape := op.input.Shape()

	grad, err := tensor.NewRaw(inShape)
	if err != nil {
		panic(fmt.Sprintf("sumdim: %v", err))
	}

	gradData, outGradData := grad.Data(), outputGrad.Data()
	strides := inShape.ComputeStrides()

	outer := 1
	for d := 0; d < op.dim; d++ {
		outer *= inShape[d]
	}
	inner := strides[op.dim]

	for o := 0; o < outer; o++ {
		base := o * inShape[op.dim] * inner
		for k := 0; k < inShape[op.dim]; k++ {
			for in := 0; in < inner; in++ {
				gradData[base+k*inner+in] = outGradData[o*inner+in]
			}
		}
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *SumDimOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the reduced tensor.
func (op *SumDimOp) Output() *tensor.RawTensor {
	return op.output
}
