package ops

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// LeakyReLUOp represents the leaky rectifier activation:
// output = x if x > 0, else slope * x.
//
// Backward pass: d/dx = 1 for x > 0, slope otherwise.
type LeakyReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	slope  float32
}

// NewLeakyReLUOp creates a new LeakyReLUOp.
func NewLeakyReLUOp(input, output *tensor.RawTensor, slope float32) *LeakyReLUOp {
	return &LeakyReLUOp{input: input, output: output, slope: slope}
}

// Backward computes the input gradient by masking with the slope.
func (op *LeakyReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	mask, err := tensor.NewRaw(op.input.Shape())
	if err != nil {
		panic(fmt.Sprintf("leakyrelu: failed to create mask: %v", err))
	}

	inData, maskData := op.input.Data(), mask.Data()
	for i, val := range inData {
		if val > 0 {
			maskData[i] = 1.0
		} else {
			maskData[i] = op.slope
		}
	}

	return []*tensor.RawTensor{backend.Mul(outputGrad, mask)}
}

// Inputs returns the input tensor.
func (op *LeakyReLUOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the activated tensor.
func (op *LeakyReLUOp) Output() *tensor.RawTensor {
	return op.output
}
