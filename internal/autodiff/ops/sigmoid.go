package ops

import "github.com/mirage-ml/mirage/internal/tensor"

// SigmoidOp represents the sigmoid activation: σ(x) = 1 / (1 + exp(-x)).
type SigmoidOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSigmoidOp creates a new SigmoidOp.
func NewSigmoidOp(input, output *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{input: input, output: output}
}

// Backward computes the input gradient.
//
// dσ/dx = σ(x) * (1 - σ(x)); the forward output is reused:
// grad_input = grad_output * output * (1 - output).
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	ones := onesLike(op.output.Shape())
	derivative := backend.Mul(op.output, backend.Sub(ones, op.output))
	return []*tensor.RawTensor{backend.Mul(outputGrad, derivative)}
}

// Inputs returns the input tensor.
func (op *SigmoidOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the activated tensor.
func (op *SigmoidOp) Output() *tensor.RawTensor {
	return op.output
}
