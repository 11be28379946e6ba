package ops

import (
	"fmt"
	"math"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// probEpsilon clamps probabilities away from 0 and 1 so the logarithms
// stay finite and probabilities stay strictly inside (0, 1).
const probEpsilon = 1e-7

// BCEOp represents binary cross-entropy over probabilities:
//
//	loss = -mean(y*log(p) + (1-y)*log(1-p))
//
// Probabilities are clamped to [eps, 1-eps]. Targets are labels, not a
// differentiable input; their gradient slot stays nil.
//
// Backward:
//
//	dL/dp_i = (p_i - y_i) / (p_i * (1 - p_i) * n)
//
// Combined with the sigmoid that usually precedes it, the chain
// simplifies to the numerically benign (p - y) / n.
type BCEOp struct {
	probs   *tensor.RawTensor
	targets *tensor.RawTensor
	output  *tensor.RawTensor
}

// BCE computes the forward pass and returns the op ready for the tape.
// The result is a single-element tensor holding the mean loss.
func BCE(probs, targets *tensor.RawTensor) *BCEOp {
	if !probs.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("bce: probs shape %v != targets shape %v", probs.Shape(), targets.Shape()))
	}

	output, err := tensor.NewRaw(tensor.Shape{1})
	if err != nil {
		panic(fmt.Sprintf("bce: %v", err))
	}

	pData, yData := probs.Data(), targets.Data()
	var sum float64
	for i, p := range pData {
		pc := ClampProb(p)
		y := float64(yData[i])
		sum += -(y*math.Log(float64(pc)) + (1.0-y)*math.Log(float64(1.0-pc)))
	}
	output.Data()[0] = float32(sum / float64(len(pData)))

	return &BCEOp{probs: probs, targets: targets, output: output}
}

// Backward computes the gradient with respect to the probabilities.
func (op *BCEOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad, err := tensor.NewRaw(op.probs.Shape())
	if err != nil {
		panic(fmt.Sprintf("bce: %v", err))
	}

	pData, yData, gradData := op.probs.Data(), op.targets.Data(), grad.Data()
	scale := outputGrad.Data()[0] / float32(len(pData))
	for i, p := range pData {
		pc := ClampProb(p)
		gradData[i] = scale * (pc - yData[i]) / (pc * (1.0 - pc))
	}

	return []*tensor.RawTensor{grad, nil}
}

// ClampProb clamps a probability into [probEpsilon, 1-probEpsilon].
// Sigmoid uses it too: float32 saturates to exactly 1.0 around x ≈ 17,
// and downstream consumers rely on the open interval.
func ClampProb(p float32) float32 {
	if p < probEpsilon {
		return probEpsilon
	}
	if p > 1.0-probEpsilon {
		return 1.0 - probEpsilon
	}
	return p
}

// Inputs returns [probs, targets].
func (op *BCEOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.probs, op.targets}
}

// Output returns the scalar loss tensor.
func (op *BCEOp) Output() *tensor.RawTensor {
	return op.output
}
