package nn

import (
	"github.com/mirage-ml/mirage/internal/tensor"
)

// BCEBackend is implemented by backends that support the fused binary
// cross-entropy loss.
type BCEBackend interface {
	BCE(probs, targets *tensor.RawTensor) *tensor.RawTensor
}

// BCELoss computes mean binary cross-entropy over probabilities:
//
//	loss = -mean(y*log(p) + (1-y)*log(1-p))
//
// Predictions must already be probabilities (a sigmoid output).
// Implemented as a single fused operation on the backend so the
// backward pass stays numerically stable near 0 and 1.
type BCELoss[B tensor.Backend] struct{}

// NewBCELoss creates a new BCE loss function.
func NewBCELoss[B tensor.Backend]() *BCELoss[B] {
	return &BCELoss[B]{}
}

// Forward computes the loss as a single-element tensor.
// Panics if predictions and targets differ in shape.
func (l *BCELoss[B]) Forward(predictions, targets *tensor.Tensor[B]) *tensor.Tensor[B] {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic("BCELoss: predictions and targets must have the same shape")
	}

	backend := predictions.Backend()
	bb, ok := any(backend).(BCEBackend)
	if !ok {
		panic("BCELoss: backend must implement BCE (use the autodiff backend)")
	}

	return tensor.New[B](bb.BCE(predictions.Raw(), targets.Raw()), backend)
}

// Accuracy returns the fraction of probabilities on the correct side of
// 0.5 for 0/1 targets. Always in [0, 1].
func Accuracy[B tensor.Backend](predictions, targets *tensor.Tensor[B]) float32 {
	pData, yData := predictions.Data(), targets.Data()
	if len(pData) == 0 {
		return 0
	}

	correct := 0
	for i, p := range pData {
		predicted := float32(0.0)
		if p >= 0.5 {
			predicted = 1.0
		}
		if predicted == yData[i] {
			correct++
		}
	}
	return float32(correct) / float32(len(pData))
}
