// Package ops defines the differentiable operations recorded on the
// gradient tape.
//
// Each operation stores the raw tensors that took part in its forward
// pass and knows how to turn the gradient of its output into gradients
// of its inputs. The tape replays operations in reverse and accumulates
// these input gradients.
package ops

import "github.com/mirage-ml/mirage/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for the inputs given the output
	// gradient. The returned slice is parallel to Inputs().
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors of this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
