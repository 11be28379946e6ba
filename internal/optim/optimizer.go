// Package optim implements optimization algorithms for training.
//
// Optimizers hold a fixed list of parameters and apply one update per
// Step call, consuming the gradient map produced by the autodiff tape.
// Parameters whose trainable flag is off are skipped, which is the
// mechanism behind freezing a sub-model inside a composite.
package optim

import (
	"github.com/mirage-ml/mirage/internal/nn"
	"github.com/mirage-ml/mirage/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one gradient update to all trainable parameters.
	// The map comes from the tape's Backward and is keyed by the
	// parameter's RawTensor.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// LR returns the current learning rate.
	LR() float32
}

// gradientFor retrieves the gradient for a parameter, or nil if the
// parameter did not participate in the recorded forward pass.
func gradientFor[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor().Raw()]
}
