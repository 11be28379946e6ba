// Package nn implements the neural network building blocks: modules,
// parameters, layers, activations and losses.
//
// Design follows the usual Module pattern: everything that transforms a
// tensor implements Forward and exposes its trainable Parameters.
package nn

import (
	"github.com/mirage-ml/mirage/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules compose into networks:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(784, 392, rng, backend),
//	    nn.NewLeakyReLU[B](0.2),
//	    nn.NewLinear(392, 1, rng, backend),
//	    nn.NewSigmoid[B](),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module for the given input.
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]

	// Parameters returns all trainable parameters of this module.
	// Modules without parameters (activations) return nil.
	Parameters() []*Parameter[B]
}
