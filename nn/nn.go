// Copyright 2026 The Mirage Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks: layers,
// activations, containers, and losses.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	rng := rand.New(rand.NewSource(1))
//	model := nn.NewSequential[*autodiff.Backend[*cpu.Backend]](
//	    nn.NewLinear(784, 128, rng, backend),
//	    nn.NewLeakyReLU[*autodiff.Backend[*cpu.Backend]](0.2),
//	    nn.NewLinear(128, 1, rng, backend),
//	    nn.NewSigmoid[*autodiff.Backend[*cpu.Backend]](),
//	)
package nn

import (
	"math/rand"

	"github.com/mirage-ml/mirage/internal/nn"
	"github.com/mirage-ml/mirage/internal/tensor"
)

// Module is the interface all network components implement.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a named, freezable tensor owned by a layer.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Linear is a fully connected layer: y = x @ W.T + b.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a Linear layer with Xavier-initialized weights.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, rng, backend)
}

// LeakyReLU is the leaky rectifier activation.
type LeakyReLU[B tensor.Backend] = nn.LeakyReLU[B]

// NewLeakyReLU creates a LeakyReLU with the given negative slope.
func NewLeakyReLU[B tensor.Backend](slope float32) *LeakyReLU[B] {
	return nn.NewLeakyReLU[B](slope)
}

// Sigmoid is the logistic activation.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// Maxout is a dense layer taking the element-wise maximum over k
// parallel affine pieces.
type Maxout[B tensor.Backend] = nn.Maxout[B]

// NewMaxout creates a Maxout layer with the given number of pieces.
func NewMaxout[B tensor.Backend](inFeatures, outFeatures, pieces int, rng *rand.Rand, backend B) *Maxout[B] {
	return nn.NewMaxout(inFeatures, outFeatures, pieces, rng, backend)
}

// Sequential chains modules in order.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// BCELoss is mean binary cross-entropy over probabilities.
type BCELoss[B tensor.Backend] = nn.BCELoss[B]

// NewBCELoss creates a BCE loss function.
func NewBCELoss[B tensor.Backend]() *BCELoss[B] {
	return nn.NewBCELoss[B]()
}

// Accuracy returns the fraction of probabilities on the correct side
// of 0.5 for 0/1 targets.
func Accuracy[B tensor.Backend](predictions, targets *tensor.Tensor[B]) float32 {
	return nn.Accuracy(predictions, targets)
}

// Xavier creates a Glorot-initialized tensor for the given fan sizes.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[B] {
	return nn.Xavier(fanIn, fanOut, shape, rng, backend)
}
