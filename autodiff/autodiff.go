// Copyright 2026 The Mirage Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation as
// a decorator over any compute backend.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	loss := model.Forward(x) // forward pass through tensor ops
//	grads := autodiff.Backward(loss, backend)
package autodiff

import (
	"github.com/mirage-ml/mirage/internal/autodiff"
	"github.com/mirage-ml/mirage/internal/tensor"
)

// Backend wraps a compute backend and records every differentiable
// operation on a gradient tape.
type Backend[B tensor.Backend] = autodiff.Backend[B]

// GradientTape records operations during the forward pass and drives
// the reverse walk.
type GradientTape = autodiff.GradientTape

// BackwardCapable is satisfied by backends that expose a tape.
type BackwardCapable = autodiff.BackwardCapable

// New creates an autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// Backward computes gradients for t, seeding with ones. Returns a map
// from RawTensor to its accumulated gradient.
func Backward[B BackwardCapable](t *tensor.Tensor[B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
