// Copyright 2026 The Mirage Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor operations.
//
// The package defines the core types for float32 tensor computation:
//   - Tensor[B]: generic tensor bound to a compute backend
//   - RawTensor: flat buffer plus shape, the unit the backends operate on
//   - Backend: interface for compute implementations
//   - Shape: dimension list with stride and broadcast helpers
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	x := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	y := tensor.Ones(tensor.Shape{2, 3}, backend)
//	z := x.Add(y)
package tensor

import (
	"math/rand"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} is a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// RawTensor is the untyped storage unit backends compute on.
type RawTensor = tensor.RawTensor

// Backend is the interface compute implementations satisfy.
type Backend = tensor.Backend

// Tensor is a generic tensor bound to a backend.
type Tensor[B Backend] = tensor.Tensor[B]

// New wraps a RawTensor with a backend.
func New[B Backend](raw *RawTensor, backend B) *Tensor[B] {
	return tensor.New(raw, backend)
}

// NewRaw allocates a zeroed RawTensor with the given shape.
func NewRaw(shape Shape) (*RawTensor, error) {
	return tensor.NewRaw(shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros[B Backend](shape Shape, backend B) *Tensor[B] {
	return tensor.Zeros(shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, backend B) *Tensor[B] {
	return tensor.Ones(shape, backend)
}

// Full creates a tensor filled with a specific value.
func Full[B Backend](shape Shape, value float32, backend B) *Tensor[B] {
	return tensor.Full(shape, value, backend)
}

// Randn creates a tensor of standard-normal samples drawn from rng.
func Randn[B Backend](shape Shape, rng *rand.Rand, backend B) *Tensor[B] {
	return tensor.Randn(shape, rng, backend)
}

// FromSlice creates a tensor from a Go slice. The slice is copied.
func FromSlice[B Backend](data []float32, shape Shape, backend B) (*Tensor[B], error) {
	return tensor.FromSlice(data, shape, backend)
}
