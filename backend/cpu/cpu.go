// Copyright 2026 The Mirage Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure-Go CPU compute backend.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros(tensor.Shape{2, 3}, backend)
package cpu

import (
	"github.com/mirage-ml/mirage/internal/backend/cpu"
)

// Backend is the CPU implementation of tensor.Backend.
type Backend = cpu.Backend

// New creates a new CPU backend.
func New() *Backend {
	return cpu.New()
}
