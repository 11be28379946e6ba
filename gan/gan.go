// Copyright 2026 The Mirage Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gan provides the adversarial models and training loop: a
// discriminator, a generator, a frozen-discriminator composite, and a
// trainer running the alternating update schedule.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	config := gan.DefaultConfig(28, 28)
//	rng := rand.New(rand.NewSource(config.Seed))
//	d, _ := gan.NewDiscriminator(config, rng, backend)
//	g, _ := gan.NewGenerator(config, rng, backend)
//	composite, _ := gan.NewComposite(g, d, config, backend)
//	trainer, _ := gan.NewTrainer(config, composite, backend)
//	err := trainer.Run(data)
package gan

import (
	"math/rand"

	"github.com/mirage-ml/mirage/internal/autodiff"
	"github.com/mirage-ml/mirage/internal/gan"
	"github.com/mirage-ml/mirage/internal/tensor"
)

// Config holds image geometry and training hyperparameters.
type Config = gan.Config

// DefaultConfig returns the reference configuration for the given
// image geometry.
func DefaultConfig(rows, cols int) Config {
	return gan.DefaultConfig(rows, cols)
}

// Discriminator scores images as real or generated.
type Discriminator[B tensor.Backend] = gan.Discriminator[B]

// NewDiscriminator builds a discriminator for the configured geometry.
func NewDiscriminator[B tensor.Backend](config Config, rng *rand.Rand, backend *autodiff.Backend[B]) (*Discriminator[B], error) {
	return gan.NewDiscriminator(config, rng, backend)
}

// Generator maps noise vectors to synthetic images.
type Generator[B tensor.Backend] = gan.Generator[B]

// NewGenerator builds a generator for the configured geometry.
func NewGenerator[B tensor.Backend](config Config, rng *rand.Rand, backend *autodiff.Backend[B]) (*Generator[B], error) {
	return gan.NewGenerator(config, rng, backend)
}

// Composite chains the generator and a frozen discriminator; it is
// the model that trains the generator.
type Composite[B tensor.Backend] = gan.Composite[B]

// NewComposite wires a generator and discriminator sharing a backend.
// Freezes the discriminator's parameters as a side effect.
func NewComposite[B tensor.Backend](generator *Generator[B], discriminator *Discriminator[B], config Config, backend *autodiff.Backend[B]) (*Composite[B], error) {
	return gan.NewComposite(generator, discriminator, config, backend)
}

// Trainer runs the alternating adversarial training loop.
type Trainer[B tensor.Backend] = gan.Trainer[B]

// NewTrainer creates a trainer around a wired composite.
func NewTrainer[B tensor.Backend](config Config, composite *Composite[B], backend *autodiff.Backend[B]) (*Trainer[B], error) {
	return gan.NewTrainer(config, composite, backend)
}
