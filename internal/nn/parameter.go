package nn

import (
	"github.com/mirage-ml/mirage/internal/tensor"
)

// Parameter represents a trainable tensor in a neural network, typically
// a layer's weight or bias.
//
// Every parameter carries a trainable flag. Optimizers skip frozen
// parameters, which is how a discriminator stays fixed while it serves
// as the judge inside a generator-training composite: the composite
// freezes the discriminator's parameters, and a direct discriminator
// step thaws them again.
type Parameter[B tensor.Backend] struct {
	name      string
	tensor    *tensor.Tensor[B]
	trainable bool
}

// NewParameter creates a new trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return &Parameter[B]{
		name:      name,
		tensor:    t,
		trainable: true,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[B] {
	return p.tensor
}

// Trainable reports whether optimizers may update this parameter.
func (p *Parameter[B]) Trainable() bool {
	return p.trainable
}

// SetTrainable freezes or thaws the parameter.
func (p *Parameter[B]) SetTrainable(trainable bool) {
	p.trainable = trainable
}
