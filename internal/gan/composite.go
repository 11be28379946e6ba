package gan

import (
	"github.com/mirage-ml/mirage/internal/autodiff"
	"github.com/mirage-ml/mirage/internal/nn"
	"github.com/mirage-ml/mirage/internal/optim"
	"github.com/mirage-ml/mirage/internal/tensor"
)

// Composite chains the generator and the discriminator into the model
// that trains the generator: noise goes through G, G's output through
// D, and the loss against all-real targets pushes G toward images D
// scores as real.
//
// The discriminator's parameters are frozen for every composite step.
// Its optimizer only holds the generator's parameters, so even though
// gradients flow through D's weights during the backward pass, only G
// changes. Construction freezes D as a side effect; a direct
// discriminator step thaws it again.
type Composite[B tensor.Backend] struct {
	generator     *Generator[B]
	discriminator *Discriminator[B]
	loss          *nn.BCELoss[*autodiff.Backend[B]]
	optimizer     *optim.Adam[*autodiff.Backend[B]]
	backend       *autodiff.Backend[B]
}

// NewComposite wires a generator and a discriminator sharing the same
// backend. Freezes the discriminator's parameters.
func NewComposite[B tensor.Backend](generator *Generator[B], discriminator *Discriminator[B], config Config, backend *autodiff.Backend[B]) (*Composite[B], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	discriminator.SetTrainable(false)

	optimizer := optim.NewAdam(generator.Parameters(), optim.AdamConfig{
		LR:    config.LearningRate,
		Betas: [2]float32{config.Beta1, 0.999},
	})

	return &Composite[B]{
		generator:     generator,
		discriminator: discriminator,
		loss:          nn.NewBCELoss[*autodiff.Backend[B]](),
		optimizer:     optimizer,
		backend:       backend,
	}, nil
}

// Predict maps a [n, N] noise batch to discriminator scores [n, 1]
// without updating any parameters.
func (c *Composite[B]) Predict(noise *tensor.Tensor[*autodiff.Backend[B]]) (*tensor.Tensor[*autodiff.Backend[B]], error) {
	if _, err := c.generator.checkNoise(noise); err != nil {
		return nil, err
	}

	tape := c.backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	return c.discriminator.model.Forward(c.generator.Forward(noise)), nil
}

// TrainStep runs one generator update: forward through G then D,
// binary cross-entropy against the provided targets, one Adam step on
// G's parameters. Returns the batch loss.
func (c *Composite[B]) TrainStep(noise, targets *tensor.Tensor[*autodiff.Backend[B]]) (float32, error) {
	n, err := c.generator.checkNoise(noise)
	if err != nil {
		return 0, err
	}
	if err := checkTargets(targets, n, "composite"); err != nil {
		return 0, err
	}

	// Re-freeze in case a direct discriminator step thawed D.
	c.discriminator.SetTrainable(false)

	tape := c.backend.Tape()
	tape.Clear()
	tape.StartRecording()

	probs := c.discriminator.model.Forward(c.generator.Forward(noise))
	loss := c.loss.Forward(probs, targets)
	grads := autodiff.Backward(loss, c.backend)

	tape.StopRecording()
	tape.Clear()

	c.optimizer.Step(grads)

	return loss.Item(), nil
}

// Steps returns the number of optimizer updates applied so far.
func (c *Composite[B]) Steps() int {
	return c.optimizer.Timestep()
}

// Generator returns the wrapped generator.
func (c *Composite[B]) Generator() *Generator[B] {
	return c.generator
}

// Discriminator returns the wrapped discriminator.
func (c *Composite[B]) Discriminator() *Discriminator[B] {
	return c.discriminator
}
