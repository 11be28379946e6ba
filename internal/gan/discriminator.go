package gan

import (
	"fmt"
	"math/rand"

	"github.com/mirage-ml/mirage/internal/autodiff"
	"github.com/mirage-ml/mirage/internal/nn"
	"github.com/mirage-ml/mirage/internal/optim"
	"github.com/mirage-ml/mirage/internal/tensor"
)

// Discriminator scores flattened images with a probability in (0, 1)
// that they come from the real dataset.
//
// Topology: R -> R/2 -> R/4 -> R/8 -> 1 with a leaky rectifier after
// each hidden layer and a sigmoid on the output.
type Discriminator[B tensor.Backend] struct {
	resolution int
	model      *nn.Sequential[*autodiff.Backend[B]]
	loss       *nn.BCELoss[*autodiff.Backend[B]]
	optimizer  *optim.Adam[*autodiff.Backend[B]]
	backend    *autodiff.Backend[B]
}

// NewDiscriminator builds a discriminator for the configured image
// geometry. The config must pass Validate.
func NewDiscriminator[B tensor.Backend](config Config, rng *rand.Rand, backend *autodiff.Backend[B]) (*Discriminator[B], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	r := config.Resolution()
	model := nn.NewSequential[*autodiff.Backend[B]](
		nn.NewLinear(r, r/2, rng, backend),
		nn.NewLeakyReLU[*autodiff.Backend[B]](leakySlope),
		nn.NewLinear(r/2, r/4, rng, backend),
		nn.NewLeakyReLU[*autodiff.Backend[B]](leakySlope),
		nn.NewLinear(r/4, r/8, rng, backend),
		nn.NewLeakyReLU[*autodiff.Backend[B]](leakySlope),
		nn.NewLinear(r/8, 1, rng, backend),
		nn.NewSigmoid[*autodiff.Backend[B]](),
	)

	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{
		LR:    config.LearningRate,
		Betas: [2]float32{config.Beta1, 0.999},
	})

	return &Discriminator[B]{
		resolution: r,
		model:      model,
		loss:       nn.NewBCELoss[*autodiff.Backend[B]](),
		optimizer:  optimizer,
		backend:    backend,
	}, nil
}

// Predict scores a batch of flattened images without updating any
// parameters. Input shape must be [n, R].
func (d *Discriminator[B]) Predict(images *tensor.Tensor[*autodiff.Backend[B]]) (*tensor.Tensor[*autodiff.Backend[B]], error) {
	if _, err := d.checkImages(images); err != nil {
		return nil, err
	}

	tape := d.backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	return d.model.Forward(images), nil
}

// TrainStep runs one optimizer update on a labeled batch and returns
// the batch loss and classification accuracy.
//
// It thaws the discriminator's parameters first, so a preceding
// composite step (which freezes them) never leaks its frozen state
// into direct training.
func (d *Discriminator[B]) TrainStep(images, targets *tensor.Tensor[*autodiff.Backend[B]]) (float32, float32, error) {
	n, err := d.checkImages(images)
	if err != nil {
		return 0, 0, err
	}
	if err := checkTargets(targets, n, "discriminator"); err != nil {
		return 0, 0, err
	}

	d.SetTrainable(true)

	tape := d.backend.Tape()
	tape.Clear()
	tape.StartRecording()

	probs := d.model.Forward(images)
	loss := d.loss.Forward(probs, targets)
	grads := autodiff.Backward(loss, d.backend)

	tape.StopRecording()
	tape.Clear()

	d.optimizer.Step(grads)

	return loss.Item(), nn.Accuracy(probs, targets), nil
}

// SetTrainable freezes or thaws every parameter.
func (d *Discriminator[B]) SetTrainable(trainable bool) {
	for _, p := range d.model.Parameters() {
		p.SetTrainable(trainable)
	}
}

// Parameters returns all weight and bias parameters.
func (d *Discriminator[B]) Parameters() []*nn.Parameter[*autodiff.Backend[B]] {
	return d.model.Parameters()
}

// Resolution returns the expected flattened image length.
func (d *Discriminator[B]) Resolution() int {
	return d.resolution
}

// Steps returns the number of optimizer updates applied so far.
func (d *Discriminator[B]) Steps() int {
	return d.optimizer.Timestep()
}

func (d *Discriminator[B]) checkImages(images *tensor.Tensor[*autodiff.Backend[B]]) (int, error) {
	shape := images.Shape()
	if len(shape) != 2 || shape[1] != d.resolution {
		return 0, fmt.Errorf("discriminator: expected input shape [n, %d], got %v", d.resolution, shape)
	}
	return shape[0], nil
}

// checkTargets validates a [n, 1] label tensor.
func checkTargets[B tensor.Backend](targets *tensor.Tensor[B], n int, model string) error {
	shape := targets.Shape()
	if len(shape) != 2 || shape[0] != n || shape[1] != 1 {
		return fmt.Errorf("%s: expected targets shape [%d, 1], got %v", model, n, shape)
	}
	return nil
}
