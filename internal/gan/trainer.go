package gan

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/mirage-ml/mirage/dataset"
	"github.com/mirage-ml/mirage/internal/autodiff"
	"github.com/mirage-ml/mirage/internal/tensor"
	"github.com/mirage-ml/mirage/render"
)

// Trainer runs the alternating adversarial loop.
//
// Each epoch is one batch, not a dataset pass, and executes strictly
// in order: discriminator on a real half-batch, discriminator on a
// generated half-batch, then one composite step on a full batch of
// fresh noise. Each step depends on the parameter state the previous
// one left behind, so the order is part of the procedure.
//
// A single seeded rand.Rand drives real-image sampling and all noise,
// so a run is reproducible given the seed and initial weights.
type Trainer[B tensor.Backend] struct {
	config        Config
	discriminator *Discriminator[B]
	generator     *Generator[B]
	composite     *Composite[B]
	backend       *autodiff.Backend[B]
	rng           *rand.Rand
	log           io.Writer
	renderer      render.Renderer
}

// NewTrainer creates a trainer around a wired composite. Diagnostics
// go to os.Stdout until SetLogWriter; no samples are rendered until
// SetRenderer.
func NewTrainer[B tensor.Backend](config Config, composite *Composite[B], backend *autodiff.Backend[B]) (*Trainer[B], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Trainer[B]{
		config:        config,
		discriminator: composite.Discriminator(),
		generator:     composite.Generator(),
		composite:     composite,
		backend:       backend,
		rng:           rand.New(rand.NewSource(config.Seed)),
		log:           os.Stdout,
	}, nil
}

// SetLogWriter redirects the diagnostic log.
func (t *Trainer[B]) SetLogWriter(w io.Writer) {
	t.log = w
}

// SetRenderer sets the consumer for the post-training sample grid.
func (t *Trainer[B]) SetRenderer(r render.Renderer) {
	t.renderer = r
}

// Run trains for the configured number of epochs, then renders the
// sample grid if a renderer is set.
//
// Any step failure is fatal and aborts the loop; there are no retries
// and no checkpoints. A renderer failure is reported only after
// training has fully completed.
func (t *Trainer[B]) Run(data *dataset.Dataset) error {
	if err := data.Validate(); err != nil {
		return err
	}
	if data.Rows != t.config.Rows || data.Cols != t.config.Cols {
		return fmt.Errorf("gan: dataset shape (%d, %d) does not match configured (%d, %d)",
			data.Rows, data.Cols, t.config.Rows, t.config.Cols)
	}

	half := t.config.BatchSize / 2

	for epoch := 0; epoch < t.config.Epochs; epoch++ {
		dLoss, dAcc, err := t.discriminatorStep(data, half)
		if err != nil {
			return fmt.Errorf("epoch %d: %w", epoch, err)
		}

		gLoss, err := t.generatorStep()
		if err != nil {
			return fmt.Errorf("epoch %d: %w", epoch, err)
		}

		if epoch%t.config.SampleInterval == 0 {
			fmt.Fprintf(t.log, "%d [D loss: %f, acc.: %.2f%%] [G loss: %f]\n",
				epoch, dLoss, dAcc*100, gLoss)
		}
	}

	if t.renderer == nil {
		return nil
	}
	images, err := t.Samples(t.config.SampleRows * t.config.SampleCols)
	if err != nil {
		return fmt.Errorf("gan: sampling after training: %w", err)
	}
	if err := t.renderer.Render(images, t.config.Rows, t.config.Cols); err != nil {
		return fmt.Errorf("gan: training complete, sample rendering failed: %w", err)
	}
	return nil
}

// discriminatorStep runs the two half-batch updates (real then fake)
// and averages their diagnostics.
func (t *Trainer[B]) discriminatorStep(data *dataset.Dataset, half int) (float32, float32, error) {
	realBatch, err := t.sampleReal(data, half)
	if err != nil {
		return 0, 0, err
	}
	fakeBatch := t.generator.generateFlat(half, t.rng)

	realTargets := tensor.Full(tensor.Shape{half, 1}, 1.0, t.backend)
	fakeTargets := tensor.Full(tensor.Shape{half, 1}, 0.0, t.backend)

	lossReal, accReal, err := t.discriminator.TrainStep(realBatch, realTargets)
	if err != nil {
		return 0, 0, err
	}
	lossFake, accFake, err := t.discriminator.TrainStep(fakeBatch, fakeTargets)
	if err != nil {
		return 0, 0, err
	}

	return (lossReal + lossFake) / 2, (accReal + accFake) / 2, nil
}

// generatorStep runs one composite update on a full batch of fresh
// noise with all-real targets.
func (t *Trainer[B]) generatorStep() (float32, error) {
	noise := tensor.Randn(tensor.Shape{t.config.BatchSize, t.config.NoiseDim()}, t.rng, t.backend)
	targets := tensor.Full(tensor.Shape{t.config.BatchSize, 1}, 1.0, t.backend)
	return t.composite.TrainStep(noise, targets)
}

// sampleReal draws n images uniformly with replacement and packs them
// into a [n, R] batch.
func (t *Trainer[B]) sampleReal(data *dataset.Dataset, n int) (*tensor.Tensor[*autodiff.Backend[B]], error) {
	r := t.config.Resolution()
	flat := make([]float32, n*r)
	for i := 0; i < n; i++ {
		img := data.Images[t.rng.Intn(data.Len())]
		copy(flat[i*r:(i+1)*r], img)
	}
	return tensor.FromSlice(flat, tensor.Shape{n, r}, t.backend)
}

// Samples generates count images with the trainer's noise source and
// returns them flattened, one Rows*Cols slice per image.
func (t *Trainer[B]) Samples(count int) ([][]float32, error) {
	generated, err := t.generator.Generate(count, t.rng)
	if err != nil {
		return nil, err
	}

	r := t.config.Resolution()
	data := generated.Data()
	images := make([][]float32, count)
	for i := range images {
		img := make([]float32, r)
		copy(img, data[i*r:(i+1)*r])
		images[i] = img
	}
	return images, nil
}
