package gan

import (
	"fmt"
	"math/rand"

	"github.com/mirage-ml/mirage/internal/autodiff"
	"github.com/mirage-ml/mirage/internal/nn"
	"github.com/mirage-ml/mirage/internal/tensor"
)

// Generator maps standard-normal noise vectors to synthetic images.
//
// Topology: N -> R/4 -> R/2 -> R with a leaky rectifier after each
// layer, then a maxout projection back to R. The output is not
// squashed, so pixel values are unbounded even though real images are
// normalized to [0, 1].
//
// The generator has no optimizer of its own: its parameters are only
// updated through the composite.
type Generator[B tensor.Backend] struct {
	rows     int
	cols     int
	noiseDim int
	model    *nn.Sequential[*autodiff.Backend[B]]
	backend  *autodiff.Backend[B]
}

// NewGenerator builds a generator for the configured image geometry.
// The config must pass Validate.
func NewGenerator[B tensor.Backend](config Config, rng *rand.Rand, backend *autodiff.Backend[B]) (*Generator[B], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	r := config.Resolution()
	n := config.NoiseDim()
	model := nn.NewSequential[*autodiff.Backend[B]](
		nn.NewLinear(n, r/4, rng, backend),
		nn.NewLeakyReLU[*autodiff.Backend[B]](leakySlope),
		nn.NewLinear(r/4, r/2, rng, backend),
		nn.NewLeakyReLU[*autodiff.Backend[B]](leakySlope),
		nn.NewLinear(r/2, r, rng, backend),
		nn.NewLeakyReLU[*autodiff.Backend[B]](leakySlope),
		nn.NewMaxout(r, r, maxoutPieces, rng, backend),
	)

	return &Generator[B]{
		rows:     config.Rows,
		cols:     config.Cols,
		noiseDim: n,
		model:    model,
		backend:  backend,
	}, nil
}

// Forward maps a [n, N] noise batch to flattened images [n, R].
// Used by the composite during training; callers validate shape.
func (g *Generator[B]) Forward(noise *tensor.Tensor[*autodiff.Backend[B]]) *tensor.Tensor[*autodiff.Backend[B]] {
	return g.model.Forward(noise)
}

// Generate samples count noise vectors from rng and maps them to
// images of shape [count, rows, cols]. Inference only, no updates.
func (g *Generator[B]) Generate(count int, rng *rand.Rand) (*tensor.Tensor[*autodiff.Backend[B]], error) {
	if count <= 0 {
		return nil, fmt.Errorf("generator: sample count must be positive, got %d", count)
	}
	flat := g.generateFlat(count, rng)
	return flat.Reshape(count, g.rows, g.cols), nil
}

// generateFlat produces [count, R] fakes with the tape off, so the
// forward pass leaves no trace in a surrounding training step.
func (g *Generator[B]) generateFlat(count int, rng *rand.Rand) *tensor.Tensor[*autodiff.Backend[B]] {
	tape := g.backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	noise := tensor.Randn(tensor.Shape{count, g.noiseDim}, rng, g.backend)
	return g.model.Forward(noise)
}

// Parameters returns all weight and bias parameters.
func (g *Generator[B]) Parameters() []*nn.Parameter[*autodiff.Backend[B]] {
	return g.model.Parameters()
}

// NoiseDim returns the expected noise vector length.
func (g *Generator[B]) NoiseDim() int {
	return g.noiseDim
}

// checkNoise validates a [n, N] noise batch and returns n.
func (g *Generator[B]) checkNoise(noise *tensor.Tensor[*autodiff.Backend[B]]) (int, error) {
	shape := noise.Shape()
	if len(shape) != 2 || shape[1] != g.noiseDim {
		return 0, fmt.Errorf("generator: expected noise shape [n, %d], got %v", g.noiseDim, shape)
	}
	return shape[0], nil
}
