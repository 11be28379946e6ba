package gan_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirage-ml/mirage/dataset"
	"github.com/mirage-ml/mirage/internal/autodiff"
	"github.com/mirage-ml/mirage/internal/backend/cpu"
	"github.com/mirage-ml/mirage/internal/gan"
	"github.com/mirage-ml/mirage/internal/nn"
	"github.com/mirage-ml/mirage/internal/tensor"
)

type testBackend = *autodiff.Backend[*cpu.Backend]

type fixture struct {
	config        gan.Config
	backend       testBackend
	discriminator *gan.Discriminator[*cpu.Backend]
	generator     *gan.Generator[*cpu.Backend]
	composite     *gan.Composite[*cpu.Backend]
}

// newFixture builds the full adversarial stack on small images.
func newFixture(t *testing.T, rows, cols int, seed int64) *fixture {
	t.Helper()

	config := gan.DefaultConfig(rows, cols)
	config.Seed = seed
	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(seed))

	d, err := gan.NewDiscriminator(config, rng, backend)
	require.NoError(t, err)
	g, err := gan.NewGenerator(config, rng, backend)
	require.NoError(t, err)
	c, err := gan.NewComposite(g, d, config, backend)
	require.NoError(t, err)

	return &fixture{
		config:        config,
		backend:       backend,
		discriminator: d,
		generator:     g,
		composite:     c,
	}
}

// zeroDataset returns n all-zero images, already in [0, 1].
func zeroDataset(n, rows, cols int) *dataset.Dataset {
	images := make([][]float32, n)
	for i := range images {
		images[i] = make([]float32, rows*cols)
	}
	return &dataset.Dataset{Images: images, Rows: rows, Cols: cols}
}

func snapshot(params []*nn.Parameter[testBackend]) [][]float32 {
	out := make([][]float32, len(params))
	for i, p := range params {
		out[i] = append([]float32(nil), p.Tensor().Data()...)
	}
	return out
}

func changed(before [][]float32, params []*nn.Parameter[testBackend]) bool {
	for i, p := range params {
		for j, v := range p.Tensor().Data() {
			if before[i][j] != v {
				return true
			}
		}
	}
	return false
}

func TestConfig_RejectsTinyImages(t *testing.T) {
	// R = 2, so N = floor(2/4) = 0.
	config := gan.DefaultConfig(1, 2)
	assert.Error(t, config.Validate())

	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(1))
	_, err := gan.NewDiscriminator(config, rng, backend)
	assert.Error(t, err)
	_, err = gan.NewGenerator(config, rng, backend)
	assert.Error(t, err)
}

func TestConfig_Defaults(t *testing.T) {
	config := gan.DefaultConfig(28, 28)
	require.NoError(t, config.Validate())

	assert.Equal(t, 784, config.Resolution())
	assert.Equal(t, 196, config.NoiseDim())
	assert.Equal(t, 30000, config.Epochs)
	assert.Equal(t, 32, config.BatchSize)
	assert.InDelta(t, 0.0002, config.LearningRate, 1e-9)
	assert.InDelta(t, 0.5, config.Beta1, 1e-9)
	assert.Equal(t, 100, config.SampleInterval)
}

func TestConfig_RejectsOddBatch(t *testing.T) {
	config := gan.DefaultConfig(8, 8)
	config.BatchSize = 33
	assert.Error(t, config.Validate())
}

func TestDiscriminator_OutputInOpenInterval(t *testing.T) {
	f := newFixture(t, 8, 8, 1)

	rng := rand.New(rand.NewSource(99))
	images := tensor.Randn(tensor.Shape{10, f.config.Resolution()}, rng, f.backend)

	probs, err := f.discriminator.Predict(images)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{10, 1}, probs.Shape())

	for i, p := range probs.Data() {
		assert.Greater(t, p, float32(0), "probability %d", i)
		assert.Less(t, p, float32(1), "probability %d", i)
	}
}

func TestDiscriminator_ShapeMismatch(t *testing.T) {
	f := newFixture(t, 8, 8, 1)

	wrong := tensor.Ones(tensor.Shape{4, 10}, f.backend)
	_, err := f.discriminator.Predict(wrong)
	assert.Error(t, err)

	targets := tensor.Ones(tensor.Shape{4, 1}, f.backend)
	_, _, err = f.discriminator.TrainStep(wrong, targets)
	assert.Error(t, err)

	// Right images, wrong targets.
	images := tensor.Ones(tensor.Shape{4, f.config.Resolution()}, f.backend)
	badTargets := tensor.Ones(tensor.Shape{3, 1}, f.backend)
	_, _, err = f.discriminator.TrainStep(images, badTargets)
	assert.Error(t, err)
}

func TestDiscriminator_TrainStep(t *testing.T) {
	f := newFixture(t, 8, 8, 1)

	rng := rand.New(rand.NewSource(5))
	images := tensor.Randn(tensor.Shape{6, f.config.Resolution()}, rng, f.backend)
	targets := tensor.Full(tensor.Shape{6, 1}, 1.0, f.backend)

	before := snapshot(f.discriminator.Parameters())
	loss, acc, err := f.discriminator.TrainStep(images, targets)
	require.NoError(t, err)

	assert.Greater(t, loss, float32(0))
	assert.GreaterOrEqual(t, acc, float32(0))
	assert.LessOrEqual(t, acc, float32(1))
	assert.True(t, changed(before, f.discriminator.Parameters()), "discriminator must update")
	assert.Equal(t, 1, f.discriminator.Steps())
}

func TestGenerator_OutputShape(t *testing.T) {
	f := newFixture(t, 8, 8, 1)

	samples, err := f.generator.Generate(3, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 8, 8}, samples.Shape())

	_, err = f.generator.Generate(0, rand.New(rand.NewSource(7)))
	assert.Error(t, err)
}

func TestComposite_FreezeToggling(t *testing.T) {
	f := newFixture(t, 8, 8, 1)

	// Construction froze the discriminator.
	for _, p := range f.discriminator.Parameters() {
		assert.False(t, p.Trainable(), "composite construction must freeze D")
	}

	// A direct discriminator step thaws it.
	rng := rand.New(rand.NewSource(5))
	images := tensor.Randn(tensor.Shape{4, f.config.Resolution()}, rng, f.backend)
	targets := tensor.Full(tensor.Shape{4, 1}, 1.0, f.backend)
	_, _, err := f.discriminator.TrainStep(images, targets)
	require.NoError(t, err)
	for _, p := range f.discriminator.Parameters() {
		assert.True(t, p.Trainable(), "discriminator step must thaw D")
	}

	// The next composite step re-freezes it.
	noise := tensor.Randn(tensor.Shape{4, f.config.NoiseDim()}, rng, f.backend)
	_, err = f.composite.TrainStep(noise, targets)
	require.NoError(t, err)
	for _, p := range f.discriminator.Parameters() {
		assert.False(t, p.Trainable(), "composite step must freeze D")
	}
}

func TestComposite_OnlyGeneratorChanges(t *testing.T) {
	f := newFixture(t, 8, 8, 1)

	rng := rand.New(rand.NewSource(3))
	noise := tensor.Randn(tensor.Shape{4, f.config.NoiseDim()}, rng, f.backend)
	targets := tensor.Full(tensor.Shape{4, 1}, 1.0, f.backend)

	dBefore := snapshot(f.discriminator.Parameters())
	gBefore := snapshot(f.generator.Parameters())

	loss, err := f.composite.TrainStep(noise, targets)
	require.NoError(t, err)
	assert.Greater(t, loss, float32(0))

	assert.False(t, changed(dBefore, f.discriminator.Parameters()), "discriminator must stay fixed")
	assert.True(t, changed(gBefore, f.generator.Parameters()), "generator must update")
	assert.Equal(t, 1, f.composite.Steps())
}

func TestComposite_ShapeMismatch(t *testing.T) {
	f := newFixture(t, 8, 8, 1)

	badNoise := tensor.Ones(tensor.Shape{4, 5}, f.backend)
	targets := tensor.Ones(tensor.Shape{4, 1}, f.backend)
	_, err := f.composite.TrainStep(badNoise, targets)
	assert.Error(t, err)
}

// TestTrainer_OneEpochUpdateCounts runs the reference scenario: 100
// images of shape (28, 28), batch 32, one epoch. Exactly two
// discriminator updates and one composite update, no shape errors.
func TestTrainer_OneEpochUpdateCounts(t *testing.T) {
	f := newFixture(t, 28, 28, 1)
	f.config.Epochs = 1

	trainer, err := gan.NewTrainer(f.config, f.composite, f.backend)
	require.NoError(t, err)
	trainer.SetLogWriter(&bytes.Buffer{})

	require.NoError(t, trainer.Run(zeroDataset(100, 28, 28)))

	assert.Equal(t, 2, f.discriminator.Steps(), "two half-batch discriminator updates")
	assert.Equal(t, 1, f.composite.Steps(), "one composite update")
}

func TestTrainer_LogFormat(t *testing.T) {
	f := newFixture(t, 8, 8, 1)
	f.config.Epochs = 2
	f.config.SampleInterval = 1

	var log bytes.Buffer
	trainer, err := gan.NewTrainer(f.config, f.composite, f.backend)
	require.NoError(t, err)
	trainer.SetLogWriter(&log)

	require.NoError(t, trainer.Run(zeroDataset(10, 8, 8)))

	assert.Regexp(t,
		`\A0 \[D loss: \d+\.\d{6}, acc\.: \d+\.\d{2}%\] \[G loss: \d+\.\d{6}\]\n`+
			`1 \[D loss: \d+\.\d{6}, acc\.: \d+\.\d{2}%\] \[G loss: \d+\.\d{6}\]\n\z`,
		log.String())
}

func TestTrainer_DatasetShapeMismatch(t *testing.T) {
	f := newFixture(t, 8, 8, 1)
	f.config.Epochs = 1

	trainer, err := gan.NewTrainer(f.config, f.composite, f.backend)
	require.NoError(t, err)
	trainer.SetLogWriter(&bytes.Buffer{})

	assert.Error(t, trainer.Run(zeroDataset(10, 4, 4)))
	assert.Error(t, trainer.Run(&dataset.Dataset{Rows: 8, Cols: 8}))
}

// TestTrainer_Deterministic trains two identical stacks with the same
// seed and expects bit-identical samples.
func TestTrainer_Deterministic(t *testing.T) {
	run := func() [][]float32 {
		f := newFixture(t, 8, 8, 123)
		f.config.Epochs = 3

		trainer, err := gan.NewTrainer(f.config, f.composite, f.backend)
		require.NoError(t, err)
		trainer.SetLogWriter(&bytes.Buffer{})
		require.NoError(t, trainer.Run(zeroDataset(20, 8, 8)))

		samples, err := trainer.Samples(4)
		require.NoError(t, err)
		return samples
	}

	first := run()
	second := run()

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i], second[i], "sample %d", i)
	}
}

type failingRenderer struct{}

func (failingRenderer) Render([][]float32, int, int) error {
	return assert.AnError
}

// A renderer failure must surface only after training has completed.
func TestTrainer_RendererFailureAfterTraining(t *testing.T) {
	f := newFixture(t, 8, 8, 1)
	f.config.Epochs = 2

	trainer, err := gan.NewTrainer(f.config, f.composite, f.backend)
	require.NoError(t, err)
	trainer.SetLogWriter(&bytes.Buffer{})
	trainer.SetRenderer(failingRenderer{})

	err = trainer.Run(zeroDataset(10, 8, 8))
	assert.Error(t, err)
	assert.Equal(t, 2, f.composite.Steps(), "all epochs must run before the renderer")
}
