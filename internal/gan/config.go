// Package gan builds and trains a minimal adversarial pair: a
// discriminator scoring images as real or fake, a generator mapping
// noise to images, and a frozen-discriminator composite used to train
// the generator.
package gan

import "fmt"

// Reference hyperparameters for adversarial training.
const (
	// leakySlope is the negative slope of every leaky rectifier.
	leakySlope = 0.2

	// maxoutPieces is the number of affine pieces in the generator's
	// output projection.
	maxoutPieces = 2
)

// Config holds the image geometry and training hyperparameters.
// Zero values fall back to the reference defaults via DefaultConfig.
type Config struct {
	Rows int // image height
	Cols int // image width

	Epochs         int     // training iterations (one batch each, not dataset passes)
	BatchSize      int     // composite batch size; each discriminator step uses half
	LearningRate   float32 // Adam learning rate
	Beta1          float32 // Adam first-moment decay
	SampleInterval int     // epochs between diagnostic log lines

	SampleRows int // sample grid height, in images
	SampleCols int // sample grid width, in images

	Seed int64 // seeds all noise and dataset sampling
}

// DefaultConfig returns the reference configuration for the given image
// geometry: 30000 epochs, batch 32, Adam(0.0002, beta1 0.5), a log line
// every 100 epochs, and a 3x3 sample grid.
func DefaultConfig(rows, cols int) Config {
	return Config{
		Rows:           rows,
		Cols:           cols,
		Epochs:         30000,
		BatchSize:      32,
		LearningRate:   0.0002,
		Beta1:          0.5,
		SampleInterval: 100,
		SampleRows:     3,
		SampleCols:     3,
		Seed:           1,
	}
}

// Resolution returns the flattened image length R = Rows * Cols.
func (c Config) Resolution() int {
	return c.Rows * c.Cols
}

// NoiseDim returns the generator input length N = floor(R / 4).
func (c Config) NoiseDim() int {
	return c.Resolution() / 4
}

// Validate checks that the configuration can produce working models.
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("gan: image shape must be positive, got (%d, %d)", c.Rows, c.Cols)
	}
	if c.NoiseDim() < 1 {
		return fmt.Errorf("gan: resolution %d too small: noise dimension floor(%d/4) < 1", c.Resolution(), c.Resolution())
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("gan: epochs must be positive, got %d", c.Epochs)
	}
	if c.BatchSize < 2 || c.BatchSize%2 != 0 {
		return fmt.Errorf("gan: batch size must be even and at least 2, got %d", c.BatchSize)
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("gan: sample interval must be positive, got %d", c.SampleInterval)
	}
	if c.SampleRows <= 0 || c.SampleCols <= 0 {
		return fmt.Errorf("gan: sample grid must be positive, got (%d, %d)", c.SampleRows, c.SampleCols)
	}
	return nil
}
