package dataset

import (
	"fmt"
	"math/rand"
)

// Synthetic generates an in-memory dataset of simple block patterns,
// useful for tests and demo runs where no MNIST files are available.
//
// Each image gets a bright horizontal band whose position depends on
// the image index, over a noisy dark background. Values lie in
// [0, 255] like raw MNIST, so the same Normalize step applies.
type Synthetic struct {
	Count int
	Rows  int
	Cols  int
	Seed  int64
}

// Load generates the images.
func (s *Synthetic) Load() (*Dataset, error) {
	if s.Count <= 0 || s.Rows <= 0 || s.Cols <= 0 {
		return nil, fmt.Errorf("synthetic: count and shape must be positive, got count=%d shape=(%d, %d)", s.Count, s.Rows, s.Cols)
	}

	rng := rand.New(rand.NewSource(s.Seed))
	bandHeight := s.Rows/4 + 1

	images := make([][]float32, s.Count)
	for i := range images {
		img := make([]float32, s.Rows*s.Cols)
		for j := range img {
			img[j] = float32(rng.Intn(32)) // dark background noise
		}

		start := (i * 2) % s.Rows
		for row := start; row < start+bandHeight && row < s.Rows; row++ {
			for col := 0; col < s.Cols; col++ {
				img[row*s.Cols+col] = 255 - float32(rng.Intn(32))
			}
		}
		images[i] = img
	}

	return &Dataset{
		Images: images,
		Rows:   s.Rows,
		Cols:   s.Cols,
	}, nil
}
