// Package dataset supplies collections of fixed-shape grayscale images
// for training.
package dataset

import "fmt"

// Dataset is a fixed-size collection of images, each flattened to
// Rows*Cols pixel intensities.
type Dataset struct {
	Images [][]float32
	Rows   int
	Cols   int
}

// Provider loads a complete dataset up front. Training never touches
// the provider again after the initial load.
type Provider interface {
	Load() (*Dataset, error)
}

// Len returns the number of images.
func (d *Dataset) Len() int {
	return len(d.Images)
}

// Resolution returns the flattened image length Rows * Cols.
func (d *Dataset) Resolution() int {
	return d.Rows * d.Cols
}

// Validate checks that every image matches the declared shape.
func (d *Dataset) Validate() error {
	if d.Rows <= 0 || d.Cols <= 0 {
		return fmt.Errorf("dataset: image shape must be positive, got (%d, %d)", d.Rows, d.Cols)
	}
	if len(d.Images) == 0 {
		return fmt.Errorf("dataset: no images")
	}
	r := d.Resolution()
	for i, img := range d.Images {
		if len(img) != r {
			return fmt.Errorf("dataset: image %d has %d pixels, want %d", i, len(img), r)
		}
	}
	return nil
}

// Normalize rescales all pixel values into [0, 1] with a single
// min-max computed over the entire collection. A constant collection
// maps to all zeros.
func (d *Dataset) Normalize() {
	if len(d.Images) == 0 {
		return
	}

	min, max := d.Images[0][0], d.Images[0][0]
	for _, img := range d.Images {
		for _, v := range img {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}

	span := max - min
	if span == 0 {
		for _, img := range d.Images {
			for i := range img {
				img[i] = 0
			}
		}
		return
	}

	for _, img := range d.Images {
		for i := range img {
			img[i] = (img[i] - min) / span
		}
	}
}
