// Package render arranges generated grayscale images into viewable
// output.
package render

// Renderer consumes a batch of generated images at the end of a
// training run. Each image is a flattened rows*cols intensity array,
// nominally in [0, 1]; out-of-range values are clamped.
type Renderer interface {
	Render(images [][]float32, rows, cols int) error
}

// clamp maps an intensity to an 8-bit gray level.
func clamp(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
