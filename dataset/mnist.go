package dataset

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// idxImagesMagic is the IDX magic number for unsigned-byte image files.
const idxImagesMagic = 2051

// MNIST loads images from an official MNIST IDX binary file
// (e.g. train-images-idx3-ubyte).
//
// IDX image format:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255)
//
// Pixel values are returned as raw intensities in [0, 255]; call
// Dataset.Normalize before training.
//
// Download MNIST from: http://yann.lecun.com/exdb/mnist/
type MNIST struct {
	// Path to the IDX image file.
	Path string
	// MaxSamples caps the number of images loaded (0 = load all).
	MaxSamples int
}

// Load reads and decodes the IDX file.
func (m *MNIST) Load() (*Dataset, error) {
	file, err := os.Open(m.Path)
	if err != nil {
		return nil, fmt.Errorf("mnist: %w", err)
	}
	defer file.Close()

	var magic uint32
	if err := binary.Read(file, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("mnist: failed to read magic: %w", err)
	}
	if magic != idxImagesMagic {
		return nil, fmt.Errorf("mnist: invalid magic number: got %d, want %d", magic, idxImagesMagic)
	}

	var numImages, numRows, numCols uint32
	if err := binary.Read(file, binary.BigEndian, &numImages); err != nil {
		return nil, fmt.Errorf("mnist: failed to read image count: %w", err)
	}
	if err := binary.Read(file, binary.BigEndian, &numRows); err != nil {
		return nil, fmt.Errorf("mnist: failed to read row count: %w", err)
	}
	if err := binary.Read(file, binary.BigEndian, &numCols); err != nil {
		return nil, fmt.Errorf("mnist: failed to read col count: %w", err)
	}

	count := int(numImages)
	if m.MaxSamples > 0 && count > m.MaxSamples {
		count = m.MaxSamples
	}

	imageSize := int(numRows * numCols)
	buf := make([]byte, imageSize)
	images := make([][]float32, count)

	for i := range images {
		if _, err := io.ReadFull(file, buf); err != nil {
			return nil, fmt.Errorf("mnist: failed to read image %d: %w", i, err)
		}
		img := make([]float32, imageSize)
		for j, b := range buf {
			img[j] = float32(b)
		}
		images[i] = img
	}

	return &Dataset{
		Images: images,
		Rows:   int(numRows),
		Cols:   int(numCols),
	}, nil
}
