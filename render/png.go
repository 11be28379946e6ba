package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// PNGGrid writes images into a single PNG file, arranged row-major on
// a GridRows x GridCols grid with a small gap between cells.
type PNGGrid struct {
	Path     string
	GridRows int
	GridCols int
	// Gap is the pixel spacing between cells (default 2).
	Gap int
}

// NewPNGGrid creates a grid renderer writing to path.
func NewPNGGrid(path string, gridRows, gridCols int) *PNGGrid {
	return &PNGGrid{
		Path:     path,
		GridRows: gridRows,
		GridCols: gridCols,
		Gap:      2,
	}
}

// Render writes up to GridRows*GridCols images of shape rows x cols
// into the grid. Extra images are ignored; missing cells stay black.
func (p *PNGGrid) Render(images [][]float32, rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("render: image shape must be positive, got (%d, %d)", rows, cols)
	}
	if p.GridRows <= 0 || p.GridCols <= 0 {
		return fmt.Errorf("render: grid shape must be positive, got (%d, %d)", p.GridRows, p.GridCols)
	}
	for i, img := range images {
		if len(img) != rows*cols {
			return fmt.Errorf("render: image %d has %d pixels, want %d", i, len(img), rows*cols)
		}
	}

	width := p.GridCols*cols + (p.GridCols-1)*p.Gap
	height := p.GridRows*rows + (p.GridRows-1)*p.Gap
	canvas := image.NewGray(image.Rect(0, 0, width, height))

	for i, img := range images {
		if i >= p.GridRows*p.GridCols {
			break
		}
		cellRow, cellCol := i/p.GridCols, i%p.GridCols
		x0 := cellCol * (cols + p.Gap)
		y0 := cellRow * (rows + p.Gap)

		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				canvas.SetGray(x0+x, y0+y, color.Gray{Y: clamp(img[y*cols+x])})
			}
		}
	}

	file, err := os.Create(p.Path)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, canvas); err != nil {
		return fmt.Errorf("render: encoding %s: %w", p.Path, err)
	}
	return nil
}
