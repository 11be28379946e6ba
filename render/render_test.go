package render_test

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirage-ml/mirage/render"
)

func TestPNGGrid_Render(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.png")
	grid := render.NewPNGGrid(path, 2, 2)

	images := [][]float32{
		{0, 0.5, 1, 0.25},
		{1, 1, 1, 1},
		{0, 0, 0, 0},
	}
	require.NoError(t, grid.Render(images, 2, 2))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	decoded, err := png.Decode(file)
	require.NoError(t, err)

	// 2x2 grid of 2x2 cells with a 2px gap: 2*2 + 1*2 = 6 per side.
	bounds := decoded.Bounds()
	assert.Equal(t, 6, bounds.Dx())
	assert.Equal(t, 6, bounds.Dy())
}

func TestPNGGrid_ClampsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clamp.png")
	grid := render.NewPNGGrid(path, 1, 1)

	// Generator output is unbounded; the renderer must clamp.
	require.NoError(t, grid.Render([][]float32{{-3, 0.5, 7.2, 0}}, 2, 2))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	_, err = png.Decode(file)
	assert.NoError(t, err)
}

func TestPNGGrid_BadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	grid := render.NewPNGGrid(path, 1, 1)

	assert.Error(t, grid.Render([][]float32{{1, 2, 3}}, 2, 2))
	assert.Error(t, grid.Render(nil, 0, 2))
}

func TestPNGGrid_UnwritablePath(t *testing.T) {
	grid := render.NewPNGGrid(filepath.Join(t.TempDir(), "missing", "out.png"), 1, 1)
	err := grid.Render([][]float32{{0.5}}, 1, 1)
	assert.Error(t, err)
}
