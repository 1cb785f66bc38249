package obstacle

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid(t *testing.T) {
	g := NewGrid(20, 10)
	assert.Equal(t, 20, g.Width())
	assert.Equal(t, 10, g.Height())
	assert.Zero(t, g.Count())

	g.Set(3, 4, true)
	assert.True(t, g.Blocked(3, 4))
	g.Set(3, 4, false)
	assert.False(t, g.Blocked(3, 4))

	g.Set(-1, 0, true)
	g.Set(20, 0, true)
	g.Set(0, 10, true)
	assert.Zero(t, g.Count(), "out-of-grid writes are ignored")
	assert.False(t, g.Blocked(-1, 0))
	assert.False(t, g.Blocked(1000, 1000))

	g.FillRect(0, 0, 4, 2)
	assert.Equal(t, 8, g.Count())
}

func TestGridFillCircle(t *testing.T) {
	g := NewGrid(50, 50)
	g.FillCircle(25, 25, 10)
	assert.True(t, g.Blocked(25, 25))
	assert.True(t, g.Blocked(35, 25))
	assert.False(t, g.Blocked(35, 35))
	assert.False(t, g.Blocked(36, 25))
}

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.Black)
		}
	}
	for y := 10; y < 20; y++ {
		img.Set(15, y, ObstacleColor)
	}
	img.Set(2, 2, color.White)

	grid := FromImage(img, nil)
	assert.Equal(t, 40, grid.Width())
	assert.Equal(t, 30, grid.Height())
	assert.Equal(t, 10, grid.Count())
	assert.True(t, grid.Blocked(15, 12))
	assert.False(t, grid.Blocked(2, 2))

	white := FromImage(img, MatchColor(color.White))
	assert.Equal(t, 1, white.Count())
}

func TestLoadImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	img.Set(4, 5, ObstacleColor)
	img.Set(6, 7, ObstacleColor)

	path := filepath.Join(t.TempDir(), "map.png")
	require.NoError(t, imaging.Save(img, path))

	grid, err := LoadImage(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, grid.Count())
	assert.True(t, grid.Blocked(4, 5))
	assert.True(t, grid.Blocked(6, 7))

	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"), nil)
	assert.Error(t, err)
}
