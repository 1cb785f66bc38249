package obstacle

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ObstacleColor is the colour obstacles are painted with on map images
var ObstacleColor = color.RGBA{R: 0, G: 255, B: 255, A: 255}

// ColorMatcher decides whether a pixel is an obstacle
type ColorMatcher func(c color.Color) bool

// MatchColor matches pixels equal to want, ignoring alpha
func MatchColor(want color.Color) ColorMatcher {
	wr, wg, wb, _ := want.RGBA()
	return func(c color.Color) bool {
		r, g, b, _ := c.RGBA()
		return r == wr && g == wg && b == wb
	}
}

// FromImage rasterizes img into a grid; pixel (x, y) becomes cell (x, y)
// relative to the image origin
func FromImage(img image.Image, match ColorMatcher) *Grid {
	if match == nil {
		match = MatchColor(ObstacleColor)
	}
	b := img.Bounds()
	grid := NewGrid(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if match(img.At(x, y)) {
				grid.Set(x-b.Min.X, y-b.Min.Y, true)
			}
		}
	}
	return grid
}

// LoadImage reads a map image from disk and rasterizes it
func LoadImage(path string, match ColorMatcher) (*Grid, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map image: %w", err)
	}
	return FromImage(img, match), nil
}
