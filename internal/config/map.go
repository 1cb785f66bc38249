package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"rrtstar-planner/internal/obstacle"
)

// LoadField builds the configured obstacle field. It returns nil when no map
// is configured.
func (m MapConfig) LoadField(logger *zap.SugaredLogger) (obstacle.Field, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	switch {
	case m.Image != "":
		var match obstacle.ColorMatcher
		if m.Color != "" {
			c, err := parseHexColor(m.Color)
			if err != nil {
				return nil, err
			}
			match = obstacle.MatchColor(c)
		}
		grid, err := obstacle.LoadImage(m.Image, match)
		if err != nil {
			return nil, err
		}
		logger.Infow("map image loaded",
			"path", m.Image,
			"width", grid.Width(),
			"height", grid.Height(),
			"blocked_cells", grid.Count(),
		)
		return grid, nil

	case m.GeoJSONDir != "":
		polygons, err := obstacle.LoadGeoJSONDir(m.GeoJSONDir, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load obstacle polygons: %w", err)
		}
		before := len(polygons)
		if m.RemoveContained {
			polygons = obstacle.RemoveContained(polygons)
		}
		vertices := obstacle.VertexCount(polygons)
		if m.SimplifyEpsilon > 0 {
			polygons = obstacle.Simplify(polygons, m.SimplifyEpsilon)
		}
		logger.Infow("obstacle polygons prepared",
			"loaded", before,
			"kept", len(polygons),
			"vertices_before", vertices,
			"vertices_after", obstacle.VertexCount(polygons),
		)
		return obstacle.NewPolygonField(polygons), nil
	}

	return nil, nil
}

// parseHexColor accepts "#rgb" and "#rrggbb"
func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("unsupported colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
