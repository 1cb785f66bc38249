package obstacle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

// LoadGeoJSON parses one GeoJSON feature collection and returns its polygons.
// Only the outer ring of each polygon is kept.
func LoadGeoJSON(path string) ([]orb.Polygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	var polygons []orb.Polygon
	for _, feature := range fc.Features {
		polygons = append(polygons, polygonsFromGeometry(feature.Geometry)...)
	}
	return polygons, nil
}

// LoadGeoJSONDir loads all *.geojson files of a directory. Files that fail to
// parse are logged and skipped.
func LoadGeoJSONDir(dir string, logger *zap.SugaredLogger) ([]orb.Polygon, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	logger.Infow("loading obstacle polygons", "dir", dir, "files", len(files))

	var all []orb.Polygon
	for _, file := range files {
		polygons, err := LoadGeoJSON(file)
		if err != nil {
			logger.Warnw("skipping obstacle file", "file", file, "error", err)
			continue
		}
		logger.Debugw("loaded obstacle file", "file", filepath.Base(file), "polygons", len(polygons))
		all = append(all, polygons...)
	}

	logger.Infow("obstacle polygons loaded", "polygons", len(all))
	return all, nil
}

// polygonsFromGeometry extracts outer rings from polygonal geometries
func polygonsFromGeometry(g orb.Geometry) []orb.Polygon {
	var polygons []orb.Polygon

	switch geom := g.(type) {
	case orb.Polygon:
		if len(geom) > 0 {
			polygons = append(polygons, orb.Polygon{geom[0]})
		}
	case orb.MultiPolygon:
		for _, p := range geom {
			if len(p) > 0 {
				polygons = append(polygons, orb.Polygon{p[0]})
			}
		}
	case orb.Collection:
		for _, child := range geom {
			polygons = append(polygons, polygonsFromGeometry(child)...)
		}
	}

	return polygons
}
