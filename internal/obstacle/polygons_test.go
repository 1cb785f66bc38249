package obstacle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"rrtstar-planner/internal/geometry"
)

func square(x0, y0, x1, y1 float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}}
}

func TestPolygonField(t *testing.T) {
	field := NewPolygonField([]orb.Polygon{
		square(10, 10, 20, 20),
		square(50, 0, 60, 100),
	})
	assert.Equal(t, 2, field.Len())

	assert.True(t, field.Blocked(15, 15))
	assert.True(t, field.Blocked(55, 70))
	assert.False(t, field.Blocked(30, 30))
	assert.False(t, field.Blocked(-5, -5))

	assert.True(t, IsBlocked(field, geometry.Point{X: 0, Y: 50}, geometry.Point{X: 100, Y: 50}))
	assert.False(t, IsBlocked(field, geometry.Point{X: 0, Y: 50}, geometry.Point{X: 40, Y: 90}))
}

func TestPolygonFieldSkipsDegenerate(t *testing.T) {
	flat := orb.Polygon{orb.Ring{{0, 0}, {10, 0}, {0, 0}}}
	field := NewPolygonField([]orb.Polygon{flat, square(0, 0, 5, 5)})
	assert.Equal(t, 1, field.Len())
}

func TestPolygonFieldQueryRegion(t *testing.T) {
	field := NewPolygonField([]orb.Polygon{
		square(10, 10, 20, 20),
		square(100, 100, 120, 120),
	})

	hits := field.QueryRegion(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{50, 50}})
	require.Len(t, hits, 1)
	assert.Equal(t, square(10, 10, 20, 20), hits[0])
}

func TestOutlineToOrb(t *testing.T) {
	outline := Polygon{Vertices: []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}}
	poly := outline.Orb()
	require.Len(t, poly, 1)
	assert.Len(t, poly[0], 4)
	assert.Equal(t, poly[0][0], poly[0][3])

	field := NewPolygonFieldFromOutlines([]Polygon{outline, {Vertices: []geometry.Point{{X: 1, Y: 1}}}})
	assert.Equal(t, 1, field.Len())
	assert.True(t, field.Blocked(8, 2))
	assert.False(t, field.Blocked(2, 8))
}

func TestRemoveContained(t *testing.T) {
	outer := square(0, 0, 100, 100)
	inner := square(10, 10, 20, 20)
	apart := square(200, 200, 210, 210)

	got := RemoveContained([]orb.Polygon{inner, outer, apart})
	assert.Equal(t, []orb.Polygon{outer, apart}, got)
}

func TestSimplify(t *testing.T) {
	noisy := orb.Polygon{orb.Ring{
		{0, 0}, {5, 0.01}, {10, 0}, {10, 5}, {10.01, 7}, {10, 10}, {0, 10}, {0, 0},
	}}

	got := Simplify([]orb.Polygon{noisy}, 0.1)
	require.Len(t, got, 1)
	assert.Less(t, VertexCount(got), VertexCount([]orb.Polygon{noisy}))
	assert.Equal(t, noisy, Simplify([]orb.Polygon{noisy}, 0)[0])
}

const featureCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "a"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]}},
    {"type": "Feature", "properties": {"name": "b"},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[20,20],[30,20],[30,30],[20,30],[20,20]]],
       [[[40,40],[50,40],[50,50],[40,50],[40,40]]]
     ]}},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "Point", "coordinates": [5,5]}}
  ]
}`

func TestLoadGeoJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zones.geojson"), []byte(featureCollection), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.geojson"), []byte("{"), 0o644))

	polygons, err := LoadGeoJSON(filepath.Join(dir, "zones.geojson"))
	require.NoError(t, err)
	assert.Len(t, polygons, 3)

	_, err = LoadGeoJSON(filepath.Join(dir, "broken.geojson"))
	assert.Error(t, err)

	all, err := LoadGeoJSONDir(dir, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	field := NewPolygonField(all)
	assert.True(t, field.Blocked(25, 25))
	assert.False(t, field.Blocked(35, 35))
}
