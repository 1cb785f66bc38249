package obstacle

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"rrtstar-planner/internal/geometry"
)

// Polygon is an obstacle outline given as a list of vertices
type Polygon struct {
	Vertices []geometry.Point `json:"vertices" yaml:"vertices"`
}

// Orb converts the outline into a closed orb.Polygon
func (p Polygon) Orb() orb.Polygon {
	ring := make(orb.Ring, 0, len(p.Vertices)+1)
	for _, v := range p.Vertices {
		ring = append(ring, v.Orb())
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}
}

// polygonEntry wraps a polygon for R-tree storage
type polygonEntry struct {
	polygon orb.Polygon
	bbox    rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (p *polygonEntry) Bounds() rtreego.Rect {
	return p.bbox
}

// PolygonField is an obstacle field made of polygons, e.g. no-fly zones.
// A cell is blocked when its centre lies inside any polygon.
type PolygonField struct {
	tree  *rtreego.Rtree
	count int
}

// NewPolygonField indexes the polygons. Degenerate polygons with an empty
// bounding box are skipped.
func NewPolygonField(polygons []orb.Polygon) *PolygonField {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	count := 0
	for _, polygon := range polygons {
		bbox, err := boundingRect(polygon.Bound())
		if err != nil {
			continue
		}
		tree.Insert(&polygonEntry{polygon: polygon, bbox: bbox})
		count++
	}

	return &PolygonField{tree: tree, count: count}
}

// NewPolygonFieldFromOutlines indexes vertex-list outlines
func NewPolygonFieldFromOutlines(outlines []Polygon) *PolygonField {
	polygons := make([]orb.Polygon, 0, len(outlines))
	for _, o := range outlines {
		if len(o.Vertices) < 3 {
			continue
		}
		polygons = append(polygons, o.Orb())
	}
	return NewPolygonField(polygons)
}

// Len returns the number of indexed polygons
func (f *PolygonField) Len() int { return f.count }

// Blocked implements Field
func (f *PolygonField) Blocked(x, y int) bool {
	return f.Contains(orb.Point{float64(x) + 0.5, float64(y) + 0.5})
}

// Contains reports whether p lies inside any polygon
func (f *PolygonField) Contains(p orb.Point) bool {
	query := rtreego.Point{p.X(), p.Y()}.ToRect(pointTolerance)
	for _, item := range f.tree.SearchIntersect(query) {
		if planar.PolygonContains(item.(*polygonEntry).polygon, p) {
			return true
		}
	}
	return false
}

// QueryRegion returns polygons whose bounding box intersects the region
func (f *PolygonField) QueryRegion(region orb.Bound) []orb.Polygon {
	bbox, err := boundingRect(region)
	if err != nil {
		return []orb.Polygon{}
	}

	results := f.tree.SearchIntersect(bbox)
	polygons := make([]orb.Polygon, 0, len(results))
	for _, item := range results {
		polygons = append(polygons, item.(*polygonEntry).polygon)
	}
	return polygons
}

const pointTolerance = 1e-6

// boundingRect converts an orb bound to an rtreego rectangle
func boundingRect(b orb.Bound) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{b.Min.X(), b.Min.Y()},
		[]float64{b.Max.X() - b.Min.X(), b.Max.Y() - b.Min.Y()},
	)
}
