package obstacle

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// RemoveContained drops polygons that are fully contained within other
// polygons; they add nothing to the blocked area
func RemoveContained(polygons []orb.Polygon) []orb.Polygon {
	if len(polygons) <= 1 {
		return polygons
	}

	contained := make([]bool, len(polygons))

	for i := 0; i < len(polygons); i++ {
		if contained[i] {
			continue
		}

		for j := 0; j < len(polygons); j++ {
			if i == j || contained[j] {
				continue
			}

			if isPolygonContainedIn(polygons[i], polygons[j]) {
				contained[i] = true
				break
			}

			if isPolygonContainedIn(polygons[j], polygons[i]) {
				contained[j] = true
			}
		}
	}

	result := make([]orb.Polygon, 0, len(polygons))
	for i, polygon := range polygons {
		if !contained[i] {
			result = append(result, polygon)
		}
	}
	return result
}

// isPolygonContainedIn checks if polygon a is fully contained within polygon b
func isPolygonContainedIn(a, b orb.Polygon) bool {
	if len(a) == 0 || len(b) == 0 || len(a[0]) == 0 || len(b[0]) == 0 {
		return false
	}

	outer := b.Bound()
	inner := a.Bound()
	if !outer.Contains(inner.Min) || !outer.Contains(inner.Max) {
		return false
	}

	for _, vertex := range a[0] {
		if !planar.PolygonContains(b, vertex) {
			return false
		}
	}
	return true
}

// Simplify reduces polygon complexity with Douglas-Peucker. A polygon whose
// outer ring would collapse below a triangle is kept as is.
func Simplify(polygons []orb.Polygon, epsilon float64) []orb.Polygon {
	if epsilon <= 0 {
		return polygons
	}

	simplifier := simplify.DouglasPeucker(epsilon)
	result := make([]orb.Polygon, len(polygons))
	for i, polygon := range polygons {
		result[i] = polygon
		simplified, ok := simplifier.Simplify(polygon.Clone()).(orb.Polygon)
		if ok && len(simplified) > 0 && len(simplified[0]) >= 4 {
			result[i] = simplified
		}
	}
	return result
}

// VertexCount totals the vertices of all outer rings
func VertexCount(polygons []orb.Polygon) int {
	n := 0
	for _, p := range polygons {
		if len(p) > 0 {
			n += len(p[0])
		}
	}
	return n
}
