// Package geometry holds the planar primitives shared by the planner and the
// obstacle fields.
package geometry

import (
	"math"
	"math/rand"

	"github.com/paulmach/orb"
)

// Point is a position in the 2-D planning plane
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Steer moves from p toward target by at most step.
// A target closer than step is returned unchanged.
func (p Point) Steer(target Point, step float64) Point {
	dist := p.Distance(target)
	if dist <= step {
		return target
	}
	ratio := step / dist
	return Point{
		X: p.X + ratio*(target.X-p.X),
		Y: p.Y + ratio*(target.Y-p.Y),
	}
}

// Orb converts the point to an orb.Point
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// FromOrb converts an orb.Point
func FromOrb(p orb.Point) Point {
	return Point{X: p.X(), Y: p.Y()}
}

// Bounds is the axis-aligned sampling domain
type Bounds struct {
	MinX float64 `json:"minX" yaml:"min_x"`
	MinY float64 `json:"minY" yaml:"min_y"`
	MaxX float64 `json:"maxX" yaml:"max_x" validate:"gtfield=MinX"`
	MaxY float64 `json:"maxY" yaml:"max_y" validate:"gtfield=MinY"`
}

// Width of the domain
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height of the domain
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Area of the domain
func (b Bounds) Area() float64 { return b.Width() * b.Height() }

// Contains reports whether p lies inside the closed rectangle
func (b Bounds) Contains(p Point) bool {
	return b.Orb().Contains(p.Orb())
}

// Sample draws a uniform point over the rectangle
func (b Bounds) Sample(rng *rand.Rand) Point {
	return Point{
		X: b.MinX + rng.Float64()*b.Width(),
		Y: b.MinY + rng.Float64()*b.Height(),
	}
}

// Orb converts the bounds to an orb.Bound
func (b Bounds) Orb() orb.Bound {
	return orb.Bound{Min: orb.Point{b.MinX, b.MinY}, Max: orb.Point{b.MaxX, b.MaxY}}
}

// BoundsFromOrb converts an orb.Bound
func BoundsFromOrb(b orb.Bound) Bounds {
	return Bounds{MinX: b.Min.X(), MinY: b.Min.Y(), MaxX: b.Max.X(), MaxY: b.Max.Y()}
}

// RouteBounds is the box spanned by a and b, grown by margin on every side
func RouteBounds(a, b Point, margin float64) Bounds {
	return Bounds{
		MinX: math.Min(a.X, b.X) - margin,
		MinY: math.Min(a.Y, b.Y) - margin,
		MaxX: math.Max(a.X, b.X) + margin,
		MaxY: math.Max(a.Y, b.Y) + margin,
	}
}
