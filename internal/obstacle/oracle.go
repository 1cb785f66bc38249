package obstacle

import (
	"rrtstar-planner/internal/geometry"
)

// IsBlocked reports whether the straight segment p→q touches an obstacle cell.
//
// The segment is walked in unit steps along its direction starting at p, and
// the cell holding q is checked last. Sample coordinates are truncated toward
// zero to pick the cell. A zero-length segment is never blocked.
func IsBlocked(f Field, p, q geometry.Point) bool {
	if p == q {
		return false
	}

	length := p.Distance(q)
	vx := (q.X - p.X) / length
	vy := (q.Y - p.Y) / length

	for t := 0.0; t < length; t++ {
		if blockedAt(f, p.X+vx*t, p.Y+vy*t) {
			return true
		}
	}
	return blockedAt(f, q.X, q.Y)
}

func blockedAt(f Field, x, y float64) bool {
	return f.Blocked(int(x), int(y))
}
