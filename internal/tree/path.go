package tree

import (
	"slices"

	"rrtstar-planner/internal/geometry"
)

// Path walks parent links from id up to the root and returns the positions
// ordered root first. It returns nil for NoParent or an unknown id.
func (s *Store) Path(id NodeID) []geometry.Point {
	if !s.valid(id) {
		return nil
	}

	var path []geometry.Point
	for cur := id; cur != NoParent; cur = s.slots[cur].node.Parent {
		path = append(path, s.slots[cur].node.Pos)
		if len(path) > len(s.slots) {
			// a cycle; the tree invariant is broken
			return nil
		}
	}
	slices.Reverse(path)
	return path
}

// Depth returns the number of parent links between id and the root, or -1
// for an unknown id
func (s *Store) Depth(id NodeID) int {
	if !s.valid(id) {
		return -1
	}
	depth := 0
	for cur := s.slots[id].node.Parent; cur != NoParent; cur = s.slots[cur].node.Parent {
		depth++
		if depth > len(s.slots) {
			return -1
		}
	}
	return depth
}

// PathLength sums the edge lengths along a path
func PathLength(path []geometry.Point) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i-1].Distance(path[i])
	}
	return total
}
