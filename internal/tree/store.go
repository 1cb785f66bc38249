// Package tree stores the nodes of a planning tree.
//
// Nodes live in an arena and refer to their parent by index. The store answers
// nearest-node and radius queries through an R-tree, with results identical to
// a linear scan over the nodes in insertion order. It never changes a node's
// parent or cost on its own; the planner does that through Reparent.
package tree

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"

	"rrtstar-planner/internal/geometry"
)

// NodeID addresses a node in the store
type NodeID int

// NoParent marks the root
const NoParent NodeID = -1

var (
	// ErrUnknownNode is returned for ids that are not live in the store
	ErrUnknownNode = errors.New("unknown node")
	// ErrRemoveRoot is returned when removing the root
	ErrRemoveRoot = errors.New("cannot remove the root node")
	// ErrHasChildren is returned when removing a node other nodes still parent through
	ErrHasChildren = errors.New("node has children")
)

// Node is a planted point of the tree
type Node struct {
	ID     NodeID         `json:"id"`
	Pos    geometry.Point `json:"pos"`
	Parent NodeID         `json:"parent"`
	Cost   float64        `json:"cost"`

	// Terminal nodes (goal connections) are listed but never returned by
	// Nearest or WithinRadius, so nothing is ever attached to them.
	Terminal bool `json:"terminal,omitempty"`
}

type slot struct {
	node     Node
	removed  bool
	children []NodeID
	entry    *indexEntry
}

// indexEntry wraps a node position for R-tree storage
type indexEntry struct {
	id   NodeID
	pos  geometry.Point
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *indexEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// indexTolerance is the half-size of the box a node occupies in the index
const indexTolerance = 1e-9

// Store owns every node of one tree
type Store struct {
	slots []slot
	index *rtreego.Rtree
	live  int
}

// NewStore creates a store holding only the root at pos
func NewStore(root geometry.Point) *Store {
	s := &Store{
		index: rtreego.NewTree(2, 25, 50),
	}
	s.Insert(Node{Pos: root, Parent: NoParent})
	return s
}

// Root returns the id of the root node
func (s *Store) Root() NodeID { return 0 }

// Len returns the number of live nodes, terminals included
func (s *Store) Len() int { return s.live }

// Insert adds a node and returns its id. The ID field of n is ignored.
func (s *Store) Insert(n Node) NodeID {
	id := NodeID(len(s.slots))
	n.ID = id

	sl := slot{node: n}
	if !n.Terminal {
		sl.entry = &indexEntry{
			id:   id,
			pos:  n.Pos,
			bbox: rtreego.Point{n.Pos.X, n.Pos.Y}.ToRect(indexTolerance),
		}
		s.index.Insert(sl.entry)
	}
	s.slots = append(s.slots, sl)
	s.live++

	if n.Parent != NoParent && s.valid(n.Parent) {
		p := &s.slots[n.Parent]
		p.children = append(p.children, id)
	}
	return id
}

func (s *Store) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(s.slots) && !s.slots[id].removed
}

// Node returns a copy of the node with the given id
func (s *Store) Node(id NodeID) (Node, bool) {
	if !s.valid(id) {
		return Node{}, false
	}
	return s.slots[id].node, true
}

// Nodes returns copies of all live nodes in insertion order
func (s *Store) Nodes() []Node {
	nodes := make([]Node, 0, s.live)
	for i := range s.slots {
		if !s.slots[i].removed {
			nodes = append(nodes, s.slots[i].node)
		}
	}
	return nodes
}

// Children returns the ids of the nodes whose parent is id
func (s *Store) Children(id NodeID) []NodeID {
	if !s.valid(id) {
		return nil
	}
	return append([]NodeID(nil), s.slots[id].children...)
}

// Remove deletes a leaf node. The root and nodes with children cannot be
// removed.
func (s *Store) Remove(id NodeID) error {
	if !s.valid(id) {
		return fmt.Errorf("remove %d: %w", id, ErrUnknownNode)
	}
	if id == s.Root() {
		return ErrRemoveRoot
	}
	sl := &s.slots[id]
	if len(sl.children) > 0 {
		return fmt.Errorf("remove %d: %w", id, ErrHasChildren)
	}

	if sl.entry != nil {
		s.index.Delete(sl.entry)
		sl.entry = nil
	}
	s.detach(id, sl.node.Parent)
	sl.removed = true
	s.live--
	return nil
}

// Reparent points id at a new parent and records its new cost. Descendant
// costs are left untouched; see PropagateCosts.
func (s *Store) Reparent(id, parent NodeID, cost float64) error {
	if !s.valid(id) || !s.valid(parent) {
		return fmt.Errorf("reparent %d to %d: %w", id, parent, ErrUnknownNode)
	}
	sl := &s.slots[id]
	s.detach(id, sl.node.Parent)
	sl.node.Parent = parent
	sl.node.Cost = cost
	p := &s.slots[parent]
	p.children = append(p.children, id)
	return nil
}

func (s *Store) detach(id, parent NodeID) {
	if !s.valid(parent) {
		return
	}
	children := s.slots[parent].children
	for i, c := range children {
		if c == id {
			s.slots[parent].children = append(children[:i], children[i+1:]...)
			return
		}
	}
}

// PropagateCosts recomputes the cost of every descendant of id from its
// parent's cost plus the edge length. It returns the ids it updated.
func (s *Store) PropagateCosts(id NodeID) []NodeID {
	if !s.valid(id) {
		return nil
	}
	var updated []NodeID
	queue := append([]NodeID(nil), s.slots[id].children...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		sl := &s.slots[cur]
		parent := s.slots[sl.node.Parent].node
		sl.node.Cost = parent.Cost + parent.Pos.Distance(sl.node.Pos)
		updated = append(updated, cur)
		queue = append(queue, sl.children...)
	}
	return updated
}

// Nearest returns the non-terminal node closest to p, ties broken by earliest
// insertion. The boolean is false only when there is no such node.
func (s *Store) Nearest(p geometry.Point) (NodeID, bool) {
	if s.index.Size() == 0 {
		return NoParent, false
	}

	hit := s.index.NearestNeighbor(rtreego.Point{p.X, p.Y})
	if hit == nil {
		return NoParent, false
	}
	best := hit.(*indexEntry)
	bestDist := best.pos.Distance(p)

	// The index only promises a nearest box; resolve exact distance and ties
	// over every node in the disc it bounds.
	for _, e := range s.searchDisc(p, bestDist) {
		d := e.pos.Distance(p)
		if d < bestDist || (d == bestDist && e.id < best.id) {
			best, bestDist = e, d
		}
	}
	return best.id, true
}

// WithinRadius returns the non-terminal nodes at distance <= r from p in
// insertion order
func (s *Store) WithinRadius(p geometry.Point, r float64) []NodeID {
	if r < 0 {
		return nil
	}
	entries := s.searchDisc(p, r)
	ids := make([]NodeID, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}

// searchDisc collects index entries within distance r of p, sorted by id
func (s *Store) searchDisc(p geometry.Point, r float64) []*indexEntry {
	pad := r + 2*indexTolerance
	query, err := rtreego.NewRect(
		rtreego.Point{p.X - pad, p.Y - pad},
		[]float64{2 * pad, 2 * pad},
	)
	if err != nil {
		return nil
	}

	var entries []*indexEntry
	for _, item := range s.index.SearchIntersect(query) {
		e := item.(*indexEntry)
		if e.pos.Distance(p) <= r {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	return entries
}
