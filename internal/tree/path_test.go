package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rrtstar-planner/internal/geometry"
)

func TestPath(t *testing.T) {
	s := NewStore(geometry.Point{X: 0, Y: 0})
	a := s.Insert(Node{Pos: geometry.Point{X: 3, Y: 4}, Parent: s.Root(), Cost: 5})
	b := s.Insert(Node{Pos: geometry.Point{X: 6, Y: 8}, Parent: a, Cost: 10})
	c := s.Insert(Node{Pos: geometry.Point{X: 6, Y: 18}, Parent: b, Cost: 20})

	path := s.Path(c)
	require.Len(t, path, s.Depth(c)+1)
	assert.Equal(t, []geometry.Point{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 6, Y: 8}, {X: 6, Y: 18}}, path)
	assert.InDelta(t, 20.0, PathLength(path), 1e-9)
}

func TestPathOfRoot(t *testing.T) {
	s := NewStore(geometry.Point{X: 7, Y: 7})
	assert.Equal(t, []geometry.Point{{X: 7, Y: 7}}, s.Path(s.Root()))
	assert.Zero(t, s.Depth(s.Root()))
	assert.Zero(t, PathLength(s.Path(s.Root())))
}

func TestPathOfMissingNode(t *testing.T) {
	s := NewStore(geometry.Point{X: 0, Y: 0})
	assert.Nil(t, s.Path(NoParent))
	assert.Nil(t, s.Path(NodeID(5)))
	assert.Equal(t, -1, s.Depth(NodeID(5)))
}

func TestPathFollowsRewiredLinks(t *testing.T) {
	s := NewStore(geometry.Point{X: 0, Y: 0})
	a := s.Insert(Node{Pos: geometry.Point{X: 0, Y: 10}, Parent: s.Root(), Cost: 10})
	b := s.Insert(Node{Pos: geometry.Point{X: 10, Y: 10}, Parent: a, Cost: 20})
	require.NoError(t, s.Reparent(b, s.Root(), 14.142135623730951))

	assert.Equal(t, []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}, s.Path(b))
}
