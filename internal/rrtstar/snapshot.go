package rrtstar

import (
	"encoding/json"
	"fmt"
	"os"

	"rrtstar-planner/internal/geometry"
	"rrtstar-planner/internal/tree"
)

// Snapshot is a read-only copy of the planner state for drawing and export
type Snapshot struct {
	Iteration int              `json:"iteration"`
	Start     geometry.Point   `json:"start"`
	Goal      geometry.Point   `json:"goal"`
	Nodes     []tree.Node      `json:"nodes"`
	Path      []geometry.Point `json:"path,omitempty"`
	BestCost  *float64         `json:"bestCost,omitempty"`
	Found     bool             `json:"found"`
	Done      bool             `json:"done"`
}

// Snapshot copies the current tree and best path
func (p *Planner) Snapshot() Snapshot {
	s := Snapshot{
		Iteration: p.iteration,
		Start:     p.start,
		Goal:      p.goal,
		Nodes:     p.store.Nodes(),
		Found:     p.found,
		Done:      p.Done(),
	}
	if p.found {
		cost := p.bestCost
		s.BestCost = &cost
		s.Path = p.Path()
	}
	return s
}

// Lines returns every parent→child edge as a segment, for drawing the tree
func (s Snapshot) Lines() [][2]geometry.Point {
	pos := make(map[tree.NodeID]geometry.Point, len(s.Nodes))
	for _, n := range s.Nodes {
		pos[n.ID] = n.Pos
	}

	lines := make([][2]geometry.Point, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.Parent == tree.NoParent {
			continue
		}
		if parent, ok := pos[n.Parent]; ok {
			lines = append(lines, [2]geometry.Point{parent, n.Pos})
		}
	}
	return lines
}

// Save serializes the snapshot to a JSON file
func (s Snapshot) Save(filename string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by Save
func LoadSnapshot(filename string) (*Snapshot, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &s, nil
}
