package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rrtstar-planner/internal/geometry"
	"rrtstar-planner/internal/rrtstar"
)

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("12.5, -3")
	require.NoError(t, err)
	assert.Equal(t, geometry.Point{X: 12.5, Y: -3}, p)

	for _, bad := range []string{"", "1", "1,2,3", "a,2", "1,b"} {
		_, err := parsePoint(bad)
		assert.Error(t, err, bad)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPlanCommand(t *testing.T) {
	snapshot := filepath.Join(t.TempDir(), "tree.json")
	out, err := execute(t, "plan", "--log-level", "error",
		"--start", "100,100", "--goal", "400,300",
		"--max-iterations", "3000", "--out", snapshot)
	require.NoError(t, err, out)
	assert.True(t, strings.HasPrefix(out, "cost "), out)

	s, err := rrtstar.LoadSnapshot(snapshot)
	require.NoError(t, err)
	assert.True(t, s.Found)
	assert.Equal(t, geometry.Point{X: 100, Y: 100}, s.Start)
	assert.Len(t, s.Lines(), len(s.Nodes)-1)
}

func TestPlanCommandRejectsBadPoint(t *testing.T) {
	_, err := execute(t, "plan", "--log-level", "error", "--start", "1;2", "--goal", "3,4")
	assert.Error(t, err)
}

func TestBenchCommand(t *testing.T) {
	out, err := execute(t, "bench", "--log-level", "error",
		"--trials", "3", "--parallel", "2", "--start", "100,100", "--goal", "300,200")
	require.NoError(t, err, out)
	assert.Contains(t, out, "3/3 trials found a path")
}
