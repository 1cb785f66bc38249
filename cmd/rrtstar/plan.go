package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rrtstar-planner/internal/geometry"
	"rrtstar-planner/internal/obstacle"
	"rrtstar-planner/internal/rrtstar"
	"rrtstar-planner/internal/tree"
)

var (
	planStart     string
	planGoal      string
	planMap       string
	planOut       string
	planSeed      int64
	planMaxIter   int
	planPropagate bool
	planMargin    float64
	planJSON      bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan one path and print it",
	Long: `Plan a path from --start to --goal and print the waypoints and cost.

The map may be a PNG/JPEG image (obstacles are cyan pixels unless
map.color is configured), a GeoJSON file, or a directory of GeoJSON files.
Without a map the plane is free. An image map also sets the sampling bounds
to the image size.

Exit Codes:
  0 = Path found
  1 = No path found or error`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planStart, "start", "", "Start point as x,y")
	planCmd.Flags().StringVar(&planGoal, "goal", "", "Goal point as x,y")
	planCmd.Flags().StringVar(&planMap, "map", "", "Obstacle map: image, GeoJSON file or directory")
	planCmd.Flags().StringVar(&planOut, "out", "", "Write the final tree snapshot as JSON")
	planCmd.Flags().Int64Var(&planSeed, "seed", 0, "Random seed, overrides planner.seed")
	planCmd.Flags().IntVar(&planMaxIter, "max-iterations", 0, "Iteration budget, overrides planner.max_iterations")
	planCmd.Flags().BoolVar(&planPropagate, "propagate-costs", false, "Keep descendant costs exact after rewiring")
	planCmd.Flags().Float64Var(&planMargin, "route-margin", 0,
		"Sample only the start-goal box grown by this margin; overrides planner.bounds")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Output as JSON")
	_ = planCmd.MarkFlagRequired("start")
	_ = planCmd.MarkFlagRequired("goal")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	start, err := parsePoint(planStart)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	goal, err := parsePoint(planGoal)
	if err != nil {
		return fmt.Errorf("--goal: %w", err)
	}

	cfg := appConfig.Planner
	if cmd.Flags().Changed("seed") {
		cfg.Seed = planSeed
	}
	if planMaxIter > 0 {
		cfg.MaxIterations = planMaxIter
	}
	if planPropagate {
		cfg.PropagateCosts = true
	}

	field, err := loadMap(planMap)
	if err != nil {
		return err
	}
	if grid, ok := field.(*obstacle.Grid); ok {
		cfg.Bounds = geometry.Bounds{MaxX: float64(grid.Width()), MaxY: float64(grid.Height())}
	}
	if planMargin > 0 {
		cfg.Bounds = geometry.RouteBounds(start, goal, planMargin)
	}

	planner, err := rrtstar.New(cfg, start, goal, field, rrtstar.WithLogger(logger))
	if err != nil {
		return err
	}

	res, runErr := planner.Run(cmd.Context())
	if runErr != nil && !errors.Is(runErr, rrtstar.ErrNoPath) {
		return runErr
	}

	if planOut != "" {
		if err := planner.Snapshot().Save(planOut); err != nil {
			return err
		}
		logger.Infow("snapshot written", "path", planOut)
	}

	out := cmd.OutOrStdout()
	if planJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else if runErr == nil {
		fmt.Fprintf(out, "cost %.3f after %d iterations (first solution at %d), %d nodes\n",
			res.Cost, res.Iterations, res.FirstSolution, res.Nodes)
		fmt.Fprintf(out, "path length %.3f over %d waypoints\n", tree.PathLength(res.Path), len(res.Path))
		for i, p := range res.Path {
			fmt.Fprintf(out, "  %3d: (%.3f, %.3f)\n", i, p.X, p.Y)
		}
	}
	return runErr
}

// parsePoint reads "x,y"
func parsePoint(s string) (geometry.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geometry.Point{}, fmt.Errorf("expected x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid y: %w", err)
	}
	return geometry.Point{X: x, Y: y}, nil
}

// loadMap picks the loader by path: directory, GeoJSON file or image. An
// empty path falls back to the configured map.
func loadMap(path string) (obstacle.Field, error) {
	if path == "" {
		return appConfig.Map.LoadField(logger)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map: %w", err)
	}

	m := appConfig.Map
	m.Image, m.GeoJSONDir = "", ""
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case info.IsDir():
		m.GeoJSONDir = path
	case ext == ".geojson" || ext == ".json":
		polygons, err := obstacle.LoadGeoJSON(path)
		if err != nil {
			return nil, err
		}
		if m.RemoveContained {
			polygons = obstacle.RemoveContained(polygons)
		}
		if m.SimplifyEpsilon > 0 {
			polygons = obstacle.Simplify(polygons, m.SimplifyEpsilon)
		}
		return obstacle.NewPolygonField(polygons), nil
	default:
		m.Image = path
	}
	return m.LoadField(logger)
}
