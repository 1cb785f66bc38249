package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"rrtstar-planner/internal/bench"
)

var (
	benchStart    string
	benchGoal     string
	benchMap      string
	benchTrials   int
	benchParallel int
	benchJSON     bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Plan repeatedly with consecutive seeds and report statistics",
	Long: `Run --trials plans, seeded planner.seed, planner.seed+1, ..., with up to
--parallel planners at once. Reports the success rate and the mean, spread
and median of the path cost over successful trials.

Examples:
  rrtstar bench --trials 32 --parallel 8
  rrtstar bench --start 50,50 --goal 750,550 --map map.png --json`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVar(&benchStart, "start", "50,50", "Start point as x,y")
	benchCmd.Flags().StringVar(&benchGoal, "goal", "750,550", "Goal point as x,y")
	benchCmd.Flags().StringVar(&benchMap, "map", "", "Obstacle map: image, GeoJSON file or directory")
	benchCmd.Flags().IntVar(&benchTrials, "trials", 16, "Number of runs")
	benchCmd.Flags().IntVar(&benchParallel, "parallel", runtime.NumCPU(), "Concurrent runs")
	benchCmd.Flags().BoolVar(&benchJSON, "json", false, "Output as JSON")

	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	start, err := parsePoint(benchStart)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	goal, err := parsePoint(benchGoal)
	if err != nil {
		return fmt.Errorf("--goal: %w", err)
	}

	field, err := loadMap(benchMap)
	if err != nil {
		return err
	}

	cfg := appConfig.Planner
	cfg.LogInterval = 0

	report, err := bench.Run(cmd.Context(), bench.Options{
		Config:   cfg,
		Start:    start,
		Goal:     goal,
		Field:    field,
		Trials:   benchTrials,
		Parallel: benchParallel,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if benchJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(out, "%d/%d trials found a path (%.1f%%) in %s\n",
		report.Successes, len(report.Trials), 100*report.SuccessRate, report.Elapsed)
	fmt.Fprintf(out, "iterations: mean %.1f\n", report.IterMean)
	if report.Successes > 0 {
		fmt.Fprintf(out, "cost: mean %.3f, stddev %.3f, median %.3f, min %.3f\n",
			report.CostMean, report.CostStdDev, report.CostMedian, report.CostMin)
		fmt.Fprintf(out, "first solution: mean iteration %.1f\n", report.FirstMean)
	}
	return nil
}
