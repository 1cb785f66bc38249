// Package bench runs repeated seeded plans in parallel and summarizes them.
package bench

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"rrtstar-planner/internal/geometry"
	"rrtstar-planner/internal/obstacle"
	"rrtstar-planner/internal/rrtstar"
)

// Options of a benchmark
type Options struct {
	Config   rrtstar.Config
	Start    geometry.Point
	Goal     geometry.Point
	Field    obstacle.Field
	Trials   int
	Parallel int
	Metrics  *rrtstar.Metrics
	Logger   *zap.SugaredLogger
}

// Trial is the outcome of one seeded run
type Trial struct {
	Seed          int64   `json:"seed"`
	Found         bool    `json:"found"`
	Cost          float64 `json:"cost,omitempty"`
	FirstSolution int     `json:"firstSolution,omitempty"`
	Iterations    int     `json:"iterations"`
	Nodes         int     `json:"nodes"`
}

// Report summarizes all trials. Cost and first-solution statistics cover
// successful trials only.
type Report struct {
	Trials      []Trial       `json:"trials"`
	Successes   int           `json:"successes"`
	SuccessRate float64       `json:"successRate"`
	CostMean    float64       `json:"costMean"`
	CostStdDev  float64       `json:"costStdDev"`
	CostMedian  float64       `json:"costMedian"`
	CostMin     float64       `json:"costMin"`
	FirstMean   float64       `json:"firstSolutionMean"`
	IterMean    float64       `json:"iterationsMean"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Run plans Trials times with seeds Config.Seed, Config.Seed+1, ... using at
// most Parallel planners at once
func Run(ctx context.Context, opts Options) (Report, error) {
	if opts.Trials <= 0 {
		return Report{}, fmt.Errorf("trials must be positive, got %d", opts.Trials)
	}
	if opts.Parallel <= 0 {
		opts.Parallel = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	started := time.Now()
	trials := make([]Trial, opts.Trials)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallel)
	for i := range trials {
		g.Go(func() error {
			cfg := opts.Config
			cfg.Seed += int64(i)

			p, err := rrtstar.New(cfg, opts.Start, opts.Goal, opts.Field,
				rrtstar.WithLogger(opts.Logger.With("trial", i)),
				rrtstar.WithMetrics(opts.Metrics),
			)
			if err != nil {
				return err
			}

			res, err := p.Run(ctx)
			if err != nil && !errors.Is(err, rrtstar.ErrNoPath) {
				return fmt.Errorf("trial %d: %w", i, err)
			}

			trials[i] = Trial{
				Seed:       cfg.Seed,
				Found:      err == nil,
				Iterations: res.Iterations,
				Nodes:      res.Nodes,
			}
			if err == nil {
				trials[i].Cost = res.Cost
				trials[i].FirstSolution = res.FirstSolution
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := summarize(trials)
	report.Elapsed = time.Since(started)
	return report, nil
}

func summarize(trials []Trial) Report {
	report := Report{Trials: trials}

	var costs, firsts []float64
	iters := make([]float64, 0, len(trials))
	for _, t := range trials {
		iters = append(iters, float64(t.Iterations))
		if t.Found {
			costs = append(costs, t.Cost)
			firsts = append(firsts, float64(t.FirstSolution))
		}
	}

	report.Successes = len(costs)
	report.SuccessRate = float64(len(costs)) / float64(len(trials))
	report.IterMean = stat.Mean(iters, nil)

	if len(costs) > 0 {
		report.CostMean, report.CostStdDev = stat.MeanStdDev(costs, nil)
		if len(costs) == 1 {
			report.CostStdDev = 0
		}
		sort.Float64s(costs)
		report.CostMedian = stat.Quantile(0.5, stat.Empirical, costs, nil)
		report.CostMin = costs[0]
		report.FirstMean = stat.Mean(firsts, nil)
	}
	return report
}
