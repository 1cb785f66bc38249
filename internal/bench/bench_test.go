package bench

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"rrtstar-planner/internal/geometry"
	"rrtstar-planner/internal/obstacle"
	"rrtstar-planner/internal/rrtstar"
)

func benchConfig() rrtstar.Config {
	cfg := rrtstar.DefaultConfig()
	cfg.Bounds = geometry.Bounds{MinX: 0, MinY: 0, MaxX: 200, MaxY: 200}
	cfg.StepSize = 10
	cfg.FinalStep = 20
	cfg.RadiusCap = 40
	cfg.MaxIterations = 1500
	cfg.RefinementBudget = 100
	return cfg
}

func TestRun(t *testing.T) {
	metrics := rrtstar.NewMetrics(prometheus.NewRegistry())
	opts := Options{
		Config:   benchConfig(),
		Start:    geometry.Point{X: 10, Y: 10},
		Goal:     geometry.Point{X: 190, Y: 190},
		Trials:   6,
		Parallel: 3,
		Metrics:  metrics,
		Logger:   zaptest.NewLogger(t).Sugar(),
	}

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, report.Trials, 6)

	total := 0
	for i, trial := range report.Trials {
		assert.Equal(t, opts.Config.Seed+int64(i), trial.Seed)
		total += trial.Iterations
	}
	assert.Equal(t, float64(total), testutil.ToFloat64(metrics.Iterations))
	assert.Equal(t, 6, report.Successes)
	assert.Equal(t, 1.0, report.SuccessRate)
	assert.GreaterOrEqual(t, report.CostMin, opts.Start.Distance(opts.Goal)-1e-9)
	assert.LessOrEqual(t, report.CostMin, report.CostMedian)
	assert.GreaterOrEqual(t, report.CostStdDev, 0.0)

	// the same seeds give the same trials regardless of scheduling
	opts.Parallel = 1
	again, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, report.Trials, again.Trials)
}

func TestRunCountsFailures(t *testing.T) {
	grid := obstacle.NewGrid(200, 200)
	grid.FillRect(180, 180, 200, 200)

	cfg := benchConfig()
	cfg.MaxIterations = 100
	report, err := Run(context.Background(), Options{
		Config: cfg,
		Start:  geometry.Point{X: 10, Y: 10},
		Goal:   geometry.Point{X: 190, Y: 190},
		Field:  grid,
		Trials: 2,
	})
	require.NoError(t, err)
	assert.Zero(t, report.Successes)
	assert.Zero(t, report.SuccessRate)
	assert.Zero(t, report.CostMean)
	assert.Equal(t, 100.0, report.IterMean)
}

func TestRunErrors(t *testing.T) {
	_, err := Run(context.Background(), Options{Config: benchConfig(), Trials: 0})
	assert.Error(t, err)

	bad := benchConfig()
	bad.StepSize = 0
	_, err = Run(context.Background(), Options{Config: bad, Trials: 2})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, Options{Config: benchConfig(), Goal: geometry.Point{X: 150, Y: 150}, Trials: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	report := summarize([]Trial{
		{Found: true, Cost: 10, FirstSolution: 4, Iterations: 100},
		{Found: true, Cost: 14, FirstSolution: 8, Iterations: 100},
		{Found: false, Iterations: 200},
	})
	assert.Equal(t, 2, report.Successes)
	assert.InDelta(t, 2.0/3.0, report.SuccessRate, 1e-12)
	assert.Equal(t, 12.0, report.CostMean)
	assert.Equal(t, 10.0, report.CostMin)
	assert.Equal(t, 6.0, report.FirstMean)
	assert.InDelta(t, 400.0/3.0, report.IterMean, 1e-9)
	assert.InDelta(t, 2.8284271247, report.CostStdDev, 1e-9)
}
