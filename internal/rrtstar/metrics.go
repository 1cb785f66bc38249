package rrtstar

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors planners report to. One Metrics may
// be shared by many planners; a nil *Metrics records nothing.
type Metrics struct {
	Iterations  prometheus.Counter
	NodesAdded  prometheus.Counter
	Rejected    *prometheus.CounterVec
	Rewires     prometheus.Counter
	Solutions   *prometheus.CounterVec
	RunDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Iterations: factory.NewCounter(prometheus.CounterOpts{
			Name: "rrtstar_iterations_total",
			Help: "Planner iterations executed",
		}),
		NodesAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "rrtstar_nodes_added_total",
			Help: "Nodes planted in planning trees",
		}),
		Rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rrtstar_samples_rejected_total",
			Help: "Iterations that added no node, by reason",
		}, []string{"reason"}),
		Rewires: factory.NewCounter(prometheus.CounterOpts{
			Name: "rrtstar_rewires_total",
			Help: "Nodes re-parented through a cheaper neighbour",
		}),
		Solutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rrtstar_solutions_total",
			Help: "Goal connections accepted, first or improved",
		}, []string{"kind"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rrtstar_run_duration_seconds",
			Help:    "Wall time of complete planning runs",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
}

func (m *Metrics) iteration() {
	if m != nil {
		m.Iterations.Inc()
	}
}

func (m *Metrics) nodeAdded() {
	if m != nil {
		m.NodesAdded.Inc()
	}
}

func (m *Metrics) rejected(reason string) {
	if m != nil {
		m.Rejected.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) rewired() {
	if m != nil {
		m.Rewires.Inc()
	}
}

func (m *Metrics) solution(kind string) {
	if m != nil {
		m.Solutions.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) observeRun(d time.Duration) {
	if m != nil {
		m.RunDuration.Observe(d.Seconds())
	}
}
