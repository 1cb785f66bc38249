package rrtstar

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"rrtstar-planner/internal/geometry"
)

// Config holds the tunables of one planning run. All values are pre-set to
// reasonable defaults by DefaultConfig, but can be tweaked if needed.
type Config struct {
	// Distance a new node moves from its nearest neighbour toward the sample
	StepSize float64 `json:"stepSize" yaml:"step_size" validate:"gt=0"`

	// A node within this distance of the goal tries to connect to it directly
	FinalStep float64 `json:"finalStep" yaml:"final_step" validate:"gte=0"`

	// Upper and lower clamps of the rewiring neighbourhood radius.
	// A zero floor means half the cap.
	RadiusCap   float64 `json:"radiusCap" yaml:"radius_cap" validate:"gt=0"`
	RadiusFloor float64 `json:"radiusFloor" yaml:"radius_floor" validate:"gte=0,ltefield=RadiusCap"`

	// Probability of sampling the goal instead of a uniform point
	GoalSampleRate float64 `json:"goalSampleRate" yaml:"goal_sample_rate" validate:"gte=0,lte=1"`

	MaxIterations int `json:"maxIterations" yaml:"max_iterations" validate:"gt=0"`

	// Nodes to add after the first solution before stopping
	RefinementBudget int `json:"refinementBudget" yaml:"refinement_budget" validate:"gte=0"`

	// Once the tree holds RewireThreshold nodes, rewire only every
	// RewireStride-th iteration
	RewireThreshold int `json:"rewireThreshold" yaml:"rewire_threshold" validate:"gte=0"`
	RewireStride    int `json:"rewireStride" yaml:"rewire_stride" validate:"gte=1"`

	// Push cost changes down to the descendants of rewired nodes
	PropagateCosts bool `json:"propagateCosts" yaml:"propagate_costs"`

	// Sampling domain
	Bounds geometry.Bounds `json:"bounds" yaml:"bounds"`

	Seed int64 `json:"seed" yaml:"seed"`

	// Iterations between progress logs; zero disables them
	LogInterval int `json:"logInterval" yaml:"log_interval" validate:"gte=0"`
}

// DefaultConfig returns the defaults for an 800×600 map
func DefaultConfig() Config {
	return Config{
		StepSize:         20,
		FinalStep:        50,
		RadiusCap:        200,
		GoalSampleRate:   0.1,
		MaxIterations:    10000,
		RefinementBudget: 2000,
		RewireThreshold:  1000,
		RewireStride:     5,
		Bounds:           geometry.Bounds{MinX: 0, MinY: 0, MaxX: 800, MaxY: 600},
		Seed:             1,
		LogInterval:      1000,
	}
}

var validate = validator.New()

// Validate checks the configuration
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid planner config: %w", err)
	}
	return nil
}

func (c Config) radiusFloor() float64 {
	if c.RadiusFloor > 0 {
		return c.RadiusFloor
	}
	return c.RadiusCap / 2
}
