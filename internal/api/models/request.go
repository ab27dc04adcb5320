package models

import "github.com/power-market-sim/power-market-sim/sim"

// SimulateRequest represents a request to run one simulation.
// Config fields missing from the body keep their sim.DefaultConfig values.
type SimulateRequest struct {
	Config         sim.SimulationConfig `json:"config"`
	Seed           *int64               `json:"seed,omitempty"` // nil: server draws one
	Comparison     bool                 `json:"comparison"`
	IncludeRecords bool                 `json:"include_records"`
	Trace          bool                 `json:"trace"`
}

// SweepRequest represents a request to run the market at several trading levels.
type SweepRequest struct {
	Config sim.SimulationConfig `json:"config"`
	Seed   *int64               `json:"seed,omitempty"`
	Levels []float64            `json:"levels,omitempty"` // empty: 0, 10, ..., 100
}

// NewSimulateRequest returns a request prefilled with engine defaults, ready for binding.
func NewSimulateRequest() SimulateRequest {
	return SimulateRequest{Config: sim.DefaultConfig()}
}

// NewSweepRequest returns a sweep request prefilled with engine defaults.
func NewSweepRequest() SweepRequest {
	return SweepRequest{Config: sim.DefaultConfig()}
}
