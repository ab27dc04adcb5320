package models

import (
	"github.com/power-market-sim/power-market-sim/sim"
	"github.com/power-market-sim/power-market-sim/sim/trace"
)

// SimulateResponse represents the outcome of one simulation.
type SimulateResponse struct {
	ID               string               `json:"id"`
	Seed             int64                `json:"seed"`
	Config           sim.SimulationConfig `json:"config"`
	Metrics          sim.MarketMetrics    `json:"metrics"`
	EfficiencyRating string               `json:"efficiency_rating"`
	Records          []sim.PeriodRecord   `json:"records,omitempty"`
	TraceSummary     *trace.TraceSummary  `json:"trace_summary,omitempty"`
}

// SweepResponse represents the outcome of a trading-level sweep.
type SweepResponse struct {
	ID     string           `json:"id"`
	Seed   int64            `json:"seed"`
	Points []sim.SweepPoint `json:"points"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
