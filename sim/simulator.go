// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/power-market-sim/power-market-sim/sim/trace"
)

// Run is the complete output of one simulation: records in ascending period order
// plus the metrics derived from them.
type Run struct {
	Config  SimulationConfig  `json:"config"`
	Seed    *int64            `json:"seed,omitempty"` // nil when the caller injected its own RandomSource
	Records []PeriodRecord    `json:"records"`
	Metrics MarketMetrics     `json:"metrics"`
	Trace   *trace.PriceTrace `json:"trace,omitempty"`
}

// runOptions collects optional run behavior.
type runOptions struct {
	trace trace.TraceConfig
}

// RunOption customizes a run.
type RunOption func(*runOptions)

// WithTrace records the price decomposition of every period on Run.Trace.
func WithTrace() RunOption {
	return func(o *runOptions) {
		o.trace = trace.TraceConfig{Level: trace.TraceLevelPeriods}
	}
}

// WithTraceConfig sets the trace configuration explicitly.
func WithTraceConfig(tc trace.TraceConfig) RunOption {
	return func(o *runOptions) {
		o.trace = tc
	}
}

func collectOptions(opts []RunOption) runOptions {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// RunSimulation drives GeneratePeriod over cfg.Periods periods, carrying the
// full-precision realized price forward, and derives the run's metrics.
// Returns a *ConfigError if cfg is invalid.
func RunSimulation(cfg SimulationConfig, src RandomSource, opts ...RunOption) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("random source is nil")
	}
	o := collectOptions(opts)

	run := &Run{
		Config:  cfg,
		Records: make([]PeriodRecord, 0, cfg.Periods),
	}
	if o.trace.Enabled() {
		run.Trace = trace.NewPriceTrace(o.trace)
	}

	acc := &runAccumulator{}
	previousPrice := cfg.BasePrice
	for period := 1; period <= cfg.Periods; period++ {
		d := GeneratePeriod(period, cfg, previousPrice, src)
		run.Records = append(run.Records, d.Record)
		acc.add(d, previousPrice)

		if run.Trace != nil {
			delta := d.Price - previousPrice
			run.Trace.RecordPeriod(trace.PeriodTrace{
				Period:            period,
				PreviousPrice:     previousPrice,
				SupplyDemandPrice: d.SupplyDemandPrice,
				TradingImpact:     d.TradingImpact,
				Price:             d.Price,
				Deviation:         math.Abs(d.Price - d.SupplyDemandPrice),
				SquaredDelta:      delta * delta,
			})
		}
		logrus.Debugf("[period %04d] price=%.4f sdp=%.4f spread=%.4f", period, d.Price, d.SupplyDemandPrice, d.Record.Spread)

		previousPrice = d.Price
	}

	run.Metrics = acc.metrics(cfg.BasePrice)
	if !run.Metrics.Liquidity.Defined() {
		logrus.Warnf("zero market volatility over %d periods; liquidity is undefined", cfg.Periods)
	}
	logrus.Infof("Simulated %d periods at trading level %.1f%%: avg volume %.2f, efficiency %.2f, volatility %.4f",
		cfg.Periods, cfg.FinancialTradingLevel, run.Metrics.AvgVolume, run.Metrics.PriceEfficiency, run.Metrics.MarketVolatility)
	return run, nil
}

// Simulate runs the primary stream of key. Same key and config give a bit-identical Run.
func Simulate(cfg SimulationConfig, key SimulationKey, opts ...RunOption) (*Run, error) {
	rng := NewPartitionedRNG(key)
	run, err := RunSimulation(cfg, rng.ForSubsystem(SubsystemPrimary), opts...)
	if err != nil {
		return nil, err
	}
	run.Seed = seedOf(key)
	return run, nil
}

// Prices returns the reported price series of the run.
func (r *Run) Prices() []float64 {
	prices := make([]float64, len(r.Records))
	for i, rec := range r.Records {
		prices[i] = rec.Price
	}
	return prices
}

// Spreads returns the spread series of the run.
func (r *Run) Spreads() []float64 {
	spreads := make([]float64, len(r.Records))
	for i, rec := range r.Records {
		spreads[i] = rec.Spread
	}
	return spreads
}

func seedOf(key SimulationKey) *int64 {
	s := int64(key)
	return &s
}
