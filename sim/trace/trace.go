// Package trace provides per-period price-formation recording for run analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// TraceLevel controls the verbosity of price-formation tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelPeriods captures the price decomposition of every period.
	TraceLevelPeriods TraceLevel = "periods"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:    true,
	TraceLevelPeriods: true,
	"":                true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether period records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelPeriods
}

// PeriodTrace captures how one period's realized price was formed.
type PeriodTrace struct {
	Period            int     `json:"period"`
	PreviousPrice     float64 `json:"previous_price"`      // full-precision carry-in
	SupplyDemandPrice float64 `json:"supply_demand_price"` // undamped clearing price
	TradingImpact     float64 `json:"trading_impact"`      // weight on PreviousPrice
	Price             float64 `json:"price"`               // full-precision realized price
	Deviation         float64 `json:"deviation"`           // |Price - SupplyDemandPrice|
	SquaredDelta      float64 `json:"squared_delta"`       // (Price - PreviousPrice)^2
}

// PriceTrace collects period records during a run.
type PriceTrace struct {
	Config  TraceConfig   `json:"-"`
	Periods []PeriodTrace `json:"periods"`
}

// NewPriceTrace creates a PriceTrace ready for recording.
func NewPriceTrace(config TraceConfig) *PriceTrace {
	return &PriceTrace{
		Config:  config,
		Periods: make([]PeriodTrace, 0),
	}
}

// RecordPeriod appends a period record.
func (pt *PriceTrace) RecordPeriod(record PeriodTrace) {
	pt.Periods = append(pt.Periods, record)
}
