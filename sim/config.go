package sim

import (
	"fmt"
	"math"
)

// Default horizon and market base values used when a caller does not override them.
const (
	DefaultPeriods    = 100
	DefaultBasePrice  = 50.0
	DefaultBaseDemand = 1000.0
)

// Fixed trading levels used for the comparison runs.
const (
	LowTradingLevel  = 10.0
	HighTradingLevel = 90.0
)

// SimulationConfig groups the market parameters of one run.
// The three percentages are in [0, 100]. Treated as a value: the engine never mutates it.
type SimulationConfig struct {
	FinancialTradingLevel float64 `yaml:"financial_trading_level" json:"financial_trading_level"` // share of financially-traded volume (%)
	RenewablePenetration  float64 `yaml:"renewable_penetration" json:"renewable_penetration"`     // scale of renewable generation draws (%)
	DemandVolatility      float64 `yaml:"demand_volatility" json:"demand_volatility"`             // amplitude of demand noise (%)
	Periods               int     `yaml:"periods" json:"periods"`                                 // number of trading periods (>= 1)
	BasePrice             float64 `yaml:"base_price" json:"base_price"`                           // price seed and normalization base (> 0)
	BaseDemand            float64 `yaml:"base_demand" json:"base_demand"`                         // mean demand (> 0)
}

// DefaultConfig returns the baseline market: 50% financial trading, 30% renewables,
// 20% demand volatility over 100 periods.
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
		FinancialTradingLevel: 50,
		RenewablePenetration:  30,
		DemandVolatility:      20,
		Periods:               DefaultPeriods,
		BasePrice:             DefaultBasePrice,
		BaseDemand:            DefaultBaseDemand,
	}
}

// WithTradingLevel returns a copy of c with FinancialTradingLevel replaced.
func (c SimulationConfig) WithTradingLevel(level float64) SimulationConfig {
	c.FinancialTradingLevel = level
	return c
}

// ConfigError reports a SimulationConfig field that violates its invariant.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid simulation config: %s %s", e.Field, e.Reason)
}

// Validate checks the invariants the engine relies on.
// Returns a *ConfigError for the first violation found.
func (c SimulationConfig) Validate() error {
	if c.Periods < 1 {
		return &ConfigError{Field: "periods", Reason: fmt.Sprintf("must be >= 1, got %d", c.Periods)}
	}
	if err := validateFinitePositive("base_price", c.BasePrice); err != nil {
		return err
	}
	if err := validateFinitePositive("base_demand", c.BaseDemand); err != nil {
		return err
	}
	if err := validatePercentage("financial_trading_level", c.FinancialTradingLevel); err != nil {
		return err
	}
	if err := validatePercentage("renewable_penetration", c.RenewablePenetration); err != nil {
		return err
	}
	return validatePercentage("demand_volatility", c.DemandVolatility)
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return &ConfigError{Field: name, Reason: fmt.Sprintf("must be a finite number, got %f", val)}
	}
	if val <= 0 {
		return &ConfigError{Field: name, Reason: fmt.Sprintf("must be positive, got %f", val)}
	}
	return nil
}

func validatePercentage(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return &ConfigError{Field: name, Reason: fmt.Sprintf("must be a finite number, got %f", val)}
	}
	if val < 0 || val > 100 {
		return &ConfigError{Field: name, Reason: fmt.Sprintf("must be in [0, 100], got %f", val)}
	}
	return nil
}
