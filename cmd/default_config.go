package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/power-market-sim/power-market-sim/sim"
	"github.com/power-market-sim/power-market-sim/sim/scenario"
	"github.com/power-market-sim/power-market-sim/sim/trace"
)

// runSettings is everything a run needs after flags, scenario and preset are merged.
type runSettings struct {
	Config     sim.SimulationConfig
	Seed       int64
	Comparison bool
	Trace      trace.TraceConfig
}

// loadBaseScenario returns the scenario named by --scenario or --preset, or nil when neither is set.
func loadBaseScenario() (*scenario.Scenario, error) {
	if scenarioPath != "" && presetName != "" {
		return nil, fmt.Errorf("--scenario and --preset are mutually exclusive")
	}
	if scenarioPath != "" {
		return scenario.Load(scenarioPath)
	}
	if presetName != "" {
		presets, err := scenario.LoadPresets(defaultsPath)
		if err != nil {
			return nil, err
		}
		return presets.Lookup(presetName)
	}
	return nil, nil
}

// resolveRunSettings merges defaults, the optional scenario/preset and CLI flags.
// A flag only overrides the scenario when the user set it explicitly.
func resolveRunSettings(cmd *cobra.Command) (runSettings, error) {
	s := runSettings{
		Config: sim.DefaultConfig(),
		Seed:   seed,
	}
	base, err := loadBaseScenario()
	if err != nil {
		return s, err
	}
	if base != nil {
		s.Config = base.Market.Config()
		s.Seed = base.Seed
		s.Comparison = base.Comparison
		s.Trace = base.TraceConfig()
	}

	flags := cmd.Flags()
	if base == nil || flags.Changed("financial-trading") {
		s.Config.FinancialTradingLevel = tradingLevel
	}
	if base == nil || flags.Changed("renewables") {
		s.Config.RenewablePenetration = renewables
	}
	if base == nil || flags.Changed("demand-volatility") {
		s.Config.DemandVolatility = demandVolatility
	}
	if base == nil || flags.Changed("periods") {
		s.Config.Periods = periods
	}
	if base == nil || flags.Changed("base-price") {
		s.Config.BasePrice = basePrice
	}
	if base == nil || flags.Changed("base-demand") {
		s.Config.BaseDemand = baseDemand
	}
	if flags.Changed("seed") {
		s.Seed = seed
	}
	if flags.Lookup("compare") != nil && (base == nil || flags.Changed("compare")) {
		s.Comparison = comparison
	}
	if flags.Lookup("trace") != nil && (base == nil || flags.Changed("trace")) {
		if !trace.IsValidTraceLevel(traceLevel) {
			return s, fmt.Errorf("unknown trace level %q; valid: none, periods", traceLevel)
		}
		s.Trace = trace.TraceConfig{Level: trace.TraceLevel(traceLevel)}
	}

	if err := s.Config.Validate(); err != nil {
		return s, err
	}
	return s, nil
}
