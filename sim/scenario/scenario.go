// Package scenario loads simulation scenarios and named presets from YAML.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/power-market-sim/power-market-sim/sim"
	"github.com/power-market-sim/power-market-sim/sim/trace"
)

// CurrentVersion is the scenario schema version written by this tool.
const CurrentVersion = "1"

// Scenario is one runnable simulation description.
// Loaded from YAML via Load(path).
type Scenario struct {
	Version    string     `yaml:"version"`
	Name       string     `yaml:"name,omitempty"`
	Seed       int64      `yaml:"seed"`
	Comparison bool       `yaml:"comparison"`
	Trace      string     `yaml:"trace,omitempty"` // "", "none" or "periods"
	Market     MarketSpec `yaml:"market"`
}

// MarketSpec mirrors sim.SimulationConfig. Horizon and base fields left out of the
// file take the engine defaults; a value written explicitly, zero included, is kept
// and validated.
type MarketSpec struct {
	FinancialTradingLevel float64  `yaml:"financial_trading_level"`
	RenewablePenetration  float64  `yaml:"renewable_penetration"`
	DemandVolatility      float64  `yaml:"demand_volatility"`
	Periods               *int     `yaml:"periods,omitempty"`
	BasePrice             *float64 `yaml:"base_price,omitempty"`
	BaseDemand            *float64 `yaml:"base_demand,omitempty"`
}

// Config converts the market section to an engine configuration, filling defaults.
func (m MarketSpec) Config() sim.SimulationConfig {
	cfg := sim.SimulationConfig{
		FinancialTradingLevel: m.FinancialTradingLevel,
		RenewablePenetration:  m.RenewablePenetration,
		DemandVolatility:      m.DemandVolatility,
		Periods:               sim.DefaultPeriods,
		BasePrice:             sim.DefaultBasePrice,
		BaseDemand:            sim.DefaultBaseDemand,
	}
	if m.Periods != nil {
		cfg.Periods = *m.Periods
	}
	if m.BasePrice != nil {
		cfg.BasePrice = *m.BasePrice
	}
	if m.BaseDemand != nil {
		cfg.BaseDemand = *m.BaseDemand
	}
	return cfg
}

// TraceConfig returns the trace settings requested by the scenario.
func (s *Scenario) TraceConfig() trace.TraceConfig {
	return trace.TraceConfig{Level: trace.TraceLevel(s.Trace)}
}

// Load reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates scenario YAML.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if s.Version == "" {
		s.Version = CurrentVersion
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the scenario header and its market configuration.
func (s *Scenario) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported scenario version %q; valid: %s", s.Version, CurrentVersion)
	}
	if !trace.IsValidTraceLevel(s.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, periods", s.Trace)
	}
	if err := s.Market.Config().Validate(); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return nil
}

// Marshal renders the scenario as YAML.
func (s *Scenario) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Presets is the structure of defaults.yaml: named scenarios keyed by preset name.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Presets struct {
	Version   string              `yaml:"version"`
	Scenarios map[string]Scenario `yaml:"scenarios"`
}

// LoadPresets parses a presets file with strict field checking.
func LoadPresets(path string) (*Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets: %w", err)
	}
	var p Presets
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing presets: %w", err)
	}
	return &p, nil
}

// Lookup returns the named preset, validated, with its Name filled in.
func (p *Presets) Lookup(name string) (*Scenario, error) {
	s, ok := p.Scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q; available: %v", name, p.Names())
	}
	if s.Name == "" {
		s.Name = name
	}
	if s.Version == "" {
		s.Version = p.Version
	}
	if s.Version == "" {
		s.Version = CurrentVersion
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	logrus.Infof("Using preset scenario %v", name)
	return &s, nil
}

// Names returns the preset names in sorted order.
func (p *Presets) Names() []string {
	names := make([]string, 0, len(p.Scenarios))
	for n := range p.Scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
