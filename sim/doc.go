// Package sim provides the stochastic power-market simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - period.go: one trading period (renewables, demand, supply-demand price, damping, spread)
//   - simulator.go: the period loop, full-precision price carry-forward, Run assembly
//   - metrics.go: MarketMetrics derivation and the undefined-liquidity sentinel
//   - comparison.go: low/high trading-level variants merged into the primary records
//
// # Randomness
//
// Every draw comes from an injected RandomSource. PartitionedRNG derives one
// *rand.Rand per run stream (primary, low-trading, high-trading, sweep_N) from a
// single SimulationKey, so the same key and configuration reproduce a run exactly.
//
// # Sub-packages
//   - sim/trace: per-period price-formation records and their summary
//   - sim/scenario: YAML scenario files and named presets
//   - sim/report: CSV and JSON export of a Run
package sim
