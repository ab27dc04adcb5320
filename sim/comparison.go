package sim

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// RunComparison runs the primary configuration plus two variants at the fixed
// LowTradingLevel and HighTradingLevel, and attaches the variant price series to
// the primary records by period index. Each run draws from its own stream of key.
// The variants' volume, spread and metrics are discarded.
func RunComparison(cfg SimulationConfig, key SimulationKey, opts ...RunOption) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// PartitionedRNG is single-goroutine; take every stream before fanning out.
	rng := NewPartitionedRNG(key)
	primarySrc := rng.ForSubsystem(SubsystemPrimary)
	lowSrc := rng.ForSubsystem(SubsystemLowTrading)
	highSrc := rng.ForSubsystem(SubsystemHighTrading)

	var (
		wg              sync.WaitGroup
		lowRun, highRun *Run
		lowErr, highErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		lowRun, lowErr = RunSimulation(cfg.WithTradingLevel(LowTradingLevel), lowSrc)
	}()
	go func() {
		defer wg.Done()
		highRun, highErr = RunSimulation(cfg.WithTradingLevel(HighTradingLevel), highSrc)
	}()

	run, err := RunSimulation(cfg, primarySrc, opts...)
	wg.Wait()
	if err != nil {
		return nil, err
	}
	if lowErr != nil {
		return nil, fmt.Errorf("low trading comparison: %w", lowErr)
	}
	if highErr != nil {
		return nil, fmt.Errorf("high trading comparison: %w", highErr)
	}

	if err := mergeComparison(run, lowRun, highRun); err != nil {
		return nil, err
	}
	run.Seed = seedOf(key)
	logrus.Infof("Comparison attached: low=%.0f%% high=%.0f%% over %d periods", LowTradingLevel, HighTradingLevel, len(run.Records))
	return run, nil
}

// mergeComparison copies the variant prices onto the primary records.
func mergeComparison(primary, low, high *Run) error {
	if len(low.Records) != len(primary.Records) || len(high.Records) != len(primary.Records) {
		return fmt.Errorf("comparison length mismatch: primary=%d low=%d high=%d",
			len(primary.Records), len(low.Records), len(high.Records))
	}
	for i := range primary.Records {
		lo := low.Records[i].Price
		hi := high.Records[i].Price
		primary.Records[i].LowTradingPrice = &lo
		primary.Records[i].HighTradingPrice = &hi
	}
	return nil
}
