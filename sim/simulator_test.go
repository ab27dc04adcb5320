package sim

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/power-market-sim/power-market-sim/sim/internal/testutil"
)

// endToEndConfig is the reference market used by the reproducibility tests.
func endToEndConfig() SimulationConfig {
	return SimulationConfig{
		FinancialTradingLevel: 50,
		RenewablePenetration:  30,
		DemandVolatility:      20,
		Periods:               100,
		BasePrice:             50,
		BaseDemand:            1000,
	}
}

func TestRunSimulation_RecordCountAndOrder(t *testing.T) {
	tests := []struct {
		name    string
		periods int
		level   float64
	}{
		{"single period", 1, 50},
		{"default horizon", 100, 50},
		{"long horizon, no trading", 1000, 0},
		{"full trading", 37, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a config with the given horizon
			cfg := DefaultConfig()
			cfg.Periods = tt.periods
			cfg.FinancialTradingLevel = tt.level

			// WHEN simulated
			run, err := RunSimulation(cfg, rand.New(rand.NewSource(1)))
			require.NoError(t, err)

			// THEN there is exactly one record per period, numbered 1..N
			require.Len(t, run.Records, tt.periods)
			for i, rec := range run.Records {
				if rec.Period != i+1 {
					t.Fatalf("record %d has period %d, want %d", i, rec.Period, i+1)
				}
			}
		})
	}
}

func TestRunSimulation_VolumeIsDeterministic(t *testing.T) {
	for _, level := range []float64{0, 12.5, 33.3, 50, 100} {
		cfg := DefaultConfig()
		cfg.FinancialTradingLevel = level
		want := cfg.BaseDemand * (1 + level/100)

		run, err := RunSimulation(cfg, rand.New(rand.NewSource(9)))
		require.NoError(t, err)

		for _, rec := range run.Records {
			if rec.Volume != want {
				t.Fatalf("level %v period %d: volume %v, want exactly %v", level, rec.Period, rec.Volume, want)
			}
		}
	}
}

func TestRunSimulation_AvgVolumeEqualsMeanOfRecords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FinancialTradingLevel = 33.3
	run, err := RunSimulation(cfg, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	sum := 0.0
	for _, rec := range run.Records {
		sum += rec.Volume
	}
	assert.Equal(t, sum/float64(len(run.Records)), run.Metrics.AvgVolume)
}

func TestRunSimulation_SpreadFloorAndMonotonicMean(t *testing.T) {
	// GIVEN fixed renewables and demand volatility over a long horizon
	levels := []float64{0, 25, 50, 75, 100}
	means := make([]float64, len(levels))
	for i, level := range levels {
		cfg := DefaultConfig()
		cfg.Periods = 10000
		cfg.FinancialTradingLevel = level

		run, err := Simulate(cfg, NewSimulationKey(int64(100+i)))
		require.NoError(t, err)

		sum := 0.0
		for _, rec := range run.Records {
			// THEN every spread respects the floor
			if rec.Spread < MinSpread {
				t.Fatalf("level %v period %d: spread %v below floor", level, rec.Period, rec.Spread)
			}
			sum += rec.Spread
		}
		means[i] = sum / float64(len(run.Records))
	}

	// THEN mean spread does not increase with trading level
	for i := 1; i < len(means); i++ {
		assert.LessOrEqual(t, means[i], means[i-1], "mean spread rose from level %v to %v", levels[i-1], levels[i])
	}
	assert.InDelta(t, 2.0, means[0], 0.05)
	assert.InDelta(t, MinSpread, means[len(means)-1], 1e-9)
}

func TestRunSimulation_ZeroVariance_ReportsUndefinedLiquidity(t *testing.T) {
	// GIVEN a constant draw of 0.5, no renewables and full trading, so every price equals the base price
	cfg := DefaultConfig()
	cfg.RenewablePenetration = 0
	cfg.FinancialTradingLevel = 100

	// WHEN simulated
	run, err := RunSimulation(cfg, testutil.ConstantSource(0.5))

	// THEN the run completes and liquidity carries the undefined sentinel
	require.NoError(t, err)
	for _, rec := range run.Records {
		require.Equal(t, cfg.BasePrice, rec.Price)
	}
	assert.Equal(t, 0.0, run.Metrics.MarketVolatility)
	assert.False(t, run.Metrics.Liquidity.Defined())
	v, ok := run.Metrics.Liquidity.Value()
	assert.False(t, ok)
	assert.False(t, math.IsInf(v, 0) || math.IsNaN(v), "undefined liquidity must not leak Inf/NaN")
	assert.Equal(t, 100.0, run.Metrics.PriceEfficiency)
}

func TestSimulate_SameSeed_BitIdentical(t *testing.T) {
	// GIVEN the reference market and seed 42
	cfg := endToEndConfig()

	// WHEN simulated twice
	r1, err := Simulate(cfg, NewSimulationKey(42))
	require.NoError(t, err)
	r2, err := Simulate(cfg, NewSimulationKey(42))
	require.NoError(t, err)

	// THEN records and metrics are identical
	assert.Equal(t, r1.Records, r2.Records)
	assert.Equal(t, r1.Metrics, r2.Metrics)
	require.NotNil(t, r1.Seed)
	assert.Equal(t, int64(42), *r1.Seed)
}

func TestSimulate_DifferentSeeds_Diverge(t *testing.T) {
	cfg := endToEndConfig()

	r1, err := Simulate(cfg, NewSimulationKey(1))
	require.NoError(t, err)
	r2, err := Simulate(cfg, NewSimulationKey(2))
	require.NoError(t, err)

	anyDifferent := false
	for i := range r1.Records {
		if r1.Records[i].Price != r2.Records[i].Price {
			anyDifferent = true
			break
		}
	}
	if !anyDifferent {
		t.Error("different seeds produced identical price paths")
	}
}

func TestRunSimulation_CarriesFullPrecisionPrice(t *testing.T) {
	// GIVEN a traced run
	cfg := endToEndConfig()
	run, err := RunSimulation(cfg, rand.New(rand.NewSource(42)), WithTrace())
	require.NoError(t, err)
	require.NotNil(t, run.Trace)
	require.Len(t, run.Trace.Periods, cfg.Periods)

	// THEN period 1 starts from the base price
	assert.Equal(t, cfg.BasePrice, run.Trace.Periods[0].PreviousPrice)

	// THEN each later period starts from the unrounded price of the one before
	for i := 1; i < len(run.Trace.Periods); i++ {
		assert.Equal(t, run.Trace.Periods[i-1].Price, run.Trace.Periods[i].PreviousPrice, "period %d", i+1)
	}

	// THEN reported prices are the rounded internal prices
	for i, p := range run.Trace.Periods {
		assert.Equal(t, RoundPrice(p.Price), run.Records[i].Price)
	}
}

func TestRunSimulation_MetricsMatchTrace(t *testing.T) {
	cfg := endToEndConfig()
	run, err := RunSimulation(cfg, rand.New(rand.NewSource(8)), WithTrace())
	require.NoError(t, err)

	var dev, sq float64
	for _, p := range run.Trace.Periods {
		dev += p.Deviation
		sq += p.SquaredDelta
	}
	n := float64(cfg.Periods)
	testutil.AssertFloat64Equal(t, "price_efficiency", 100-(dev/n/cfg.BasePrice*100), run.Metrics.PriceEfficiency, 1e-12)
	testutil.AssertFloat64Equal(t, "market_volatility", math.Sqrt(sq/n), run.Metrics.MarketVolatility, 1e-12)
	liq, ok := run.Metrics.Liquidity.Value()
	require.True(t, ok)
	testutil.AssertFloat64Equal(t, "liquidity", run.Metrics.AvgVolume/run.Metrics.MarketVolatility, liq, 1e-12)
}

func TestRunSimulation_NoTraceByDefault(t *testing.T) {
	run, err := RunSimulation(DefaultConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Nil(t, run.Trace)
	assert.Nil(t, run.Seed)
}

func TestRunSimulation_ConsumesThreeDrawsPerPeriod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Periods = 10
	src := &testutil.SequenceSource{Values: []float64{0.1, 0.9, 0.4, 0.7}}

	_, err := RunSimulation(cfg, src)

	require.NoError(t, err)
	assert.Equal(t, 30, src.Draws())
}

func TestRunSimulation_InvalidConfig_ReturnsConfigError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Periods = 0

	run, err := RunSimulation(cfg, rand.New(rand.NewSource(1)))

	assert.Nil(t, run)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "periods", cfgErr.Field)
}

func TestRunSimulation_NilSource_ReturnsError(t *testing.T) {
	run, err := RunSimulation(DefaultConfig(), nil)
	assert.Nil(t, run)
	assert.Error(t, err)
}

func TestRunSimulation_HigherTradingImprovesEfficiency(t *testing.T) {
	// GIVEN identical draws for a low and a high trading level
	low := DefaultConfig().WithTradingLevel(0)
	high := DefaultConfig().WithTradingLevel(100)
	low.Periods, high.Periods = 2000, 2000

	lowRun, err := RunSimulation(low, rand.New(rand.NewSource(77)))
	require.NoError(t, err)
	highRun, err := RunSimulation(high, rand.New(rand.NewSource(77)))
	require.NoError(t, err)

	// THEN full trading tracks supply and demand exactly
	assert.Equal(t, 100.0, highRun.Metrics.PriceEfficiency)
	assert.Less(t, lowRun.Metrics.PriceEfficiency, highRun.Metrics.PriceEfficiency)
	assert.Greater(t, highRun.Metrics.AvgVolume, lowRun.Metrics.AvgVolume)
}
