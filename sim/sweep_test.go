package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSweepLevels(t *testing.T) {
	levels := DefaultSweepLevels()
	require.Len(t, levels, 11)
	assert.Equal(t, 0.0, levels[0])
	assert.Equal(t, 100.0, levels[10])
}

func TestSweep_OnePointPerLevel_MonotoneVolumeAndSpread(t *testing.T) {
	// GIVEN a long horizon so mean spreads are stable
	cfg := DefaultConfig()
	cfg.Periods = 5000
	levels := []float64{0, 25, 50, 75, 100}

	// WHEN swept
	points, err := Sweep(cfg, NewSimulationKey(42), levels)
	require.NoError(t, err)

	// THEN each level appears once, in order
	require.Len(t, points, len(levels))
	for i, p := range points {
		assert.Equal(t, levels[i], p.TradingLevel)
	}

	// THEN volume strictly rises and mean spread never rises
	for i := 1; i < len(points); i++ {
		assert.Greater(t, points[i].Metrics.AvgVolume, points[i-1].Metrics.AvgVolume)
		assert.LessOrEqual(t, points[i].MeanSpread, points[i-1].MeanSpread)
	}
}

func TestSweep_PointsAreStableWhenLevelsAreAppended(t *testing.T) {
	cfg := DefaultConfig()
	key := NewSimulationKey(5)

	short, err := Sweep(cfg, key, []float64{20, 60})
	require.NoError(t, err)
	long, err := Sweep(cfg, key, []float64{20, 60, 90})
	require.NoError(t, err)

	assert.Equal(t, short[0], long[0])
	assert.Equal(t, short[1], long[1])
}

func TestSweep_SinglePeriod_ZeroStdDev(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Periods = 1

	points, err := Sweep(cfg, NewSimulationKey(1), []float64{50})

	require.NoError(t, err)
	assert.Equal(t, 0.0, points[0].PriceStdDev)
}

func TestSweep_Errors(t *testing.T) {
	_, err := Sweep(DefaultConfig(), NewSimulationKey(1), nil)
	assert.Error(t, err)

	_, err = Sweep(DefaultConfig(), NewSimulationKey(1), []float64{50, 150})
	assert.Error(t, err)
}
