package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// SweepPoint is the outcome of one run in a trading-level sweep.
type SweepPoint struct {
	TradingLevel float64       `json:"trading_level"`
	Metrics      MarketMetrics `json:"metrics"`
	MeanPrice    float64       `json:"mean_price"`
	PriceStdDev  float64       `json:"price_std_dev"`
	MeanSpread   float64       `json:"mean_spread"`
}

// DefaultSweepLevels returns 0, 10, ..., 100.
func DefaultSweepLevels() []float64 {
	levels := make([]float64, 0, 11)
	for l := 0; l <= 100; l += 10 {
		levels = append(levels, float64(l))
	}
	return levels
}

// Sweep runs cfg once per trading level, holding every other field fixed.
// Point i draws from stream SubsystemSweep(i) of key, so adding levels never
// perturbs earlier points.
func Sweep(cfg SimulationConfig, key SimulationKey, levels []float64) ([]SweepPoint, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("sweep requires at least one trading level")
	}
	rng := NewPartitionedRNG(key)
	points := make([]SweepPoint, 0, len(levels))
	for i, level := range levels {
		run, err := RunSimulation(cfg.WithTradingLevel(level), rng.ForSubsystem(SubsystemSweep(i)))
		if err != nil {
			return nil, fmt.Errorf("sweep level %v: %w", level, err)
		}
		prices := run.Prices()
		point := SweepPoint{
			TradingLevel: level,
			Metrics:      run.Metrics,
			MeanPrice:    stat.Mean(prices, nil),
			MeanSpread:   stat.Mean(run.Spreads(), nil),
		}
		// sample std dev needs two observations
		if len(prices) > 1 {
			point.PriceStdDev = stat.StdDev(prices, nil)
		}
		points = append(points, point)
	}
	logrus.Infof("Sweep complete: %d trading levels", len(points))
	return points, nil
}
