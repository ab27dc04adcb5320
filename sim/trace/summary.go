package trace

// TraceSummary aggregates statistics from a PriceTrace.
type TraceSummary struct {
	Periods            int     `json:"periods"`
	MeanDeviation      float64 `json:"mean_deviation"`
	MaxDeviation       float64 `json:"max_deviation"`
	MaxDeviationPeriod int     `json:"max_deviation_period"` // 0 when the trace is empty
	MeanSquaredDelta   float64 `json:"mean_squared_delta"`
	MeanTradingImpact  float64 `json:"mean_trading_impact"`
}

// Summarize computes aggregate statistics from a PriceTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(pt *PriceTrace) *TraceSummary {
	summary := &TraceSummary{}
	if pt == nil || len(pt.Periods) == 0 {
		return summary
	}

	var totalDev, totalSq, totalImpact float64
	for _, p := range pt.Periods {
		totalDev += p.Deviation
		totalSq += p.SquaredDelta
		totalImpact += p.TradingImpact
		if summary.MaxDeviationPeriod == 0 || p.Deviation > summary.MaxDeviation {
			summary.MaxDeviation = p.Deviation
			summary.MaxDeviationPeriod = p.Period
		}
	}

	n := float64(len(pt.Periods))
	summary.Periods = len(pt.Periods)
	summary.MeanDeviation = totalDev / n
	summary.MeanSquaredDelta = totalSq / n
	summary.MeanTradingImpact = totalImpact / n
	return summary
}
