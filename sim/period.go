package sim

import (
	"math"

	"github.com/shopspring/decimal"
)

// MinSpread is the floor applied to every bid-ask spread draw.
const MinSpread = 0.1

// pricePlaces is the number of decimal places reported for record prices.
const pricePlaces = 2

// PeriodRecord is the reported outcome of one trading period.
// Produced once per period and never mutated afterwards, except that RunComparison
// attaches the comparison prices before the Run is returned.
type PeriodRecord struct {
	Period              int     `json:"period"`               // 1-based
	Price               float64 `json:"price"`                // realized price rounded to 2 dp
	Demand              float64 `json:"demand"`               // drawn demand
	RenewableGeneration float64 `json:"renewable_generation"` // drawn renewable output (>= 0)
	Volume              float64 `json:"volume"`               // traded volume
	Spread              float64 `json:"spread"`               // bid-ask spread (>= MinSpread)

	// Set only by RunComparison.
	LowTradingPrice  *float64 `json:"low_trading_price,omitempty"`
	HighTradingPrice *float64 `json:"high_trading_price,omitempty"`
}

// PeriodDraw is a PeriodRecord plus the full-precision quantities the engine
// needs for carry-forward and metric accumulation.
type PeriodDraw struct {
	Record            PeriodRecord
	Price             float64 // unrounded realized price, carried into the next period
	SupplyDemandPrice float64 // clearing price before trading smoothing
	TradingImpact     float64 // weight given to the previous price
}

// GeneratePeriod simulates one trading period.
// Draws three uniforms from src in a fixed order: renewable generation, demand, spread.
func GeneratePeriod(period int, cfg SimulationConfig, previousPrice float64, src RandomSource) PeriodDraw {
	renewable := src.Float64() * cfg.RenewablePenetration * 10
	demand := cfg.BaseDemand + (src.Float64()-0.5)*cfg.DemandVolatility*20

	sdp := supplyDemandPrice(cfg.BasePrice, demand, cfg.BaseDemand+renewable)
	impact := TradingImpact(cfg.FinancialTradingLevel)
	price := sdp*(1-impact) + previousPrice*impact

	return PeriodDraw{
		Record: PeriodRecord{
			Period:              period,
			Price:               RoundPrice(price),
			Demand:              demand,
			RenewableGeneration: renewable,
			Volume:              TradedVolume(cfg.BaseDemand, cfg.FinancialTradingLevel),
			Spread:              drawSpread(cfg.FinancialTradingLevel, src),
		},
		Price:             price,
		SupplyDemandPrice: sdp,
		TradingImpact:     impact,
	}
}

// TradingImpact is the damping coefficient derived from the financial trading level.
// 0% trading gives 0.1; 100% trading gives 0 (price follows supply and demand exactly).
func TradingImpact(tradingLevel float64) float64 {
	return (100 - tradingLevel) / 1000
}

// TradedVolume is deterministic: base demand scaled up by the financially-traded share.
func TradedVolume(baseDemand, tradingLevel float64) float64 {
	return baseDemand * (1 + tradingLevel/100)
}

// RoundPrice rounds half away from zero to two decimal places.
// Non-finite values are returned unchanged.
func RoundPrice(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return p
	}
	return decimal.NewFromFloat(p).Round(pricePlaces).InexactFloat64()
}

// supplyDemandPrice falls back to basePrice when supply is zero; validated configs never get there.
func supplyDemandPrice(basePrice, demand, supply float64) float64 {
	if supply == 0 {
		return basePrice
	}
	return basePrice * demand / supply
}

func drawSpread(tradingLevel float64, src RandomSource) float64 {
	return math.Max(MinSpread, 1+src.Float64()*2-tradingLevel/25)
}
