// Derives run-level market metrics from the per-period running sums.

package sim

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Liquidity is average volume per unit of market volatility.
// It is undefined when the price path has zero variance.
type Liquidity struct {
	value   float64
	defined bool
}

// NewLiquidity wraps a finite liquidity value.
func NewLiquidity(v float64) Liquidity {
	return Liquidity{value: v, defined: true}
}

// UndefinedLiquidity is the sentinel reported for zero-volatility runs.
func UndefinedLiquidity() Liquidity {
	return Liquidity{}
}

// Value returns the liquidity and whether it is defined.
func (l Liquidity) Value() (float64, bool) {
	return l.value, l.defined
}

// Defined reports whether the value is meaningful.
func (l Liquidity) Defined() bool {
	return l.defined
}

func (l Liquidity) String() string {
	if !l.defined {
		return "undefined"
	}
	return strconv.FormatFloat(l.value, 'f', 2, 64)
}

// MarshalJSON encodes undefined liquidity as null.
func (l Liquidity) MarshalJSON() ([]byte, error) {
	if !l.defined {
		return []byte("null"), nil
	}
	return json.Marshal(l.value)
}

// UnmarshalJSON accepts a number or null.
func (l *Liquidity) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = UndefinedLiquidity()
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decoding liquidity: %w", err)
	}
	*l = NewLiquidity(v)
	return nil
}

// MarketMetrics summarizes one run. Computed once after the last period.
type MarketMetrics struct {
	AvgVolume        float64   `json:"avg_volume"`
	PriceEfficiency  float64   `json:"price_efficiency"` // unclamped; may leave [0, 100] in extreme markets
	MarketVolatility float64   `json:"market_volatility"`
	Liquidity        Liquidity `json:"liquidity"`
}

// runAccumulator holds the running sums of a single run.
type runAccumulator struct {
	periods        int
	totalVolume    float64
	discoverySpeed float64 // sum of |price - supply-demand price|
	squaredDeltas  float64 // sum of (price - previous price)^2
}

func (a *runAccumulator) add(d PeriodDraw, previousPrice float64) {
	a.periods++
	a.totalVolume += d.Record.Volume
	a.discoverySpeed += math.Abs(d.Price - d.SupplyDemandPrice)
	delta := d.Price - previousPrice
	a.squaredDeltas += delta * delta
}

func (a *runAccumulator) metrics(basePrice float64) MarketMetrics {
	if a.periods == 0 {
		return MarketMetrics{Liquidity: UndefinedLiquidity()}
	}
	n := float64(a.periods)
	avgVolume := a.totalVolume / n
	volatility := math.Sqrt(a.squaredDeltas / n)

	liquidity := UndefinedLiquidity()
	if volatility > 0 {
		liquidity = NewLiquidity(avgVolume / volatility)
	}

	return MarketMetrics{
		AvgVolume:        avgVolume,
		PriceEfficiency:  100 - (a.discoverySpeed / n / basePrice * 100),
		MarketVolatility: volatility,
		Liquidity:        liquidity,
	}
}

// EfficiencyRating buckets a price-efficiency score into a short description.
func EfficiencyRating(priceEfficiency float64) string {
	switch {
	case priceEfficiency > 95:
		return "highly efficient"
	case priceEfficiency > 80:
		return "efficient"
	case priceEfficiency > 60:
		return "moderately efficient"
	default:
		return "inefficient"
	}
}

// Print displays the metrics of a run.
func (m MarketMetrics) Print() {
	fmt.Println("=== Market Metrics ===")
	fmt.Printf("Average Volume       : %.2f\n", m.AvgVolume)
	fmt.Printf("Price Efficiency     : %.2f%% (%s)\n", m.PriceEfficiency, EfficiencyRating(m.PriceEfficiency))
	fmt.Printf("Market Volatility    : %.2f\n", m.MarketVolatility)
	fmt.Printf("Liquidity            : %s\n", m.Liquidity)
}
