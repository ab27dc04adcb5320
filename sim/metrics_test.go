package sim

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAccumulator_HandComputedMetrics(t *testing.T) {
	// GIVEN two periods with known prices around base 50
	acc := &runAccumulator{}
	acc.add(PeriodDraw{Record: PeriodRecord{Volume: 1500}, Price: 52, SupplyDemandPrice: 53}, 50)
	acc.add(PeriodDraw{Record: PeriodRecord{Volume: 1500}, Price: 49, SupplyDemandPrice: 47}, 52)

	// WHEN metrics are derived
	m := acc.metrics(50)

	// THEN avg volume = 1500, discovery = (1+2)/2/50*100 = 3, volatility = sqrt((4+9)/2)
	assert.Equal(t, 1500.0, m.AvgVolume)
	assert.InDelta(t, 97.0, m.PriceEfficiency, 1e-12)
	assert.InDelta(t, math.Sqrt(6.5), m.MarketVolatility, 1e-12)
	v, ok := m.Liquidity.Value()
	require.True(t, ok)
	assert.InDelta(t, 1500/math.Sqrt(6.5), v, 1e-9)
}

func TestRunAccumulator_ZeroVolatility_UndefinedLiquidity(t *testing.T) {
	acc := &runAccumulator{}
	for i := 0; i < 5; i++ {
		acc.add(PeriodDraw{Record: PeriodRecord{Volume: 1000}, Price: 50, SupplyDemandPrice: 50}, 50)
	}

	m := acc.metrics(50)

	assert.Equal(t, 0.0, m.MarketVolatility)
	assert.False(t, m.Liquidity.Defined())
	assert.Equal(t, "undefined", m.Liquidity.String())
	assert.Equal(t, 100.0, m.PriceEfficiency)
}

func TestRunAccumulator_PriceEfficiencyUnclamped(t *testing.T) {
	// GIVEN a realized price far from the supply-demand price
	acc := &runAccumulator{}
	acc.add(PeriodDraw{Record: PeriodRecord{Volume: 1}, Price: 200, SupplyDemandPrice: 50}, 50)

	// THEN efficiency is reported as-is, below zero
	m := acc.metrics(50)
	assert.InDelta(t, -200.0, m.PriceEfficiency, 1e-12)
}

func TestLiquidity_JSON(t *testing.T) {
	tests := []struct {
		name string
		in   Liquidity
		want string
	}{
		{"defined", NewLiquidity(12.5), "12.5"},
		{"undefined", UndefinedLiquidity(), "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))

			var back Liquidity
			require.NoError(t, json.Unmarshal(b, &back))
			assert.Equal(t, tt.in, back)
		})
	}
}

func TestLiquidity_UnmarshalRejectsGarbage(t *testing.T) {
	var l Liquidity
	assert.Error(t, json.Unmarshal([]byte(`"lots"`), &l))
}

func TestEfficiencyRating_Buckets(t *testing.T) {
	tests := []struct {
		eff  float64
		want string
	}{
		{99, "highly efficient"},
		{95, "efficient"},
		{80.5, "efficient"},
		{80, "moderately efficient"},
		{60, "inefficient"},
		{-10, "inefficient"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EfficiencyRating(tt.eff), "EfficiencyRating(%v)", tt.eff)
	}
}

func TestMarketMetrics_Print_WritesStdout(t *testing.T) {
	// GIVEN metrics with undefined liquidity
	m := MarketMetrics{AvgVolume: 1500, PriceEfficiency: 97, MarketVolatility: 0, Liquidity: UndefinedLiquidity()}

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// WHEN printed
	m.Print()

	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	// THEN the header and the sentinel appear
	assert.Contains(t, output, "Market Metrics")
	assert.Contains(t, output, "highly efficient")
	assert.Contains(t, output, "undefined")
}
