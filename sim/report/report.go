// Package report writes simulation runs to CSV ledgers and JSON documents.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/power-market-sim/power-market-sim/sim"
)

var ledgerHeader = []string{
	"period",
	"price",
	"demand",
	"renewable_generation",
	"volume",
	"spread",
	"low_trading_price",
	"high_trading_price",
}

// WriteLedgerCSV writes one row per period. Comparison columns are empty
// when the run has no comparison prices.
func WriteLedgerCSV(w io.Writer, run *sim.Run) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ledgerHeader); err != nil {
		return err
	}
	for _, r := range run.Records {
		row := []string{
			strconv.Itoa(r.Period),
			strconv.FormatFloat(r.Price, 'f', 2, 64),
			fmtFloat(r.Demand),
			fmtFloat(r.RenewableGeneration),
			fmtFloat(r.Volume),
			fmtFloat(r.Spread),
			fmtOptional(r.LowTradingPrice),
			fmtOptional(r.HighTradingPrice),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveLedgerCSV writes the ledger to path, truncating any existing file.
func SaveLedgerCSV(path string, run *sim.Run) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating ledger %s: %w", path, err)
	}
	defer closeFile(f, path, &err)
	if err := WriteLedgerCSV(f, run); err != nil {
		return fmt.Errorf("writing ledger %s: %w", path, err)
	}
	logrus.Debugf("Wrote %d periods to '%s'", len(run.Records), path)
	return nil
}

// Document is the JSON export of a run.
type Document struct {
	Seed             *int64               `json:"seed,omitempty"`
	Config           sim.SimulationConfig `json:"config"`
	Metrics          sim.MarketMetrics    `json:"metrics"`
	EfficiencyRating string               `json:"efficiency_rating"`
	Records          []sim.PeriodRecord   `json:"records"`
}

// NewDocument builds the JSON export for run.
func NewDocument(run *sim.Run) Document {
	return Document{
		Seed:             run.Seed,
		Config:           run.Config,
		Metrics:          run.Metrics,
		EfficiencyRating: sim.EfficiencyRating(run.Metrics.PriceEfficiency),
		Records:          run.Records,
	}
}

// WriteJSON encodes the run document with indentation.
func WriteJSON(w io.Writer, run *sim.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(run))
}

// SaveJSON writes the run document to path.
func SaveJSON(path string, run *sim.Run) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer closeFile(f, path, &err)
	if err := WriteJSON(f, run); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logrus.Debugf("Wrote run document to '%s'", path)
	return nil
}

// LoadJSON reads a document written by SaveJSON.
func LoadJSON(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}

// closeFile closes f and reports its error unless an earlier one is already set.
func closeFile(f *os.File, path string, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("closing %s: %w", path, cerr)
	}
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func fmtOptional(x *float64) string {
	if x == nil {
		return ""
	}
	return strconv.FormatFloat(*x, 'f', 2, 64)
}

var sweepHeader = []string{
	"trading_level",
	"avg_volume",
	"price_efficiency",
	"market_volatility",
	"liquidity",
	"mean_price",
	"price_std_dev",
	"mean_spread",
}

// WriteSweepCSV writes one row per sweep point. Undefined liquidity is written as an empty cell.
func WriteSweepCSV(w io.Writer, points []sim.SweepPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sweepHeader); err != nil {
		return err
	}
	for _, p := range points {
		liquidity := ""
		if v, ok := p.Metrics.Liquidity.Value(); ok {
			liquidity = fmtFloat(v)
		}
		row := []string{
			strconv.FormatFloat(p.TradingLevel, 'f', -1, 64),
			fmtFloat(p.Metrics.AvgVolume),
			fmtFloat(p.Metrics.PriceEfficiency),
			fmtFloat(p.Metrics.MarketVolatility),
			liquidity,
			fmtFloat(p.MeanPrice),
			fmtFloat(p.PriceStdDev),
			fmtFloat(p.MeanSpread),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSweepJSON encodes the sweep points with indentation.
func WriteSweepJSON(w io.Writer, points []sim.SweepPoint) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(points)
}

// SaveSweep writes points to path as JSON when the path ends in .json, CSV otherwise.
func SaveSweep(path string, points []sim.SweepPoint) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer closeFile(f, path, &err)
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		err = WriteSweepJSON(f, points)
	} else {
		err = WriteSweepCSV(f, points)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logrus.Debugf("Wrote %d sweep points to '%s'", len(points), path)
	return nil
}
