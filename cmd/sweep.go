package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/power-market-sim/power-market-sim/sim"
	"github.com/power-market-sim/power-market-sim/sim/report"
)

var (
	sweepLevels []float64 // Trading levels to sweep
	sweepOutput string    // Sweep output file (.json or .csv)
)

// sweepCmd runs the configured market once per trading level and tabulates the metrics.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the market at a range of financial trading levels",
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := resolveRunSettings(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		for _, level := range sweepLevels {
			if err := settings.Config.WithTradingLevel(level).Validate(); err != nil {
				logrus.Fatalf("Invalid sweep level: %v", err)
			}
		}

		startTime := time.Now()
		points, err := sim.Sweep(settings.Config, sim.NewSimulationKey(settings.Seed), sweepLevels)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
		printSweep(points)

		if sweepOutput != "" {
			if err := report.SaveSweep(sweepOutput, points); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		logrus.Infof("Sweep complete in %s.", time.Since(startTime))
	},
}

func printSweep(points []sim.SweepPoint) {
	fmt.Println("=== Trading Level Sweep ===")
	fmt.Printf("%8s %12s %12s %12s %12s %10s %10s %10s\n",
		"trading", "avg_volume", "efficiency", "volatility", "liquidity", "mean_p", "std_p", "spread")
	for _, p := range points {
		fmt.Printf("%8.1f %12.2f %12.2f %12.4f %12s %10.2f %10.4f %10.4f\n",
			p.TradingLevel, p.Metrics.AvgVolume, p.Metrics.PriceEfficiency, p.Metrics.MarketVolatility,
			p.Metrics.Liquidity, p.MeanPrice, p.PriceStdDev, p.MeanSpread)
	}
}

func init() {
	addMarketFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepLevels, "levels", sim.DefaultSweepLevels(), "Financial trading levels to sweep (0-100%)")
	sweepCmd.Flags().StringVarP(&sweepOutput, "output", "o", "", "Write sweep points to this file (.json for JSON, otherwise CSV)")
	rootCmd.AddCommand(sweepCmd)
}
