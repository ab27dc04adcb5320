package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/power-market-sim/power-market-sim/sim"
	"github.com/power-market-sim/power-market-sim/sim/report"
	"github.com/power-market-sim/power-market-sim/sim/trace"
)

var (
	// CLI flags for the market
	tradingLevel     float64 // Financial trading level (%)
	renewables       float64 // Renewable penetration (%)
	demandVolatility float64 // Demand volatility (%)
	periods          int     // Number of trading periods
	basePrice        float64 // Base price and period-0 previous price
	baseDemand       float64 // Mean demand

	// CLI flags for the run
	seed         int64  // Seed for all random draws
	comparison   bool   // Attach low/high trading-level price series
	traceLevel   string // Trace verbosity (none, periods)
	logLevel     string // Log verbosity level
	scenarioPath string // Scenario YAML file
	presetName   string // Named preset in defaultsPath
	defaultsPath string // Presets file
	csvPath      string // Ledger CSV output
	jsonPath     string // Run JSON output
	showRecords  bool   // Print the per-period table
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "power-market-sim",
	Short: "Stochastic power-market simulator for financial trading, renewables and demand volatility",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd executes one simulation using parameters from CLI flags or a scenario
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the market simulation",
	Run: func(cmd *cobra.Command, args []string) {
		executeRun(cmd, false)
	},
}

// compareCmd is run with the low/high trading-level comparison always attached
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run the market simulation with low and high trading-level comparison prices",
	Run: func(cmd *cobra.Command, args []string) {
		executeRun(cmd, true)
	},
}

func executeRun(cmd *cobra.Command, forceComparison bool) {
	settings, err := resolveRunSettings(cmd)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	if forceComparison {
		settings.Comparison = true
	}

	logrus.Infof("Starting simulation: trading=%.1f%% renewables=%.1f%% demand volatility=%.1f%% periods=%d seed=%d comparison=%v",
		settings.Config.FinancialTradingLevel, settings.Config.RenewablePenetration, settings.Config.DemandVolatility,
		settings.Config.Periods, settings.Seed, settings.Comparison)
	startTime := time.Now()

	run, err := simulateSettings(settings)
	if err != nil {
		logrus.Fatalf("Simulation failed: %v", err)
	}

	if showRecords {
		printRecords(run)
	}
	run.Metrics.Print()
	if run.Trace != nil {
		printTraceSummary(trace.Summarize(run.Trace))
	}
	if csvPath != "" {
		if err := report.SaveLedgerCSV(csvPath, run); err != nil {
			logrus.Fatalf("%v", err)
		}
	}
	if jsonPath != "" {
		if err := report.SaveJSON(jsonPath, run); err != nil {
			logrus.Fatalf("%v", err)
		}
	}

	logrus.Infof("Simulation complete in %s.", time.Since(startTime))
}

// simulateSettings dispatches to the plain or comparison engine entry point.
func simulateSettings(s runSettings) (*sim.Run, error) {
	key := sim.NewSimulationKey(s.Seed)
	opt := sim.WithTraceConfig(s.Trace)
	if s.Comparison {
		return sim.RunComparison(s.Config, key, opt)
	}
	return sim.Simulate(s.Config, key, opt)
}

func printRecords(run *sim.Run) {
	fmt.Println("=== Periods ===")
	fmt.Printf("%6s %10s %10s %10s %10s %8s", "period", "price", "demand", "renewable", "volume", "spread")
	if len(run.Records) > 0 && run.Records[0].LowTradingPrice != nil {
		fmt.Printf(" %10s %10s", "low", "high")
	}
	fmt.Println()
	for _, r := range run.Records {
		fmt.Printf("%6d %10.2f %10.2f %10.2f %10.2f %8.3f", r.Period, r.Price, r.Demand, r.RenewableGeneration, r.Volume, r.Spread)
		if r.LowTradingPrice != nil && r.HighTradingPrice != nil {
			fmt.Printf(" %10.2f %10.2f", *r.LowTradingPrice, *r.HighTradingPrice)
		}
		fmt.Println()
	}
}

func printTraceSummary(s *trace.TraceSummary) {
	fmt.Println("=== Price Formation ===")
	fmt.Printf("Traced Periods       : %d\n", s.Periods)
	fmt.Printf("Mean |p - p_sd|      : %.4f\n", s.MeanDeviation)
	fmt.Printf("Max |p - p_sd|       : %.4f (period %d)\n", s.MaxDeviation, s.MaxDeviationPeriod)
	fmt.Printf("Mean Squared Delta   : %.4f\n", s.MeanSquaredDelta)
	fmt.Printf("Mean Trading Impact  : %.4f\n", s.MeanTradingImpact)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addMarketFlags registers the market and run flags shared by run, compare and sweep.
func addMarketFlags(c *cobra.Command) {
	def := sim.DefaultConfig()
	c.Flags().Float64Var(&tradingLevel, "financial-trading", def.FinancialTradingLevel, "Financial trading level (0-100%)")
	c.Flags().Float64Var(&renewables, "renewables", def.RenewablePenetration, "Renewable penetration (0-100%)")
	c.Flags().Float64Var(&demandVolatility, "demand-volatility", def.DemandVolatility, "Demand volatility (0-100%)")
	c.Flags().IntVar(&periods, "periods", def.Periods, "Number of trading periods")
	c.Flags().Float64Var(&basePrice, "base-price", def.BasePrice, "Base price, also the previous price of period 1")
	c.Flags().Float64Var(&baseDemand, "base-demand", def.BaseDemand, "Mean demand per period")
	c.Flags().Int64Var(&seed, "seed", 42, "Seed for all random draws")
	c.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a scenario YAML file")
	c.Flags().StringVar(&presetName, "preset", "", "Name of a preset scenario in the defaults file")
	c.Flags().StringVar(&defaultsPath, "defaults", "defaults.yaml", "Path to the preset scenarios file")
}

// addOutputFlags registers the trace and export flags of run and compare.
func addOutputFlags(c *cobra.Command) {
	c.Flags().StringVar(&traceLevel, "trace", "none", "Price-formation trace level (none, periods)")
	c.Flags().StringVar(&csvPath, "csv", "", "Write the per-period ledger to this CSV file")
	c.Flags().StringVar(&jsonPath, "json", "", "Write the run document to this JSON file")
	c.Flags().BoolVar(&showRecords, "records", false, "Print every period")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	for _, c := range []*cobra.Command{runCmd, compareCmd} {
		addMarketFlags(c)
		addOutputFlags(c)
	}
	runCmd.Flags().BoolVar(&comparison, "compare", false, "Attach low (10%) and high (90%) trading-level price series")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
}
