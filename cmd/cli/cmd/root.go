// Package cmd provides the CLI commands for solarquote.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"solarquote/internal/config"
	"solarquote/internal/logging"
)

var (
	cfgFile    string
	refdataDir string
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "solarquote",
	Short: "Estimate rooftop solar production and bill savings",
	Long: `solarquote sizes a rooftop solar system from roof geometry and
simulates the resulting bill savings under the supported rate plans.

Examples:
  solarquote estimate --input request.json
  solarquote estimate --input request.json --format json
  solarquote commercial --shave-kw 100 --duration 30 --c-rate 0.5
  solarquote plans`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&refdataDir, "refdata", "", "reference data directory (default: built-in catalog)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(commercialCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(panelsCmd)
	rootCmd.AddCommand(batteriesCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if refdataDir != "" {
		cfg.RefData.Dir = refdataDir
	}
	config.Set(cfg)

	if verbose {
		cfg.Logging.Level = "debug"
	} else {
		// Keep command output clean; warnings still surface.
		cfg.Logging.Level = "warn"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("solarquote version 1.0.0")
	},
}
