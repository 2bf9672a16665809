// Package cmd - estimate command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"solarquote/adapters/refdata"
	"solarquote/core/estimate"
	"solarquote/core/production"
	"solarquote/internal/config"
)

var (
	inputFile    string
	outputFormat string
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Run a solar savings estimate",
	Long: `Run a full estimate: panel layout over the roof sections, a
production estimate for the resulting capacity, and the savings
simulation under the selected rate plan.

The input file is a JSON estimate request, for example:

  {
    "sections": [{"preset": "medium"}],
    "panel_id": "std-400",
    "plan_id": "tou",
    "annual_usage_kwh": 9600,
    "net_cost_dollars": 25000
  }`,
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "estimate request JSON file (required)")
	estimateCmd.Flags().StringVarP(&outputFormat, "format", "f", "cli", "output format (cli, json)")
	_ = estimateCmd.MarkFlagRequired("input")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading request: %w", err)
	}
	var req estimate.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parsing request: %w", err)
	}

	store, err := loadStore()
	if err != nil {
		return err
	}

	cfg := config.Get()
	var model production.Model
	if cfg.Irradiance.Endpoint != "" {
		model = production.NewHTTPModel(cfg.Irradiance.Endpoint)
	}
	svc := estimate.NewService(store, production.NewEstimator(model, cfg.Irradiance.Timeout()),
		estimate.Defaults{
			Region: cfg.Estimate.DefaultRegion,
			PlanID: cfg.Estimate.DefaultPlanID,
		})

	resp, err := svc.Run(context.Background(), req)
	if err != nil {
		return err
	}

	switch outputFormat {
	case "json":
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		printEstimate(resp)
	}
	return nil
}

// loadStore opens the configured reference data directory, falling
// back to the built-in catalog when the directory is absent.
func loadStore() (*refdata.Store, error) {
	dir := config.Get().RefData.Dir
	if dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			dir = ""
		}
	}
	return refdata.New(dir)
}

func printEstimate(resp *estimate.Response) {
	fmt.Println("Layout")
	fmt.Printf("  Panels:          %d\n", resp.Layout.PanelCount)
	fmt.Printf("  Capacity:        %.2f kW\n", resp.Layout.CapacityKw)
	for _, s := range resp.Layout.Sections {
		fmt.Printf("  Section %-10s %3d panels, facing %s (%.0f deg, %.0f%% efficiency)\n",
			s.SectionID, s.PanelCount, s.Direction, s.AzimuthDeg, s.Efficiency)
	}

	fmt.Println("Production")
	fmt.Printf("  Annual:          %d kWh (%s)\n", resp.Production.AnnualKwh, resp.Production.Source)
	fmt.Printf("  Capacity factor: %.1f%%\n", resp.Production.CapacityFactor*100)

	fmt.Println("Savings")
	fmt.Printf("  Annual:          %s\n", dollars(resp.AnnualSavings))
	fmt.Printf("  Bill offset:     %.1f%%\n", resp.OffsetPercent)
	fmt.Printf("  Payback:         %.1f years\n", resp.PaybackYears)
	fmt.Printf("  Strategy:        %s\n", resp.Strategy)
}

func dollars(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(0)
}
