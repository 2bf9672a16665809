// Package cmd - commercial peak-shaving command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"solarquote/core/simulation"
)

var commercialIn simulation.CommercialInput

// commercialCmd sizes a peak-shaving battery for a demand-charge
// customer.
var commercialCmd = &cobra.Command{
	Use:   "commercial",
	Short: "Size a peak-shaving battery and its demand-charge savings",
	Long: `Size the battery needed to shave a target amount of peak demand
and report the resulting demand-charge savings.

Example:
  solarquote commercial --shave-kw 100 --duration 30 --c-rate 0.5 \
      --efficiency 0.9 --dod 0.9 --demand-rate 15`,
	RunE: runCommercial,
}

func init() {
	commercialCmd.Flags().Float64Var(&commercialIn.ShaveKw, "shave-kw", 0, "peak demand to shave in kW (required)")
	commercialCmd.Flags().Float64Var(&commercialIn.DurationMinutes, "duration", 30, "shave duration in minutes")
	commercialCmd.Flags().Float64Var(&commercialIn.CRate, "c-rate", 0.5, "battery discharge C-rate")
	commercialCmd.Flags().Float64Var(&commercialIn.Efficiency, "efficiency", 0.9, "round-trip efficiency")
	commercialCmd.Flags().Float64Var(&commercialIn.DepthOfDischarge, "dod", 0.9, "usable depth of discharge")
	commercialCmd.Flags().Float64Var(&commercialIn.DemandChargeRate, "demand-rate", 0, "demand charge in $/kW-month")
	_ = commercialCmd.MarkFlagRequired("shave-kw")
}

func runCommercial(cmd *cobra.Command, args []string) error {
	res, err := simulation.Commercial(commercialIn)
	if err != nil {
		return err
	}

	fmt.Printf("Required energy:   %.2f kWh\n", res.RequiredEnergyKwh)
	fmt.Printf("Power-limited:     %.2f kWh\n", res.PowerLimitedKwh)
	fmt.Printf("Nameplate size:    %.2f kWh (%s-limited)\n", res.NameplateKwh, res.Binding)
	fmt.Printf("Monthly savings:   %s\n", dollars(res.MonthlySavings))
	fmt.Printf("Annual savings:    %s\n", dollars(res.AnnualSavings))
	return nil
}
