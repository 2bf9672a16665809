// Package cmd - reference catalog listing commands
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// plansCmd lists the available rate plans
var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List the available rate plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		for _, p := range store.Plans() {
			fmt.Printf("%-10s %-22s kind=%-7s export=$%.3f/kWh\n",
				p.ID(), p.Name(), p.Kind(), p.ExportRate())
		}
		return nil
	},
}

// panelsCmd lists the available panel models
var panelsCmd = &cobra.Command{
	Use:   "panels",
	Short: "List the available panel models",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		for _, p := range store.Panels() {
			fmt.Printf("%-10s %-18s %.0f W  %.3f x %.3f m\n",
				p.ID, p.Name, p.Watts, p.WidthM, p.HeightM)
		}
		return nil
	},
}

// batteriesCmd lists the available battery products
var batteriesCmd = &cobra.Command{
	Use:   "batteries",
	Short: "List the available battery products",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		for _, b := range store.Batteries() {
			fmt.Printf("%-10s %-18s %.1f kWh (%.1f usable)  %.1f kW\n",
				b.ID, b.Name, b.Capacity, b.UsableKwh(), b.PowerKw)
		}
		return nil
	},
}
