// Package simulation runs the energy-flow and savings models: the
// net-metering engine, the battery dispatch heuristics, the provincial
// program path, and the commercial demand-charge calculator.
package simulation

import (
	"math"

	"solarquote/internal/errors"
)

// BatterySpec holds the physical constants of one storage product.
// Reference data, read-only to this package.
type BatterySpec struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Capacity float64 `json:"capacity_kwh"`

	// UsableDoD is the usable depth-of-discharge fraction.
	UsableDoD float64 `json:"usable_dod"`

	// RoundTripEfficiency is the AC round-trip efficiency, 0..1.
	RoundTripEfficiency float64 `json:"round_trip_efficiency"`

	// PowerKw is the inverter charge/discharge power limit.
	PowerKw float64 `json:"power_kw"`

	// CRate is the charge/discharge rate as a multiple of capacity per
	// hour. Used by the commercial calculator.
	CRate float64 `json:"c_rate"`
}

// UsableKwh is the energy the battery can actually cycle.
func (b BatterySpec) UsableKwh() float64 {
	return b.Capacity * b.UsableDoD
}

// Validate rejects physically meaningless specs.
func (b BatterySpec) Validate() error {
	if b.Capacity <= 0 {
		return errors.Input("battery capacity must be positive")
	}
	if b.UsableDoD <= 0 || b.UsableDoD > 1 {
		return errors.Input("battery usable depth-of-discharge must be in (0, 1]")
	}
	if b.RoundTripEfficiency <= 0 || b.RoundTripEfficiency > 1 {
		return errors.Input("battery round-trip efficiency must be in (0, 1]")
	}
	if b.PowerKw < 0 {
		return errors.Input("battery power limit must not be negative")
	}
	return nil
}

// batteryState tracks state of charge through a simulated day. The
// invariant 0 <= soc <= UsableKwh holds after every operation.
type batteryState struct {
	spec BatterySpec
	soc  float64
}

// charge stores as much of surplusKwh as limits allow and returns the
// energy drawn from the surplus (pre-loss). hours bounds power.
func (b *batteryState) charge(surplusKwh, hours float64) float64 {
	if surplusKwh <= 0 {
		return 0
	}
	room := b.spec.UsableKwh() - b.soc
	if room <= 0 {
		return 0
	}
	// Losses are charged against the input side: storing E costs
	// E/efficiency of surplus.
	accepted := math.Min(surplusKwh*b.spec.RoundTripEfficiency, room)
	if b.spec.PowerKw > 0 {
		accepted = math.Min(accepted, b.spec.PowerKw*hours)
	}
	if accepted <= 0 {
		return 0
	}
	b.soc += accepted
	return accepted / b.spec.RoundTripEfficiency
}

// discharge covers as much of deficitKwh as limits allow and returns
// the energy delivered.
func (b *batteryState) discharge(deficitKwh, hours float64) float64 {
	if deficitKwh <= 0 || b.soc <= 0 {
		return 0
	}
	delivered := math.Min(deficitKwh, b.soc)
	if b.spec.PowerKw > 0 {
		delivered = math.Min(delivered, b.spec.PowerKw*hours)
	}
	b.soc -= delivered
	return delivered
}
