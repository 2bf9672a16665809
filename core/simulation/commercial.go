package simulation

import (
	"math"

	"solarquote/internal/errors"
)

// CommercialInput sizes a battery for non-residential peak shaving.
// Independent of the solar pipeline: the starting point is a demand
// profile, not a roof.
type CommercialInput struct {
	// ShaveKw is the peak demand to shave off the monthly maximum.
	ShaveKw float64 `json:"shave_kw"`

	// DurationMinutes is how long the shave must be sustained.
	DurationMinutes float64 `json:"duration_minutes"`

	// CRate is the battery discharge rate, capacity multiples per hour.
	CRate float64 `json:"c_rate"`

	// Efficiency is the round-trip efficiency, 0.5..1.0.
	Efficiency float64 `json:"efficiency"`

	// DepthOfDischarge is the usable fraction, 0.5..1.0.
	DepthOfDischarge float64 `json:"depth_of_discharge"`

	// DemandChargeRate is the tariff's $/kW-month demand charge.
	DemandChargeRate float64 `json:"demand_charge_rate"`
}

// Validate rejects out-of-range parameters outright; nothing is
// silently clamped.
func (in CommercialInput) Validate() error {
	if in.ShaveKw <= 0 {
		return errors.Input("shave demand must be positive")
	}
	if in.DurationMinutes <= 0 {
		return errors.Input("shave duration must be positive")
	}
	if in.CRate < 0.1 || in.CRate > 2.0 {
		return errors.Inputf("c-rate %.2f outside [0.1, 2.0]", in.CRate)
	}
	if in.Efficiency < 0.5 || in.Efficiency > 1.0 {
		return errors.Inputf("efficiency %.2f outside [0.5, 1.0]", in.Efficiency)
	}
	if in.DepthOfDischarge < 0.5 || in.DepthOfDischarge > 1.0 {
		return errors.Inputf("depth of discharge %.2f outside [0.5, 1.0]", in.DepthOfDischarge)
	}
	if in.DemandChargeRate < 0 {
		return errors.Input("demand charge rate must not be negative")
	}
	return nil
}

// BindingConstraint names which sizing constraint drove the nameplate.
type BindingConstraint string

const (
	ConstraintEnergy BindingConstraint = "energy"
	ConstraintPower  BindingConstraint = "power"
)

// CommercialResult is the peak-shaving sizing and savings output.
type CommercialResult struct {
	RequiredEnergyKwh float64           `json:"required_energy_kwh"`
	PowerLimitedKwh   float64           `json:"power_limited_kwh"`
	NameplateKwh      float64           `json:"nameplate_kwh"`
	Binding           BindingConstraint `json:"binding_constraint"`
	MonthlySavings    float64           `json:"monthly_savings"`
	AnnualSavings     float64           `json:"annual_savings"`
}

// Commercial sizes the battery by both the energy constraint (duration
// times shave) and the power constraint (C-rate), takes the larger,
// and grosses it up for efficiency and usable depth.
func Commercial(in CommercialInput) (*CommercialResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	requiredEnergy := in.ShaveKw * in.DurationMinutes / 60
	powerLimited := in.ShaveKw / in.CRate

	binding := ConstraintEnergy
	usable := requiredEnergy
	if powerLimited > requiredEnergy {
		binding = ConstraintPower
		usable = powerLimited
	}

	nameplate := usable / (in.Efficiency * in.DepthOfDischarge)
	monthly := in.ShaveKw * in.DemandChargeRate

	return &CommercialResult{
		RequiredEnergyKwh: round2(requiredEnergy),
		PowerLimitedKwh:   round2(powerLimited),
		NameplateKwh:      round2(nameplate),
		Binding:           binding,
		MonthlySavings:    round2(monthly),
		AnnualSavings:     round2(monthly * 12),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
