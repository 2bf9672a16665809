package simulation

import (
	"math"
	"time"

	"solarquote/core/production"
	"solarquote/core/rates"
	"solarquote/internal/errors"
)

// PaybackCapYears bounds the reported payback period. Longer paybacks
// are reported as exactly the cap so the caller never shows an
// unbounded figure.
const PaybackCapYears = 25.0

// defaultDaytimeShare is the fraction of daily consumption assumed to
// coincide with solar production when only monthly totals are known.
const defaultDaytimeShare = 0.45

// Hours available for battery charge (solar window) and discharge in
// the representative-day model.
const (
	solarChargeHours     = 8.0
	dischargeWindowHours = 16.0
)

// TieBreak selects the AI-mode behavior when several pricing windows
// share the day's top price. The legacy rule is undocumented, so it is
// configurable rather than guessed.
type TieBreak string

const (
	// TieBreakNonAI falls back to plain battery behavior on a tie.
	TieBreakNonAI TieBreak = "non_ai"

	// TieBreakEarliest dispatches into the earliest top-priced window.
	TieBreakEarliest TieBreak = "earliest"
)

// Input carries everything one savings simulation needs.
type Input struct {
	// MonthlyProductionKwh must hold exactly 12 entries. Leave nil and
	// set AnnualProductionKwh to have the annual total redistributed
	// over the canonical seasonal curve.
	MonthlyProductionKwh []int
	AnnualProductionKwh  int

	Usage    UsageProfile
	Strategy rates.Strategy

	Battery    *BatterySpec
	AIMode     bool
	AITieBreak TieBreak

	// Year aligns the simulation with the calendar (month lengths,
	// seasons).
	Year int

	// NetCostDollars is the system cost after incentives, for payback.
	NetCostDollars float64

	// DaytimeShare overrides defaultDaytimeShare when positive.
	DaytimeShare float64
}

// PeriodResult is the per-period energy and money breakdown.
type PeriodResult struct {
	Month           time.Month `json:"month"`
	GenerationKwh   float64    `json:"generation_kwh"`
	ConsumptionKwh  float64    `json:"consumption_kwh"`
	SelfConsumedKwh float64    `json:"self_consumed_kwh"`
	ExportedKwh     float64    `json:"exported_kwh"`
	ImportedKwh     float64    `json:"imported_kwh"`
	BatteryInKwh    float64    `json:"battery_in_kwh"`
	BatteryOutKwh   float64    `json:"battery_out_kwh"`
	SoCEndKwh       float64    `json:"soc_end_kwh"`
	CostBefore      float64    `json:"cost_before"`
	CostAfter       float64    `json:"cost_after"`
	Credit          float64    `json:"credit"`
	Savings         float64    `json:"savings"`
}

// Result is the full simulation output. Computed fresh per request and
// never persisted here.
type Result struct {
	Periods        []PeriodResult `json:"periods"`
	AnnualSavings  float64        `json:"annual_savings"`
	MonthlySavings [12]float64    `json:"monthly_savings"`
	OffsetPercent  float64        `json:"offset_percent"`
	PaybackYears   float64        `json:"payback_years"`
	NetCostDollars float64        `json:"net_cost_dollars"`
	Strategy       string         `json:"strategy"`
}

// Simulate runs the savings simulation for one estimate. The region's
// pricing strategy decides the path: generic net metering or the
// provincial program.
func Simulate(in Input) (*Result, error) {
	if err := in.Usage.Validate(); err != nil {
		return nil, err
	}
	if in.Battery != nil {
		if err := in.Battery.Validate(); err != nil {
			return nil, err
		}
	}
	if in.Year == 0 {
		in.Year = time.Now().Year()
	}

	monthlyGen, err := normalizeProduction(in.MonthlyProductionKwh, in.AnnualProductionKwh)
	if err != nil {
		return nil, err
	}

	switch in.Strategy.Kind {
	case rates.StrategyProvincial:
		// The program settlement has no hourly price signal for the
		// battery to arbitrage. Rejecting is better than returning a
		// result that quietly ignores the battery.
		if in.Battery != nil {
			return nil, errors.Input("battery storage is not modeled under the provincial program; remove the battery or select a rate plan")
		}
		return simulateProvincial(in, monthlyGen)
	case rates.StrategyGeneric:
		if in.Strategy.Plan == nil {
			return nil, errors.Input("no rate plan selected")
		}
	default:
		return nil, errors.Inputf("unknown pricing strategy: %q", in.Strategy.Kind)
	}

	if in.Usage.HasIntervals() {
		return simulateIntervals(in, monthlyGen)
	}
	return simulateMonthly(in, monthlyGen)
}

// normalizeProduction yields a 12-month production series. A bare
// annual total is redistributed over the canonical seasonal curve; any
// other monthly length is rejected, never silently computed on.
func normalizeProduction(monthly []int, annual int) ([12]float64, error) {
	var out [12]float64
	if monthly == nil {
		if annual < 0 {
			return out, errors.Input("annual production must not be negative")
		}
		curve := production.SeasonalCurve()
		for m := 0; m < 12; m++ {
			out[m] = float64(annual) * curve[m]
		}
		return out, nil
	}
	if len(monthly) != 12 {
		return out, errors.Inputf("monthly production has %d entries, want 12", len(monthly))
	}
	for m, v := range monthly {
		if v < 0 {
			return out, errors.Input("monthly production must not be negative")
		}
		out[m] = float64(v)
	}
	return out, nil
}

// simulateMonthly runs the representative-day model over twelve
// calendar months.
func simulateMonthly(in Input, monthlyGen [12]float64) (*Result, error) {
	plan := in.Strategy.Plan
	monthlyUse := in.Usage.Monthly()
	daytimeShare := in.DaytimeShare
	if daytimeShare <= 0 || daytimeShare > 1 {
		daytimeShare = defaultDaytimeShare
	}

	res := &Result{Strategy: string(rates.StrategyGeneric)}
	var totalGen, totalUse float64

	for m := 0; m < 12; m++ {
		month := time.Month(m + 1)
		monthStart := time.Date(in.Year, month, 1, 0, 0, 0, 0, time.UTC)
		days := float64(daysInMonth(in.Year, month))

		gen := monthlyGen[m]
		use := monthlyUse[m]
		totalGen += gen
		totalUse += use

		baseline := plan.PeriodCost(monthStart, use)

		dailyGen := gen / days
		dailyUse := use / days

		// Without storage the month nets out directly: solar serves
		// load up to min(gen, use). The daytime-share split only
		// matters when a battery can shift the overnight deficit.
		solarToLoad := math.Min(dailyGen, dailyUse)
		if in.Battery != nil {
			solarToLoad = math.Min(dailyGen, dailyUse*daytimeShare)
		}
		daySurplus := dailyGen - solarToLoad
		dayDeficit := dailyUse - solarToLoad

		var dayCharged, dayDischarged, socEnd float64
		if in.Battery != nil {
			// One representative day per month; state of charge
			// carries within the day and resets overnight.
			state := batteryState{spec: *in.Battery}
			dayCharged = state.charge(daySurplus, solarChargeHours)
			daySurplus -= dayCharged
			dayDischarged = state.discharge(dayDeficit, dischargeWindowHours)
			dayDeficit -= dayDischarged
			socEnd = state.soc
		}

		imported := dayDeficit * days
		exported := daySurplus * days
		selfConsumed := (solarToLoad + dayDischarged) * days

		importCost := plan.PeriodCost(monthStart, imported)
		credit := exported * plan.ExportRate()

		if in.AIMode && in.Battery != nil && dayDischarged > 0 {
			importCost -= aiDispatchBonus(plan, monthStart, dayDischarged*days, in.AITieBreak)
			// The dispatch uplift can only offset import cost, never
			// turn the bill negative.
			if importCost < 0 {
				importCost = 0
			}
		}

		period := PeriodResult{
			Month:           month,
			GenerationKwh:   gen,
			ConsumptionKwh:  use,
			SelfConsumedKwh: selfConsumed,
			ExportedKwh:     exported,
			ImportedKwh:     imported,
			BatteryInKwh:    dayCharged * days,
			BatteryOutKwh:   dayDischarged * days,
			SoCEndKwh:       socEnd,
			CostBefore:      baseline,
			CostAfter:       importCost,
			Credit:          credit,
			Savings:         baseline - (importCost - credit),
		}
		res.Periods = append(res.Periods, period)
		res.MonthlySavings[m] = period.Savings
		res.AnnualSavings += period.Savings
	}

	finalizeResult(res, totalGen, totalUse, in.NetCostDollars)
	return res, nil
}

// aiDispatchBonus values battery discharge at the day's top-priced
// window instead of the blended rate. Charging is solar-only in this
// model, so the bonus is the rate uplift on discharged energy. When
// several windows tie for the top price the configured tie-break
// applies; the default declines the bonus and behaves like plain
// battery dispatch.
func aiDispatchBonus(plan rates.Plan, t time.Time, dischargedKwh float64, tb TieBreak) float64 {
	windowed, ok := plan.(rates.Windowed)
	if !ok {
		return 0
	}
	peak, ok := windowed.PeakWindow(t)
	if !ok {
		return 0
	}

	ties := 0
	for _, w := range windowed.Windows(t) {
		if w.Rate == peak.Rate {
			ties++
		}
	}
	if ties > 1 && tb != TieBreakEarliest {
		return 0
	}

	blended := plan.PeriodCost(t, 1)
	uplift := peak.Rate - blended
	if uplift <= 0 {
		return 0
	}
	return dischargedKwh * uplift
}

// finalizeResult fills the aggregate fields shared by every path.
func finalizeResult(res *Result, totalGen, totalUse, netCost float64) {
	if totalUse > 0 {
		res.OffsetPercent = totalGen / totalUse * 100
	}
	res.NetCostDollars = netCost
	res.PaybackYears = paybackYears(netCost, res.AnnualSavings)
}

// paybackYears divides cost by savings, capped at PaybackCapYears.
// Non-positive savings report exactly the cap.
func paybackYears(netCost, annualSavings float64) float64 {
	if netCost <= 0 {
		return 0
	}
	if annualSavings <= 0 {
		return PaybackCapYears
	}
	return math.Min(PaybackCapYears, netCost/annualSavings)
}

func daysInMonth(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
