package simulation

import (
	"math"
	"sort"
	"time"

	"solarquote/core/rates"
)

// solarShape spreads a day's generation across its hours with a bell
// curve peaking at solar noon. Normalized to sum to 1.
var solarShape = func() [24]float64 {
	var w [24]float64
	const mu, sigma = 13.0, 3.0
	sum := 0.0
	for h := 0; h < 24; h++ {
		v := math.Exp(-math.Pow(float64(h)-mu, 2) / (2 * sigma * sigma))
		if v < 0.01 {
			v = 0
		}
		w[h] = v
		sum += v
	}
	for h := range w {
		w[h] /= sum
	}
	return w
}()

// simulateIntervals runs the engine at the granularity of the metered
// usage data. Battery state of charge carries across intervals within a
// day and resets overnight.
func simulateIntervals(in Input, monthlyGen [12]float64) (*Result, error) {
	plan := in.Strategy.Plan

	intervals := make([]IntervalUsage, len(in.Usage.Intervals))
	copy(intervals, in.Usage.Intervals)
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})

	res := &Result{Strategy: string(rates.StrategyGeneric)}
	periods := make(map[time.Month]*PeriodResult)
	var totalGen, totalUse float64

	var state *batteryState
	if in.Battery != nil {
		state = &batteryState{spec: *in.Battery}
	}
	var currentDay int

	for _, iv := range intervals {
		t := iv.Start
		month := t.Month()
		days := float64(daysInMonth(t.Year(), month))
		gen := monthlyGen[int(month)-1] / days * solarShape[t.Hour()]
		use := iv.Kwh

		if state != nil && t.YearDay() != currentDay {
			// Overnight reset at the finest granularity we model.
			state.soc = 0
			currentDay = t.YearDay()
		}

		rate := intervalRate(plan, t)

		selfConsumed := math.Min(gen, use)
		surplus := gen - selfConsumed
		deficit := use - selfConsumed

		var charged, discharged float64
		if state != nil {
			charged = state.charge(surplus, 1)
			surplus -= charged
			if !in.AIMode || aiMayDischarge(plan, t, in.AITieBreak) {
				discharged = state.discharge(deficit, 1)
				deficit -= discharged
			}
		}

		p := periods[month]
		if p == nil {
			p = &PeriodResult{Month: month}
			periods[month] = p
		}
		p.GenerationKwh += gen
		p.ConsumptionKwh += use
		p.SelfConsumedKwh += selfConsumed + discharged
		p.ExportedKwh += surplus
		p.ImportedKwh += deficit
		p.BatteryInKwh += charged
		p.BatteryOutKwh += discharged
		if state != nil {
			p.SoCEndKwh = state.soc
		}
		p.CostBefore += use * rate
		p.CostAfter += deficit * rate
		p.Credit += surplus * plan.ExportRate()

		totalGen += gen
		totalUse += use
	}

	for m := time.January; m <= time.December; m++ {
		p, ok := periods[m]
		if !ok {
			continue
		}
		p.Savings = p.CostBefore - (p.CostAfter - p.Credit)
		res.Periods = append(res.Periods, *p)
		res.MonthlySavings[int(m)-1] = p.Savings
		res.AnnualSavings += p.Savings
	}

	finalizeResult(res, totalGen, totalUse, in.NetCostDollars)
	return res, nil
}

// intervalRate prices one interval: windowed plans by time of day,
// everything else at the blended per-kWh rate.
func intervalRate(plan rates.Plan, t time.Time) float64 {
	if w, ok := plan.(rates.Windowed); ok {
		return w.RateAt(t)
	}
	return plan.PeriodCost(t, 1)
}

// aiMayDischarge gates AI-mode discharge to the day's top-priced
// window. Plans without windows, and price ties under the default
// tie-break, fall back to plain dispatch (discharge allowed).
func aiMayDischarge(plan rates.Plan, t time.Time, tb TieBreak) bool {
	windowed, ok := plan.(rates.Windowed)
	if !ok {
		return true
	}
	peak, ok := windowed.PeakWindow(t)
	if !ok {
		return true
	}

	ties := 0
	for _, w := range windowed.Windows(t) {
		if w.Rate == peak.Rate {
			ties++
		}
	}
	if ties > 1 && tb != TieBreakEarliest {
		return true
	}
	if ties > 1 && tb == TieBreakEarliest {
		earliest := rates.Window{StartHour: 25}
		for _, w := range windowed.Windows(t) {
			if w.Rate == peak.Rate && w.StartHour < earliest.StartHour {
				earliest = w
			}
		}
		return t.Hour() >= earliest.StartHour && t.Hour() < earliest.EndHour
	}
	return t.Hour() >= peak.StartHour && t.Hour() < peak.EndHour
}
