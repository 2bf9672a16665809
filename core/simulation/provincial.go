package simulation

import (
	"time"

	"solarquote/core/rates"
)

// simulateProvincial runs the provincial program's bespoke settlement
// instead of generic net metering. The program credits summer exports
// at a high fixed rate and bills winter imports at the low-season
// rate; winter production is derated by the snow-loss factor. This is
// deliberately a separate path: the program's crediting formula does
// not reduce to an export rate on the generic engine.
func simulateProvincial(in Input, monthlyGen [12]float64) (*Result, error) {
	prog := in.Strategy.Provincial
	monthlyUse := in.Usage.Monthly()

	res := &Result{Strategy: string(rates.StrategyProvincial)}
	var totalGen, totalUse float64

	for m := 0; m < 12; m++ {
		month := time.Month(m + 1)
		monthStart := time.Date(in.Year, month, 1, 0, 0, 0, 0, time.UTC)

		gen := monthlyGen[m]
		if isSnowMonth(month) {
			gen *= 1 - prog.SnowLossFactor
		}
		use := monthlyUse[m]
		totalGen += gen
		totalUse += use

		baseline := use * prog.WinterRate

		selfConsumed := gen
		if selfConsumed > use {
			selfConsumed = use
		}
		exported := gen - selfConsumed
		imported := use - selfConsumed

		// Program settlement: summer exports earn the program credit
		// rate, winter exports only offset at the import rate.
		creditRate := prog.WinterRate
		if rates.SeasonOf(monthStart) == rates.SeasonSummer {
			creditRate = prog.SummerCreditRate
		}
		credit := exported * creditRate
		importCost := imported * prog.WinterRate

		period := PeriodResult{
			Month:           month,
			GenerationKwh:   gen,
			ConsumptionKwh:  use,
			SelfConsumedKwh: selfConsumed,
			ExportedKwh:     exported,
			ImportedKwh:     imported,
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

// isSnowMonth marks the months the snow-loss factor derates.
func isSnowMonth(m time.Month) bool {
	return m <= time.March || m >= time.November
}
