package simulation

import (
	"math"
	"testing"
	"time"

	"solarquote/core/rates"
	"solarquote/internal/errors"
)

func uniformDistribution() []float64 {
	dist := make([]float64, 12)
	for i := range dist {
		dist[i] = 1.0 / 12.0
	}
	return dist
}

func flatPlan() rates.Plan {
	return rates.Flat{PlanID: "flat", PlanName: "Flat", Rate: 0.12, Export: 0.08}
}

func genericStrategy(p rates.Plan) rates.Strategy {
	return rates.Strategy{Kind: rates.StrategyGeneric, Plan: p}
}

func repeatMonthly(v int) []int {
	out := make([]int, 12)
	for i := range out {
		out[i] = v
	}
	return out
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSimulateEnergyConservationNoBattery(t *testing.T) {
	res, err := Simulate(Input{
		MonthlyProductionKwh: repeatMonthly(750),
		Usage:                UsageProfile{AnnualKwh: 9600},
		Strategy:             genericStrategy(flatPlan()),
		Year:                 2025,
		NetCostDollars:       20000,
	})
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if len(res.Periods) != 12 {
		t.Fatalf("got %d periods, want 12", len(res.Periods))
	}
	for _, p := range res.Periods {
		if !approx(p.SelfConsumedKwh+p.ExportedKwh, p.GenerationKwh, 1e-6) {
			t.Errorf("%s: self %.4f + exported %.4f != generation %.4f",
				p.Month, p.SelfConsumedKwh, p.ExportedKwh, p.GenerationKwh)
		}
		if !approx(p.SelfConsumedKwh+p.ImportedKwh, p.ConsumptionKwh, 1e-6) {
			t.Errorf("%s: self %.4f + imported %.4f != consumption %.4f",
				p.Month, p.SelfConsumedKwh, p.ImportedKwh, p.ConsumptionKwh)
		}
	}
}

func TestSimulateNoBatterySelfUseIsMinGenUse(t *testing.T) {
	// Deficit months: all generation serves load, nothing is exported.
	res, err := Simulate(Input{
		MonthlyProductionKwh: repeatMonthly(750),
		Usage:                UsageProfile{AnnualKwh: 9600, Distribution: uniformDistribution()},
		Strategy:             genericStrategy(flatPlan()),
		Year:                 2025,
	})
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	for _, p := range res.Periods {
		if !approx(p.SelfConsumedKwh, 750, 1e-6) {
			t.Errorf("%s: SelfConsumedKwh = %.4f, want min(750, 800) = 750", p.Month, p.SelfConsumedKwh)
		}
		if !approx(p.ExportedKwh, 0, 1e-6) {
			t.Errorf("%s: ExportedKwh = %.4f, want 0", p.Month, p.ExportedKwh)
		}
		if !approx(p.ImportedKwh, 50, 1e-6) {
			t.Errorf("%s: ImportedKwh = %.4f, want 50", p.Month, p.ImportedKwh)
		}
	}

	// Surplus months: self-use caps at consumption, the rest exports.
	res, err = Simulate(Input{
		MonthlyProductionKwh: repeatMonthly(900),
		Usage:                UsageProfile{AnnualKwh: 9600, Distribution: uniformDistribution()},
		Strategy:             genericStrategy(flatPlan()),
		Year:                 2025,
	})
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	for _, p := range res.Periods {
		if !approx(p.SelfConsumedKwh, 800, 1e-6) {
			t.Errorf("%s: SelfConsumedKwh = %.4f, want min(900, 800) = 800", p.Month, p.SelfConsumedKwh)
		}
		if !approx(p.ExportedKwh, 100, 1e-6) {
			t.Errorf("%s: ExportedKwh = %.4f, want 100", p.Month, p.ExportedKwh)
		}
		if !approx(p.ImportedKwh, 0, 1e-6) {
			t.Errorf("%s: ImportedKwh = %.4f, want 0", p.Month, p.ImportedKwh)
		}
	}
}

func TestSimulateBatterySoCStaysInBounds(t *testing.T) {
	battery := &BatterySpec{
		ID:                  "b1",
		Name:                "Test Pack",
		Capacity:            13.5,
		UsableDoD:           0.9,
		RoundTripEfficiency: 0.9,
		PowerKw:             5,
	}

	res, err := Simulate(Input{
		MonthlyProductionKwh: []int{300, 420, 650, 820, 980, 1040, 1090, 990, 760, 520, 330, 250},
		Usage:                UsageProfile{AnnualKwh: 11000},
		Strategy:             genericStrategy(flatPlan()),
		Battery:              battery,
		Year:                 2025,
		NetCostDollars:       28000,
	})
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}

	usable := battery.UsableKwh()
	for _, p := range res.Periods {
		if p.SoCEndKwh < 0 || p.SoCEndKwh > usable+1e-9 {
			t.Errorf("%s: state of charge %.4f outside [0, %.4f]", p.Month, p.SoCEndKwh, usable)
		}
		// Output is bounded by stored energy, which is charged input
		// after round-trip losses.
		if p.BatteryOutKwh > p.BatteryInKwh*battery.RoundTripEfficiency+1e-9 {
			t.Errorf("%s: battery out %.4f exceeds stored %.4f",
				p.Month, p.BatteryOutKwh, p.BatteryInKwh*battery.RoundTripEfficiency)
		}
	}
}

func TestSimulatePaybackCappedExactly(t *testing.T) {
	// Zero production yields zero savings; payback reports exactly the
	// cap rather than an unbounded figure.
	res, err := Simulate(Input{
		AnnualProductionKwh: 0,
		Usage:               UsageProfile{AnnualKwh: 7200},
		Strategy:            genericStrategy(flatPlan()),
		Year:                2025,
		NetCostDollars:      30000,
	})
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if res.PaybackYears != 25.0 {
		t.Errorf("PaybackYears = %v, want exactly 25.0", res.PaybackYears)
	}
}

func TestSimulatePaybackZeroForFreeSystem(t *testing.T) {
	res, err := Simulate(Input{
		AnnualProductionKwh: 8000,
		Usage:               UsageProfile{AnnualKwh: 9000},
		Strategy:            genericStrategy(flatPlan()),
		Year:                2025,
		NetCostDollars:      0,
	})
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if res.PaybackYears != 0 {
		t.Errorf("PaybackYears = %v, want 0", res.PaybackYears)
	}
}

func TestSimulateTieredBaselineZeroSolar(t *testing.T) {
	plan := rates.Tiered{
		PlanID:       "tiered",
		PlanName:     "Tiered",
		Tier1Rate:    0.103,
		Tier2Rate:    0.125,
		ThresholdKwh: 600,
		Export:       0.08,
	}

	// 7200 kWh spread evenly lands every month exactly at the tier
	// threshold, so the whole bill prices at tier 1.
	res, err := Simulate(Input{
		AnnualProductionKwh: 0,
		Usage:               UsageProfile{AnnualKwh: 7200, Distribution: uniformDistribution()},
		Strategy:            genericStrategy(plan),
		Year:                2025,
	})
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	for _, p := range res.Periods {
		want := 600 * 0.103
		if !approx(p.CostBefore, want, 1e-6) {
			t.Errorf("%s: baseline cost = %.4f, want %.4f", p.Month, p.CostBefore, want)
		}
		if !approx(p.Savings, 0, 1e-9) {
			t.Errorf("%s: savings = %.6f, want 0 with no production", p.Month, p.Savings)
		}
	}
}

func TestSimulateRejectsWrongMonthlyLength(t *testing.T) {
	_, err := Simulate(Input{
		MonthlyProductionKwh: []int{100, 200, 300},
		Usage:                UsageProfile{AnnualKwh: 9000},
		Strategy:             genericStrategy(flatPlan()),
	})
	if err == nil {
		t.Fatal("expected error for 3-month production series")
	}
	if !errors.IsType(err, errors.TypeInput) {
		t.Errorf("error type = %v, want input error", err)
	}
}

func TestSimulateRejectsMissingPlan(t *testing.T) {
	_, err := Simulate(Input{
		AnnualProductionKwh: 8000,
		Usage:               UsageProfile{AnnualKwh: 9000},
		Strategy:            rates.Strategy{Kind: rates.StrategyGeneric},
	})
	if err == nil {
		t.Fatal("expected error for missing rate plan")
	}
	if !errors.IsType(err, errors.TypeInput) {
		t.Errorf("error type = %v, want input error", err)
	}
}

// tiedPeakPlan has two windows sharing the day's top rate in both
// seasons. Used to exercise the tie-break behavior of the smart
// dispatch mode.
func tiedPeakPlan() rates.Windowed {
	windows := []rates.Window{
		{Name: "off_peak", Rate: 0.07, StartHour: 0, EndHour: 10, UsageShare: 0.5},
		{Name: "morning_peak", Rate: 0.15, StartHour: 11, EndHour: 14, UsageShare: 0.25},
		{Name: "evening_peak", Rate: 0.15, StartHour: 17, EndHour: 20, UsageShare: 0.25},
	}
	return rates.Windowed{
		PlanID:   "tied",
		PlanName: "Tied Peaks",
		PlanKind: rates.KindTOU,
		Summer:   windows,
		Winter:   windows,
		Export:   0.05,
	}
}

func TestSimulateAITieBreak(t *testing.T) {
	battery := &BatterySpec{
		ID:                  "b1",
		Capacity:            10,
		UsableDoD:           1.0,
		RoundTripEfficiency: 0.9,
		PowerKw:             5,
	}
	base := Input{
		MonthlyProductionKwh: repeatMonthly(600),
		Usage:                UsageProfile{AnnualKwh: 10800, Distribution: uniformDistribution()},
		Strategy:             genericStrategy(tiedPeakPlan()),
		Battery:              battery,
		Year:                 2025,
		NetCostDollars:       25000,
	}

	plain, err := Simulate(base)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if plain.Periods[0].BatteryOutKwh <= 0 {
		t.Fatal("fixture should produce battery discharge")
	}

	aiDefault := base
	aiDefault.AIMode = true
	tied, err := Simulate(aiDefault)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if !approx(tied.AnnualSavings, plain.AnnualSavings, 1e-9) {
		t.Errorf("tied peak with default tie-break: savings %.4f, want plain %.4f",
			tied.AnnualSavings, plain.AnnualSavings)
	}

	aiEarliest := aiDefault
	aiEarliest.AITieBreak = TieBreakEarliest
	earliest, err := Simulate(aiEarliest)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if earliest.AnnualSavings <= plain.AnnualSavings {
		t.Errorf("earliest tie-break should raise savings: %.4f <= %.4f",
			earliest.AnnualSavings, plain.AnnualSavings)
	}
}

// singlePeakPlan has one window far above the rest, so the smart
// dispatch uplift dwarfs the import cost when the battery covers
// nearly the whole deficit.
func singlePeakPlan() rates.Windowed {
	windows := []rates.Window{
		{Name: "off_peak", Rate: 0.05, StartHour: 0, EndHour: 16, UsageShare: 0.6},
		{Name: "on_peak", Rate: 0.50, StartHour: 16, EndHour: 21, UsageShare: 0.4},
	}
	return rates.Windowed{
		PlanID:   "peaky",
		PlanName: "Single Peak",
		PlanKind: rates.KindTOU,
		Summer:   windows,
		Winter:   windows,
		Export:   0.03,
	}
}

func TestSimulateAIBonusNeverDrivesCostNegative(t *testing.T) {
	// Generation at twice consumption with a big lossless battery:
	// every month imports ~0, so an unfloored dispatch uplift would
	// push the post-dispatch cost below zero.
	battery := &BatterySpec{
		ID:                  "big",
		Capacity:            13.5,
		UsableDoD:           1.0,
		RoundTripEfficiency: 1.0,
		PowerKw:             5,
	}
	res, err := Simulate(Input{
		MonthlyProductionKwh: repeatMonthly(620),
		Usage:                UsageProfile{AnnualKwh: 3720, Distribution: uniformDistribution()},
		Strategy:             genericStrategy(singlePeakPlan()),
		Battery:              battery,
		AIMode:               true,
		Year:                 2025,
	})
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if res.Periods[0].BatteryOutKwh <= 0 {
		t.Fatal("fixture should produce battery discharge")
	}
	for _, p := range res.Periods {
		if p.CostAfter < 0 {
			t.Errorf("%s: CostAfter = %.4f, want >= 0", p.Month, p.CostAfter)
		}
	}
}

func TestSimulateProvincialProgram(t *testing.T) {
	strategy := rates.Select("AB", nil, -1)
	if strategy.Kind != rates.StrategyProvincial {
		t.Fatalf("region AB should dispatch provincially, got %q", strategy.Kind)
	}

	res, err := Simulate(Input{
		MonthlyProductionKwh: repeatMonthly(1000),
		Usage:                UsageProfile{AnnualKwh: 7200, Distribution: uniformDistribution()},
		Strategy:             strategy,
		Year:                 2025,
		NetCostDollars:       24000,
	})
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if res.Strategy != string(rates.StrategyProvincial) {
		t.Errorf("result strategy = %q, want provincial", res.Strategy)
	}

	// January: production derated 10% for snow, exports credited at
	// the winter rate. 900 gen, 600 use, 300 exported.
	jan := res.Periods[0]
	if !approx(jan.GenerationKwh, 900, 1e-9) {
		t.Errorf("January generation = %.2f, want 900 after snow derate", jan.GenerationKwh)
	}
	if !approx(jan.Savings, 600*0.095+300*0.095, 1e-6) {
		t.Errorf("January savings = %.4f, want %.4f", jan.Savings, 600*0.095+300*0.095)
	}

	// July: no derate, exports earn the summer credit rate.
	jul := res.Periods[6]
	if !approx(jul.GenerationKwh, 1000, 1e-9) {
		t.Errorf("July generation = %.2f, want 1000", jul.GenerationKwh)
	}
	wantJuly := 600*0.095 + 400*0.30
	if !approx(jul.Savings, wantJuly, 1e-6) {
		t.Errorf("July savings = %.4f, want %.4f", jul.Savings, wantJuly)
	}
}

func TestSimulateProvincialRejectsBattery(t *testing.T) {
	battery := BatterySpec{
		ID:                  "pack",
		Capacity:            13.5,
		UsableDoD:           1.0,
		RoundTripEfficiency: 0.95,
		PowerKw:             5,
	}
	_, err := Simulate(Input{
		MonthlyProductionKwh: repeatMonthly(600),
		Usage:                UsageProfile{AnnualKwh: 7200, Distribution: uniformDistribution()},
		Strategy:             rates.Select("AB", nil, -1),
		Battery:              &battery,
		Year:                 2025,
	})
	if err == nil {
		t.Fatal("expected error combining a battery with the provincial program")
	}
	if !errors.IsType(err, errors.TypeInput) {
		t.Errorf("error type = %v, want input error", err)
	}
}

func TestSimulateIntervalsConservation(t *testing.T) {
	var intervals []IntervalUsage
	for day := 1; day <= 2; day++ {
		for h := 0; h < 24; h++ {
			intervals = append(intervals, IntervalUsage{
				Start: time.Date(2025, time.July, day, h, 0, 0, 0, time.UTC),
				Kwh:   1.0,
			})
		}
	}

	monthly := make([]int, 12)
	monthly[6] = 310 // 10 kWh per July day

	res, err := Simulate(Input{
		MonthlyProductionKwh: monthly,
		Usage:                UsageProfile{Intervals: intervals},
		Strategy:             genericStrategy(tiedPeakPlan()),
		Year:                 2025,
	})
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if len(res.Periods) != 1 {
		t.Fatalf("got %d periods, want 1 (only July has data)", len(res.Periods))
	}

	p := res.Periods[0]
	if p.Month != time.July {
		t.Errorf("period month = %v, want July", p.Month)
	}
	if !approx(p.ConsumptionKwh, 48, 1e-9) {
		t.Errorf("consumption = %.4f, want 48", p.ConsumptionKwh)
	}
	if !approx(p.GenerationKwh, 20, 1e-6) {
		t.Errorf("generation = %.4f, want 20", p.GenerationKwh)
	}
	if !approx(p.SelfConsumedKwh+p.ExportedKwh, p.GenerationKwh, 1e-9) {
		t.Errorf("self %.4f + exported %.4f != generation %.4f",
			p.SelfConsumedKwh, p.ExportedKwh, p.GenerationKwh)
	}
	if !approx(p.SelfConsumedKwh+p.ImportedKwh, p.ConsumptionKwh, 1e-9) {
		t.Errorf("self %.4f + imported %.4f != consumption %.4f",
			p.SelfConsumedKwh, p.ImportedKwh, p.ConsumptionKwh)
	}
}

func TestSimulateIntervalsBatteryResetsOvernight(t *testing.T) {
	battery := &BatterySpec{
		ID:                  "b1",
		Capacity:            20,
		UsableDoD:           1.0,
		RoundTripEfficiency: 1.0,
		PowerKw:             10,
	}

	// Heavy midday generation with no load on day one, then a pre-dawn
	// draw on day two. A carried-over charge would cover the second
	// day's deficit; an overnight reset cannot.
	intervals := []IntervalUsage{
		{Start: time.Date(2025, time.July, 1, 13, 0, 0, 0, time.UTC), Kwh: 0},
		{Start: time.Date(2025, time.July, 2, 2, 0, 0, 0, time.UTC), Kwh: 5},
	}
	monthly := make([]int, 12)
	monthly[6] = 3100 // 100 kWh per day, plenty of midday surplus

	res, err := Simulate(Input{
		MonthlyProductionKwh: monthly,
		Usage:                UsageProfile{Intervals: intervals},
		Strategy:             genericStrategy(flatPlan()),
		Battery:              battery,
		Year:                 2025,
	})
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}

	p := res.Periods[0]
	if p.BatteryInKwh <= 0 {
		t.Fatal("day one surplus should charge the battery")
	}
	// Day two at 02:00 has zero generation; the 5 kWh draw must come
	// from the grid because the charge did not survive the night.
	if p.ImportedKwh < 4.5 {
		t.Errorf("imported = %.4f, want roughly 5 after overnight reset", p.ImportedKwh)
	}
}

func TestUsageProfileValidation(t *testing.T) {
	tests := []struct {
		name    string
		profile UsageProfile
		wantErr bool
	}{
		{"annual only", UsageProfile{AnnualKwh: 9000}, false},
		{"zero annual", UsageProfile{}, true},
		{"negative annual", UsageProfile{AnnualKwh: -100}, true},
		{"good distribution", UsageProfile{AnnualKwh: 9000, Distribution: uniformDistribution()}, false},
		{"short distribution", UsageProfile{AnnualKwh: 9000, Distribution: []float64{0.5, 0.5}}, true},
		{"distribution off sum", UsageProfile{AnnualKwh: 9000, Distribution: []float64{
			0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2}}, true},
		{"intervals", UsageProfile{Intervals: []IntervalUsage{
			{Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Kwh: 1}}}, false},
		{"interval without timestamp", UsageProfile{Intervals: []IntervalUsage{{Kwh: 1}}}, true},
		{"negative interval", UsageProfile{Intervals: []IntervalUsage{
			{Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Kwh: -1}}}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.profile.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestBatterySpecValidation(t *testing.T) {
	good := BatterySpec{Capacity: 13.5, UsableDoD: 0.9, RoundTripEfficiency: 0.9, PowerKw: 5}
	if err := good.Validate(); err != nil {
		t.Errorf("valid spec rejected: %v", err)
	}
	if !approx(good.UsableKwh(), 12.15, 1e-9) {
		t.Errorf("UsableKwh = %v, want 12.15", good.UsableKwh())
	}

	bad := []BatterySpec{
		{Capacity: 0, UsableDoD: 0.9, RoundTripEfficiency: 0.9},
		{Capacity: 10, UsableDoD: 1.5, RoundTripEfficiency: 0.9},
		{Capacity: 10, UsableDoD: 0.9, RoundTripEfficiency: 0},
		{Capacity: 10, UsableDoD: 0.9, RoundTripEfficiency: 0.9, PowerKw: -1},
	}
	for i, spec := range bad {
		if err := spec.Validate(); err == nil {
			t.Errorf("spec %d: expected validation error", i)
		}
	}
}
