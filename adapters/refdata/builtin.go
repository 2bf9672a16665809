package refdata

import (
	"solarquote/core/rates"
	"solarquote/core/roof"
	"solarquote/core/simulation"
)

// builtin is the catalog compiled into the binary: the reference
// market's regulated plans plus a small set of common panel and
// battery models. Data directories override it wholesale.
func builtin() *Store {
	s := &Store{
		plans:     make(map[string]rates.Plan),
		panels:    make(map[string]roof.PanelSpec),
		batteries: make(map[string]simulation.BatterySpec),
	}

	touSummer := []rates.Window{
		{Name: "off_peak", Rate: 0.076, StartHour: 0, EndHour: 7, UsageShare: 0.30},
		{Name: "mid_peak", Rate: 0.122, StartHour: 7, EndHour: 11, UsageShare: 0.14},
		{Name: "on_peak", Rate: 0.158, StartHour: 11, EndHour: 17, UsageShare: 0.18},
		{Name: "mid_peak_pm", Rate: 0.122, StartHour: 17, EndHour: 19, UsageShare: 0.04},
		{Name: "off_peak_pm", Rate: 0.076, StartHour: 19, EndHour: 24, UsageShare: 0.34},
	}
	touWinter := []rates.Window{
		{Name: "off_peak", Rate: 0.076, StartHour: 0, EndHour: 7, UsageShare: 0.30},
		{Name: "on_peak", Rate: 0.158, StartHour: 7, EndHour: 11, UsageShare: 0.14},
		{Name: "mid_peak", Rate: 0.122, StartHour: 11, EndHour: 17, UsageShare: 0.18},
		{Name: "on_peak_pm", Rate: 0.158, StartHour: 17, EndHour: 19, UsageShare: 0.04},
		{Name: "off_peak_pm", Rate: 0.076, StartHour: 19, EndHour: 24, UsageShare: 0.34},
	}
	uloDay := []rates.Window{
		{Name: "ultra_low", Rate: 0.028, StartHour: 0, EndHour: 7, UsageShare: 0.25},
		{Name: "mid_peak", Rate: 0.122, StartHour: 7, EndHour: 16, UsageShare: 0.38},
		{Name: "on_peak", Rate: 0.284, StartHour: 16, EndHour: 21, UsageShare: 0.22},
		{Name: "mid_peak_pm", Rate: 0.122, StartHour: 21, EndHour: 23, UsageShare: 0.10},
		{Name: "ultra_low_pm", Rate: 0.028, StartHour: 23, EndHour: 24, UsageShare: 0.05},
	}

	for _, p := range []rates.Plan{
		rates.Windowed{
			PlanID:   "tou",
			PlanName: "Time-of-Use",
			PlanKind: rates.KindTOU,
			Summer:   touSummer,
			Winter:   touWinter,
			Export:   0.076,
		},
		rates.Windowed{
			PlanID:   "ulo",
			PlanName: "Ultra-Low Overnight",
			PlanKind: rates.KindULO,
			Summer:   uloDay,
			Winter:   uloDay,
			Export:   0.076,
		},
		rates.Tiered{
			PlanID:       "tiered",
			PlanName:     "Tiered",
			Tier1Rate:    0.103,
			Tier2Rate:    0.125,
			ThresholdKwh: 600,
			Export:       0.103,
		},
		rates.Flat{
			PlanID:   "flat",
			PlanName: "Flat Rate",
			Rate:     0.125,
			Export:   0.125,
		},
	} {
		s.plans[p.ID()] = p
	}

	setbacks := roof.Setbacks{Eave: 0.9, Ridge: 0.3, Valley: 0.45, Rake: 0.3}
	for _, p := range []roof.PanelSpec{
		{
			ID: "std-400", Name: "Standard 400W",
			WidthM: 1.722, HeightM: 1.134, Watts: 400,
			RowSpacing: 0.02, ColSpacing: 0.02, Setbacks: setbacks,
		},
		{
			ID: "prem-430", Name: "Premium 430W",
			WidthM: 1.762, HeightM: 1.134, Watts: 430,
			RowSpacing: 0.02, ColSpacing: 0.02, Setbacks: setbacks,
		},
	} {
		s.panels[p.ID] = p
	}

	for _, b := range []simulation.BatterySpec{
		{
			ID: "lfp-13", Name: "LFP 13.5 kWh",
			Capacity: 13.5, UsableDoD: 0.95, RoundTripEfficiency: 0.90,
			PowerKw: 5, CRate: 0.5,
		},
		{
			ID: "nmc-10", Name: "NMC 10 kWh",
			Capacity: 10, UsableDoD: 0.90, RoundTripEfficiency: 0.92,
			PowerKw: 5, CRate: 0.5,
		},
		{
			ID: "stack-16", Name: "Stackable 16 kWh",
			Capacity: 16, UsableDoD: 0.95, RoundTripEfficiency: 0.90,
			PowerKw: 7.6, CRate: 0.5,
		},
	} {
		s.batteries[b.ID] = b
	}

	return s
}
