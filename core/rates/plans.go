package rates

import (
	"math"
	"time"
)

// Flat is a single blended $/kWh rate.
type Flat struct {
	PlanID   string
	PlanName string
	Rate     float64
	Export   float64
}

func (p Flat) ID() string   { return p.PlanID }
func (p Flat) Name() string { return p.PlanName }
func (p Flat) Kind() Kind   { return KindFlat }

func (p Flat) PeriodCost(_ time.Time, kwh float64) float64 {
	return kwh * p.Rate
}

func (p Flat) ExportRate() float64 {
	return p.Export
}

func (p Flat) Windows(time.Time) []Window {
	return nil
}

// Tiered applies a lower rate up to a monthly threshold and a higher
// rate above it. Usage exactly at the threshold is all tier 1.
type Tiered struct {
	PlanID       string
	PlanName     string
	Tier1Rate    float64
	Tier2Rate    float64
	ThresholdKwh float64
	Export       float64
}

func (p Tiered) ID() string   { return p.PlanID }
func (p Tiered) Name() string { return p.PlanName }
func (p Tiered) Kind() Kind   { return KindTiered }

// PeriodCost prices one month of consumption across the two tiers.
func (p Tiered) PeriodCost(_ time.Time, kwh float64) float64 {
	if kwh <= 0 {
		return 0
	}
	tier1 := math.Min(kwh, p.ThresholdKwh)
	tier2 := math.Max(0, kwh-p.ThresholdKwh)
	return tier1*p.Tier1Rate + tier2*p.Tier2Rate
}

func (p Tiered) ExportRate() float64 {
	return p.Export
}

func (p Tiered) Windows(time.Time) []Window {
	return nil
}

// Windowed is the shared engine behind TOU and ULO plans: seasonal
// schedules of named intra-day windows with fixed rates.
type Windowed struct {
	PlanID   string
	PlanName string
	PlanKind Kind
	Summer   []Window
	Winter   []Window
	Export   float64
}

func (p Windowed) ID() string   { return p.PlanID }
func (p Windowed) Name() string { return p.PlanName }
func (p Windowed) Kind() Kind   { return p.PlanKind }

// PeriodCost blends the applicable schedule's windows by their usage
// shares. Interval-level pricing uses RateAt instead.
func (p Windowed) PeriodCost(start time.Time, kwh float64) float64 {
	cost := 0.0
	for _, w := range p.Windows(start) {
		cost += kwh * w.UsageShare * w.Rate
	}
	return cost
}

func (p Windowed) ExportRate() float64 {
	return p.Export
}

// Windows returns the seasonal schedule in effect at t.
func (p Windowed) Windows(t time.Time) []Window {
	if SeasonOf(t) == SeasonSummer {
		return p.Summer
	}
	return p.Winter
}

// RateAt returns the $/kWh import price at a specific time of day.
// Hours not covered by any declared window fall back to the cheapest
// window's rate.
func (p Windowed) RateAt(t time.Time) float64 {
	hour := t.Hour()
	schedule := p.Windows(t)
	cheapest := math.Inf(1)
	for _, w := range schedule {
		if hour >= w.StartHour && hour < w.EndHour {
			return w.Rate
		}
		cheapest = math.Min(cheapest, w.Rate)
	}
	if math.IsInf(cheapest, 1) {
		return 0
	}
	return cheapest
}

// PeakWindow returns the highest-priced window of the day at t. Used by
// the battery dispatch heuristic.
func (p Windowed) PeakWindow(t time.Time) (Window, bool) {
	schedule := p.Windows(t)
	if len(schedule) == 0 {
		return Window{}, false
	}
	best := schedule[0]
	for _, w := range schedule[1:] {
		if w.Rate > best.Rate {
			best = w
		}
	}
	return best, true
}
