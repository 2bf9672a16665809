// Package rates models electricity tariffs as a small closed set of
// declarative plan shapes. Plans are immutable reference data loaded at
// startup; pricing functions are pure.
package rates

import "time"

// Kind enumerates the closed set of plan shapes.
type Kind string

const (
	KindFlat   Kind = "flat"
	KindTOU    Kind = "tou"
	KindULO    Kind = "ulo"
	KindTiered Kind = "tiered"
)

// Season splits the year for plans whose window boundaries move with
// the calendar.
type Season string

const (
	SeasonSummer Season = "summer"
	SeasonWinter Season = "winter"
)

// SeasonOf returns the season containing t. Summer runs May through
// October, the reference market's TOU convention.
func SeasonOf(t time.Time) Season {
	m := t.Month()
	if m >= time.May && m <= time.October {
		return SeasonSummer
	}
	return SeasonWinter
}

// Window is one named intra-day price window.
type Window struct {
	// Name is the window label (on_peak, mid_peak, off_peak,
	// ultra_low, ...).
	Name string `json:"name"`

	// Rate is the $/kWh import price inside the window.
	Rate float64 `json:"rate"`

	// StartHour..EndHour bound the window, [start, end). An EndHour of
	// 24 means end of day; windows wrapping midnight are declared as
	// two entries.
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`

	// UsageShare is the fraction of a period's consumption assumed to
	// fall inside this window when simulating at monthly granularity.
	// Shares across a schedule sum to 1.
	UsageShare float64 `json:"usage_share"`
}

// Plan prices energy. All implementations are pure and safe for
// concurrent use.
type Plan interface {
	// ID is the reference key callers select the plan by.
	ID() string

	// Name is the display name.
	Name() string

	// Kind reports the plan shape.
	Kind() Kind

	// PeriodCost prices kwh of consumption over the period starting at
	// start. Monthly periods get the plan's blended treatment: tier
	// thresholds for tiered plans, usage-share window mixes for
	// windowed plans.
	PeriodCost(start time.Time, kwh float64) float64

	// ExportRate is the $/kWh credit for energy exported under this
	// plan's net-metering terms.
	ExportRate() float64

	// Windows returns the day's price windows at t, nil for plans
	// without intra-day structure.
	Windows(t time.Time) []Window
}
