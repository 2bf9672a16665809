package simulation

import (
	"math"
	"time"

	"solarquote/internal/errors"
)

// usageDistribution is the canonical monthly consumption split for the
// reference market: heating-driven winter peaks with a smaller summer
// cooling bump. Sums to 1.0.
var usageDistribution = [12]float64{
	0.095, // Jan
	0.088, // Feb
	0.083, // Mar
	0.077, // Apr
	0.075, // May
	0.082, // Jun
	0.090, // Jul
	0.088, // Aug
	0.078, // Sep
	0.077, // Oct
	0.080, // Nov
	0.087, // Dec
}

// UsageDistribution returns the canonical monthly consumption split.
func UsageDistribution() [12]float64 {
	return usageDistribution
}

// IntervalUsage is one caller-supplied metered usage point.
type IntervalUsage struct {
	Start time.Time `json:"start"`
	Kwh   float64   `json:"kwh"`
}

// UsageProfile describes home consumption either as an annual total
// spread over a distribution or as metered interval data. Interval
// data, when present, supersedes the synthetic distribution.
type UsageProfile struct {
	AnnualKwh float64 `json:"annual_kwh"`

	// Distribution optionally replaces the canonical monthly split.
	// Must hold exactly 12 fractions summing to 1.
	Distribution []float64 `json:"distribution,omitempty"`

	// Intervals is metered usage data, finest granularity available.
	Intervals []IntervalUsage `json:"intervals,omitempty"`
}

// HasIntervals reports whether metered data drives the simulation.
func (u UsageProfile) HasIntervals() bool {
	return len(u.Intervals) > 0
}

// Validate checks the profile's invariants.
func (u UsageProfile) Validate() error {
	if u.HasIntervals() {
		for _, iv := range u.Intervals {
			if iv.Kwh < 0 {
				return errors.Input("interval usage must not be negative")
			}
			if iv.Start.IsZero() {
				return errors.Input("interval usage requires timestamps")
			}
		}
		return nil
	}
	if u.AnnualKwh <= 0 {
		return errors.Input("annual usage must be positive")
	}
	if u.Distribution != nil {
		if len(u.Distribution) != 12 {
			return errors.Inputf("usage distribution has %d entries, want 12", len(u.Distribution))
		}
		sum := 0.0
		for _, f := range u.Distribution {
			if f < 0 {
				return errors.Input("usage distribution fractions must not be negative")
			}
			sum += f
		}
		if math.Abs(sum-1.0) > 1e-3 {
			return errors.Inputf("usage distribution sums to %.4f, want 1.0", sum)
		}
	}
	return nil
}

// Monthly returns consumption per calendar month. Interval data is
// aggregated by month; otherwise the annual total is spread over the
// selected distribution.
func (u UsageProfile) Monthly() [12]float64 {
	var out [12]float64
	if u.HasIntervals() {
		for _, iv := range u.Intervals {
			out[int(iv.Start.Month())-1] += iv.Kwh
		}
		return out
	}

	dist := usageDistribution
	if len(u.Distribution) == 12 {
		copy(dist[:], u.Distribution)
	}
	for m := 0; m < 12; m++ {
		out[m] = u.AnnualKwh * dist[m]
	}
	return out
}
