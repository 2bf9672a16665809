package production

import "math"

const sourceFallback = "fallback"

// defaultYield is the empirical specific yield for the reference
// market, kWh per kW of DC capacity per year.
const defaultYield = 1200.0

// regionalYields overrides the specific yield per province. Values are
// installer rules of thumb, not derived.
var regionalYields = map[string]float64{
	"AB": 1276,
	"SK": 1330,
	"MB": 1255,
	"ON": 1166,
	"QC": 1183,
	"BC": 1004,
	"NS": 1090,
	"NB": 1145,
}

// seasonalCurve distributes annual production across calendar months
// for a northern-hemisphere fixed-tilt array: winter low, summer high.
// Sums to 1.0.
var seasonalCurve = [12]float64{
	0.045, // Jan
	0.060, // Feb
	0.080, // Mar
	0.095, // Apr
	0.110, // May
	0.115, // Jun
	0.120, // Jul
	0.110, // Aug
	0.095, // Sep
	0.075, // Oct
	0.050, // Nov
	0.045, // Dec
}

// SeasonalCurve returns the canonical monthly production distribution.
// Shared with the simulation engine for renormalizing bare annual
// totals.
func SeasonalCurve() [12]float64 {
	return seasonalCurve
}

// RegionalYield returns the specific yield for a region code, falling
// back to the reference-market constant.
func RegionalYield(region string) float64 {
	if y, ok := regionalYields[region]; ok {
		return y
	}
	return defaultYield
}

// Fallback computes the deterministic local estimate: capacity times
// regional yield times shading, spread over the seasonal curve.
func Fallback(req Request) Estimate {
	annual := req.SystemKw * RegionalYield(req.Region) * req.Shading.Multiplier()

	est := Estimate{
		AnnualKwh: int(math.Round(annual)),
		Source:    sourceFallback,
	}
	for m := 0; m < 12; m++ {
		est.MonthlyKwh[m] = int(math.Round(annual * seasonalCurve[m]))
	}
	if req.SystemKw > 0 {
		est.CapacityFactor = annual / (req.SystemKw * 8760)
	}
	return est
}
