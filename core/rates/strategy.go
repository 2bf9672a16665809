package rates

// StrategyKind tags which pricing path an estimate takes.
type StrategyKind string

const (
	// StrategyGeneric runs the net-metering engine against a Plan.
	StrategyGeneric StrategyKind = "generic"

	// StrategyProvincial runs the bespoke provincial-program path. Its
	// settlement rules (seasonal export credits, snow-loss handling)
	// do not fit the net-metering abstraction, so it is a hard branch,
	// not a Plan variant.
	StrategyProvincial StrategyKind = "provincial"
)

// ProvincialProgram carries the provincial program's bespoke pricing
// parameters.
type ProvincialProgram struct {
	Region string `json:"region"`

	// SummerCreditRate is the $/kWh export credit during the program's
	// high-credit season.
	SummerCreditRate float64 `json:"summer_credit_rate"`

	// WinterRate is the $/kWh import price during the low season.
	WinterRate float64 `json:"winter_rate"`

	// SnowLossFactor scales winter production for snow cover, 0..1
	// fraction lost.
	SnowLossFactor float64 `json:"snow_loss_factor"`
}

// Strategy is the tagged pricing variant dispatched per region.
type Strategy struct {
	Kind       StrategyKind
	Plan       Plan              // set when Kind is StrategyGeneric
	Provincial ProvincialProgram // set when Kind is StrategyProvincial
}

// provincialPrograms maps region codes onto their program defaults.
// Only regions listed here take the provincial path.
var provincialPrograms = map[string]ProvincialProgram{
	"AB": {
		Region:           "AB",
		SummerCreditRate: 0.30,
		WinterRate:       0.095,
		SnowLossFactor:   0.10,
	},
}

// Select dispatches a region onto its pricing strategy. Regions with a
// provincial program always take the provincial path; everyone else
// gets the generic engine over the supplied plan. A non-negative
// snowLoss overrides the program default.
func Select(region string, plan Plan, snowLoss float64) Strategy {
	if prog, ok := provincialPrograms[region]; ok {
		if snowLoss >= 0 {
			prog.SnowLossFactor = snowLoss
		}
		return Strategy{Kind: StrategyProvincial, Provincial: prog}
	}
	return Strategy{Kind: StrategyGeneric, Plan: plan}
}

// HasProvincialProgram reports whether a region dispatches to the
// provincial path.
func HasProvincialProgram(region string) bool {
	_, ok := provincialPrograms[region]
	return ok
}
