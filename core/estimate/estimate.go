// Package estimate orchestrates one savings estimate end to end: panel
// layout over the roof geometry, a production estimate for the
// resulting capacity, and the rate simulation that turns energy into
// dollars.
package estimate

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solarquote/core/geo"
	"solarquote/core/production"
	"solarquote/core/rates"
	"solarquote/core/roof"
	"solarquote/core/simulation"
	"solarquote/internal/errors"
	"solarquote/internal/logging"
)

// Store resolves reference data by id. Implemented by the refdata
// adapter; faked in tests.
type Store interface {
	Panel(id string) (roof.PanelSpec, error)
	Battery(id string) (simulation.BatterySpec, error)
	Plan(id string) (rates.Plan, error)
}

// SectionInput is one roof face as the caller describes it: either a
// geographic ring or a named preset.
type SectionInput struct {
	ID string `json:"id,omitempty"`

	// Ring is the roof outline as lat/lng vertices.
	Ring []geo.LatLng `json:"ring,omitempty"`

	// Preset names a canned roof shape instead of a ring.
	Preset string `json:"preset,omitempty"`

	// AzimuthDeg overrides the derived panel-facing azimuth.
	AzimuthDeg *float64 `json:"azimuth_deg,omitempty"`
}

// Request is one estimate request. Zero-value optional fields fall
// back to configured defaults.
type Request struct {
	Sections []SectionInput `json:"sections"`

	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	PanelID string                  `json:"panel_id"`
	Pitch   production.PitchClass   `json:"pitch,omitempty"`
	Shading production.ShadingLevel `json:"shading,omitempty"`
	Region  string                  `json:"region,omitempty"`
	PlanID  string                  `json:"plan_id,omitempty"`

	AnnualUsageKwh    float64                    `json:"annual_usage_kwh"`
	UsageDistribution []float64                  `json:"usage_distribution,omitempty"`
	Intervals         []simulation.IntervalUsage `json:"intervals,omitempty"`

	BatteryID  string              `json:"battery_id,omitempty"`
	AIMode     bool                `json:"ai_mode,omitempty"`
	AITieBreak simulation.TieBreak `json:"ai_tie_break,omitempty"`

	NetCostDollars float64 `json:"net_cost_dollars"`

	// Year pins the simulation calendar (month lengths, seasons).
	// Zero means the current year, so identical requests straddling a
	// year boundary should set it explicitly.
	Year int `json:"year,omitempty"`

	// SnowLossOverride replaces the provincial program's snow-loss
	// default when set.
	SnowLossOverride *float64 `json:"snow_loss_override,omitempty"`

	LayoutStyle    roof.Style `json:"layout_style,omitempty"`
	ExtraRotations []float64  `json:"extra_rotations,omitempty"`
}

// Response is the full estimate output. Energy is integer kWh, money
// is whole dollars, percentages carry one decimal.
type Response struct {
	Layout     roof.LayoutResult   `json:"layout"`
	Production production.Estimate `json:"production"`

	AnnualSavings  float64                   `json:"annual_savings"`
	MonthlySavings [12]float64               `json:"monthly_savings"`
	OffsetPercent  float64                   `json:"offset_percent"`
	PaybackYears   float64                   `json:"payback_years"`
	Strategy       string                    `json:"strategy"`
	Periods        []simulation.PeriodResult `json:"periods"`
}

// Defaults are the configured fallbacks applied to sparse requests.
type Defaults struct {
	Region string
	PlanID string
}

// Service runs estimates against a reference-data store and a
// production estimator. Stateless; safe for concurrent use.
type Service struct {
	store      Store
	production *production.Estimator
	defaults   Defaults
}

// NewService wires an estimate service.
func NewService(store Store, prodEstimator *production.Estimator, defaults Defaults) *Service {
	return &Service{store: store, production: prodEstimator, defaults: defaults}
}

// Run executes one estimate request.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	if len(req.Sections) == 0 {
		return nil, errors.Input("at least one roof section is required")
	}
	if req.Region == "" {
		req.Region = s.defaults.Region
	}
	if req.PlanID == "" {
		req.PlanID = s.defaults.PlanID
	}

	spec, err := s.store.Panel(req.PanelID)
	if err != nil {
		return nil, err
	}

	sections, err := buildSections(req.Sections)
	if err != nil {
		return nil, err
	}

	opts := roof.DefaultOptions()
	if req.LayoutStyle != "" {
		opts.Style = req.LayoutStyle
	}
	if len(req.ExtraRotations) > 0 {
		opts.ExtraRotations = req.ExtraRotations
	}
	layout := roof.Layout(sections, spec, opts)

	prod := s.production.Estimate(ctx, production.Request{
		Lat:        req.Lat,
		Lng:        req.Lng,
		SystemKw:   layout.CapacityKw,
		Pitch:      req.Pitch,
		Region:     req.Region,
		AzimuthDeg: dominantAzimuth(layout),
		Shading:    req.Shading,
	})

	strategy, err := s.selectStrategy(req)
	if err != nil {
		return nil, err
	}

	var battery *simulation.BatterySpec
	if req.BatteryID != "" {
		b, err := s.store.Battery(req.BatteryID)
		if err != nil {
			return nil, err
		}
		battery = &b
	}

	monthly := make([]int, 12)
	for m, v := range prod.MonthlyKwh {
		monthly[m] = v
	}

	sim, err := simulation.Simulate(simulation.Input{
		MonthlyProductionKwh: monthly,
		Usage: simulation.UsageProfile{
			AnnualKwh:    req.AnnualUsageKwh,
			Distribution: req.UsageDistribution,
			Intervals:    req.Intervals,
		},
		Strategy:       strategy,
		Battery:        battery,
		AIMode:         req.AIMode,
		AITieBreak:     req.AITieBreak,
		Year:           req.Year,
		NetCostDollars: req.NetCostDollars,
	})
	if err != nil {
		return nil, err
	}

	logging.Info("estimate complete",
		zap.String("region", req.Region),
		zap.Int("panel_count", layout.PanelCount),
		zap.Float64("capacity_kw", layout.CapacityKw),
		zap.Int("annual_kwh", prod.AnnualKwh),
		zap.String("production_source", prod.Source),
		zap.String("strategy", sim.Strategy))

	return buildResponse(layout, prod, sim), nil
}

// selectStrategy resolves the pricing path for the request's region.
// Regions with a provincial program never consult the plan store.
func (s *Service) selectStrategy(req Request) (rates.Strategy, error) {
	snowLoss := -1.0
	if req.SnowLossOverride != nil {
		snowLoss = *req.SnowLossOverride
	}
	if rates.HasProvincialProgram(req.Region) {
		return rates.Select(req.Region, nil, snowLoss), nil
	}
	plan, err := s.store.Plan(req.PlanID)
	if err != nil {
		return rates.Strategy{}, err
	}
	return rates.Select(req.Region, plan, snowLoss), nil
}

// buildSections converts caller geometry into layout sections.
func buildSections(inputs []SectionInput) ([]roof.Section, error) {
	sections := make([]roof.Section, 0, len(inputs))
	for i, in := range inputs {
		var sec roof.Section
		switch {
		case in.Preset != "":
			var err error
			sec, err = roof.PresetSection(in.Preset)
			if err != nil {
				return nil, err
			}
		case len(in.Ring) >= 3:
			sec = roof.NewSectionFromRing(in.ID, in.Ring)
		default:
			return nil, errors.Inputf("section %d: need a preset or a ring of at least 3 vertices", i)
		}
		if in.ID != "" {
			sec.ID = in.ID
		}
		sec.AzimuthOverride = in.AzimuthDeg
		sections = append(sections, sec)
	}
	return sections, nil
}

// dominantAzimuth picks the azimuth of the section carrying the most
// panels, which is what the single-azimuth production model wants.
func dominantAzimuth(layout roof.LayoutResult) float64 {
	best := 180.0
	bestCount := -1
	for _, s := range layout.Sections {
		if s.PanelCount > bestCount {
			bestCount = s.PanelCount
			best = s.AzimuthDeg
		}
	}
	return best
}

// buildResponse applies the display rounding rules: money to whole
// dollars, percentages and years to one decimal.
func buildResponse(layout roof.LayoutResult, prod production.Estimate, sim *simulation.Result) *Response {
	resp := &Response{
		Layout:        layout,
		Production:    prod,
		AnnualSavings: roundDollars(sim.AnnualSavings),
		OffsetPercent: roundTenth(sim.OffsetPercent),
		PaybackYears:  roundTenth(sim.PaybackYears),
		Strategy:      sim.Strategy,
		Periods:       sim.Periods,
	}
	for m, v := range sim.MonthlySavings {
		resp.MonthlySavings[m] = roundDollars(v)
	}
	return resp
}

func roundDollars(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(0).Float64()
	return out
}

func roundTenth(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return out
}
