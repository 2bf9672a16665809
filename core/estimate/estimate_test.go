package estimate

import (
	"context"
	"math"
	"testing"
	"time"

	"solarquote/core/geo"
	"solarquote/core/production"
	"solarquote/core/rates"
	"solarquote/core/roof"
	"solarquote/core/simulation"
	"solarquote/internal/errors"
)

type fakeStore struct {
	panels    map[string]roof.PanelSpec
	batteries map[string]simulation.BatterySpec
	plans     map[string]rates.Plan
	planCalls int
}

func (s *fakeStore) Panel(id string) (roof.PanelSpec, error) {
	p, ok := s.panels[id]
	if !ok {
		return roof.PanelSpec{}, errors.NotFound("panel spec", id)
	}
	return p, nil
}

func (s *fakeStore) Battery(id string) (simulation.BatterySpec, error) {
	b, ok := s.batteries[id]
	if !ok {
		return simulation.BatterySpec{}, errors.NotFound("battery spec", id)
	}
	return b, nil
}

func (s *fakeStore) Plan(id string) (rates.Plan, error) {
	s.planCalls++
	p, ok := s.plans[id]
	if !ok {
		return nil, errors.NotFound("rate plan", id)
	}
	return p, nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		panels: map[string]roof.PanelSpec{
			"std-400": {
				ID:       "std-400",
				Name:     "Standard 400W",
				WidthM:   1.7,
				HeightM:  1.0,
				Watts:    400,
				Setbacks: roof.Setbacks{Eave: 1, Ridge: 1, Valley: 1, Rake: 1},
			},
		},
		batteries: map[string]simulation.BatterySpec{
			"pack-13": {
				ID:                  "pack-13",
				Name:                "13.5 kWh Pack",
				Capacity:            13.5,
				UsableDoD:           0.9,
				RoundTripEfficiency: 0.9,
				PowerKw:             5,
			},
		},
		plans: map[string]rates.Plan{
			"flat": rates.Flat{PlanID: "flat", PlanName: "Flat", Rate: 0.12, Export: 0.08},
		},
	}
}

func newTestService(store Store) *Service {
	return NewService(store, production.NewEstimator(nil, 0), Defaults{Region: "ON", PlanID: "flat"})
}

// yearRecordingPlan wraps a flat plan and records the period start
// years it is asked to price.
type yearRecordingPlan struct {
	rates.Flat
	years map[int]bool
}

func (p *yearRecordingPlan) PeriodCost(start time.Time, kwh float64) float64 {
	p.years[start.Year()] = true
	return p.Flat.PeriodCost(start, kwh)
}

func TestRunPresetEndToEnd(t *testing.T) {
	svc := newTestService(newFakeStore())

	resp, err := svc.Run(context.Background(), Request{
		Sections:       []SectionInput{{Preset: "medium"}},
		PanelID:        "std-400",
		AnnualUsageKwh: 10000,
		NetCostDollars: 26000,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// Medium preset is 11x7 m; 1 m setbacks leave 9x5 m. Five rows of
	// five landscape panels fit.
	if resp.Layout.PanelCount != 25 {
		t.Errorf("PanelCount = %d, want 25", resp.Layout.PanelCount)
	}
	if math.Abs(resp.Layout.CapacityKw-10.0) > 1e-9 {
		t.Errorf("CapacityKw = %v, want 10.0", resp.Layout.CapacityKw)
	}
	if resp.Production.Source != "fallback" {
		t.Errorf("production source = %q, want fallback", resp.Production.Source)
	}
	// Ontario fallback yield is 1166 kWh/kW.
	if resp.Production.AnnualKwh != 11660 {
		t.Errorf("AnnualKwh = %d, want 11660", resp.Production.AnnualKwh)
	}
	if resp.AnnualSavings <= 0 {
		t.Errorf("AnnualSavings = %v, want positive", resp.AnnualSavings)
	}
	if resp.AnnualSavings != math.Round(resp.AnnualSavings) {
		t.Errorf("AnnualSavings = %v, want whole dollars", resp.AnnualSavings)
	}
	if got := math.Round(resp.OffsetPercent*10) / 10; got != resp.OffsetPercent {
		t.Errorf("OffsetPercent = %v, want one decimal", resp.OffsetPercent)
	}
	if resp.PaybackYears <= 0 || resp.PaybackYears > 25 {
		t.Errorf("PaybackYears = %v, want in (0, 25]", resp.PaybackYears)
	}
}

func TestRunAppliesDefaults(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	// No region or plan on the request; the configured defaults apply
	// and the flat plan resolves from the store.
	resp, err := svc.Run(context.Background(), Request{
		Sections:       []SectionInput{{Preset: "small"}},
		PanelID:        "std-400",
		AnnualUsageKwh: 9000,
		NetCostDollars: 15000,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if store.planCalls != 1 {
		t.Errorf("plan store consulted %d times, want 1", store.planCalls)
	}
	if resp.Strategy != string(rates.StrategyGeneric) {
		t.Errorf("strategy = %q, want generic", resp.Strategy)
	}
}

func TestRunPinsSimulationYear(t *testing.T) {
	store := newFakeStore()
	rec := &yearRecordingPlan{
		Flat:  rates.Flat{PlanID: "rec", PlanName: "Recording", Rate: 0.12, Export: 0.08},
		years: map[int]bool{},
	}
	store.plans["rec"] = rec

	_, err := newTestService(store).Run(context.Background(), Request{
		Sections:       []SectionInput{{Preset: "medium"}},
		PanelID:        "std-400",
		PlanID:         "rec",
		AnnualUsageKwh: 9600,
		NetCostDollars: 25000,
		Year:           2023,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(rec.years) != 1 || !rec.years[2023] {
		t.Errorf("plan priced years %v, want only 2023", rec.years)
	}
}

func TestRunProvincialRegionSkipsPlanStore(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	resp, err := svc.Run(context.Background(), Request{
		Sections:       []SectionInput{{Preset: "medium"}},
		PanelID:        "std-400",
		Region:         "AB",
		AnnualUsageKwh: 9000,
		NetCostDollars: 20000,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if store.planCalls != 0 {
		t.Errorf("plan store consulted %d times for provincial region, want 0", store.planCalls)
	}
	if resp.Strategy != string(rates.StrategyProvincial) {
		t.Errorf("strategy = %q, want provincial", resp.Strategy)
	}
}

func TestRunWithBattery(t *testing.T) {
	svc := newTestService(newFakeStore())

	resp, err := svc.Run(context.Background(), Request{
		Sections:       []SectionInput{{Preset: "large"}},
		PanelID:        "std-400",
		BatteryID:      "pack-13",
		AnnualUsageKwh: 12000,
		NetCostDollars: 40000,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	charged := 0.0
	for _, p := range resp.Periods {
		charged += p.BatteryInKwh
	}
	if charged <= 0 {
		t.Error("battery request should show charging activity")
	}
}

func TestRunRingSections(t *testing.T) {
	svc := newTestService(newFakeStore())

	// Roughly 12x8 m footprint near Toronto.
	dLat := 8.0 / 111320.0
	dLng := 12.0 / (111320.0 * math.Cos(43.65*math.Pi/180))
	ring := []geo.LatLng{
		{Lat: 43.65, Lng: -79.38},
		{Lat: 43.65, Lng: -79.38 + dLng},
		{Lat: 43.65 + dLat, Lng: -79.38 + dLng},
		{Lat: 43.65 + dLat, Lng: -79.38},
	}

	resp, err := svc.Run(context.Background(), Request{
		Sections:       []SectionInput{{ID: "main", Ring: ring}},
		Lat:            43.65,
		Lng:            -79.38,
		PanelID:        "std-400",
		AnnualUsageKwh: 9000,
		NetCostDollars: 18000,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if resp.Layout.PanelCount == 0 {
		t.Error("12x8 m roof should fit panels")
	}
	if len(resp.Layout.Sections) != 1 || resp.Layout.Sections[0].SectionID != "main" {
		t.Errorf("sections = %+v, want one named main", resp.Layout.Sections)
	}
}

func TestRunValidation(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	tests := []struct {
		name string
		req  Request
	}{
		{"no sections", Request{PanelID: "std-400", AnnualUsageKwh: 9000}},
		{"unknown panel", Request{
			Sections: []SectionInput{{Preset: "small"}}, PanelID: "nope", AnnualUsageKwh: 9000}},
		{"unknown battery", Request{
			Sections: []SectionInput{{Preset: "small"}}, PanelID: "std-400",
			BatteryID: "nope", AnnualUsageKwh: 9000}},
		{"unknown plan", Request{
			Sections: []SectionInput{{Preset: "small"}}, PanelID: "std-400",
			PlanID: "nope", AnnualUsageKwh: 9000}},
		{"bad section", Request{
			Sections: []SectionInput{{}}, PanelID: "std-400", AnnualUsageKwh: 9000}},
		{"zero usage", Request{
			Sections: []SectionInput{{Preset: "small"}}, PanelID: "std-400"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Run(ctx, tc.req); err == nil {
				t.Error("expected error")
			}
		})
	}
}
