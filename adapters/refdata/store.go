// Package refdata loads the versioned reference catalogs the estimate
// path depends on: rate plans, panel models, and battery products.
// Catalogs are HCL files loaded once at startup and immutable after.
package refdata

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"go.uber.org/zap"

	"solarquote/core/rates"
	"solarquote/core/roof"
	"solarquote/core/simulation"
	"solarquote/internal/errors"
	"solarquote/internal/logging"
)

// SchemaVersion is the catalog file format this build reads. Files
// declaring any other version are rejected at startup.
const SchemaVersion = 1

const (
	plansFile     = "plans.hcl"
	panelsFile    = "panels.hcl"
	batteriesFile = "batteries.hcl"
)

// Store is the in-memory reference catalog. Read-only after New; safe
// for concurrent use.
type Store struct {
	plans     map[string]rates.Plan
	panels    map[string]roof.PanelSpec
	batteries map[string]simulation.BatterySpec
}

// New loads the catalogs from dir. An empty dir yields the built-in
// catalog, which keeps the server usable with no data files mounted.
func New(dir string) (*Store, error) {
	if dir == "" {
		logging.Info("no reference data directory configured, using built-in catalog")
		return builtin(), nil
	}

	s := &Store{
		plans:     make(map[string]rates.Plan),
		panels:    make(map[string]roof.PanelSpec),
		batteries: make(map[string]simulation.BatterySpec),
	}
	if err := s.loadPlans(filepath.Join(dir, plansFile)); err != nil {
		return nil, err
	}
	if err := s.loadPanels(filepath.Join(dir, panelsFile)); err != nil {
		return nil, err
	}
	if err := s.loadBatteries(filepath.Join(dir, batteriesFile)); err != nil {
		return nil, err
	}

	logging.Info("reference data loaded",
		zap.String("dir", dir),
		zap.Int("plans", len(s.plans)),
		zap.Int("panels", len(s.panels)),
		zap.Int("batteries", len(s.batteries)))
	return s, nil
}

// Plan resolves a rate plan by id.
func (s *Store) Plan(id string) (rates.Plan, error) {
	p, ok := s.plans[id]
	if !ok {
		return nil, errors.NotFound("rate plan", id)
	}
	return p, nil
}

// Panel resolves a panel spec by id.
func (s *Store) Panel(id string) (roof.PanelSpec, error) {
	p, ok := s.panels[id]
	if !ok {
		return roof.PanelSpec{}, errors.NotFound("panel spec", id)
	}
	return p, nil
}

// Battery resolves a battery spec by id.
func (s *Store) Battery(id string) (simulation.BatterySpec, error) {
	b, ok := s.batteries[id]
	if !ok {
		return simulation.BatterySpec{}, errors.NotFound("battery spec", id)
	}
	return b, nil
}

// Plans lists every rate plan, ordered by id.
func (s *Store) Plans() []rates.Plan {
	out := make([]rates.Plan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Panels lists every panel spec, ordered by id.
func (s *Store) Panels() []roof.PanelSpec {
	out := make([]roof.PanelSpec, 0, len(s.panels))
	for _, p := range s.panels {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Batteries lists every battery spec, ordered by id.
func (s *Store) Batteries() []simulation.BatterySpec {
	out := make([]simulation.BatterySpec, 0, len(s.batteries))
	for _, b := range s.batteries {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type windowBlock struct {
	Name       string  `hcl:"name,label"`
	Rate       float64 `hcl:"rate"`
	StartHour  int     `hcl:"start_hour"`
	EndHour    int     `hcl:"end_hour"`
	UsageShare float64 `hcl:"usage_share,optional"`
}

type planBlock struct {
	ID   string `hcl:"id,label"`
	Name string `hcl:"name,optional"`
	Kind string `hcl:"kind"`

	Rate         *float64 `hcl:"rate"`
	ExportRate   float64  `hcl:"export_rate,optional"`
	Tier1Rate    *float64 `hcl:"tier1_rate"`
	Tier2Rate    *float64 `hcl:"tier2_rate"`
	ThresholdKwh *float64 `hcl:"threshold_kwh"`

	SummerWindows []windowBlock `hcl:"summer_window,block"`
	WinterWindows []windowBlock `hcl:"winter_window,block"`
}

type plansDoc struct {
	Version int         `hcl:"version"`
	Plans   []planBlock `hcl:"plan,block"`
}

func (s *Store) loadPlans(path string) error {
	var doc plansDoc
	if err := decodeFile(path, &doc); err != nil {
		return err
	}
	if doc.Version != SchemaVersion {
		return errors.Configf("%s: schema version %d, this build reads %d", path, doc.Version, SchemaVersion)
	}
	for _, b := range doc.Plans {
		plan, err := buildPlan(b)
		if err != nil {
			return err
		}
		s.plans[plan.ID()] = plan
	}
	return nil
}

// buildPlan validates one plan block against its declared kind.
func buildPlan(b planBlock) (rates.Plan, error) {
	name := b.Name
	if name == "" {
		name = b.ID
	}
	switch rates.Kind(b.Kind) {
	case rates.KindFlat:
		if b.Rate == nil {
			return nil, errors.Configf("plan %q: flat plans need a rate", b.ID)
		}
		return rates.Flat{PlanID: b.ID, PlanName: name, Rate: *b.Rate, Export: b.ExportRate}, nil

	case rates.KindTiered:
		if b.Tier1Rate == nil || b.Tier2Rate == nil || b.ThresholdKwh == nil {
			return nil, errors.Configf("plan %q: tiered plans need tier1_rate, tier2_rate and threshold_kwh", b.ID)
		}
		return rates.Tiered{
			PlanID:       b.ID,
			PlanName:     name,
			Tier1Rate:    *b.Tier1Rate,
			Tier2Rate:    *b.Tier2Rate,
			ThresholdKwh: *b.ThresholdKwh,
			Export:       b.ExportRate,
		}, nil

	case rates.KindTOU, rates.KindULO:
		if len(b.SummerWindows) == 0 || len(b.WinterWindows) == 0 {
			return nil, errors.Configf("plan %q: windowed plans need summer and winter windows", b.ID)
		}
		return rates.Windowed{
			PlanID:   b.ID,
			PlanName: name,
			PlanKind: rates.Kind(b.Kind),
			Summer:   toWindows(b.SummerWindows),
			Winter:   toWindows(b.WinterWindows),
			Export:   b.ExportRate,
		}, nil

	default:
		return nil, errors.Configf("plan %q: unknown kind %q", b.ID, b.Kind)
	}
}

func toWindows(blocks []windowBlock) []rates.Window {
	out := make([]rates.Window, len(blocks))
	for i, b := range blocks {
		out[i] = rates.Window{
			Name:       b.Name,
			Rate:       b.Rate,
			StartHour:  b.StartHour,
			EndHour:    b.EndHour,
			UsageShare: b.UsageShare,
		}
	}
	return out
}

type panelBlock struct {
	ID         string         `hcl:"id,label"`
	Name       string         `hcl:"name,optional"`
	WidthM     float64        `hcl:"width_m"`
	HeightM    float64        `hcl:"height_m"`
	Watts      float64        `hcl:"watts"`
	RowSpacing float64        `hcl:"row_spacing_m,optional"`
	ColSpacing float64        `hcl:"col_spacing_m,optional"`
	Setbacks   *roof.Setbacks `hcl:"setbacks,block"`
}

type panelsDoc struct {
	Version int          `hcl:"version"`
	Panels  []panelBlock `hcl:"panel,block"`
}

func (s *Store) loadPanels(path string) error {
	var doc panelsDoc
	if err := decodeFile(path, &doc); err != nil {
		return err
	}
	if doc.Version != SchemaVersion {
		return errors.Configf("%s: schema version %d, this build reads %d", path, doc.Version, SchemaVersion)
	}
	for _, b := range doc.Panels {
		if b.WidthM <= 0 || b.HeightM <= 0 || b.Watts <= 0 {
			return errors.Configf("panel %q: dimensions and watts must be positive", b.ID)
		}
		spec := roof.PanelSpec{
			ID:         b.ID,
			Name:       b.Name,
			WidthM:     b.WidthM,
			HeightM:    b.HeightM,
			Watts:      b.Watts,
			RowSpacing: b.RowSpacing,
			ColSpacing: b.ColSpacing,
		}
		if b.Setbacks != nil {
			spec.Setbacks = *b.Setbacks
		}
		s.panels[spec.ID] = spec
	}
	return nil
}

type batteryBlock struct {
	ID                  string  `hcl:"id,label"`
	Name                string  `hcl:"name,optional"`
	CapacityKwh         float64 `hcl:"capacity_kwh"`
	UsableDoD           float64 `hcl:"usable_dod"`
	RoundTripEfficiency float64 `hcl:"round_trip_efficiency"`
	PowerKw             float64 `hcl:"power_kw,optional"`
	CRate               float64 `hcl:"c_rate,optional"`
}

type batteriesDoc struct {
	Version   int            `hcl:"version"`
	Batteries []batteryBlock `hcl:"battery,block"`
}

func (s *Store) loadBatteries(path string) error {
	var doc batteriesDoc
	if err := decodeFile(path, &doc); err != nil {
		return err
	}
	if doc.Version != SchemaVersion {
		return errors.Configf("%s: schema version %d, this build reads %d", path, doc.Version, SchemaVersion)
	}
	for _, b := range doc.Batteries {
		spec := simulation.BatterySpec{
			ID:                  b.ID,
			Name:                b.Name,
			Capacity:            b.CapacityKwh,
			UsableDoD:           b.UsableDoD,
			RoundTripEfficiency: b.RoundTripEfficiency,
			PowerKw:             b.PowerKw,
			CRate:               b.CRate,
		}
		if err := spec.Validate(); err != nil {
			return errors.Config("battery "+b.ID, err)
		}
		s.batteries[spec.ID] = spec
	}
	return nil
}

// decodeFile parses one HCL catalog file into target.
func decodeFile(path string, target interface{}) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Config("read reference data", err)
	}
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return errors.Configf("%s: %s", path, diags.Error())
	}
	if diags := gohcl.DecodeBody(file.Body, nil, target); diags.HasErrors() {
		return errors.Configf("%s: %s", path, diags.Error())
	}
	return nil
}
