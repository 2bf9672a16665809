// Package roof derives panel layouts from roof geometry: it analyzes
// section orientation, applies fire-code setbacks, and sweeps panel
// footprints across the usable area.
package roof

import (
	"solarquote/core/geo"
)

// Section is one independent roof face. Polygon is in the local metric
// frame (+Y north). AzimuthOverride, when set, replaces the derived
// panel-facing azimuth.
type Section struct {
	ID              string
	Polygon         geo.Polygon
	AzimuthOverride *float64
}

// NewSectionFromRing projects a geographic ring into the local metric
// frame and wraps it as a section.
func NewSectionFromRing(id string, ring []geo.LatLng) Section {
	return Section{ID: id, Polygon: geo.ProjectRing(ring)}
}

// Setbacks are the mandatory clearances from each roof edge class, in
// meters.
type Setbacks struct {
	Eave   float64 `json:"eave" hcl:"eave"`
	Ridge  float64 `json:"ridge" hcl:"ridge"`
	Valley float64 `json:"valley" hcl:"valley"`
	Rake   float64 `json:"rake" hcl:"rake"`
}

// PanelSpec holds the physical constants of one panel model. Loaded
// from reference data, never computed.
type PanelSpec struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	WidthM     float64  `json:"width_m"`
	HeightM    float64  `json:"height_m"`
	Watts      float64  `json:"watts"`
	RowSpacing float64  `json:"row_spacing_m"`
	ColSpacing float64  `json:"col_spacing_m"`
	Setbacks   Setbacks `json:"setbacks"`
}

// PanelOrientation is the footprint orientation of a placed panel.
type PanelOrientation string

const (
	// Landscape lays the panel's long side along the row direction.
	Landscape PanelOrientation = "landscape"

	// Portrait lays the panel's short side along the row direction.
	Portrait PanelOrientation = "portrait"
)

// PanelPosition is one placed panel. Immutable once the layout result
// is returned; the whole set is recomputed on any input change.
type PanelPosition struct {
	SectionID   string           `json:"section_id"`
	Row         int              `json:"row"`
	Col         int              `json:"col"`
	Orientation PanelOrientation `json:"orientation"`
	RotationDeg float64          `json:"rotation_deg"`
	Center      geo.Point        `json:"center"`
	Footprint   geo.Polygon      `json:"-"`
}

// SectionLayout is the per-section slice of a layout result.
type SectionLayout struct {
	SectionID  string  `json:"section_id"`
	PanelCount int     `json:"panel_count"`
	AzimuthDeg float64 `json:"azimuth_deg"`
	Direction  string  `json:"direction"`
	Efficiency float64 `json:"efficiency_pct"`
}

// LayoutResult aggregates a layout pass across all sections. Owned by
// the caller for the duration of one estimate; never persisted.
type LayoutResult struct {
	PanelCount    int             `json:"panel_count"`
	CapacityKw    float64         `json:"capacity_kw"`
	Positions     []PanelPosition `json:"positions"`
	Sections      []SectionLayout `json:"sections"`
	CoverageRatio float64         `json:"coverage_ratio"`
}

// Style selects the placement strategy.
type Style string

const (
	// StyleMaximize tries every orientation and rotation variant and
	// keeps the highest panel count.
	StyleMaximize Style = "maximize"

	// StyleAligned only places rows aligned to the ridge, trading a few
	// panels for a uniform look.
	StyleAligned Style = "aligned"
)

// Options tune a layout pass.
type Options struct {
	Style Style

	// ExtraRotations are additional rotation offsets in degrees tried
	// on top of the ridge-aligned frame when Style is StyleMaximize.
	ExtraRotations []float64
}

// DefaultOptions returns the layout options used by the estimate path.
func DefaultOptions() Options {
	return Options{
		Style:          StyleMaximize,
		ExtraRotations: nil,
	}
}
