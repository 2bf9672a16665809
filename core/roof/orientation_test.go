package roof

import (
	"math"
	"testing"

	"solarquote/core/geo"
)

func TestOrientationEfficiencyAnchors(t *testing.T) {
	tests := []struct {
		azimuth float64
		want    float64
	}{
		{180, 100}, // due south
		{135, 96},  // SE
		{225, 96},  // SW
		{90, 82},   // E
		{270, 82},  // W
		{0, 55},    // due north
		{360, 55},  // north, wrapped
	}
	for _, tt := range tests {
		if got := OrientationEfficiency(tt.azimuth); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("OrientationEfficiency(%v) = %v, want %v", tt.azimuth, got, tt.want)
		}
	}
}

func TestOrientationEfficiencySymmetry(t *testing.T) {
	for offset := 0.0; offset <= 180; offset += 7.5 {
		east := OrientationEfficiency(180 - offset)
		west := OrientationEfficiency(180 + offset)
		if math.Abs(east-west) > 1e-9 {
			t.Errorf("curve asymmetric at offset %v: %v vs %v", offset, east, west)
		}
	}
}

func TestAnalyzeOrientationEastWestRidge(t *testing.T) {
	// Long edge runs east-west, so panels face south.
	s := Section{ID: "s1", Polygon: geo.Rect(geo.Pt(0, 0), 12, 6)}
	o := AnalyzeOrientation(s)
	if o.AzimuthDeg != 180 {
		t.Errorf("azimuth = %v, want 180", o.AzimuthDeg)
	}
	if o.Direction != "S" {
		t.Errorf("direction = %q, want S", o.Direction)
	}
	if o.Efficiency != 100 {
		t.Errorf("efficiency = %v, want 100", o.Efficiency)
	}
}

func TestAnalyzeOrientationRoundsToNearest5(t *testing.T) {
	// Ridge rotated 12 degrees off east-west: facing azimuth 192,
	// rounded to 190.
	base := geo.Rect(geo.Pt(0, 0), 12, 6)
	rot := base.RotateAround(geo.Pt(0, 0), -12*math.Pi/180)
	o := AnalyzeOrientation(Section{ID: "s1", Polygon: rot})
	if o.AzimuthDeg != 190 {
		t.Errorf("azimuth = %v, want 190", o.AzimuthDeg)
	}
}

func TestAnalyzeOrientationDegenerateDefaultsSouth(t *testing.T) {
	tests := []struct {
		name string
		poly geo.Polygon
	}{
		{"empty", geo.Polygon{}},
		{"two points", geo.NewPolygon(geo.Pt(0, 0), geo.Pt(1, 1))},
		{"zero area", geo.NewPolygon(geo.Pt(0, 0), geo.Pt(5, 0), geo.Pt(10, 0))},
	}
	for _, tt := range tests {
		o := AnalyzeOrientation(Section{ID: tt.name, Polygon: tt.poly})
		if o.AzimuthDeg != 180 || o.Direction != "S" || o.Efficiency != 100 {
			t.Errorf("%s: got %+v, want south default", tt.name, o)
		}
	}
}

func TestAnalyzeOrientationOverride(t *testing.T) {
	az := 92.0
	o := AnalyzeOrientation(Section{
		ID:              "s1",
		Polygon:         geo.Rect(geo.Pt(0, 0), 12, 6),
		AzimuthOverride: &az,
	})
	if o.AzimuthDeg != 90 {
		t.Errorf("azimuth = %v, want 90 (override rounded)", o.AzimuthDeg)
	}
	if o.Direction != "E" {
		t.Errorf("direction = %q, want E", o.Direction)
	}
}

func TestCompassDirectionBuckets(t *testing.T) {
	tests := []struct {
		azimuth float64
		want    string
	}{
		{0, "N"},
		{45, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{350, "N"},
		{200, "S"},
	}
	for _, tt := range tests {
		if got := compassDirection(tt.azimuth); got != tt.want {
			t.Errorf("compassDirection(%v) = %q, want %q", tt.azimuth, got, tt.want)
		}
	}
}
