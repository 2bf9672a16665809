package roof

import (
	"math"

	"go.uber.org/zap"

	"solarquote/core/geo"
	"solarquote/internal/logging"
)

// Orientation describes which way a roof section faces and how well
// that direction performs.
type Orientation struct {
	// AzimuthDeg is the panel-facing compass azimuth, rounded to the
	// nearest 5 degrees.
	AzimuthDeg float64 `json:"azimuth_deg"`

	// RidgeDeg is the bearing of the ridge line proxy.
	RidgeDeg float64 `json:"ridge_deg"`

	// Direction is the discrete compass label (N/NE/E/SE/S/SW/W/NW).
	Direction string `json:"direction"`

	// Efficiency is the orientation efficiency percentage from the
	// empirical curve.
	Efficiency float64 `json:"efficiency_pct"`
}

var compassLabels = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// orientationCurve is the empirical efficiency lookup, keyed by angular
// offset from due south. Configuration, not a derivation: the values
// come from installer yield tables for the reference market.
var orientationCurve = []struct {
	offsetDeg  float64
	efficiency float64
}{
	{0, 100},   // S
	{45, 96},   // SE / SW
	{67.5, 92}, // ESE / WSW
	{90, 82},   // E / W
	{135, 72},  // NE / NW
	{180, 55},  // N
}

// defaultOrientation is the assumption applied when geometry is too
// degenerate to analyze: due south, best case for the northern
// hemisphere.
func defaultOrientation() Orientation {
	return Orientation{
		AzimuthDeg: 180,
		RidgeDeg:   90,
		Direction:  "S",
		Efficiency: 100,
	}
}

// AnalyzeOrientation derives the panel-facing azimuth of a section from
// its ridge line proxy (the longest ring edge). It never fails: on
// degenerate input it logs a diagnostic and returns the due-south
// default.
func AnalyzeOrientation(s Section) Orientation {
	if s.AzimuthOverride != nil {
		az := roundTo5(geo.NormalizeDegrees(*s.AzimuthOverride))
		return Orientation{
			AzimuthDeg: az,
			RidgeDeg:   geo.NormalizeDegrees(az - 90),
			Direction:  compassDirection(az),
			Efficiency: OrientationEfficiency(az),
		}
	}

	if s.Polygon.IsDegenerate() {
		logging.Warn("degenerate roof section, assuming south-facing",
			zap.String("section", s.ID),
			zap.Int("vertices", s.Polygon.Len()))
		return defaultOrientation()
	}

	a, b := s.Polygon.Edge(s.Polygon.LongestEdge())
	ridge := geo.Bearing(a, b)

	// Panels face perpendicular to the ridge. Of the two candidates,
	// take the one closer to south; a roof face is assumed to be the
	// sun-facing side unless overridden.
	c1 := geo.NormalizeDegrees(ridge + 90)
	c2 := geo.NormalizeDegrees(ridge - 90)
	facing := c1
	if angularOffset(c2, 180) < angularOffset(c1, 180) {
		facing = c2
	}

	// Round before the efficiency lookup; downstream numbers depend on
	// the rounded azimuth.
	az := roundTo5(facing)
	return Orientation{
		AzimuthDeg: az,
		RidgeDeg:   ridge,
		Direction:  compassDirection(az),
		Efficiency: OrientationEfficiency(az),
	}
}

// OrientationEfficiency returns the empirical efficiency percentage for
// a panel azimuth. The curve is symmetric about due south.
func OrientationEfficiency(azimuthDeg float64) float64 {
	offset := angularOffset(geo.NormalizeDegrees(azimuthDeg), 180)

	curve := orientationCurve
	if offset <= curve[0].offsetDeg {
		return curve[0].efficiency
	}
	for i := 1; i < len(curve); i++ {
		if offset <= curve[i].offsetDeg {
			lo, hi := curve[i-1], curve[i]
			frac := (offset - lo.offsetDeg) / (hi.offsetDeg - lo.offsetDeg)
			return lo.efficiency + frac*(hi.efficiency-lo.efficiency)
		}
	}
	return curve[len(curve)-1].efficiency
}

// compassDirection buckets an azimuth into one of eight 45-degree-wide
// compass sectors centered on each direction. Exactly-due angles land
// on the named direction.
func compassDirection(azimuthDeg float64) string {
	idx := int(math.Round(geo.NormalizeDegrees(azimuthDeg)/45)) % 8
	return compassLabels[idx]
}

// angularOffset returns the smallest absolute angle between two
// bearings, in [0, 180].
func angularOffset(a, b float64) float64 {
	d := math.Abs(geo.NormalizeDegrees(a) - geo.NormalizeDegrees(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// roundTo5 rounds an azimuth to the nearest 5 degrees, keeping the
// result in [0, 360).
func roundTo5(deg float64) float64 {
	return geo.NormalizeDegrees(math.Round(deg/5) * 5)
}
