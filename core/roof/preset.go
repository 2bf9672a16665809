package roof

import (
	"solarquote/core/geo"
	"solarquote/internal/errors"
)

// Preset roof sizes for the simplified flow where the user has not
// drawn a polygon. Dimensions approximate the usable south face of a
// typical dwelling in each bracket.
var presetDimensions = map[string]struct{ w, h float64 }{
	"small":  {8, 5},
	"medium": {11, 7},
	"large":  {15, 9},
}

// PresetSection builds a single rectangular section for a named preset
// size. Unknown names are an input error.
func PresetSection(name string) (Section, error) {
	dim, ok := presetDimensions[name]
	if !ok {
		return Section{}, errors.Inputf("unknown roof preset: %q", name)
	}
	south := 180.0
	return Section{
		ID:              "preset-" + name,
		Polygon:         geo.Rect(geo.Pt(-dim.w/2, -dim.h/2), dim.w, dim.h),
		AzimuthOverride: &south,
	}, nil
}
