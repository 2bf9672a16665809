package roof

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"solarquote/core/geo"
	"solarquote/internal/logging"
)

// Layout places a panel grid on every section independently and unions
// the results. A section too small for a single panel contributes zero
// panels; the aggregate result is valid even when every section is
// empty, and the caller decides how to report an all-zero roof.
//
// The pass is fully deterministic: no randomized search, fixed variant
// order, fixed tie-breaking.
func Layout(sections []Section, spec PanelSpec, opts Options) LayoutResult {
	result := LayoutResult{}
	var totalArea float64

	for i, section := range sections {
		if section.ID == "" {
			section.ID = fmt.Sprintf("section-%d", i+1)
		}
		orient := AnalyzeOrientation(section)
		positions := layoutSection(section, spec, opts)

		result.Positions = append(result.Positions, positions...)
		result.PanelCount += len(positions)
		result.Sections = append(result.Sections, SectionLayout{
			SectionID:  section.ID,
			PanelCount: len(positions),
			AzimuthDeg: orient.AzimuthDeg,
			Direction:  orient.Direction,
			Efficiency: orient.Efficiency,
		})
		totalArea += section.Polygon.Area()
	}

	result.CapacityKw = float64(result.PanelCount) * spec.Watts / 1000
	if totalArea > 0 {
		panelArea := float64(result.PanelCount) * spec.WidthM * spec.HeightM
		result.CoverageRatio = panelArea / totalArea
	}
	return result
}

// variant is one orientation/rotation combination tried during the
// sweep.
type variant struct {
	orientation PanelOrientation
	rotationDeg float64
}

// layoutSection runs the row sweep for every variant and keeps the
// winner. Variants are expressed as rotation offsets from the ridge
// frame, so |rotationDeg| is already the angular distance from ridge
// alignment the tie-break wants.
func layoutSection(section Section, spec PanelSpec, opts Options) []PanelPosition {
	poly := section.Polygon.EnsureCCW()
	if poly.IsDegenerate() {
		return nil
	}

	usable := applySetbacks(poly, spec.Setbacks)
	if usable.IsDegenerate() {
		logging.Debug("section fully consumed by setbacks",
			zap.String("section", section.ID))
		return nil
	}

	box := geo.MinAreaBox(poly)

	variants := []variant{
		{Landscape, 0},
		{Portrait, 0},
	}
	if opts.Style == StyleMaximize {
		for _, rot := range opts.ExtraRotations {
			if rot == 0 {
				continue
			}
			variants = append(variants,
				variant{Landscape, rot},
				variant{Portrait, rot})
		}
	}

	var best []PanelPosition
	bestScore := -1.0
	for _, v := range variants {
		placed := sweepVariant(section.ID, usable, box, spec, v)
		if len(placed) == 0 {
			continue
		}
		// Higher count wins; on equal counts the variant closer to the
		// ridge alignment wins; the fixed variant order settles exact
		// ties.
		score := float64(len(placed))*1000 - math.Abs(v.rotationDeg)
		if score > bestScore {
			bestScore = score
			best = placed
		}
	}
	return best
}

// sweepVariant sweeps candidate footprints row by row across the usable
// region in the oriented box frame, keeping footprints fully contained
// and non-overlapping.
func sweepVariant(sectionID string, usable geo.Polygon, box geo.OrientedBox, spec PanelSpec, v variant) []PanelPosition {
	w, h := spec.WidthM, spec.HeightM
	if v.orientation == Portrait {
		w, h = h, w
	}

	angle := box.Angle() + v.rotationDeg*math.Pi/180
	// Work in a frame where rows run along +X: rotate the usable region
	// down, place an axis-aligned grid, rotate placements back.
	frame := usable.RotateAround(box.Center, -angle)
	minP, maxP := frame.Bounds()

	stepX := w + spec.ColSpacing
	stepY := h + spec.RowSpacing

	index := geo.NewIndex()
	var placed []PanelPosition
	row := 0
	for y := minP.Y; y+h <= maxP.Y+1e-9; y += stepY {
		col := 0
		for x := minP.X; x+w <= maxP.X+1e-9; x += stepX {
			candidate := geo.Rect(geo.Pt(x, y), w, h)
			if !frame.ContainsPolygon(shrinkProbe(candidate)) {
				col++
				continue
			}
			if index.Overlaps(candidate, 0) {
				col++
				continue
			}
			index.Insert(candidate)

			world := candidate.RotateAround(box.Center, angle)
			placed = append(placed, PanelPosition{
				SectionID:   sectionID,
				Row:         row,
				Col:         col,
				Orientation: v.orientation,
				RotationDeg: v.rotationDeg,
				Center:      world.Centroid(),
				Footprint:   world,
			})
			col++
		}
		row++
	}
	return placed
}

// shrinkProbe nudges footprint corners inward by a hair so panels
// touching the usable boundary still count as contained under the
// strict ray-cast test.
func shrinkProbe(p geo.Polygon) geo.Polygon {
	c := p.Centroid()
	out := make([]geo.Point, len(p.Vertices))
	for i, vtx := range p.Vertices {
		out[i] = vtx.Add(c.Sub(vtx).Normalize().Scale(1e-6))
	}
	return geo.Polygon{Vertices: out}
}

// applySetbacks shrinks a section by the per-edge fire-code clearance.
// Edge classes: the longest edge is the ridge proxy, edges roughly
// parallel to it are eaves, edges adjacent to a reflex vertex are
// valleys, everything else is a rake.
func applySetbacks(poly geo.Polygon, sb Setbacks) geo.Polygon {
	n := poly.Len()
	if n < 3 {
		return geo.Polygon{}
	}

	ridgeIdx := poly.LongestEdge()
	ra, rb := poly.Edge(ridgeIdx)
	ridgeDir := rb.Sub(ra).Normalize()

	angles := poly.InteriorAngles()
	dists := make([]float64, n)
	for i := 0; i < n; i++ {
		a, b := poly.Edge(i)
		dir := b.Sub(a).Normalize()

		switch {
		case i == ridgeIdx:
			dists[i] = sb.Ridge
		case angles != nil && (angles[i] > 185 || angles[(i+1)%n] > 185):
			dists[i] = sb.Valley
		case math.Abs(dir.Dot(ridgeDir)) > math.Cos(30*math.Pi/180):
			// Parallel to the ridge: an eave.
			dists[i] = sb.Eave
		default:
			dists[i] = sb.Rake
		}
	}
	return poly.Inset(dists)
}
