package geo

import (
	"math"
	"sort"
)

// OrientedBox is a minimum-area oriented bounding box. Axis is the unit
// vector of the box's long direction in the local frame; Width is the
// extent along Axis and Height the extent along its perpendicular.
type OrientedBox struct {
	Center Point
	Axis   Point
	Width  float64
	Height float64
}

// Angle returns the rotation of the box axis from the +X axis, radians.
func (b OrientedBox) Angle() float64 {
	return math.Atan2(b.Axis.Y, b.Axis.X)
}

// ConvexHull returns the convex hull of the polygon's vertices in
// counterclockwise order (Andrew's monotone chain).
func ConvexHull(pts []Point) []Point {
	if len(pts) < 3 {
		out := make([]Point, len(pts))
		copy(out, pts)
		return out
	}
	sorted := make([]Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	var lower, upper []Point
	for _, p := range sorted {
		for len(lower) >= 2 && lower[len(lower)-1].Sub(lower[len(lower)-2]).Cross(p.Sub(lower[len(lower)-2])) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && upper[len(upper)-1].Sub(upper[len(upper)-2]).Cross(p.Sub(upper[len(upper)-2])) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// MinAreaBox computes the minimum-area oriented bounding box of the
// polygon by rotating calipers over its convex hull: the optimal box
// shares an orientation with some hull edge, so each hull edge is tried
// in turn.
func MinAreaBox(p Polygon) OrientedBox {
	hull := ConvexHull(p.Vertices)
	if len(hull) < 3 {
		minP, maxP := p.Bounds()
		return OrientedBox{
			Center: Point{(minP.X + maxP.X) / 2, (minP.Y + maxP.Y) / 2},
			Axis:   Point{1, 0},
			Width:  maxP.X - minP.X,
			Height: maxP.Y - minP.Y,
		}
	}

	best := OrientedBox{}
	bestArea := math.Inf(1)
	for i := 0; i < len(hull); i++ {
		a := hull[i]
		b := hull[(i+1)%len(hull)]
		axis := b.Sub(a).Normalize()
		if axis.Length() < 1e-12 {
			continue
		}
		perp := Point{-axis.Y, axis.X}

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, v := range hull {
			u := v.Dot(axis)
			w := v.Dot(perp)
			minU = math.Min(minU, u)
			maxU = math.Max(maxU, u)
			minV = math.Min(minV, w)
			maxV = math.Max(maxV, w)
		}

		width := maxU - minU
		height := maxV - minV
		area := width * height
		if area < bestArea {
			centerU := (minU + maxU) / 2
			centerV := (minV + maxV) / 2
			box := OrientedBox{
				Center: axis.Scale(centerU).Add(perp.Scale(centerV)),
				Axis:   axis,
				Width:  width,
				Height: height,
			}
			// Keep the long direction on Axis so the layout frame's
			// rows run along the dominant roof edge.
			if box.Height > box.Width {
				box.Axis = perp
				box.Width, box.Height = box.Height, box.Width
			}
			best = box
			bestArea = area
		}
	}
	return best
}
