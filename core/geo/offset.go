package geo

import "math"

// Inset shrinks the polygon by moving each edge inward along its
// normal. dists holds one distance per edge (edge i runs from vertex i
// to vertex i+1). New vertices are the intersections of adjacent offset
// edge lines. Returns an empty polygon when the inset consumes the
// whole shape.
//
// The construction is exact for convex rings and well behaved for the
// mildly concave rings real roof outlines produce; a collapsed or
// inverted result is detected by the area check and reported as empty.
func (p Polygon) Inset(dists []float64) Polygon {
	n := len(p.Vertices)
	if n < 3 || len(dists) != n {
		return Polygon{}
	}
	ccw := p.EnsureCCW()

	type line struct {
		point Point
		dir   Point
	}
	lines := make([]line, 0, n)
	for i := 0; i < n; i++ {
		a, b := ccw.Edge(i)
		dir := b.Sub(a).Normalize()
		if dir.Length() < 1e-12 {
			continue
		}
		// For a CCW ring the interior lies to the left of each edge.
		inward := Point{-dir.Y, dir.X}
		lines = append(lines, line{point: a.Add(inward.Scale(dists[i])), dir: dir})
	}
	if len(lines) < 3 {
		return Polygon{}
	}

	out := make([]Point, 0, len(lines))
	for i := range lines {
		prev := lines[(i+len(lines)-1)%len(lines)]
		curr := lines[i]
		pt, ok := intersectLines(prev.point, prev.dir, curr.point, curr.dir)
		if !ok {
			// Parallel adjacent edges: use the offset start point.
			pt = curr.point
		}
		out = append(out, pt)
	}

	inset := Polygon{Vertices: out}
	if inset.SignedArea() <= 1e-9 || inset.Area() >= ccw.Area() {
		return Polygon{}
	}
	return inset
}

// InsetUniform shrinks the polygon by the same distance on every edge.
func (p Polygon) InsetUniform(d float64) Polygon {
	n := len(p.Vertices)
	if n < 3 {
		return Polygon{}
	}
	dists := make([]float64, n)
	for i := range dists {
		dists[i] = d
	}
	return p.Inset(dists)
}

// intersectLines returns the intersection of two infinite lines given
// by point + direction. ok is false when the lines are parallel.
func intersectLines(p1, d1, p2, d2 Point) (Point, bool) {
	denom := d1.Cross(d2)
	if math.Abs(denom) < 1e-12 {
		return Point{}, false
	}
	t := p2.Sub(p1).Cross(d2) / denom
	return p1.Add(d1.Scale(t)), true
}
