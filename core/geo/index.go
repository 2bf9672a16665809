package geo

import "github.com/tidwall/rtree"

// Index is a bounding-box index over placed footprints. It answers
// "does this candidate overlap anything already placed" without an
// O(n²) scan, which matters once a section holds dozens of panels.
type Index struct {
	tree  rtree.RTreeG[Polygon]
	count int
}

// NewIndex creates an empty footprint index.
func NewIndex() *Index {
	return &Index{}
}

// Insert adds a footprint to the index.
func (ix *Index) Insert(p Polygon) {
	minP, maxP := p.Bounds()
	ix.tree.Insert([2]float64{minP.X, minP.Y}, [2]float64{maxP.X, maxP.Y}, p)
	ix.count++
}

// Len returns the number of indexed footprints.
func (ix *Index) Len() int {
	return ix.count
}

// Overlaps reports whether the candidate footprint intersects any
// indexed footprint. The bbox search prunes; exact separation is then
// confirmed per hit. margin grows the candidate's query box to enforce
// minimum panel spacing.
func (ix *Index) Overlaps(candidate Polygon, margin float64) bool {
	minP, maxP := candidate.Bounds()
	minP.X -= margin
	minP.Y -= margin
	maxP.X += margin
	maxP.Y += margin

	hit := false
	ix.tree.Search(
		[2]float64{minP.X, minP.Y},
		[2]float64{maxP.X, maxP.Y},
		func(_, _ [2]float64, placed Polygon) bool {
			if polygonsIntersect(candidate, placed, margin) {
				hit = true
				return false
			}
			return true
		},
	)
	return hit
}

// polygonsIntersect reports whether two convex footprints come within
// margin of each other, via the separating axis test over both edge
// sets.
func polygonsIntersect(a, b Polygon, margin float64) bool {
	if len(a.Vertices) < 3 || len(b.Vertices) < 3 {
		return false
	}
	return !hasSeparatingAxis(a, b, margin) && !hasSeparatingAxis(b, a, margin)
}

func hasSeparatingAxis(a, b Polygon, margin float64) bool {
	n := len(a.Vertices)
	for i := 0; i < n; i++ {
		p1, p2 := a.Edge(i)
		edge := p2.Sub(p1)
		axis := Point{-edge.Y, edge.X}.Normalize()
		if axis.Length() < 1e-12 {
			continue
		}

		minA, maxA := projectOnto(a, axis)
		minB, maxB := projectOnto(b, axis)
		if minA > maxB+margin || minB > maxA+margin {
			return true
		}
	}
	return false
}

func projectOnto(p Polygon, axis Point) (float64, float64) {
	minV := p.Vertices[0].Dot(axis)
	maxV := minV
	for _, v := range p.Vertices[1:] {
		d := v.Dot(axis)
		if d < minV {
			minV = d
		}
		if d > maxV {
			maxV = d
		}
	}
	return minV, maxV
}
