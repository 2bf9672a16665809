package geo

import "math"

// Polygon is a closed polygon defined by its vertices in order. The
// ring is implicitly closed: the last vertex connects back to the
// first. A duplicated closing vertex is tolerated and dropped.
type Polygon struct {
	Vertices []Point
}

// NewPolygon creates a polygon from a list of vertices, dropping an
// explicit closing vertex if present.
func NewPolygon(pts ...Point) Polygon {
	if n := len(pts); n > 1 && pts[0].Distance(pts[n-1]) < 1e-9 {
		pts = pts[:n-1]
	}
	return Polygon{Vertices: pts}
}

// Rect builds an axis-aligned rectangular polygon from its lower-left
// corner and dimensions.
func Rect(origin Point, width, height float64) Polygon {
	return Polygon{Vertices: []Point{
		origin,
		{origin.X + width, origin.Y},
		{origin.X + width, origin.Y + height},
		{origin.X, origin.Y + height},
	}}
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// IsDegenerate reports whether the polygon has fewer than 3 vertices or
// effectively zero area.
func (p Polygon) IsDegenerate() bool {
	return len(p.Vertices) < 3 || p.Area() < 1e-9
}

// Edge returns the i-th edge as (start, end). Wraps around.
func (p Polygon) Edge(i int) (Point, Point) {
	n := len(p.Vertices)
	return p.Vertices[i%n], p.Vertices[(i+1)%n]
}

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X * p.Vertices[j].Y
		area -= p.Vertices[j].X * p.Vertices[i].Y
	}
	return area / 2
}

// Area returns the unsigned area of the polygon.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// EnsureCCW returns the polygon with vertices in counterclockwise order.
func (p Polygon) EnsureCCW() Polygon {
	if p.SignedArea() < 0 {
		return p.Reverse()
	}
	return p
}

// Reverse returns the polygon with reversed vertex order.
func (p Polygon) Reverse() Polygon {
	n := len(p.Vertices)
	rev := make([]Point, n)
	for i, v := range p.Vertices {
		rev[n-1-i] = v
	}
	return Polygon{Vertices: rev}
}

// Centroid returns the centroid of the polygon, falling back to the
// vertex average for degenerate rings.
func (p Polygon) Centroid() Point {
	n := len(p.Vertices)
	if n == 0 {
		return Point{}
	}
	a := p.SignedArea()
	if n < 3 || math.Abs(a) < 1e-12 {
		sum := Point{}
		for _, v := range p.Vertices {
			sum = sum.Add(v)
		}
		return sum.Scale(1.0 / float64(n))
	}
	cx, cy := 0.0, 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p.Vertices[i].X*p.Vertices[j].Y - p.Vertices[j].X*p.Vertices[i].Y
		cx += (p.Vertices[i].X + p.Vertices[j].X) * cross
		cy += (p.Vertices[i].Y + p.Vertices[j].Y) * cross
	}
	f := 1.0 / (6.0 * a)
	return Point{cx * f, cy * f}
}

// Bounds returns the axis-aligned bounding box as (min, max).
func (p Polygon) Bounds() (Point, Point) {
	if len(p.Vertices) == 0 {
		return Point{}, Point{}
	}
	minP := p.Vertices[0]
	maxP := p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		minP.X = math.Min(minP.X, v.X)
		minP.Y = math.Min(minP.Y, v.Y)
		maxP.X = math.Max(maxP.X, v.X)
		maxP.Y = math.Max(maxP.Y, v.Y)
	}
	return minP, maxP
}

// Contains returns true if the point is inside the polygon using ray
// casting. Points exactly on an edge may fall on either side.
func (p Polygon) Contains(pt Point) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// ContainsPolygon reports whether every vertex of q lies inside p.
// Sufficient as a containment test when p is convex, and used as the
// practical test for panel footprints against the usable region.
func (p Polygon) ContainsPolygon(q Polygon) bool {
	for _, v := range q.Vertices {
		if !p.Contains(v) {
			return false
		}
	}
	return len(q.Vertices) > 0
}

// Perimeter returns the total perimeter length.
func (p Polygon) Perimeter() float64 {
	n := len(p.Vertices)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += p.Vertices[i].Distance(p.Vertices[j])
	}
	return total
}

// LongestEdge returns the index of the longest edge.
func (p Polygon) LongestEdge() int {
	best := 0
	bestLen := -1.0
	for i := 0; i < len(p.Vertices); i++ {
		a, b := p.Edge(i)
		if l := a.Distance(b); l > bestLen {
			bestLen = l
			best = i
		}
	}
	return best
}

// Translate returns the polygon shifted by d.
func (p Polygon) Translate(d Point) Polygon {
	out := make([]Point, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = v.Add(d)
	}
	return Polygon{Vertices: out}
}

// RotateAround returns the polygon rotated by angle radians around
// center.
func (p Polygon) RotateAround(center Point, angle float64) Polygon {
	out := make([]Point, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = v.RotateAround(center, angle)
	}
	return Polygon{Vertices: out}
}

// InteriorAngles returns the interior angle at each vertex in degrees.
// Used for roof-shape quality diagnostics.
func (p Polygon) InteriorAngles() []float64 {
	n := len(p.Vertices)
	if n < 3 {
		return nil
	}
	ccw := p.EnsureCCW()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		prev := ccw.Vertices[(i+n-1)%n]
		curr := ccw.Vertices[i]
		next := ccw.Vertices[(i+1)%n]
		a := prev.Sub(curr)
		b := next.Sub(curr)
		ang := math.Atan2(a.Cross(b), a.Dot(b)) * 180 / math.Pi
		if ang < 0 {
			ang += 360
		}
		out[i] = ang
	}
	return out
}
