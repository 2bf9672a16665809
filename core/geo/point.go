// Package geo provides the planar geometry kernel used by the roof
// layout engine. Roof rings arrive as geographic coordinates and are
// projected into a local metric frame (meters east/north of the ring
// centroid) before any layout math runs; everything in this package
// operates on that frame.
package geo

import "math"

// Point is a point in the local metric frame. X is meters east, Y is
// meters north.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is a shorthand constructor for Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p * s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Length returns the Euclidean length of the vector.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Normalize returns the unit vector in the same direction, or the zero
// vector when the length is zero.
func (p Point) Normalize() Point {
	l := p.Length()
	if l < 1e-12 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the 2D cross product (z-component of the 3D cross).
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Distance returns the Euclidean distance from p to q.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Rotate returns p rotated by angle radians counterclockwise around the
// origin.
func (p Point) Rotate(angle float64) Point {
	c, s := math.Cos(angle), math.Sin(angle)
	return Point{
		X: p.X*c - p.Y*s,
		Y: p.X*s + p.Y*c,
	}
}

// RotateAround returns p rotated by angle radians around center.
func (p Point) RotateAround(center Point, angle float64) Point {
	return p.Sub(center).Rotate(angle).Add(center)
}

// Bearing returns the compass bearing from p to q in degrees, clockwise
// from north, normalized into [0, 360). In the local frame +Y is north.
func Bearing(p, q Point) float64 {
	d := q.Sub(p)
	deg := math.Atan2(d.X, d.Y) * 180 / math.Pi
	return NormalizeDegrees(deg)
}

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// meters per degree of latitude; longitude scales with cos(lat).
const metersPerDegree = 111320.0

// ProjectRing converts a geographic ring into the local metric frame
// centered on the ring's mean coordinate. The projection is
// equirectangular, which preserves bearings and distances well at roof
// scale.
func ProjectRing(ring []LatLng) Polygon {
	if len(ring) == 0 {
		return Polygon{}
	}
	var lat0, lng0 float64
	for _, c := range ring {
		lat0 += c.Lat
		lng0 += c.Lng
	}
	lat0 /= float64(len(ring))
	lng0 /= float64(len(ring))

	cosLat := math.Cos(lat0 * math.Pi / 180)
	pts := make([]Point, 0, len(ring))
	for _, c := range ring {
		pts = append(pts, Point{
			X: (c.Lng - lng0) * metersPerDegree * cosLat,
			Y: (c.Lat - lat0) * metersPerDegree,
		})
	}
	return Polygon{Vertices: pts}
}
