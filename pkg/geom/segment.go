package geom

import "math"

// Segment is a directed edge between two vertices.
type Segment struct {
	A, B Point3
}

// Length returns the segment's length.
func (s Segment) Length() float64 { return s.A.Dist(s.B) }

// Horizontal reports whether both endpoints share an elevation.
func (s Segment) Horizontal(tol float64) bool { return Approx(s.A.Z, s.B.Z, tol) }

// Reverse returns the segment with its endpoints swapped.
func (s Segment) Reverse() Segment { return Segment{A: s.B, B: s.A} }

// Same reports whether s and o join the same endpoints in either direction.
func (s Segment) Same(o Segment, tol float64) bool {
	return (s.A.Eq(o.A, tol) && s.B.Eq(o.B, tol)) || (s.A.Eq(o.B, tol) && s.B.Eq(o.A, tol))
}

// PointBetween reports whether p lies on the axis-aligned horizontal segment
// a-b. All three points must share an elevation and p must share the
// segment's constant coordinate.
func PointBetween(p, a, b Point3, tol float64) bool {
	if !Approx(p.Z, a.Z, tol) || !Approx(p.Z, b.Z, tol) {
		return false
	}
	switch {
	case Approx(p.X, a.X, tol) && Approx(p.X, b.X, tol):
		return p.Y >= math.Min(a.Y, b.Y)-tol && p.Y <= math.Max(a.Y, b.Y)+tol
	case Approx(p.Y, a.Y, tol) && Approx(p.Y, b.Y, tol):
		return p.X >= math.Min(a.X, b.X)-tol && p.X <= math.Max(a.X, b.X)+tol
	}
	return false
}

// Covers reports whether o lies entirely on s.
func (s Segment) Covers(o Segment, tol float64) bool {
	return PointBetween(o.A, s.A, s.B, tol) && PointBetween(o.B, s.A, s.B, tol)
}
