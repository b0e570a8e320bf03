package geom

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"
)

// Polygon is an ordered, implicitly closed list of coplanar vertices.
// Its outward normal follows the right-hand rule.
type Polygon []Point3

// Clone returns an independent copy of p.
func (p Polygon) Clone() Polygon {
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

// newell returns the unnormalized Newell normal, whose length is twice the area.
func (p Polygon) newell() r3.Vector {
	var n r3.Vector
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

// Normal returns the unit outward normal, or the zero vector for a
// degenerate polygon.
func (p Polygon) Normal() r3.Vector {
	n := p.newell()
	if n.Norm() == 0 {
		return r3.Vector{}
	}
	return n.Normalize()
}

// Area returns the polygon's area in square feet.
func (p Polygon) Area() float64 {
	return p.newell().Norm() / 2
}

// Centroid returns the area-weighted centroid. For degenerate polygons it
// falls back to the vertex average.
func (p Polygon) Centroid() Point3 {
	if len(p) == 0 {
		return Point3{}
	}
	n := p.Normal()
	var sum r3.Vector
	var total float64
	o := p[0].Vec()
	for i := 1; i+1 < len(p); i++ {
		a, b := p[i].Vec(), p[i+1].Vec()
		w := a.Sub(o).Cross(b.Sub(o)).Dot(n) / 2
		sum = sum.Add(o.Add(a).Add(b).Mul(w / 3))
		total += w
	}
	if math.Abs(total) < 1e-12 {
		var avg r3.Vector
		for _, v := range p {
			avg = avg.Add(v.Vec())
		}
		return FromVec(avg.Mul(1 / float64(len(p))))
	}
	return FromVec(sum.Mul(1 / total))
}

// Tilt is the angle between the outward normal and +z in degrees:
// 0 for an upward-facing roof, 90 for a wall, 180 for a floor.
func (p Polygon) Tilt() float64 {
	n := p.Normal()
	z := math.Max(-1, math.Min(1, n.Z))
	return math.Acos(z) * 180 / math.Pi
}

// IsVertical reports whether the tilt is within 0.01 degrees of 90.
func (p Polygon) IsVertical() bool {
	return math.Abs(90-p.Tilt()) <= 0.01
}

// Bounds returns the axis-aligned bounding box.
func (p Polygon) Bounds() Box {
	if len(p) == 0 {
		return Box{}
	}
	b := Box{Min: p[0], Max: p[0]}
	for _, v := range p[1:] {
		b.Min.X = math.Min(b.Min.X, v.X)
		b.Min.Y = math.Min(b.Min.Y, v.Y)
		b.Min.Z = math.Min(b.Min.Z, v.Z)
		b.Max.X = math.Max(b.Max.X, v.X)
		b.Max.Y = math.Max(b.Max.Y, v.Y)
		b.Max.Z = math.Max(b.Max.Z, v.Z)
	}
	return b
}

// Translate returns p shifted by (dx, dy, dz).
func (p Polygon) Translate(dx, dy, dz float64) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = v.Add(dx, dy, dz)
	}
	return out
}

// AtZ returns a copy of p with every vertex at elevation z.
func (p Polygon) AtZ(z float64) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = Point3{X: v.X, Y: v.Y, Z: z}
	}
	return out
}

// Reverse returns p with the opposite winding.
func (p Polygon) Reverse() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// CyclicEqual reports whether q lists the same vertices as p in the same
// cyclic order, starting anywhere.
func (p Polygon) CyclicEqual(q Polygon, tol float64) bool {
	if len(p) != len(q) || len(p) == 0 {
		return false
	}
	for off := range q {
		ok := true
		for i := range p {
			if !p[i].Eq(q[(i+off)%len(q)], tol) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// ReverseEqual reports whether q is p with its winding reversed.
func (p Polygon) ReverseEqual(q Polygon, tol float64) bool {
	return p.CyclicEqual(q.Reverse(), tol)
}

// Dedup drops consecutive duplicate vertices, including a closing vertex
// equal to the first.
func (p Polygon) Dedup(tol float64) Polygon {
	out := make(Polygon, 0, len(p))
	for _, v := range p {
		if len(out) > 0 && out[len(out)-1].Eq(v, tol) {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0].Eq(out[len(out)-1], tol) {
		out = out[:len(out)-1]
	}
	return out
}

// DropCollinear removes vertices lying on the segment between their
// neighbours.
func (p Polygon) DropCollinear(tol float64) Polygon {
	out := p.Clone()
	for changed := true; changed && len(out) > 3; {
		changed = false
		for i := range out {
			prev := out[(i+len(out)-1)%len(out)]
			next := out[(i+1)%len(out)]
			if prev.Sub(out[i]).Cross(next.Sub(out[i])).Norm() <= tol {
				out = append(out[:i], out[i+1:]...)
				changed = true
				break
			}
		}
	}
	return out
}

// MinZ is the lowest vertex elevation.
func (p Polygon) MinZ() float64 { return p.Bounds().Min.Z }

// MaxZ is the highest vertex elevation.
func (p Polygon) MaxZ() float64 { return p.Bounds().Max.Z }

// DistinctZ returns the sorted distinct vertex elevations.
func (p Polygon) DistinctZ(tol float64) []float64 {
	var zs []float64
	for _, v := range p {
		zs = append(zs, v.Z)
	}
	return distinct(zs, tol)
}

// Length is the horizontal extent of a wall: the larger of its x and y spans.
func (p Polygon) Length() float64 {
	dx, dy, _ := p.Bounds().Size()
	return math.Max(dx, dy)
}

// Height is the vertical extent of p.
func (p Polygon) Height() float64 {
	_, _, dz := p.Bounds().Size()
	return dz
}

// IsAxisAligned reports whether every edge runs parallel to a coordinate axis.
func (p Polygon) IsAxisAligned(tol float64) bool {
	for _, e := range p.Edges() {
		d := e.B.Sub(e.A)
		nonzero := 0
		for _, c := range []float64{d.X, d.Y, d.Z} {
			if math.Abs(c) > tol {
				nonzero++
			}
		}
		if nonzero > 1 {
			return false
		}
	}
	return true
}

// Edges returns the closed edge loop of p.
func (p Polygon) Edges() []Segment {
	out := make([]Segment, 0, len(p))
	for i := range p {
		out = append(out, Segment{A: p[i], B: p[(i+1)%len(p)]})
	}
	return out
}

// Coplanar reports whether q lies in p's plane and faces the same way.
func (p Polygon) Coplanar(q Polygon, tol float64) bool {
	n, m := p.Normal(), q.Normal()
	if n.Sub(m).Norm() > tol {
		return false
	}
	for _, v := range q {
		if math.Abs(v.Sub(p[0]).Dot(n)) > tol {
			return false
		}
	}
	return true
}

// Antiparallel reports whether q lies in p's plane and faces the opposite way.
func (p Polygon) Antiparallel(q Polygon, tol float64) bool {
	return p.Coplanar(q.Reverse(), tol)
}

func distinct(vs []float64, tol float64) []float64 {
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	var out []float64
	for _, v := range sorted {
		if len(out) == 0 || v-out[len(out)-1] > tol {
			out = append(out, v)
		}
	}
	return out
}

// SameVertices reports whether p and q hold the same vertices, in any order.
func (p Polygon) SameVertices(q Polygon, tol float64) bool {
	if len(p) != len(q) {
		return false
	}
	used := make([]bool, len(q))
outer:
	for _, v := range p {
		for j, w := range q {
			if !used[j] && v.Eq(w, tol) {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// IsRectangularWall reports whether p is a vertical rectangle lying in a
// constant-x or constant-y plane with two distinct elevations.
func (p Polygon) IsRectangularWall() bool {
	if len(p) != 4 {
		return false
	}
	var xs, ys, zs []float64
	for _, v := range p {
		xs, ys, zs = append(xs, v.X), append(ys, v.Y), append(zs, v.Z)
	}
	nx, ny := len(distinct(xs, Tol)), len(distinct(ys, Tol))
	if len(distinct(zs, Tol)) != 2 {
		return false
	}
	return (nx == 1 && ny == 2) || (nx == 2 && ny == 1)
}

// Transform rotates p about the z axis through pivot by deg degrees
// counterclockwise and then translates it by (dx, dy, dz).
func (p Polygon) Transform(pivot Point3, deg, dx, dy, dz float64) Polygon {
	s, c := math.Sincos(deg * math.Pi / 180)
	out := make(Polygon, len(p))
	for i, v := range p {
		x, y := v.X-pivot.X, v.Y-pivot.Y
		out[i] = Point3{
			X: pivot.X + x*c - y*s + dx,
			Y: pivot.Y + x*s + y*c + dy,
			Z: v.Z + dz,
		}
	}
	return out
}
