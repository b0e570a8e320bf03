package geom

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Axis identifies the coordinate axis a plane is perpendicular to.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// AxisPlane returns the axis p's plane is perpendicular to and the plane's
// offset along that axis. ok is false for planes not perpendicular to an axis.
func (p Polygon) AxisPlane(tol float64) (axis Axis, offset float64, ok bool) {
	if len(p) < 3 {
		return 0, 0, false
	}
	n := p.Normal()
	switch {
	case math.Abs(math.Abs(n.Z)-1) <= tol:
		return AxisZ, p[0].Z, true
	case math.Abs(math.Abs(n.X)-1) <= tol:
		return AxisX, p[0].X, true
	case math.Abs(math.Abs(n.Y)-1) <= tol:
		return AxisY, p[0].Y, true
	}
	return 0, 0, false
}

// Project drops the axis coordinate, mapping p into its plane.
func (p Polygon) Project(axis Axis) orb.Ring {
	r := make(orb.Ring, len(p))
	for i, v := range p {
		switch axis {
		case AxisX:
			r[i] = orb.Point{v.Y, v.Z}
		case AxisY:
			r[i] = orb.Point{v.X, v.Z}
		default:
			r[i] = orb.Point{v.X, v.Y}
		}
	}
	return r
}

// Lift maps a planar ring back into 3-D at the given axis offset.
func Lift(r orb.Ring, axis Axis, offset float64) Polygon {
	pts := r
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	out := make(Polygon, len(pts))
	for i, q := range pts {
		switch axis {
		case AxisX:
			out[i] = Point3{X: offset, Y: q[0], Z: q[1]}
		case AxisY:
			out[i] = Point3{X: q[0], Y: offset, Z: q[1]}
		default:
			out[i] = Point3{X: q[0], Y: q[1], Z: offset}
		}
	}
	return out
}

// Oriented returns p wound so that its normal agrees with ref's.
func (p Polygon) Oriented(ref Polygon) Polygon {
	if p.Normal().Dot(ref.Normal()) < 0 {
		return p.Reverse()
	}
	return p
}

// IsRectilinear reports whether every edge of r is parallel to an axis.
func IsRectilinear(r orb.Ring, tol float64) bool {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		r = r[:len(r)-1]
	}
	if len(r) < 4 {
		return false
	}
	for i := range r {
		a, b := r[i], r[(i+1)%len(r)]
		if math.Abs(a[0]-b[0]) > tol && math.Abs(a[1]-b[1]) > tol {
			return false
		}
	}
	return true
}

// RingArea is the unsigned planar area of r.
func RingArea(r orb.Ring) float64 {
	return math.Abs(planar.Area(closed(r)))
}

// Intersect returns the overlap of two rectilinear rings as CCW rings.
func Intersect(a, b orb.Ring) []orb.Ring {
	return cellOp(a, b, func(inA, inB bool) bool { return inA && inB })
}

// Subtract returns the part of a not covered by b as CCW rings.
func Subtract(a, b orb.Ring) []orb.Ring {
	return cellOp(a, b, func(inA, inB bool) bool { return inA && !inB })
}

// snapTol merges coordinates that differ only by floating-point noise.
const snapTol = 1e-4

type grid struct {
	xs, ys []float64
}

func (g grid) point(i, j int) orb.Point { return orb.Point{g.xs[i], g.ys[j]} }

func cellOp(a, b orb.Ring, keep func(inA, inB bool) bool) []orb.Ring {
	ca, cb := closed(a), closed(b)
	var xs, ys []float64
	for _, r := range []orb.Ring{ca, cb} {
		for _, p := range r {
			xs = append(xs, p[0])
			ys = append(ys, p[1])
		}
	}
	g := grid{xs: distinct(xs, snapTol), ys: distinct(ys, snapTol)}
	if len(g.xs) < 2 || len(g.ys) < 2 {
		return nil
	}

	nx, ny := len(g.xs)-1, len(g.ys)-1
	filled := make([][]bool, nx)
	found := false
	for i := 0; i < nx; i++ {
		filled[i] = make([]bool, ny)
		for j := 0; j < ny; j++ {
			if g.xs[i+1]-g.xs[i] <= snapTol || g.ys[j+1]-g.ys[j] <= snapTol {
				continue
			}
			c := orb.Point{(g.xs[i] + g.xs[i+1]) / 2, (g.ys[j] + g.ys[j+1]) / 2}
			if keep(planar.RingContains(ca, c), planar.RingContains(cb, c)) {
				filled[i][j] = true
				found = true
			}
		}
	}
	if !found {
		return nil
	}
	if rings, ok := traceCells(g, filled); ok {
		return rings
	}
	return rowRectangles(g, filled)
}

type gridPt struct{ i, j int }

type gridEdge struct{ from, to gridPt }

// traceCells walks the boundary of the filled cell set. It gives up when the
// set has holes or cells touching only at a corner.
func traceCells(g grid, filled [][]bool) ([]orb.Ring, bool) {
	edges := map[gridEdge]bool{}
	add := func(e gridEdge) {
		rev := gridEdge{from: e.to, to: e.from}
		if edges[rev] {
			delete(edges, rev)
			return
		}
		edges[e] = true
	}
	for i := range filled {
		for j := range filled[i] {
			if !filled[i][j] {
				continue
			}
			add(gridEdge{gridPt{i, j}, gridPt{i + 1, j}})
			add(gridEdge{gridPt{i + 1, j}, gridPt{i + 1, j + 1}})
			add(gridEdge{gridPt{i + 1, j + 1}, gridPt{i, j + 1}})
			add(gridEdge{gridPt{i, j + 1}, gridPt{i, j}})
		}
	}

	next := map[gridPt]gridPt{}
	for e := range edges {
		if _, dup := next[e.from]; dup {
			return nil, false
		}
		next[e.from] = e.to
	}

	// Deterministic start order: lowest j, then lowest i.
	starts := make([]gridPt, 0, len(next))
	for p := range next {
		starts = append(starts, p)
	}
	sort.Slice(starts, func(a, b int) bool {
		if starts[a].j != starts[b].j {
			return starts[a].j < starts[b].j
		}
		return starts[a].i < starts[b].i
	})

	seen := map[gridPt]bool{}
	var rings []orb.Ring
	for _, s := range starts {
		if seen[s] {
			continue
		}
		var loop []gridPt
		for p := s; !seen[p]; p = next[p] {
			seen[p] = true
			loop = append(loop, p)
		}
		loop = dropStraight(loop)
		r := make(orb.Ring, 0, len(loop)+1)
		for _, p := range loop {
			r = append(r, g.point(p.i, p.j))
		}
		r = append(r, r[0])
		if r.Orientation() != orb.CCW {
			return nil, false
		}
		rings = append(rings, r)
	}
	return rings, true
}

func dropStraight(loop []gridPt) []gridPt {
	var out []gridPt
	n := len(loop)
	for k := range loop {
		prev, cur, nxt := loop[(k+n-1)%n], loop[k], loop[(k+1)%n]
		if (prev.i == cur.i && cur.i == nxt.i) || (prev.j == cur.j && cur.j == nxt.j) {
			continue
		}
		out = append(out, cur)
	}
	return out
}

// rowRectangles decomposes the filled cells into one rectangle per maximal
// horizontal run in each row.
func rowRectangles(g grid, filled [][]bool) []orb.Ring {
	var out []orb.Ring
	ny := len(g.ys) - 1
	for j := 0; j < ny; j++ {
		for i := 0; i < len(filled); {
			if !filled[i][j] {
				i++
				continue
			}
			k := i
			for k < len(filled) && filled[k][j] {
				k++
			}
			out = append(out, orb.Ring{
				g.point(i, j), g.point(k, j), g.point(k, j+1), g.point(i, j+1), g.point(i, j),
			})
			i = k
		}
	}
	return out
}

func closed(r orb.Ring) orb.Ring {
	if len(r) == 0 || r[0] == r[len(r)-1] {
		return r
	}
	out := make(orb.Ring, len(r)+1)
	copy(out, r)
	out[len(r)] = r[0]
	return out
}
