package model

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/matzehuels/massform/pkg/geom"
)

// minOverlap is the smallest shared area, in square feet, worth splitting for.
const minOverlap = 1e-4

// indexed adapts a surface to the R-tree.
type indexed struct {
	s    *Surface
	pos  int
	rect rtreego.Rect
}

func (x *indexed) Bounds() rtreego.Rect { return x.rect }

func boundsRect(p geom.Polygon) rtreego.Rect {
	b := p.Bounds()
	const pad = geom.Tol
	lo := rtreego.Point{b.Min.X - pad, b.Min.Y - pad, b.Min.Z - pad}
	dx, dy, dz := b.Size()
	r, err := rtreego.NewRect(lo, []float64{dx + 2*pad, dy + 2*pad, dz + 2*pad})
	if err != nil {
		// Lengths are always positive after padding.
		panic(err)
	}
	return r
}

// Match intersects and matches the building's surfaces. Coplanar,
// opposite-facing surfaces of different spaces that share area are split so
// the shared part of each becomes its own surface, and those parts are linked
// as each other's boundary. Only axis-aligned rectilinear surfaces are split;
// any other pair is linked only when the two polygons are reverse-equal.
// It returns the number of links made.
func (b *Building) Match() int {
	links := 0
	for {
		changed, linked := b.matchPass()
		links += linked
		if !changed {
			return links
		}
	}
}

// matchPass performs splits and links until the first split, which
// invalidates the index. changed is true when the caller must run again.
func (b *Building) matchPass() (changed bool, links int) {
	tree := rtreego.NewTree(3, 25, 50)
	entries := make([]*indexed, 0, len(b.surfaces))
	for i, s := range b.surfaces {
		if s.Boundary == InteriorAdjacent {
			continue
		}
		e := &indexed{s: s, pos: i, rect: boundsRect(s.Polygon)}
		entries = append(entries, e)
		tree.Insert(e)
	}

	for _, e := range entries {
		if e.s.Boundary == InteriorAdjacent {
			continue
		}
		hits := tree.SearchIntersect(e.rect)
		cands := make([]*indexed, 0, len(hits))
		for _, h := range hits {
			c := h.(*indexed)
			if c.pos > e.pos && c.s.SpaceID != e.s.SpaceID && c.s.Boundary != InteriorAdjacent {
				cands = append(cands, c)
			}
		}
		sort.Slice(cands, func(i, j int) bool { return cands[i].pos < cands[j].pos })

		for _, c := range cands {
			s, o := e.s, c.s
			if !s.Polygon.Antiparallel(o.Polygon, geom.Tol) {
				continue
			}
			if s.Polygon.ReverseEqual(o.Polygon, geom.Tol) {
				b.Link(s, o)
				links++
				break
			}
			if b.split(s, o) {
				return true, links
			}
		}
	}
	return false, links
}

// split cuts s and o into their shared part and remainders and links the
// shared parts. It reports false when the pair cannot be split.
func (b *Building) split(s, o *Surface) bool {
	axis, off, ok := s.Polygon.AxisPlane(geom.Tol)
	if !ok {
		return false
	}
	rs, ro := s.Polygon.Project(axis), o.Polygon.Project(axis)
	if !geom.IsRectilinear(rs, geom.Tol) || !geom.IsRectilinear(ro, geom.Tol) {
		return false
	}
	shared := geom.Intersect(rs, ro)
	var area float64
	for _, r := range shared {
		area += geom.RingArea(r)
	}
	if area < minOverlap {
		return false
	}

	sPieces, sShared := b.pieces(s, shared, geom.Subtract(rs, ro), axis, off)
	oPieces, oShared := b.pieces(o, shared, geom.Subtract(ro, rs), axis, off)
	for i := range sShared {
		b.Link(sShared[i], oShared[i])
	}
	b.replaceSurface(s, sPieces)
	b.replaceSurface(o, oPieces)
	return true
}

func (b *Building) pieces(s *Surface, shared, rest []orb.Ring, axis geom.Axis, off float64) (all, sharedOut []*Surface) {
	mk := func(r orb.Ring) *Surface {
		poly := geom.Lift(r, axis, off).Oriented(s.Polygon)
		p := b.newSurface(s.SpaceID, s.Kind, poly)
		p.Boundary = s.Boundary
		return p
	}
	for _, r := range shared {
		p := mk(r)
		all = append(all, p)
		sharedOut = append(sharedOut, p)
	}
	for _, r := range rest {
		if geom.RingArea(r) < minOverlap {
			continue
		}
		all = append(all, mk(r))
	}
	return all, sharedOut
}
