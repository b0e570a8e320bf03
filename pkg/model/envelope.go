package model

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/geom"
)

// Envelope is a finalized building: massing is frozen and every boundary
// condition is settled. Placement may only add or remove openings and split
// a doored wall into fragments.
type Envelope struct {
	graph
	ns  uuid.UUID
	seq int

	// Orientation is the compass azimuth the front facade faces.
	Orientation float64
}

// Finalize validates b and returns an independent, finalized copy. b is
// left untouched.
func Finalize(b *Building) (*Envelope, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	e := &Envelope{graph: b.graph.clone(), ns: b.ns, seq: b.seq, Orientation: 180}
	return e, nil
}

func (g *graph) validate() error {
	for _, s := range g.surfaces {
		if len(s.Polygon) < 3 {
			return errors.New(errors.ErrCodeInternal, "%s has fewer than 3 vertices", s.Name)
		}
		if g.Space(s.SpaceID) == nil {
			return errors.New(errors.ErrCodeInternal, "%s has no owning space", s.Name)
		}
		if s.Boundary != InteriorAdjacent {
			continue
		}
		o := g.Surface(s.Adjacent)
		if o == nil || o.Adjacent != s.ID || o.Boundary != InteriorAdjacent {
			return errors.New(errors.ErrCodeInternal, "%s is not mutually linked", s.Name)
		}
		if !s.Polygon.ReverseEqual(o.Polygon, geom.Tol) {
			return errors.New(errors.ErrCodeInternal, "%s and %s are linked but not reverse-equal", s.Name, o.Name)
		}
	}
	return nil
}

func (g graph) clone() graph {
	out := graph{Name: g.Name}
	for _, z := range g.zones {
		c := *z
		out.zones = append(out.zones, &c)
	}
	for _, s := range g.spaces {
		c := *s
		out.spaces = append(out.spaces, &c)
	}
	for _, s := range g.surfaces {
		c := *s
		c.Polygon = s.Polygon.Clone()
		out.surfaces = append(out.surfaces, &c)
	}
	for _, s := range g.subSurfaces {
		c := *s
		c.Polygon = s.Polygon.Clone()
		out.subSurfaces = append(out.subSurfaces, &c)
	}
	for _, s := range g.shading {
		c := *s
		c.Polygon = s.Polygon.Clone()
		out.shading = append(out.shading, &c)
	}
	for _, u := range g.units {
		c := *u
		c.SpaceIDs = append([]string(nil), u.SpaceIDs...)
		out.units = append(out.units, &c)
	}
	return out
}

// Clone returns an independent copy of the envelope.
func (e *Envelope) Clone() *Envelope {
	return &Envelope{graph: e.graph.clone(), ns: e.ns, seq: e.seq, Orientation: e.Orientation}
}

// Validate re-checks adjacency symmetry and opening placement.
func (e *Envelope) Validate() error {
	if err := e.validate(); err != nil {
		return err
	}
	for _, ss := range e.subSurfaces {
		host := e.Surface(ss.HostID)
		if host == nil {
			return errors.New(errors.ErrCodeInternal, "%s has no host", ss.Name)
		}
		if !inPlane(ss.Polygon, host.Polygon) {
			return errors.New(errors.ErrCodeInternal, "%s is not in the plane of %s", ss.Name, host.Name)
		}
	}
	return nil
}

func (e *Envelope) nextID(kind string) (string, int) {
	e.seq++
	return uuid.NewSHA1(e.ns, []byte(fmt.Sprintf("%s/%d", kind, e.seq))).String(), e.seq
}

// AddSubSurface places an opening in host. The polygon must lie in the
// host's plane, face the same way, and not overlap the host's other openings.
func (e *Envelope) AddSubSurface(host *Surface, kind SubSurfaceKind, poly geom.Polygon) (*SubSurface, error) {
	if !inPlane(poly, host.Polygon) {
		return nil, errors.New(errors.ErrCodeGeometryInfeasible, "%s does not lie in the plane of %s", kind, host.Name)
	}
	for _, o := range e.SubSurfacesOf(host.ID) {
		if overlaps(poly, o.Polygon) {
			return nil, errors.New(errors.ErrCodeGeometryInfeasible, "%s overlaps %s on %s", kind, o.Name, host.Name)
		}
	}
	id, n := e.nextID("subsurface")
	ss := &SubSurface{
		ID:      id,
		Name:    fmt.Sprintf("%s %d", kind, n),
		HostID:  host.ID,
		Kind:    kind,
		Polygon: poly,
	}
	e.subSurfaces = append(e.subSurfaces, ss)
	return ss, nil
}

// RemoveSubSurfaces deletes every opening of the given kind and returns the
// names of the hosts that lost one, in host order.
func (e *Envelope) RemoveSubSurfaces(kind SubSurfaceKind) []string {
	hosts := map[string]bool{}
	e.subSurfaces = filter(e.subSurfaces, func(ss *SubSurface) bool {
		if ss.Kind == kind {
			hosts[ss.HostID] = true
			return false
		}
		return true
	})
	var names []string
	for _, s := range e.surfaces {
		if hosts[s.ID] {
			names = append(names, s.Name)
		}
	}
	return names
}

// SplitWall replaces wall with fragments. Each fragment becomes a new
// surface with the wall's space, kind and boundary; the wall's openings move
// to whichever fragment contains their centroid. The wall must not be
// linked to another surface.
func (e *Envelope) SplitWall(wall *Surface, fragments []geom.Polygon) ([]*Surface, error) {
	if wall.Boundary == InteriorAdjacent {
		return nil, errors.New(errors.ErrCodeInvalidState, "cannot split linked surface %s", wall.Name)
	}
	var out []*Surface
	for _, f := range fragments {
		id, n := e.nextID("surface")
		out = append(out, &Surface{
			ID:       id,
			Name:     fmt.Sprintf("Surface %d", n),
			SpaceID:  wall.SpaceID,
			Kind:     wall.Kind,
			Boundary: wall.Boundary,
			Polygon:  f.Oriented(wall.Polygon),
		})
	}
	for _, ss := range e.SubSurfacesOf(wall.ID) {
		c := ss.Polygon.Centroid()
		for _, f := range out {
			if containsInPlane(f.Polygon, c) {
				ss.HostID = f.ID
				break
			}
		}
	}
	for i, s := range e.surfaces {
		if s.ID == wall.ID {
			rest := append(append([]*Surface{}, out...), e.surfaces[i+1:]...)
			e.surfaces = append(e.surfaces[:i], rest...)
			break
		}
	}
	return out, nil
}

func inPlane(p, host geom.Polygon) bool {
	n := host.Normal()
	for _, v := range p {
		if math.Abs(v.Sub(host[0]).Dot(n)) > 0.01 {
			return false
		}
	}
	return p.Normal().Dot(n) > 0.999
}

// overlaps tests two coplanar openings by their extents along the plane's
// horizontal and slope directions, which is exact for the rectangles
// massform places.
func overlaps(a, b geom.Polygon) bool {
	const eps = 1e-6
	u, v := planeBasis(a.Normal())
	for _, axis := range []r3.Vector{u, v} {
		alo, ahi := extent(a, axis)
		blo, bhi := extent(b, axis)
		if ahi <= blo+eps || bhi <= alo+eps {
			return false
		}
	}
	return true
}

// planeBasis returns in-plane unit vectors: u horizontal, v up the slope.
func planeBasis(n r3.Vector) (u, v r3.Vector) {
	u = r3.Vector{Z: 1}.Cross(n)
	if u.Norm() < 1e-9 {
		u = r3.Vector{X: 1}
	}
	u = u.Normalize()
	return u, n.Cross(u).Normalize()
}

func extent(p geom.Polygon, axis r3.Vector) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, q := range p {
		d := q.Vec().Dot(axis)
		lo, hi = math.Min(lo, d), math.Max(hi, d)
	}
	return lo, hi
}

func project(p geom.Polygon, u, v r3.Vector) orb.Ring {
	r := make(orb.Ring, 0, len(p)+1)
	for _, q := range p {
		r = append(r, orb.Point{q.Vec().Dot(u), q.Vec().Dot(v)})
	}
	return append(r, r[0])
}

func containsInPlane(p geom.Polygon, pt geom.Point3) bool {
	u, v := planeBasis(p.Normal())
	q := pt.Vec()
	return planar.RingContains(project(p, u, v), orb.Point{q.Dot(u), q.Dot(v)})
}
