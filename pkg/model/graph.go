package model

import (
	"math"

	"github.com/matzehuels/massform/pkg/geom"
)

// graph is the storage shared by Building and Envelope. Slices keep
// creation order so every query is deterministic.
type graph struct {
	Name        string
	zones       []*Zone
	spaces      []*Space
	surfaces    []*Surface
	subSurfaces []*SubSurface
	shading     []*Shading
	units       []*Unit
}

// Zones returns every zone in creation order.
func (g *graph) Zones() []*Zone { return g.zones }

// Spaces returns every space in creation order.
func (g *graph) Spaces() []*Space { return g.spaces }

// Surfaces returns every surface in creation order.
func (g *graph) Surfaces() []*Surface { return g.surfaces }

// SubSurfaces returns every opening in creation order.
func (g *graph) SubSurfaces() []*SubSurface { return g.subSurfaces }

// Shading returns every shading plane.
func (g *graph) Shading() []*Shading { return g.shading }

// Units returns every dwelling unit.
func (g *graph) Units() []*Unit { return g.units }

// Zone looks a zone up by id.
func (g *graph) Zone(id string) *Zone {
	for _, z := range g.zones {
		if z.ID == id {
			return z
		}
	}
	return nil
}

// Space looks a space up by id.
func (g *graph) Space(id string) *Space {
	for _, s := range g.spaces {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Surface looks a surface up by id.
func (g *graph) Surface(id string) *Surface {
	for _, s := range g.surfaces {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// SpaceByName returns the first space with the given name.
func (g *graph) SpaceByName(name string) *Space {
	for _, s := range g.spaces {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// SpacesWithRole returns the spaces with role r.
func (g *graph) SpacesWithRole(r Role) []*Space {
	var out []*Space
	for _, s := range g.spaces {
		if s.Role == r {
			out = append(out, s)
		}
	}
	return out
}

// SurfacesOf returns the surfaces owned by a space.
func (g *graph) SurfacesOf(spaceID string) []*Surface {
	var out []*Surface
	for _, s := range g.surfaces {
		if s.SpaceID == spaceID {
			out = append(out, s)
		}
	}
	return out
}

// SubSurfacesOf returns the openings hosted by a surface.
func (g *graph) SubSurfacesOf(hostID string) []*SubSurface {
	var out []*SubSurface
	for _, s := range g.subSurfaces {
		if s.HostID == hostID {
			out = append(out, s)
		}
	}
	return out
}

// ZoneOf returns the zone of a space.
func (g *graph) ZoneOf(sp *Space) *Zone { return g.Zone(sp.ZoneID) }

// SpaceOf returns the space owning a surface.
func (g *graph) SpaceOf(s *Surface) *Space { return g.Space(s.SpaceID) }

// IsConditioned reports whether a space belongs to a conditioned zone.
func (g *graph) IsConditioned(sp *Space) bool {
	z := g.ZoneOf(sp)
	return z != nil && z.Conditioned
}

// ConditionedSpaces returns the spaces of conditioned zones.
func (g *graph) ConditionedSpaces() []*Space {
	var out []*Space
	for _, s := range g.spaces {
		if g.IsConditioned(s) {
			out = append(out, s)
		}
	}
	return out
}

// HasRoof reports whether a space has a sloped roof open to the outdoors.
func (g *graph) HasRoof(sp *Space) bool {
	for _, s := range g.SurfacesOf(sp.ID) {
		if s.Kind == KindRoofCeiling && s.Boundary == Outdoors && s.Tilt() > 1e-9 {
			return true
		}
	}
	return false
}

// BelowGrade reports whether any wall of the space is a foundation wall.
func (g *graph) BelowGrade(sp *Space) bool {
	for _, s := range g.SurfacesOf(sp.ID) {
		if s.Kind == KindWall && s.Boundary == Foundation {
			return true
		}
	}
	return false
}

// FloorZ returns the elevation of the space's first floor surface, or its
// origin when it has none.
func (g *graph) FloorZ(sp *Space) float64 {
	for _, s := range g.SurfacesOf(sp.ID) {
		if s.Kind == KindFloor {
			return s.Polygon.MinZ()
		}
	}
	return sp.Origin
}

// SpaceHeight is the vertical extent of the spaces' surfaces.
func (g *graph) SpaceHeight(spaces ...*Space) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, sp := range spaces {
		for _, s := range g.SurfacesOf(sp.ID) {
			b := s.Polygon.Bounds()
			lo = math.Min(lo, b.Min.Z)
			hi = math.Max(hi, b.Max.Z)
		}
	}
	if math.IsInf(lo, 0) {
		return 0
	}
	return hi - lo
}

// ConditionedAtticHeight returns the height of the first conditioned space
// that carries a gable wall, or failing that an outdoor roof. ok is false
// when no conditioned space is an attic.
func (g *graph) ConditionedAtticHeight() (height float64, ok bool) {
	for _, sp := range g.ConditionedSpaces() {
		for _, s := range g.SurfacesOf(sp.ID) {
			if len(s.Polygon) == 3 && s.Boundary == Outdoors && s.Kind == KindWall {
				return g.SpaceHeight(sp), true
			}
		}
	}
	for _, sp := range g.ConditionedSpaces() {
		for _, s := range g.SurfacesOf(sp.ID) {
			if s.Boundary == Outdoors && s.Kind == KindRoofCeiling {
				return g.SpaceHeight(sp), true
			}
		}
	}
	return 0, false
}

// IsRimJoist reports whether a surface is a rim-joist band of the given height.
func IsRimJoist(s *Surface, height float64) bool {
	return math.Abs(height-s.Polygon.Height()) < 0.00001 && s.Polygon.MaxZ() > 0
}

// UnitOf returns the unit containing a space, if any.
func (g *graph) UnitOf(sp *Space) *Unit {
	for _, u := range g.units {
		for _, id := range u.SpaceIDs {
			if id == sp.ID {
				return u
			}
		}
	}
	return nil
}

// WallsConnectedToFloor returns the walls with an edge lying on one of the
// floor's edges. sameSpace restricts the walls to the floor's own space;
// otherwise only walls of other spaces qualify.
func WallsConnectedToFloor(walls []*Surface, floor *Surface, sameSpace bool) []*Surface {
	var out []*Surface
	for _, w := range walls {
		if (w.SpaceID == floor.SpaceID) != sameSpace {
			continue
		}
	edges:
		for _, we := range w.Polygon.Edges() {
			for _, fe := range floor.Polygon.Edges() {
				if fe.Covers(we, geom.Tol) {
					out = append(out, w)
					break edges
				}
			}
		}
	}
	return out
}
