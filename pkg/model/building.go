package model

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/matzehuels/massform/pkg/geom"
)

// namespace seeds every building's id namespace.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/massform"))

// Building is the mutable model massing builders populate. Call Finalize to
// obtain the Envelope that placement operates on.
type Building struct {
	graph
	ns  uuid.UUID
	seq int
}

// New returns an empty building. Ids are derived from name and creation
// order, so identical inputs produce identical ids.
func New(name string) *Building {
	return &Building{
		graph: graph{Name: name},
		ns:    uuid.NewSHA1(namespace, []byte(name)),
	}
}

// IsEmpty reports whether nothing has been added yet.
func (b *Building) IsEmpty() bool {
	return len(b.spaces) == 0 && len(b.surfaces) == 0
}

func (b *Building) nextID(kind string) (string, int) {
	b.seq++
	return uuid.NewSHA1(b.ns, []byte(kind+"/"+strconv.Itoa(b.seq))).String(), b.seq
}

// AddZone creates a zone.
func (b *Building) AddZone(name string, conditioned bool) *Zone {
	id, _ := b.nextID("zone")
	z := &Zone{ID: id, Name: name, Conditioned: conditioned}
	b.zones = append(b.zones, z)
	return z
}

// AddSpace creates a space in zone z whose floor sits at origin.
func (b *Building) AddSpace(name string, z *Zone, role Role, origin float64) *Space {
	id, _ := b.nextID("space")
	sp := &Space{ID: id, Name: name, ZoneID: z.ID, Role: role, Origin: origin}
	b.spaces = append(b.spaces, sp)
	return sp
}

// SetZone moves a space into zone z.
func (b *Building) SetZone(sp *Space, z *Zone) { sp.ZoneID = z.ID }

// AddSurface adds a face to space sp. Floors start on Ground, everything
// else Outdoors; intersect-and-match and the builders refine that later.
func (b *Building) AddSurface(sp *Space, kind SurfaceKind, poly geom.Polygon) *Surface {
	s := b.newSurface(sp.ID, kind, poly.Dedup(geom.Tol))
	b.surfaces = append(b.surfaces, s)
	return s
}

func (b *Building) newSurface(spaceID string, kind SurfaceKind, poly geom.Polygon) *Surface {
	id, n := b.nextID("surface")
	boundary := Outdoors
	if kind == KindFloor {
		boundary = Ground
	}
	return &Surface{
		ID:       id,
		Name:     fmt.Sprintf("Surface %d", n),
		SpaceID:  spaceID,
		Kind:     kind,
		Boundary: boundary,
		Polygon:  poly,
	}
}

// PrismSurfaces are the faces AddPrism created.
type PrismSurfaces struct {
	Floor   *Surface
	Ceiling *Surface
	Walls   []*Surface
}

// AddPrism adds the floor, walls and ceiling of an extruded floor print.
func (b *Building) AddPrism(sp *Space, pr geom.Prism) PrismSurfaces {
	out := PrismSurfaces{Floor: b.AddSurface(sp, KindFloor, pr.Floor)}
	for _, w := range pr.Walls {
		out.Walls = append(out.Walls, b.AddSurface(sp, KindWall, w))
	}
	out.Ceiling = b.AddSurface(sp, KindRoofCeiling, pr.Ceiling)
	return out
}

// RemoveSurface deletes a surface, unlinks its partner, and drops its openings.
func (b *Building) RemoveSurface(s *Surface) {
	if s.Boundary == InteriorAdjacent {
		if o := b.Surface(s.Adjacent); o != nil && o.Adjacent == s.ID {
			o.Adjacent = ""
			o.Boundary = Outdoors
		}
	}
	b.surfaces = removeByID(b.surfaces, s.ID, func(x *Surface) string { return x.ID })
	b.subSurfaces = filter(b.subSurfaces, func(x *SubSurface) bool { return x.HostID != s.ID })
}

// MoveSurface reassigns a surface to another space.
func (b *Building) MoveSurface(s *Surface, sp *Space) { s.SpaceID = sp.ID }

// RemoveSpace deletes an empty space.
func (b *Building) RemoveSpace(sp *Space) {
	b.spaces = removeByID(b.spaces, sp.ID, func(x *Space) string { return x.ID })
}

// Link pairs two surfaces as each other's outside boundary.
func (b *Building) Link(s, o *Surface) {
	s.Boundary, s.Adjacent = InteriorAdjacent, o.ID
	o.Boundary, o.Adjacent = InteriorAdjacent, s.ID
}

// SetBoundary assigns a non-surface boundary, unlinking any partner.
func (b *Building) SetBoundary(s *Surface, bc Boundary) {
	if s.Boundary == InteriorAdjacent && bc != InteriorAdjacent {
		if o := b.Surface(s.Adjacent); o != nil && o.Adjacent == s.ID {
			o.Adjacent = ""
			o.Boundary = Outdoors
		}
		s.Adjacent = ""
	}
	s.Boundary = bc
}

// AddShading adds a non-thermal shading plane, optionally tied to a space.
func (b *Building) AddShading(name string, sp *Space, poly geom.Polygon) *Shading {
	id, _ := b.nextID("shading")
	sh := &Shading{ID: id, Name: name, Polygon: poly.Dedup(geom.Tol)}
	if sp != nil {
		sh.SpaceID = sp.ID
	}
	b.shading = append(b.shading, sh)
	return sh
}

// AddUnit records a dwelling made of the given spaces.
func (b *Building) AddUnit(name string, spaces ...*Space) *Unit {
	id, _ := b.nextID("unit")
	u := &Unit{ID: id, Name: name}
	for _, sp := range spaces {
		u.SpaceIDs = append(u.SpaceIDs, sp.ID)
	}
	b.units = append(b.units, u)
	return u
}

// replaceSurface swaps s for pieces at s's position.
func (b *Building) replaceSurface(s *Surface, pieces []*Surface) {
	for i, x := range b.surfaces {
		if x.ID != s.ID {
			continue
		}
		out := make([]*Surface, 0, len(b.surfaces)+len(pieces)-1)
		out = append(out, b.surfaces[:i]...)
		out = append(out, pieces...)
		out = append(out, b.surfaces[i+1:]...)
		b.surfaces = out
		return
	}
}

func removeByID[T any](xs []T, id string, key func(T) string) []T {
	return filter(xs, func(x T) bool { return key(x) != id })
}

func filter[T any](xs []T, keep func(T) bool) []T {
	out := xs[:0:0]
	for _, x := range xs {
		if keep(x) {
			out = append(out, x)
		}
	}
	return out
}
