package model

import (
	"fmt"
	"strings"

	"github.com/matzehuels/massform/pkg/geom"
)

// SurfaceKind classifies a massing surface.
type SurfaceKind int

const (
	KindWall SurfaceKind = iota
	KindFloor
	KindRoofCeiling
)

var kindNames = [...]string{"Wall", "Floor", "RoofCeiling"}

func (k SurfaceKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("SurfaceKind(%d)", int(k))
}

func (k SurfaceKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *SurfaceKind) UnmarshalText(b []byte) error {
	for i, n := range kindNames {
		if strings.EqualFold(n, string(b)) {
			*k = SurfaceKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown surface kind %q", b)
}

// Boundary is the outside boundary condition of a surface.
type Boundary int

const (
	Outdoors Boundary = iota
	Ground
	Foundation
	Adiabatic
	// InteriorAdjacent means the outside is another surface, named by
	// Surface.Adjacent.
	InteriorAdjacent
)

var boundaryNames = [...]string{"Outdoors", "Ground", "Foundation", "Adiabatic", "Surface"}

func (b Boundary) String() string {
	if int(b) < len(boundaryNames) {
		return boundaryNames[b]
	}
	return fmt.Sprintf("Boundary(%d)", int(b))
}

func (b Boundary) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *Boundary) UnmarshalText(t []byte) error {
	for i, n := range boundaryNames {
		if strings.EqualFold(n, string(t)) {
			*b = Boundary(i)
			return nil
		}
	}
	return fmt.Errorf("unknown boundary %q", t)
}

// Role is what a space is used for.
type Role int

const (
	RoleLiving Role = iota
	RoleGarage
	RoleAttic
	RoleFoundation
	RoleCorridor
)

var roleNames = [...]string{"living", "garage", "attic", "foundation", "corridor"}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Role) UnmarshalText(t []byte) error {
	for i, n := range roleNames {
		if strings.EqualFold(n, string(t)) {
			*r = Role(i)
			return nil
		}
	}
	return fmt.Errorf("unknown role %q", t)
}

// SubSurfaceKind classifies an opening.
type SubSurfaceKind int

const (
	Window SubSurfaceKind = iota
	Skylight
	Door
)

var subKindNames = [...]string{"Window", "Skylight", "Door"}

func (k SubSurfaceKind) String() string {
	if int(k) < len(subKindNames) {
		return subKindNames[k]
	}
	return fmt.Sprintf("SubSurfaceKind(%d)", int(k))
}

func (k SubSurfaceKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *SubSurfaceKind) UnmarshalText(t []byte) error {
	for i, n := range subKindNames {
		if strings.EqualFold(n, string(t)) {
			*k = SubSurfaceKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown sub-surface kind %q", t)
}

// Location names used for zones and spaces.
const (
	LocationLivingSpace           = "living space"
	LocationGarage                = "garage"
	LocationAtticVented           = "attic - vented"
	LocationAtticUnvented         = "attic - unvented"
	LocationCrawlspaceVented      = "crawlspace - vented"
	LocationCrawlspaceUnvented    = "crawlspace - unvented"
	LocationBasementConditioned   = "basement - conditioned"
	LocationBasementUnconditioned = "basement - unconditioned"
	LocationOutside               = "outside"
	LocationOtherHousingUnit      = "other housing unit"
)

// Zone groups spaces under one thermal control.
type Zone struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Conditioned bool   `json:"conditioned"`
}

// Space is one volume of the building.
type Space struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	ZoneID string  `json:"zone_id"`
	Role   Role    `json:"role"`
	Origin float64 `json:"z_origin"` // elevation of the space's floor
}

// Surface is a planar face owned by exactly one space.
type Surface struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	SpaceID  string       `json:"space_id"`
	Kind     SurfaceKind  `json:"kind"`
	Boundary Boundary     `json:"boundary"`
	Adjacent string       `json:"adjacent_surface_id,omitempty"`
	Polygon  geom.Polygon `json:"vertices"`
}

// Tilt is the surface's tilt in degrees.
func (s *Surface) Tilt() float64 { return s.Polygon.Tilt() }

// Facade classifies the surface by its outward normal.
func (s *Surface) Facade() geom.Facade { return s.Polygon.Facade() }

// Area is the gross area of the surface.
func (s *Surface) Area() float64 { return s.Polygon.Area() }

// SubSurface is a window, skylight or door in a host surface.
type SubSurface struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	HostID  string         `json:"host_id"`
	Kind    SubSurfaceKind `json:"kind"`
	Polygon geom.Polygon   `json:"vertices"`
}

// Shading is a non-thermal plane such as a corridor walkway or balcony.
type Shading struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	SpaceID string       `json:"space_id,omitempty"`
	Polygon geom.Polygon `json:"vertices"`
}

// Unit is one dwelling; it scopes window redistribution.
type Unit struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	SpaceIDs []string `json:"space_ids"`
}
