package massing

import (
	"math"

	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/model"
)

// foundationVolume is a foundation space with its walls split into the part
// below the first floor and the rim-joist band above it.
type foundationVolume struct {
	Space    *model.Space
	Walls    []*model.Surface
	RimWalls []*model.Surface
}

// addFoundation extrudes print from bottom to top into sp and caps it with
// a rim-joist band [top, top+rim]. The band belongs to the foundation
// space, so the foundation ceiling sits at top+rim under the first floor.
func addFoundation(b *model.Building, sp *model.Space, print geom.Polygon, bottom, top, rim float64) foundationVolume {
	fv := foundationVolume{Space: sp}
	pr := geom.Extrude(print.AtZ(bottom), top-bottom)
	b.AddSurface(sp, model.KindFloor, pr.Floor)
	for _, w := range pr.Walls {
		fv.Walls = append(fv.Walls, b.AddSurface(sp, model.KindWall, w))
	}
	if rim <= 0 {
		b.AddSurface(sp, model.KindRoofCeiling, pr.Ceiling)
		return fv
	}
	band := geom.Extrude(print.AtZ(top), rim)
	for _, w := range band.Walls {
		fv.RimWalls = append(fv.RimWalls, b.AddSurface(sp, model.KindWall, w))
	}
	b.AddSurface(sp, model.KindRoofCeiling, band.Ceiling)
	return fv
}

// partyFacades returns the facades a unit shares with its neighbors.
func partyFacades(h HorizontalLocation, rear bool) map[geom.Facade]bool {
	out := map[geom.Facade]bool{}
	switch h {
	case HorizontalLeft:
		out[geom.FacadeRight] = true
	case HorizontalRight:
		out[geom.FacadeLeft] = true
	case HorizontalMiddle:
		out[geom.FacadeLeft] = true
		out[geom.FacadeRight] = true
	}
	if rear {
		out[geom.FacadeBack] = true
	}
	return out
}

// onParty reports whether s lies on a party facade of a unit spanning
// [0,x]. Faces set back from both unit ends, such as the sides of an inset,
// are never shared.
func onParty(s *model.Surface, party map[geom.Facade]bool, x float64) bool {
	if !party[s.Facade()] {
		return false
	}
	bb := s.Polygon.Bounds()
	return !(math.Abs(bb.Max.X-x) >= 0.01 && bb.Min.X > 0)
}

// setPartyWalls makes the party walls of sp adiabatic.
func setPartyWalls(b *model.Building, sp *model.Space, party map[geom.Facade]bool, x float64) {
	for _, s := range b.SurfacesOf(sp.ID) {
		if s.Kind == model.KindWall && onParty(s, party, x) {
			b.SetBoundary(s, model.Adiabatic)
		}
	}
}

// assignBelowGrade sets the walls of every space whose floor is below grade:
// party walls are adiabatic, walls reaching below grade touch the
// foundation, and the rest see the outdoors.
func assignBelowGrade(b *model.Building, party map[geom.Facade]bool, x float64) {
	for _, sp := range b.Spaces() {
		if b.FloorZ(sp) >= 0 {
			continue
		}
		for _, s := range b.SurfacesOf(sp.ID) {
			if s.Kind != model.KindWall {
				continue
			}
			switch {
			case onParty(s, party, x):
				b.SetBoundary(s, model.Adiabatic)
			case s.Polygon.MinZ() < 0:
				b.SetBoundary(s, model.Foundation)
			default:
				b.SetBoundary(s, model.Outdoors)
			}
		}
	}
}

// groundToFoundation turns every ground boundary into a foundation
// boundary; ground contact is modeled through the foundation.
func groundToFoundation(b *model.Building) {
	for _, s := range b.Surfaces() {
		if s.Boundary == model.Ground {
			b.SetBoundary(s, model.Foundation)
		}
	}
}
