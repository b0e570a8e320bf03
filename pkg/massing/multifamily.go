package massing

import (
	"github.com/matzehuels/massform/pkg/diag"
	"github.com/matzehuels/massform/pkg/footprint"
	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/model"
)

// Multifamily masses one apartment unit into the empty building b. The
// neighbors it shares walls, floor or ceiling with are not modeled; those
// surfaces are adiabatic.
func Multifamily(b *model.Building, c MultifamilyConfig, sink diag.Sink) error {
	if err := checkEmpty(b); err != nil {
		return diag.Fail(sink, err)
	}
	m, err := c.resolve(sink)
	if err != nil {
		return diag.Fail(sink, err)
	}
	fp, err := footprint.SolveInset(c.CFA, c.AspectRatio, m.inset.Width, m.inset.Depth)
	if err != nil {
		return diag.Fail(sink, err)
	}
	m.b = b
	m.x, m.y = fp.Width, fp.Length
	m.build()
	return nil
}

// apartment is a multifamily config after defaults and corrections.
type apartment struct {
	MultifamilyConfig
	b *model.Building

	level      Level
	loc        HorizontalLocation
	corridor   Corridor
	inset      Inset
	foundation Foundation
	rearUnits  bool

	x, y      float64
	corridors []*model.Space
}

// resolve applies defaults, corrects inputs that cannot apply to the
// building's layout, and rejects the rest.
func (c MultifamilyConfig) resolve(sink diag.Sink) (*apartment, error) {
	m := &apartment{MultifamilyConfig: c, foundation: c.Foundation}
	if c.Level != nil {
		m.level = *c.Level
	}
	if c.HorizontalLocation != nil {
		m.loc = *c.HorizontalLocation
	}
	if c.Corridor != nil {
		m.corridor = *c.Corridor
	}
	if c.Inset != nil {
		m.inset = *c.Inset
	}

	if err := checkCommon(c.CFA, c.WallHeight, c.NumFloors, c.Foundation); err != nil {
		return nil, err
	}
	if c.NumUnits < c.NumFloors {
		return nil, invalid("Number of units must be at least the number of floors.")
	}
	if m.foundation.Type == FoundationAmbient {
		return nil, invalid("Foundation type %s is not supported for apartment units.", m.foundation.Type)
	}
	if m.level != LevelBottom {
		zero := 0.0
		m.foundation = Foundation{Type: FoundationOtherHousingUnit, RimJoistHeight: &zero}
	}
	if c.NumFloors == 1 {
		m.level = LevelBottom
	}
	if c.NumFloors <= 2 && m.level == LevelMiddle {
		return nil, invalid("Building is %d stories and does not have middle units", c.NumFloors)
	}

	perFloor := c.NumUnits / c.NumFloors
	var width float64
	switch {
	case perFloor >= 4 && m.corridor.Position != CorridorSingleExteriorFront:
		width, m.rearUnits = float64(perFloor)/2, true
	case perFloor == 2 && m.loc == HorizontalNone:
		width, m.rearUnits = 1, true
	default:
		width = float64(perFloor)
	}

	if m.level == LevelBottom {
		if err := checkCrawlspace(m.foundation); err != nil {
			return nil, err
		}
	}
	if !m.rearUnits && (m.corridor.Position == CorridorDoubleLoadedInterior || m.corridor.Position == CorridorDoubleExterior) {
		diag.Warnf(sink, "Specified incompatible corridor; setting corridor position to 'Single Exterior (Front)'.")
		m.corridor.Position = CorridorSingleExteriorFront
	}
	if c.AspectRatio <= 0 {
		return nil, invalid("Invalid aspect ratio entered.")
	}
	if m.corridor.Width == 0 {
		m.corridor.Position = CorridorNone
	}
	if m.corridor.Position == CorridorNone {
		m.corridor.Width = 0
	}
	if m.corridor.Width < 0 {
		return nil, invalid("Invalid corridor width entered.")
	}
	if m.inset.BalconyDepth > 0 && m.inset.Width*m.inset.Depth == 0 {
		diag.Warnf(sink, "Specified a balcony, but there is no inset.")
		m.inset.BalconyDepth = 0
	}
	if width < 2 && m.loc != HorizontalNone {
		diag.Warnf(sink, "No %s location exists, setting horz_location to 'None'", m.loc.title())
		m.loc = HorizontalNone
	}
	if width >= 2 && m.loc == HorizontalNone {
		return nil, invalid("Specified incompatible horizontal location for the corridor and unit configuration.")
	}
	if width <= 2 && m.loc == HorizontalMiddle {
		return nil, invalid("Invalid horizontal location entered, no middle location exists.")
	}
	return m, nil
}

// levelKinds are the horizontal surfaces shared with the units above and
// below.
func (m *apartment) levelKinds() map[model.SurfaceKind]bool {
	if m.NumFloors == 1 {
		return nil
	}
	switch m.level {
	case LevelBottom:
		return map[model.SurfaceKind]bool{model.KindRoofCeiling: true}
	case LevelTop:
		return map[model.SurfaceKind]bool{model.KindFloor: true}
	default:
		return map[model.SurfaceKind]bool{model.KindRoofCeiling: true, model.KindFloor: true}
	}
}

func (m *apartment) build() {
	b := m.b
	rim := m.foundation.rim()
	wh := m.WallHeight
	party := partyFacades(m.loc, m.rearUnits)
	levels := m.levelKinds()

	living := b.AddZone(model.LocationLivingSpace, true)
	print := m.print(rim)
	sp := b.AddSpace(model.LocationLivingSpace, living, model.RoleLiving, rim)
	b.AddPrism(sp, geom.Extrude(print, wh))
	if bal := m.balcony(wh + rim); bal != nil {
		b.AddShading("Balcony shading", sp, bal)
	}
	for _, s := range b.SurfacesOf(sp.ID) {
		if (s.Kind == model.KindWall && onParty(s, party, m.x)) || levels[s.Kind] {
			b.SetBoundary(s, model.Adiabatic)
		}
	}

	var corridor *model.Space
	var corridorPrint geom.Polygon
	switch m.corridor.Position {
	case CorridorDoubleLoadedInterior:
		zone := b.AddZone(model.LocationOtherHousingUnit, false)
		corridorPrint = geom.Polygon{geom.P(0, 0, rim), geom.P(0, m.corridor.Width/2, rim),
			geom.P(m.x, m.corridor.Width/2, rim), geom.P(m.x, 0, rim)}
		corridor = b.AddSpace(model.LocationOtherHousingUnit, zone, model.RoleCorridor, rim)
		b.AddPrism(corridor, geom.Extrude(corridorPrint, wh))
		m.corridors = append(m.corridors, corridor)
	case CorridorDoubleExterior, CorridorSingleExteriorFront:
		z := wh + rim
		cw := m.corridor.Width
		b.AddShading("Corridor shading", nil, geom.Polygon{
			geom.P(0, -m.y-cw, z), geom.P(m.x, -m.y-cw, z), geom.P(m.x, -m.y, z), geom.P(0, -m.y, z),
		})
	}

	if fh := m.foundation.Height; fh > 0 && m.foundation.Type != FoundationSlab {
		m.addFoundations(living, print, corridorPrint, party)
	}

	if corridor != nil {
		for _, s := range b.SurfacesOf(corridor.ID) {
			if onParty(s, party, m.x) || levels[s.Kind] {
				b.SetBoundary(s, model.Adiabatic)
			}
		}
	}
	b.Match()

	m.closeCorridorFloors()
	groundToFoundation(b)
	if corridor != nil {
		for _, s := range b.SurfacesOf(corridor.ID) {
			if s.Kind != model.KindWall || s.Boundary != model.InteriorAdjacent {
				continue
			}
			if o := b.Surface(s.Adjacent); o != nil {
				b.SetBoundary(o, model.Adiabatic)
			}
			b.SetBoundary(s, model.Adiabatic)
		}
	}
	b.AddUnit("unit 1", b.ConditionedSpaces()...)
}

// print is the unit's floor print at z, notched by the inset.
func (m *apartment) print(z float64) geom.Polygon {
	x, y := m.x, m.y
	sw, nw := geom.P(0, -y, z), geom.P(0, 0, z)
	ne, se := geom.P(x, 0, z), geom.P(x, -y, z)
	iw, id := m.inset.Width, m.inset.Depth
	if iw*id <= 0 {
		return geom.Polygon{sw, nw, ne, se}
	}
	if m.inset.Position == SideLeft {
		return geom.Polygon{geom.P(0, id-y, z), nw, ne, se, geom.P(iw, -y, z), geom.P(iw, id-y, z)}
	}
	return geom.Polygon{sw, nw, ne, geom.P(x, id-y, z), geom.P(x-iw, id-y, z), geom.P(x-iw, -y, z)}
}

// balcony is the shading plane over the inset, or nil without one.
func (m *apartment) balcony(z float64) geom.Polygon {
	iw, id, bd := m.inset.Width, m.inset.Depth, m.inset.BalconyDepth
	if iw*id <= 0 || bd <= 0 {
		return nil
	}
	x, y := m.x, m.y
	if m.inset.Position == SideLeft {
		return geom.Polygon{geom.P(iw, id-y-bd, z), geom.P(0, id-y-bd, z), geom.P(0, id-y, z), geom.P(iw, id-y, z)}
	}
	return geom.Polygon{geom.P(x-iw, id-y-bd, z), geom.P(x, id-y-bd, z), geom.P(x, id-y, z), geom.P(x-iw, id-y, z)}
}

func (m *apartment) addFoundations(living *model.Zone, print, corridorPrint geom.Polygon, party map[geom.Facade]bool) {
	b := m.b
	f := m.foundation
	rim := f.rim()
	loc := f.Type.Location()
	zoneFor := func() *model.Zone {
		if f.Type == FoundationBasementConditioned {
			return living
		}
		return b.AddZone(loc, false)
	}

	var corridorFoundation *model.Space
	if corridorPrint != nil {
		corridorFoundation = b.AddSpace(loc, zoneFor(), model.RoleFoundation, -f.Height)
		addFoundation(b, corridorFoundation, corridorPrint, -f.Height, 0, rim)
		m.corridors = append(m.corridors, corridorFoundation)
	}
	sp := b.AddSpace(loc, zoneFor(), model.RoleFoundation, -f.Height)
	addFoundation(b, sp, print, -f.Height, 0, rim)
	b.Match()

	for _, s := range b.SurfacesOf(sp.ID) {
		if s.Kind != model.KindWall {
			continue
		}
		switch {
		case onParty(s, party, m.x):
			b.SetBoundary(s, model.Adiabatic)
		case s.Polygon.MinZ() < 0:
			b.SetBoundary(s, model.Foundation)
		default:
			b.SetBoundary(s, model.Outdoors)
		}
	}
	if corridorFoundation != nil {
		for _, s := range b.SurfacesOf(corridorFoundation.ID) {
			if s.Kind != model.KindWall {
				continue
			}
			if party[s.Facade()] {
				b.SetBoundary(s, model.Adiabatic)
			} else {
				b.SetBoundary(s, model.Foundation)
			}
		}
	}
}

// closeCorridorFloors makes the exposed floors of corridor volumes
// adiabatic when none of their walls face the outdoors or the ground; such
// a corridor has no exposed perimeter.
func (m *apartment) closeCorridorFloors() {
	b := m.b
	for _, sp := range m.corridors {
		exterior := false
		for _, s := range b.SurfacesOf(sp.ID) {
			if s.Kind == model.KindWall && (s.Boundary == model.Foundation || s.Boundary == model.Ground || s.Boundary == model.Outdoors) {
				exterior = true
				break
			}
		}
		if exterior {
			continue
		}
		for _, s := range b.SurfacesOf(sp.ID) {
			if s.Kind == model.KindFloor && s.Boundary != model.InteriorAdjacent {
				b.SetBoundary(s, model.Adiabatic)
			}
		}
	}
}
