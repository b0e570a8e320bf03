package massing

import (
	"fmt"

	"github.com/matzehuels/massform/pkg/diag"
	"github.com/matzehuels/massform/pkg/footprint"
	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/model"
)

// Attached masses one townhouse unit into the empty building b. Walls
// shared with neighboring units are adiabatic.
func Attached(b *model.Building, c AttachedConfig, sink diag.Sink) error {
	if err := checkEmpty(b); err != nil {
		return diag.Fail(sink, err)
	}
	loc, err := c.validate(sink)
	if err != nil {
		return diag.Fail(sink, err)
	}
	floors := c.NumFloors
	if c.conditionedAttic() {
		floors--
	}
	fp, err := footprint.SolveUnit(c.CFA, c.AspectRatio, floors,
		c.Foundation.Type == FoundationBasementConditioned, c.conditionedAttic())
	if err != nil {
		return diag.Fail(sink, err)
	}

	x, y := fp.Width, fp.Length
	rim := c.Foundation.rim()
	wh := c.WallHeight
	party := partyFacades(loc, c.rearUnits())

	living := b.AddZone(model.LocationLivingSpace, true)
	print := geom.Polygon{geom.P(0, -y, rim), geom.P(0, 0, rim), geom.P(x, 0, rim), geom.P(x, -y, rim)}
	for story := 1; story <= floors; story++ {
		name := model.LocationLivingSpace
		if story > 1 {
			name = fmt.Sprintf("%s|story %d", model.LocationLivingSpace, story)
		}
		dz := wh * float64(story-1)
		sp := b.AddSpace(name, living, model.RoleLiving, rim+dz)
		b.AddPrism(sp, geom.Extrude(print.Translate(0, 0, dz), wh))
		setPartyWalls(b, sp, party, x)
	}

	if c.Roof.Type != RoofFlat {
		z := wh*float64(floors) + rim
		var attic *model.Space
		if c.conditionedAttic() {
			attic = b.AddSpace(model.LocationLivingSpace+"|attic", living, model.RoleLiving, z)
		} else {
			l := c.Attic.location()
			attic = b.AddSpace(l, b.AddZone(l, false), model.RoleAttic, z)
		}
		addAttic(b, attic, unitRoof(x, y, z, c.Roof.Pitch, c.Roof.Type))
		setPartyWalls(b, attic, party, x)
	}

	if c.Foundation.Type != FoundationSlab && c.Foundation.Height > 0 {
		fl := c.Foundation.Type.Location()
		zone := living
		if c.Foundation.Type != FoundationBasementConditioned {
			zone = b.AddZone(fl, false)
		}
		sp := b.AddSpace(fl, zone, model.RoleFoundation, -c.Foundation.Height)
		addFoundation(b, sp, print, -c.Foundation.Height, 0, rim)
		b.Match()
		assignBelowGrade(b, party, x)
	}

	b.Match()
	groundToFoundation(b)
	b.AddUnit("unit 1", b.ConditionedSpaces()...)
	return nil
}

func (c AttachedConfig) conditionedAttic() bool {
	return c.Attic == AtticConditioned && c.Roof.Type != RoofFlat
}

func (c AttachedConfig) rearUnits() bool {
	return c.Corridor != nil && c.Corridor.Position == CorridorDoubleExterior
}

// unitWidth is the number of units across the front of the row.
func (c AttachedConfig) unitWidth() int {
	if c.rearUnits() {
		return c.NumUnits / 2
	}
	return c.NumUnits
}

// validate checks the config and returns the horizontal location to build
// with, which may have been corrected.
func (c AttachedConfig) validate(sink diag.Sink) (HorizontalLocation, error) {
	var loc HorizontalLocation
	if c.HorizontalLocation != nil {
		loc = *c.HorizontalLocation
	}
	if err := checkCommon(c.CFA, c.WallHeight, c.NumFloors, c.Foundation); err != nil {
		return loc, err
	}
	if err := checkRoof(c.Roof); err != nil {
		return loc, err
	}
	if c.NumUnits < 1 {
		return loc, invalid("Number of units must be at least 1.")
	}
	if c.Foundation.Type == FoundationAmbient || c.Foundation.Type == FoundationOtherHousingUnit {
		return loc, invalid("Foundation type %s is not supported for attached units.", c.Foundation.Type)
	}

	if err := checkCrawlspace(c.Foundation); err != nil {
		return loc, err
	}
	if c.NumUnits == 1 && c.rearUnits() {
		return loc, invalid("Specified building as having rear units, but didn't specify enough units.")
	}
	if c.AspectRatio <= 0 {
		return loc, invalid("Invalid aspect ratio entered.")
	}
	if c.rearUnits() && c.NumUnits%2 != 0 {
		return loc, invalid("Specified a building with rear units and an odd number of units.")
	}
	w := c.unitWidth()
	if w < 3 && loc == HorizontalMiddle {
		return loc, invalid("Invalid horizontal location entered, no middle location exists.")
	}
	if w > 1 && loc == HorizontalNone {
		return loc, invalid("Invalid horizontal location entered.")
	}
	if w == 1 && loc != HorizontalNone {
		diag.Warnf(sink, "No %s location exists, setting horizontal_location to 'None'", loc.title())
		loc = HorizontalNone
	}
	return loc, nil
}
