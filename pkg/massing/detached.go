package massing

import (
	"fmt"
	"math"

	"github.com/matzehuels/massform/pkg/diag"
	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/footprint"
	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/model"
	"github.com/matzehuels/massform/pkg/units"
)

// Detached masses a single-family detached house into the empty building b.
func Detached(b *model.Building, c DetachedConfig, sink diag.Sink) error {
	if err := checkEmpty(b); err != nil {
		return diag.Fail(sink, err)
	}
	if err := c.validate(); err != nil {
		return diag.Fail(sink, err)
	}
	fp, err := footprint.Solve(c.footprint())
	if err != nil {
		return diag.Fail(sink, err)
	}
	d := &detached{DetachedConfig: c, b: b, sink: sink, length: fp.Length, width: fp.Width, floors: fp.Floors}
	d.build()
	return nil
}

func (c DetachedConfig) conditionedAttic() bool {
	return c.Attic == AtticConditioned && c.Roof.Type != RoofFlat
}

func (c DetachedConfig) hasGarage() bool {
	return c.Garage != nil && c.Garage.Width*c.Garage.Depth > 0
}

func (c DetachedConfig) garage() Garage {
	if c.Garage == nil {
		return Garage{}
	}
	return *c.Garage
}

func (c DetachedConfig) validate() error {
	if err := checkCommon(c.CFA, c.WallHeight, c.NumFloors, c.Foundation); err != nil {
		return err
	}
	if err := checkRoof(c.Roof); err != nil {
		return err
	}
	g := c.garage()
	if err := errors.ValidateNonNegative("Garage width", g.Width); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("Garage depth", g.Depth); err != nil {
		return err
	}

	if c.AspectRatio <= 0 {
		return invalid("Invalid aspect ratio entered.")
	}
	if c.Foundation.Type == FoundationAmbient && c.Foundation.Height <= 0 {
		return invalid("The ambient foundation height must be greater than 0 ft.")
	}
	floors := c.NumFloors
	if c.conditionedAttic() {
		floors--
	}
	if floors > maxFloors {
		return invalid("Too many floors.")
	}
	if g.Protrusion < 0 || g.Protrusion > 1 {
		return invalid("Invalid garage protrusion value entered.")
	}
	if c.hasGarage() && g.Protrusion > 0 {
		if c.Roof.Type == RoofHip {
			return invalid("Cannot handle protruding garage and hip roof.")
		}
		if c.AspectRatio < 1 && c.Roof.Type == RoofGable {
			return invalid("Cannot handle protruding garage and attic ridge running from front to back.")
		}
	}
	if c.Foundation.Type == FoundationAmbient && c.hasGarage() {
		return invalid("Cannot handle garages with an ambient foundation type.")
	}
	if c.Foundation.Type != FoundationSlab {
		return errors.ValidatePositive("Foundation height", c.Foundation.Height)
	}
	return nil
}

func (c DetachedConfig) footprint() footprint.Params {
	g := c.garage()
	return footprint.Params{
		CFA:                 c.CFA,
		AspectRatio:         c.AspectRatio,
		NumFloors:           c.NumFloors,
		GarageWidth:         g.Width,
		GarageDepth:         g.Depth,
		GarageProtrusion:    g.Protrusion,
		ConditionedBasement: c.Foundation.Type == FoundationBasementConditioned,
		ConditionedAttic:    c.conditionedAttic(),
	}
}

// detached carries the state of one detached build.
type detached struct {
	DetachedConfig
	b    *model.Building
	sink diag.Sink

	length, width float64
	floors        int

	living     *model.Zone
	stories    []*model.Space
	garageSp   *model.Space
	attic      *model.Space
	frontDeck  *model.Surface
	foundation *model.Space
}

// offset is the elevation of the foundation top; only an ambient
// foundation lifts the house off the ground.
func (d *detached) offset() float64 {
	if d.Foundation.Type == FoundationAmbient {
		return d.Foundation.Height
	}
	return 0
}

func (d *detached) build() {
	b := d.b
	rim := d.Foundation.rim()
	wh := d.WallHeight
	d.living = b.AddZone(model.LocationLivingSpace, true)

	var groundPrint geom.Polygon
	for floor := 0; floor < d.floors; floor++ {
		z := wh*float64(floor) + d.offset() + rim
		var print geom.Polygon
		if floor == 0 && d.hasGarage() {
			zone := b.AddZone(model.LocationGarage, false)
			d.garageSp = b.AddSpace(model.LocationGarage, zone, model.RoleGarage, z)
			b.AddPrism(d.garageSp, geom.Extrude(d.garagePrint(z), wh))
			print = d.groundPrint(z)
		} else {
			print = d.upperPrint(z)
		}
		if floor == 0 {
			groundPrint = print
		}
		name := model.LocationLivingSpace
		if floor > 0 {
			name = fmt.Sprintf("%s|story %d", model.LocationLivingSpace, floor+1)
		}
		sp := b.AddSpace(name, d.living, model.RoleLiving, z)
		b.AddPrism(sp, geom.Extrude(print, wh))
		d.stories = append(d.stories, sp)
	}

	top := wh*float64(d.floors) + d.offset() + rim
	if d.Roof.Type != RoofFlat {
		d.addAttic(top)
	}
	if d.Foundation.Type != FoundationSlab {
		d.addFoundation(groundPrint)
	}
	b.Match()

	if d.hasGarage() && d.Roof.Type != RoofFlat {
		d.addGarageAttic(top)
	}
	d.finishBoundaries()
	b.AddUnit("unit 1", b.ConditionedSpaces()...)
}

func (d *detached) garageCorners() (x0, x1, y0, y1 float64) {
	g := d.garage()
	y0 = -g.Protrusion * g.Depth
	y1 = g.Depth - g.Protrusion*g.Depth
	if g.Position == SideLeft {
		return 0, g.Width, y0, y1
	}
	return d.length - g.Width, d.length, y0, y1
}

func (d *detached) garagePrint(z float64) geom.Polygon {
	x0, x1, y0, y1 := d.garageCorners()
	return geom.Rect(x0, y0, x1, y1, z)
}

// groundPrint is the first living floor with the garage carved out.
func (d *detached) groundPrint(z float64) geom.Polygon {
	g := d.garage()
	L, W := d.length, d.width
	x0, x1, y0, y1 := d.garageCorners()
	sw, nw := geom.P(0, 0, z), geom.P(0, W, z)
	ne, se := geom.P(L, W, z), geom.P(L, 0, z)

	partial := (g.Depth < W || g.Protrusion > 0) && g.Protrusion < 1
	switch {
	case g.Protrusion >= 1:
		return geom.Polygon{sw, nw, ne, se}
	case g.Position == SideLeft && partial:
		return geom.Polygon{geom.P(x0, y1, z), nw, ne, se, geom.P(x1, 0, z), geom.P(x1, y1, z)}
	case g.Position == SideLeft:
		return geom.Polygon{geom.P(x1, y0, z), geom.P(x1, y1, z), ne, se}
	case partial:
		return geom.Polygon{sw, nw, ne, geom.P(x1, y1, z), geom.P(x0, y1, z), geom.P(x0, 0, z)}
	default:
		return geom.Polygon{sw, nw, geom.P(x0, y1, z), geom.P(x0, y0, z)}
	}
}

// upperPrint is a living floor above the garage story. It extends over a
// protruding garage.
func (d *detached) upperPrint(z float64) geom.Polygon {
	g := d.garage()
	L, W := d.length, d.width
	sw, nw := geom.P(0, 0, z), geom.P(0, W, z)
	ne, se := geom.P(L, W, z), geom.P(L, 0, z)
	if !d.hasGarage() || g.Protrusion <= 0 {
		return geom.Polygon{sw, nw, ne, se}
	}
	x0, x1, y0, _ := d.garageCorners()
	if g.Position == SideLeft {
		return geom.Polygon{geom.P(x0, y0, z), nw, ne, se, geom.P(x1, 0, z), geom.P(x1, y0, z)}
	}
	return geom.Polygon{sw, nw, ne, geom.P(x1, y0, z), geom.P(x0, y0, z), geom.P(x0, 0, z)}
}

func (d *detached) addAttic(top float64) {
	b := d.b
	rf := houseRoof(d.length, d.width, top, d.Roof.Pitch, d.Roof.Type)
	if d.conditionedAttic() {
		d.attic = b.AddSpace(model.LocationLivingSpace+"|attic", d.living, model.RoleLiving, top)
	} else {
		loc := d.Attic.location()
		d.attic = b.AddSpace(loc, b.AddZone(loc, false), model.RoleAttic, top)
	}
	faces := addAttic(b, d.attic, rf)
	d.frontDeck = faces[1]
}

func (d *detached) addFoundation(print geom.Polygon) {
	b := d.b
	loc := d.Foundation.Type.Location()
	zone := d.living
	if d.Foundation.Type != FoundationBasementConditioned {
		zone = b.AddZone(loc, false)
	}
	bottom := d.offset() - d.Foundation.Height
	d.foundation = b.AddSpace(loc, zone, model.RoleFoundation, bottom)
	fv := addFoundation(b, d.foundation, print, bottom, d.offset(), d.Foundation.rim())
	if bottom < 0 {
		for _, w := range fv.Walls {
			b.SetBoundary(w, model.Ground)
		}
	}
}

// addGarageAttic roofs the part of the garage that protrudes past the
// house. The strip of ceiling left open to the outdoors after matching gets
// a front-to-back gable whose ridge dies into the main front deck.
func (d *detached) addGarageAttic(top float64) {
	b := d.b
	holder := d.garageSp
	if d.floors > 1 {
		holder = d.stories[len(d.stories)-1]
	}
	var strip *model.Surface
	for _, s := range b.SurfacesOf(holder.ID) {
		bb := s.Polygon.Bounds()
		if s.Kind == model.KindRoofCeiling && s.Boundary == model.Outdoors &&
			bb.Min.Y < -geom.Tol && geom.Approx(bb.Max.Y, 0, geom.Tol) {
			strip = s
			break
		}
	}
	if strip == nil || d.frontDeck == nil {
		return
	}

	bb := strip.Polygon.Bounds()
	x0, x1, y0 := bb.Min.X, bb.Max.X, bb.Min.Y
	half := (x1 - x0) / 2
	pitch := d.Roof.Pitch
	ridge := math.Min(d.length, d.width) / 2 * pitch
	h := half * pitch
	if h >= ridge {
		h = ridge - 0.01
		diag.Warnf(d.sink, "The garage pitch was changed to accommodate garage ridge >= house ridge (from %s to %s).",
			units.Format(pitch, 3), units.Format(h/half, 3))
	}

	g := garageRoof(x0, x1, y0, top, h, pitch)
	for _, deck := range g.Decks {
		b.AddSurface(d.attic, model.KindRoofCeiling, deck)
	}
	b.AddSurface(d.attic, model.KindWall, g.Gable)
	floor := b.AddSurface(d.attic, model.KindFloor, strip.Polygon.Reverse())
	b.Link(floor, strip)
	d.frontDeck.Polygon = notchDeck(d.frontDeck.Polygon, g, x0, x1, top)
}

// finishBoundaries moves ground contact to the foundation and decouples
// foundation walls that face the garage slab.
func (d *detached) finishBoundaries() {
	b := d.b
	rim := d.Foundation.rim()
	garageFloors := d.garageFloors()
	for _, s := range b.Surfaces() {
		if s.Boundary == model.Ground {
			b.SetBoundary(s, model.Foundation)
			continue
		}
		if s.Kind != model.KindWall || math.Abs(rim-s.Polygon.Height()) >= 0.001 {
			continue
		}
		for _, f := range garageFloors {
			if len(model.WallsConnectedToFloor([]*model.Surface{s}, f, false)) > 0 {
				b.SetBoundary(s, model.Foundation)
				break
			}
		}
	}

	var walls []*model.Surface
	for _, s := range b.Surfaces() {
		if s.Kind == model.KindWall && s.Boundary == model.Foundation {
			walls = append(walls, s)
		}
	}
	for _, f := range garageFloors {
		for _, w := range model.WallsConnectedToFloor(walls, f, false) {
			b.SetBoundary(w, model.Adiabatic)
		}
	}
}

func (d *detached) garageFloors() []*model.Surface {
	var out []*model.Surface
	for _, sp := range d.b.SpacesWithRole(model.RoleGarage) {
		for _, s := range d.b.SurfacesOf(sp.ID) {
			if s.Kind == model.KindFloor {
				out = append(out, s)
			}
		}
	}
	return out
}
