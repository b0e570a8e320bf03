package massing

import (
	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/model"
)

// roofFaces is an attic volume: a floor, two sloped decks and two ends.
// Ends are gable walls for gable roofs and sloped hip faces for hip roofs.
type roofFaces struct {
	Floor   geom.Polygon
	Decks   [2]geom.Polygon // front (or left) deck first
	Ends    [2]geom.Polygon
	EndKind model.SurfaceKind
	Height  float64 // ridge height above the attic floor
}

// houseRoof shapes the roof over a detached footprint of length (x) by
// width (y) whose attic floor sits at z. The ridge runs along the longer
// side; a hip ridge is inset by half the shorter side from each end.
func houseRoof(length, width, z, pitch float64, kind RoofType) roofFaces {
	var h float64
	if length >= width {
		h = width / 2 * pitch
	} else {
		h = length / 2 * pitch
	}
	nw, ne := geom.P(0, width, z), geom.P(length, width, z)
	se, sw := geom.P(length, 0, z), geom.P(0, 0, z)
	rf := roofFaces{Floor: geom.Polygon{nw, ne, se, sw}, Height: h, EndKind: model.KindWall}
	if kind == RoofHip {
		rf.EndKind = model.KindRoofCeiling
	}

	var w, e geom.Point3
	switch {
	case kind == RoofGable && length >= width:
		w, e = geom.P(0, width/2, z+h), geom.P(length, width/2, z+h)
	case kind == RoofGable:
		w, e = geom.P(length/2, 0, z+h), geom.P(length/2, width, z+h)
	case length >= width:
		w, e = geom.P(width/2, width/2, z+h), geom.P(length-width/2, width/2, z+h)
	default:
		w, e = geom.P(length/2, length/2, z+h), geom.P(length/2, width-length/2, z+h)
	}

	if length >= width {
		rf.Decks = [2]geom.Polygon{{e, w, sw, se}, {w, e, ne, nw}}
		rf.Ends = [2]geom.Polygon{{w, nw, sw}, {e, se, ne}}
	} else {
		rf.Decks = [2]geom.Polygon{{w, e, nw, sw}, {e, w, se, ne}}
		rf.Ends = [2]geom.Polygon{{w, sw, se}, {e, ne, nw}}
	}
	return rf
}

// unitRoof shapes the roof over an attached unit spanning [0,x] by [-y,0]
// with its attic floor at z. The ridge always runs along x at the unit's
// midline; a hip roof turns its ridge along y when the unit is narrower
// than it is deep.
func unitRoof(x, y, z, pitch float64, kind RoofType) roofFaces {
	h := y / 2 * pitch
	top := z + h
	nw, ne := geom.P(0, 0, z), geom.P(x, 0, z)
	sw, se := geom.P(0, -y, z), geom.P(x, -y, z)
	rf := roofFaces{Floor: geom.Polygon{sw, nw, ne, se}, Height: h, EndKind: model.KindWall}

	switch {
	case kind == RoofGable:
		w, e := geom.P(0, -y/2, top), geom.P(x, -y/2, top)
		rf.Decks = [2]geom.Polygon{{e, w, sw, se}, {w, e, ne, nw}}
		rf.Ends = [2]geom.Polygon{{w, nw, sw}, {e, se, ne}}
	case x <= y:
		n, s := geom.P(x/2, -x/2, top), geom.P(x/2, -y+x/2, top)
		rf.Decks = [2]geom.Polygon{{n, nw, sw, s}, {s, se, ne, n}}
		rf.Ends = [2]geom.Polygon{{s, sw, se}, {n, ne, nw}}
		rf.EndKind = model.KindRoofCeiling
	default:
		w, e := geom.P(y/2, -y/2, top), geom.P(x-y/2, -y/2, top)
		rf.Decks = [2]geom.Polygon{{w, sw, se, e}, {e, ne, nw, w}}
		rf.Ends = [2]geom.Polygon{{e, se, ne}, {w, nw, sw}}
		rf.EndKind = model.KindRoofCeiling
	}
	return rf
}

// garageRoofFaces is the gable roof over the protruding strip of a garage.
type garageRoofFaces struct {
	Decks [2]geom.Polygon
	Gable geom.Polygon
	Apex  geom.Point3 // where the garage ridge meets the main front deck
}

// garageRoof shapes a front-to-back gable over the strip [x0,x1] by [y0,0]
// whose ceiling sits at z. The garage ridge rises h above the ceiling and
// runs back until it meets the main deck of the given pitch, which rises
// from the front eave at y=0.
func garageRoof(x0, x1, y0, z, h, pitch float64) garageRoofFaces {
	mid := (x0 + x1) / 2
	nw, ne := geom.P(x0, 0, z), geom.P(x1, 0, z)
	sw, se := geom.P(x0, y0, z), geom.P(x1, y0, z)
	rn := geom.P(mid, h/pitch, z+h)
	rs := geom.P(mid, y0, z+h)
	return garageRoofFaces{
		Decks: [2]geom.Polygon{{nw, sw, rs, rn}, {ne, rn, rs, se}},
		Gable: geom.Polygon{sw, se, rs},
		Apex:  rn,
	}
}

// notchDeck cuts the triangle under a garage roof out of the main front
// deck, whose front eave runs along y=0 at height z.
func notchDeck(deck geom.Polygon, g garageRoofFaces, x0, x1, z float64) geom.Polygon {
	out := make(geom.Polygon, 0, len(deck)+3)
	for i, v := range deck {
		out = append(out, v)
		next := deck[(i+1)%len(deck)]
		if geom.Approx(v.Y, 0, geom.Tol) && geom.Approx(next.Y, 0, geom.Tol) && v.X < next.X {
			out = append(out, geom.P(x0, 0, z), g.Apex, geom.P(x1, 0, z))
		}
	}
	return out.Dedup(geom.Tol)
}

// addAttic adds the attic faces to space sp and returns the surfaces in
// floor, decks, ends order.
func addAttic(b *model.Building, sp *model.Space, rf roofFaces) []*model.Surface {
	out := []*model.Surface{b.AddSurface(sp, model.KindFloor, rf.Floor)}
	for _, d := range rf.Decks {
		out = append(out, b.AddSurface(sp, model.KindRoofCeiling, d))
	}
	for _, e := range rf.Ends {
		out = append(out, b.AddSurface(sp, rf.EndKind, e))
	}
	return out
}
