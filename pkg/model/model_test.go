package model

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/matzehuels/massform/pkg/geom"
)

// twoRooms builds a 40x30 living box with a 12x12 garage box sharing part
// of its east wall, both one story tall.
func twoRooms() (*Building, *Space, *Space) {
	b := New("test")
	living := b.AddZone(LocationLivingSpace, true)
	garage := b.AddZone(LocationGarage, false)
	ls := b.AddSpace(LocationLivingSpace, living, RoleLiving, 0)
	gs := b.AddSpace(LocationGarage, garage, RoleGarage, 0)
	b.AddPrism(ls, geom.Extrude(geom.Rect(0, 0, 40, 30, 0), 8))
	b.AddPrism(gs, geom.Extrude(geom.Rect(40, 4, 52, 16, 0), 8))
	return b, ls, gs
}

func TestMatchSplitsSharedWall(t *testing.T) {
	b, ls, gs := twoRooms()
	if n := b.Match(); n != 1 {
		t.Fatalf("Match() = %d links, want 1", n)
	}

	var linked []*Surface
	for _, s := range b.Surfaces() {
		if s.Boundary == InteriorAdjacent {
			linked = append(linked, s)
		}
	}
	if len(linked) != 2 {
		t.Fatalf("linked surfaces = %d, want 2", len(linked))
	}
	for _, s := range linked {
		if math.Abs(s.Area()-12*8) > 1e-6 {
			t.Errorf("%s area = %v, want 96", s.Name, s.Area())
		}
	}

	// The living east wall is split into the shared part and two remainders.
	var east float64
	var pieces int
	for _, s := range b.SurfacesOf(ls.ID) {
		if s.Kind == KindWall && s.Facade() == geom.FacadeRight {
			east += s.Area()
			pieces++
		}
	}
	if pieces != 3 || math.Abs(east-30*8) > 1e-6 {
		t.Errorf("east wall = %d pieces, %v ft2; want 3 pieces, 240 ft2", pieces, east)
	}

	if err := b.validate(); err != nil {
		t.Errorf("validate() error = %v", err)
	}
	assertClosed(t, b.graph, ls)
	assertClosed(t, b.graph, gs)
}

func TestMatchReverseEqualFloors(t *testing.T) {
	b := New("stack")
	z := b.AddZone(LocationLivingSpace, true)
	lower := b.AddSpace("lower", z, RoleLiving, 0)
	upper := b.AddSpace("upper", z, RoleLiving, 8)
	b.AddPrism(lower, geom.Extrude(geom.Rect(0, 0, 20, 20, 0), 8))
	b.AddPrism(upper, geom.Extrude(geom.Rect(0, 0, 20, 20, 8), 8))

	if n := b.Match(); n != 1 {
		t.Fatalf("Match() = %d links, want 1", n)
	}
	for _, s := range b.SurfacesOf(upper.ID) {
		if s.Kind == KindFloor && s.Boundary != InteriorAdjacent {
			t.Errorf("upper floor boundary = %v, want %v", s.Boundary, InteriorAdjacent)
		}
	}
}

func TestFinalizeCopiesAndChecksSymmetry(t *testing.T) {
	b, _, _ := twoRooms()
	b.Match()
	e, err := Finalize(b)
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	e.Surfaces()[0].Boundary = Adiabatic
	if b.Surfaces()[0].Boundary == Adiabatic {
		t.Error("Finalize() shares surfaces with the building")
	}

	for _, s := range e.Surfaces() {
		if s.Boundary != InteriorAdjacent {
			continue
		}
		o := e.Surface(s.Adjacent)
		if o == nil || o.Adjacent != s.ID {
			t.Errorf("%s partner does not point back", s.Name)
		}
	}

	// Break symmetry by hand.
	for _, s := range b.Surfaces() {
		if s.Boundary == InteriorAdjacent {
			s.Adjacent = "nope"
			break
		}
	}
	if _, err := Finalize(b); err == nil {
		t.Error("Finalize() error = nil for asymmetric link")
	}
}

func TestIDsAreDeterministic(t *testing.T) {
	a, _, _ := twoRooms()
	b, _, _ := twoRooms()
	a.Match()
	b.Match()
	for i := range a.Surfaces() {
		if a.Surfaces()[i].ID != b.Surfaces()[i].ID {
			t.Fatalf("surface %d id differs between identical builds", i)
		}
	}
}

func TestSubSurfaces(t *testing.T) {
	b, ls, _ := twoRooms()
	b.Match()
	e, _ := Finalize(b)

	var front *Surface
	for _, s := range e.SurfacesOf(ls.ID) {
		if s.Facade() == geom.FacadeFront {
			front = s
		}
	}
	win := func(x0 float64) geom.Polygon {
		return geom.Polygon{geom.P(x0, 0, 7), geom.P(x0, 0, 3), geom.P(x0+3, 0, 3), geom.P(x0+3, 0, 7)}
	}
	if _, err := e.AddSubSurface(front, Window, win(5)); err != nil {
		t.Fatalf("AddSubSurface() error = %v", err)
	}
	if _, err := e.AddSubSurface(front, Window, win(6)); err == nil {
		t.Error("AddSubSurface() accepted an overlapping window")
	}
	if _, err := e.AddSubSurface(front, Window, win(9)); err != nil {
		t.Errorf("AddSubSurface() error = %v for a disjoint window", err)
	}
	if _, err := e.AddSubSurface(front, Window, win(20).Translate(0, 1, 0)); err == nil {
		t.Error("AddSubSurface() accepted a window off the wall plane")
	}

	hosts := e.RemoveSubSurfaces(Window)
	if len(hosts) != 1 || hosts[0] != front.Name {
		t.Errorf("RemoveSubSurfaces() = %v, want [%s]", hosts, front.Name)
	}
	if len(e.SubSurfaces()) != 0 {
		t.Errorf("SubSurfaces() = %d after removal", len(e.SubSurfaces()))
	}
}

func TestSplitWallMovesDoors(t *testing.T) {
	b, ls, _ := twoRooms()
	e, _ := Finalize(b)
	var front *Surface
	for _, s := range e.SurfacesOf(ls.ID) {
		if s.Facade() == geom.FacadeFront {
			front = s
		}
	}
	door := geom.Polygon{geom.P(30.5, 0, 7), geom.P(30.5, 0, 0), geom.P(33.5, 0, 0), geom.P(33.5, 0, 7)}
	d, err := e.AddSubSurface(front, Door, door)
	if err != nil {
		t.Fatal(err)
	}
	frags, err := e.SplitWall(front, []geom.Polygon{
		{geom.P(0, 0, 0), geom.P(30, 0, 0), geom.P(30, 0, 8), geom.P(0, 0, 8)},
		{geom.P(30, 0, 0), geom.P(40, 0, 0), geom.P(40, 0, 8), geom.P(30, 0, 8)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.Surface(front.ID) != nil {
		t.Error("split wall still present")
	}
	if d.HostID != frags[1].ID {
		t.Errorf("door host = %s, want second fragment", d.HostID)
	}
}

func TestExposedPerimeter(t *testing.T) {
	b, _, gs := twoRooms()
	b.Match()
	e, _ := Finalize(b)

	var floors []*Surface
	for _, sp := range e.SpacesWithRole(RoleLiving) {
		for _, s := range e.SurfacesOf(sp.ID) {
			if s.Kind == KindFloor {
				floors = append(floors, s)
			}
		}
	}
	// 2*(40+30) less the 12 ft shared with the garage.
	if got := e.ExposedPerimeter(floors, false); math.Abs(got-128) > 1e-6 {
		t.Errorf("ExposedPerimeter() = %v, want 128", got)
	}

	var garageFloor *Surface
	for _, s := range e.SurfacesOf(gs.ID) {
		if s.Kind == KindFloor {
			garageFloor = s
		}
	}
	var walls []*Surface
	for _, s := range e.Surfaces() {
		if s.Kind == KindWall {
			walls = append(walls, s)
		}
	}
	if got := WallsConnectedToFloor(walls, garageFloor, true); len(got) != 4 {
		t.Errorf("WallsConnectedToFloor(same space) = %d walls, want 4", len(got))
	}
	if got := WallsConnectedToFloor(walls, garageFloor, false); len(got) != 1 {
		t.Errorf("WallsConnectedToFloor(other spaces) = %d walls, want 1", len(got))
	}
}

// assertClosed checks that the space's area-weighted normals cancel, which
// holds for any closed polyhedron regardless of how faces are split.
func assertClosed(t *testing.T, g graph, sp *Space) {
	t.Helper()
	var sum r3.Vector
	for _, s := range g.SurfacesOf(sp.ID) {
		sum = sum.Add(s.Polygon.Normal().Mul(s.Area()))
	}
	if sum.Norm() > 1e-6 {
		t.Errorf("%s is not closed: sum of area normals = %v", sp.Name, sum)
	}
}
