package fenestration

import (
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/matzehuels/massform/pkg/diag"
	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/massing"
	"github.com/matzehuels/massform/pkg/model"
)

func ptr[T any](v T) *T { return &v }

func envelope(t *testing.T, c massing.Config) *model.Envelope {
	t.Helper()
	b := model.New("test")
	if err := c.Build(b, diag.Nop{}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	env, err := model.Finalize(b)
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	return env
}

// house is a 50x25 ft single story with a flat roof: its front wall is
// 400 ft².
func house() massing.DetachedConfig {
	return massing.DetachedConfig{
		CFA:         1250,
		WallHeight:  8,
		NumFloors:   1,
		AspectRatio: 2,
		Roof:        massing.Roof{Type: massing.RoofFlat},
	}
}

func windows(env *model.Envelope) []*model.SubSurface {
	var out []*model.SubSurface
	for _, ss := range env.SubSurfaces() {
		if ss.Kind == model.Window {
			out = append(out, ss)
		}
	}
	return out
}

func windowArea(env *model.Envelope, f geom.Facade) float64 {
	var a float64
	for _, ss := range windows(env) {
		if env.Surface(ss.HostID).Facade() == f {
			a += ss.Polygon.Area()
		}
	}
	return a
}

func frontWall(t *testing.T, env *model.Envelope) *model.Surface {
	t.Helper()
	for _, s := range env.Surfaces() {
		if s.Kind == model.KindWall && s.Facade() == geom.FacadeFront && s.Boundary == model.Outdoors {
			return s
		}
	}
	t.Fatal("no front wall")
	return nil
}

func TestWindowsSingleWall(t *testing.T) {
	env := envelope(t, house())
	wall := frontWall(t, env)
	if a := wall.Area(); math.Abs(a-400) > 1e-6 {
		t.Fatalf("front wall area = %v, want 400", a)
	}

	rec := &diag.Recorder{}
	p := WindowParams{WWR: map[geom.Facade]float64{geom.FacadeFront: 0.15}, AspectRatio: DefaultWindowAspectRatio}
	if err := AddWindows(env, p, rec); err != nil {
		t.Fatalf("AddWindows() error = %v", err)
	}
	ws := windows(env)
	if len(ws) != 5 {
		t.Fatalf("windows = %d, want 5", len(ws))
	}
	if a := windowArea(env, geom.FacadeFront); math.Abs(a-60) > 0.1 {
		t.Errorf("front window area = %v, want 60", a)
	}
	if w := rec.Warnings(); len(w) != 0 {
		t.Errorf("warnings = %v, want none", w)
	}

	// Two pairs centered at 12.5 and 25, a single window at 37.5.
	w := math.Sqrt(12 / DefaultWindowAspectRatio)
	half := w/2 + windowGapX/2
	want := []float64{12.5 - half, 12.5 + half, 25 - half, 25 + half, 37.5}
	var got []float64
	for _, ss := range ws {
		got = append(got, ss.Polygon.Centroid().X)
		if ss.HostID != wall.ID {
			t.Errorf("%s host = %s, want front wall", ss.Name, ss.HostID)
		}
		if top := ss.Polygon.MaxZ(); math.Abs(top-7) > 1e-9 {
			t.Errorf("%s top = %v, want 7", ss.Name, top)
		}
	}
	sort.Float64s(got)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("window %d center x = %v, want %v", i, got[i], want[i])
		}
	}
	if err := env.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestWindowsConservedOnEveryFacade(t *testing.T) {
	env := envelope(t, house())
	rec := &diag.Recorder{}
	p := WindowParams{
		WWR:         map[geom.Facade]float64{geom.FacadeFront: 0.18, geom.FacadeBack: 0.18, geom.FacadeRight: 0.1},
		Area:        map[geom.Facade]float64{geom.FacadeLeft: 30},
		AspectRatio: DefaultWindowAspectRatio,
	}
	if err := AddWindows(env, p, rec); err != nil {
		t.Fatalf("AddWindows() error = %v", err)
	}
	want := map[geom.Facade]float64{
		geom.FacadeFront: 72,
		geom.FacadeBack:  72,
		geom.FacadeLeft:  30,
		geom.FacadeRight: 20,
	}
	for f, a := range want {
		if got := windowArea(env, f); math.Abs(got-a) > 0.1 {
			t.Errorf("%v window area = %v, want %v", f, got, a)
		}
	}
}

func TestWindowsDeterministic(t *testing.T) {
	p := WindowParams{
		WWR:         map[geom.Facade]float64{geom.FacadeFront: 0.2, geom.FacadeLeft: 0.2},
		AspectRatio: DefaultWindowAspectRatio,
	}
	c := house()
	c.NumFloors = 2
	c.CFA = 2500
	var runs [][]geom.Polygon
	for i := 0; i < 2; i++ {
		env := envelope(t, c)
		if err := AddWindows(env, p, diag.Nop{}); err != nil {
			t.Fatalf("AddWindows() error = %v", err)
		}
		var polys []geom.Polygon
		for _, ss := range windows(env) {
			polys = append(polys, ss.Polygon)
		}
		runs = append(runs, polys)
	}
	if len(runs[0]) != len(runs[1]) {
		t.Fatalf("window counts differ: %d and %d", len(runs[0]), len(runs[1]))
	}
	for i := range runs[0] {
		if !runs[0][i].CyclicEqual(runs[1][i], 0) {
			t.Errorf("window %d differs between runs", i)
		}
	}
}

func TestWindowsRerunReplaces(t *testing.T) {
	env := envelope(t, house())
	p := WindowParams{WWR: map[geom.Facade]float64{geom.FacadeFront: 0.15}, AspectRatio: DefaultWindowAspectRatio}
	if err := AddWindows(env, p, diag.Nop{}); err != nil {
		t.Fatal(err)
	}
	rec := &diag.Recorder{}
	if err := AddWindows(env, p, rec); err != nil {
		t.Fatal(err)
	}
	if n := len(windows(env)); n != 5 {
		t.Errorf("windows after rerun = %d, want 5", n)
	}
	infos := rec.Texts(diag.LevelInfo)
	if len(infos) == 0 || !strings.HasPrefix(infos[0], "Removed fixed window(s) from ") {
		t.Errorf("infos = %v, want removal notice", infos)
	}
}

func TestWindowsRedistributeToLaterWalls(t *testing.T) {
	c := house()
	c.NumFloors = 2
	c.CFA = 2500
	env := envelope(t, c)

	p := WindowParams{Area: map[geom.Facade]float64{geom.FacadeFront: 8}, AspectRatio: DefaultWindowAspectRatio}
	if err := AddWindows(env, p, diag.Nop{}); err != nil {
		t.Fatalf("AddWindows() error = %v", err)
	}
	byStory := map[float64]float64{}
	for _, ss := range windows(env) {
		host := env.Surface(ss.HostID)
		byStory[host.Polygon.MinZ()] += ss.Polygon.Area()
	}
	if a := byStory[0]; a != 0 {
		t.Errorf("first story window area = %v, want 0", a)
	}
	if a := byStory[8]; math.Abs(a-8) > 1e-6 {
		t.Errorf("second story window area = %v, want 8", a)
	}
}

func TestWindowsSmallFacadeMoves(t *testing.T) {
	env := envelope(t, house())
	rec := &diag.Recorder{}
	p := WindowParams{
		Area:        map[geom.Facade]float64{geom.FacadeFront: 4, geom.FacadeBack: 40},
		AspectRatio: DefaultWindowAspectRatio,
	}
	if err := AddWindows(env, p, rec); err != nil {
		t.Fatalf("AddWindows() error = %v", err)
	}
	if a := windowArea(env, geom.FacadeFront); a != 0 {
		t.Errorf("front window area = %v, want 0", a)
	}
	if a := windowArea(env, geom.FacadeBack); math.Abs(a-44) > 0.1 {
		t.Errorf("back window area = %v, want 44", a)
	}
	want := []string{
		"The front facade window area (4.0 ft2) is less than the minimum window area allowed (5.33 ft2), and has been added to the back facade.",
		"Unable to assign appropriate window area for front facade.",
		"Unable to assign appropriate window area for back facade.",
	}
	got := rec.Warnings()
	if len(got) != len(want) {
		t.Fatalf("warnings = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("warning %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWindowsDoesNotFit(t *testing.T) {
	env := envelope(t, house())
	rec := &diag.Recorder{}
	p := WindowParams{WWR: map[geom.Facade]float64{geom.FacadeLeft: 0.9}, AspectRatio: 0.2}
	err := AddWindows(env, p, rec)
	if !errors.Is(err, errors.ErrCodeGeometryInfeasible) {
		t.Fatalf("AddWindows() error = %v, want %s", err, errors.ErrCodeGeometryInfeasible)
	}
	if e := rec.Errors(); len(e) != 1 || !strings.HasPrefix(e[0], "Could not fit windows on ") {
		t.Errorf("errors = %v", e)
	}
}

// smallHouse is a 10x10 ft single story with a flat roof.
func smallHouse() massing.DetachedConfig {
	c := house()
	c.CFA = 100
	c.AspectRatio = 1
	return c
}

// checkWindowRow fails when a window of wall leaves the wall's extent or
// overlaps its neighbour along the wall.
func checkWindowRow(t *testing.T, env *model.Envelope, wall *model.Surface) []geom.Box {
	t.Helper()
	wb := wall.Polygon.Bounds()
	var boxes []geom.Box
	for _, ss := range env.SubSurfacesOf(wall.ID) {
		if ss.Kind != model.Window {
			continue
		}
		b := ss.Polygon.Bounds()
		if b.Min.X < wb.Min.X-1e-9 || b.Max.X > wb.Max.X+1e-9 || b.Min.Z < wb.Min.Z-1e-9 || b.Max.Z > wb.Max.Z+1e-9 {
			t.Errorf("%s bounds %+v outside wall %+v", ss.Name, b, wb)
		}
		boxes = append(boxes, b)
	}
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].Min.X < boxes[j].Min.X })
	for i := 1; i < len(boxes); i++ {
		if boxes[i].Min.X < boxes[i-1].Max.X-1e-9 {
			t.Errorf("window %d starts at %v before window %d ends at %v", i, boxes[i].Min.X, i-1, boxes[i-1].Max.X)
		}
	}
	return boxes
}

func TestPlaceWindowsTightWall(t *testing.T) {
	tests := []struct {
		name   string
		area   float64
		aspect float64
		want   int
	}{
		{"two windows", 24, 0.51, 2},
		{"three windows", 30, DefaultWindowAspectRatio, 3},
		{"three windows nearly full", 36, 1.2, 3},
		{"four windows", 48, 2.2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := envelope(t, smallHouse())
			wall := frontWall(t, env)
			if l := wall.Polygon.Length(); math.Abs(l-10) > 1e-6 {
				t.Fatalf("front wall length = %v, want 10", l)
			}
			w := math.Sqrt(maxWindowArea / tt.aspect)
			if need := w*float64(tt.want) + windowGapX*float64(tt.want/2); need > 10 {
				t.Fatalf("case needs %v ft of wall", need)
			}

			if err := placeWindows(env, wall, tt.area, tt.aspect, false); err != nil {
				t.Fatalf("placeWindows() error = %v", err)
			}
			boxes := checkWindowRow(t, env, wall)
			if len(boxes) != tt.want {
				t.Errorf("windows = %d, want %d", len(boxes), tt.want)
			}
			if a := windowArea(env, geom.FacadeFront); math.Abs(a-tt.area) > 0.1 {
				t.Errorf("front window area = %v, want %v", a, tt.area)
			}
			if err := env.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestWindowLeftsKeepsRoomyLayout(t *testing.T) {
	w := 3.0
	got := windowLefts(50, w, 3)
	want := []float64{50.0/3 - w - windowGapX/2, 50.0/3 + windowGapX/2, 100.0/3 - w/2}
	if len(got) != len(want) {
		t.Fatalf("windowLefts() = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("left %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWindowsOnNarrowDoorStrip(t *testing.T) {
	env := envelope(t, smallHouse())
	if err := AddDoor(env, 20, diag.Nop{}); err != nil {
		t.Fatalf("AddDoor() error = %v", err)
	}
	var door *model.SubSurface
	for _, ss := range env.SubSurfaces() {
		if ss.Kind == model.Door {
			door = ss
		}
	}
	if door == nil {
		t.Fatal("no door")
	}

	// The strip right of the door is 10-0.5-20/7 ft wide; three windows of
	// the given aspect need about 6.5 ft of it.
	rec := &diag.Recorder{}
	p := WindowParams{Area: map[geom.Facade]float64{geom.FacadeFront: 36}, AspectRatio: 2.72}
	if err := AddWindows(env, p, rec); err != nil {
		t.Fatalf("AddWindows() error = %v", err)
	}
	if w := rec.Warnings(); len(w) != 0 {
		t.Errorf("warnings = %v, want none", w)
	}
	ws := windows(env)
	if len(ws) != 3 {
		t.Fatalf("windows = %d, want 3", len(ws))
	}
	host := env.Surface(ws[0].HostID)
	for _, ss := range ws[1:] {
		if ss.HostID != host.ID {
			t.Errorf("%s host = %s, want %s", ss.Name, ss.HostID, host.ID)
		}
	}
	if host.ID == door.HostID {
		t.Errorf("windows share a host with the door")
	}
	if l := host.Polygon.Length(); math.Abs(l-(9.5-20.0/7)) > 1e-6 {
		t.Errorf("strip length = %v, want %v", l, 9.5-20.0/7)
	}
	checkWindowRow(t, env, host)
	if a := windowArea(env, geom.FacadeFront); math.Abs(a-36) > 0.1 {
		t.Errorf("front window area = %v, want 36", a)
	}
	if err := env.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestPlaceWindowsOverlapMessage(t *testing.T) {
	env := envelope(t, house())
	wall := frontWall(t, env)
	if err := placeWindows(env, wall, 24, DefaultWindowAspectRatio, false); err != nil {
		t.Fatalf("placeWindows() error = %v", err)
	}
	err := placeWindows(env, wall, 24, DefaultWindowAspectRatio, false)
	if !errors.Is(err, errors.ErrCodeGeometryInfeasible) {
		t.Fatalf("placeWindows() error = %v, want %s", err, errors.ErrCodeGeometryInfeasible)
	}
	want := "GEOMETRY_INFEASIBLE: Could not fit windows on " + wall.Name + "."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWindowParamsValidate(t *testing.T) {
	tests := []struct {
		name string
		p    WindowParams
		want string
	}{
		{
			name: "both",
			p: WindowParams{
				WWR:         map[geom.Facade]float64{geom.FacadeBack: 0.2},
				Area:        map[geom.Facade]float64{geom.FacadeBack: 20},
				AspectRatio: 1,
			},
			want: "Both back window-to-wall ratio and back window area are specified.",
		},
		{
			name: "wwr",
			p:    WindowParams{WWR: map[geom.Facade]float64{geom.FacadeLeft: 1}, AspectRatio: 1},
			want: "Left window-to-wall ratio must be greater than or equal to 0 and less than 1.",
		},
		{
			name: "area",
			p:    WindowParams{Area: map[geom.Facade]float64{geom.FacadeRight: -1}, AspectRatio: 1},
			want: "Right window area must be greater than or equal to 0.",
		},
		{
			name: "aspect",
			p:    WindowParams{},
			want: "Window Aspect Ratio must be greater than 0.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := envelope(t, house())
			rec := &diag.Recorder{}
			err := AddWindows(env, tt.p, rec)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("AddWindows() error = %v, want invalid input", err)
			}
			if got := errors.UserMessage(err); got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
			if e := rec.Errors(); len(e) != 1 || e[0] != tt.want {
				t.Errorf("sink errors = %v", e)
			}
		})
	}
}

func TestDoorOnFrontWall(t *testing.T) {
	env := envelope(t, house())
	if err := AddDoor(env, 20, diag.Nop{}); err != nil {
		t.Fatalf("AddDoor() error = %v", err)
	}
	var doors []*model.SubSurface
	for _, ss := range env.SubSurfaces() {
		if ss.Kind == model.Door {
			doors = append(doors, ss)
		}
	}
	if len(doors) != 1 {
		t.Fatalf("doors = %d, want 1", len(doors))
	}
	d := doors[0]
	host := env.Surface(d.HostID)
	if host.Facade() != geom.FacadeFront {
		t.Errorf("door facade = %v, want front", host.Facade())
	}
	if d.Name != host.Name+" - Door" {
		t.Errorf("door name = %q", d.Name)
	}
	b := d.Polygon.Bounds()
	if math.Abs(b.Min.X-0.5) > 1e-9 || math.Abs(b.Max.X-(0.5+20.0/7)) > 1e-9 || b.Min.Z != 0 || b.Max.Z != 7 {
		t.Errorf("door bounds = %+v", b)
	}

	// Windows avoid the door by splitting its wall.
	p := WindowParams{WWR: map[geom.Facade]float64{geom.FacadeFront: 0.15}, AspectRatio: DefaultWindowAspectRatio}
	if err := AddWindows(env, p, diag.Nop{}); err != nil {
		t.Fatalf("AddWindows() error = %v", err)
	}
	if a := windowArea(env, geom.FacadeFront); math.Abs(a-60) > 0.1 {
		t.Errorf("front window area = %v, want 60", a)
	}
	for _, ss := range windows(env) {
		if ss.HostID == d.HostID {
			t.Errorf("%s shares a host with the door", ss.Name)
		}
	}
	if err := env.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestDoorArea(t *testing.T) {
	env := envelope(t, house())
	rec := &diag.Recorder{}
	if err := AddDoor(env, -1, rec); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("AddDoor(-1) error = %v, want invalid input", err)
	}
	if e := rec.Errors(); len(e) != 1 || e[0] != "Invalid door area." {
		t.Errorf("errors = %v", e)
	}

	rec = &diag.Recorder{}
	if err := AddDoor(env, 0, rec); err != nil {
		t.Errorf("AddDoor(0) error = %v", err)
	}
	if len(env.SubSurfaces()) != 0 {
		t.Errorf("sub-surfaces = %d, want 0", len(env.SubSurfaces()))
	}

	rec = &diag.Recorder{}
	if err := AddDoor(env, 5000, rec); err != nil {
		t.Errorf("AddDoor(5000) error = %v", err)
	}
	if w := rec.Warnings(); len(w) != 1 || w[0] != noDoorWall {
		t.Errorf("warnings = %v, want %q", w, noDoorWall)
	}
}

func TestDoorPrefersCorridor(t *testing.T) {
	env := envelope(t, massing.MultifamilyConfig{
		CFA: 900, WallHeight: 8, NumFloors: 1, NumUnits: 8, AspectRatio: 1,
		Foundation:         massing.Foundation{Type: massing.FoundationSlab},
		HorizontalLocation: ptr(massing.HorizontalMiddle),
		Corridor:           &massing.Corridor{Position: massing.CorridorDoubleLoadedInterior, Width: 10},
	})
	if err := AddDoor(env, 20, diag.Nop{}); err != nil {
		t.Fatalf("AddDoor() error = %v", err)
	}
	subs := env.SubSurfaces()
	if len(subs) != 1 {
		t.Fatalf("sub-surfaces = %d, want 1", len(subs))
	}
	sp := env.SpaceOf(env.Surface(subs[0].HostID))
	if sp.Role != model.RoleCorridor {
		t.Errorf("door space role = %v, want corridor", sp.Role)
	}
}

func TestSkylightsOnFlatRoof(t *testing.T) {
	env := envelope(t, house())
	p := SkylightParams{Area: map[geom.Facade]float64{geom.FacadeFront: 10, geom.FacadeBack: 10}}
	if err := AddSkylights(env, p, diag.Nop{}); err != nil {
		t.Fatalf("AddSkylights() error = %v", err)
	}
	subs := env.SubSurfaces()
	if len(subs) != 1 {
		t.Fatalf("skylights = %d, want 1", len(subs))
	}
	s := subs[0]
	if a := s.Polygon.Area(); math.Abs(a-20) > 1e-6 {
		t.Errorf("skylight area = %v, want 20", a)
	}
	if tilt := s.Polygon.Tilt(); math.Abs(tilt) > 1e-6 {
		t.Errorf("skylight tilt = %v, want 0", tilt)
	}
}

func TestSkylightsOnSlopedRoof(t *testing.T) {
	c := house()
	c.NumFloors = 2
	c.CFA = 2500
	c.Attic = massing.AtticConditioned
	c.Roof = massing.Roof{Type: massing.RoofGable, Pitch: 0.5}
	env := envelope(t, c)

	p := SkylightParams{Area: map[geom.Facade]float64{geom.FacadeFront: 10}}
	if err := AddSkylights(env, p, diag.Nop{}); err != nil {
		t.Fatalf("AddSkylights() error = %v", err)
	}
	subs := env.SubSurfaces()
	if len(subs) != 1 {
		t.Fatalf("skylights = %d, want 1", len(subs))
	}
	s := subs[0]
	host := env.Surface(s.HostID)
	if host.Facade() != geom.FacadeFront || host.Kind != model.KindRoofCeiling {
		t.Errorf("host = %v %v, want front roof", host.Facade(), host.Kind)
	}
	if a := s.Polygon.Area(); math.Abs(a-10) > 1e-6 {
		t.Errorf("skylight area = %v, want 10", a)
	}
	if d := s.Polygon.Normal().Sub(host.Polygon.Normal()).Norm(); d > 1e-9 {
		t.Errorf("skylight normal differs from roof by %v", d)
	}
}

func TestSkylightErrors(t *testing.T) {
	vented := house()
	vented.Roof = massing.Roof{Type: massing.RoofGable, Pitch: 0.5}
	tests := []struct {
		name string
		c    massing.Config
		p    SkylightParams
		want string
	}{
		{
			name: "negative",
			c:    house(),
			p:    SkylightParams{Area: map[geom.Facade]float64{geom.FacadeRight: -2}},
			want: "Right skylight area must be greater than or equal to 0.",
		},
		{
			name: "no roof",
			c:    vented,
			p:    SkylightParams{Area: map[geom.Facade]float64{geom.FacadeFront: 10}},
			want: "There are no front roof surfaces, but 10.0 ft^2 of skylights were specified.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := envelope(t, tt.c)
			rec := &diag.Recorder{}
			if err := AddSkylights(env, tt.p, rec); err == nil {
				t.Fatal("AddSkylights() succeeded")
			}
			if e := rec.Errors(); len(e) != 1 || e[0] != tt.want {
				t.Errorf("errors = %q, want %q", e, tt.want)
			}
		})
	}
}
