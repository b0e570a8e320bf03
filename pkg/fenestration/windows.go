package fenestration

import (
	"math"

	"github.com/matzehuels/massform/pkg/diag"
	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/model"
	"github.com/matzehuels/massform/pkg/units"
)

// Window sizing, in ft and ft².
const (
	minWindowArea = 5.333
	maxWindowArea = 12.0
	windowGapY    = 1.0 // below the top of the wall
	windowGapX    = 0.2 // between the two windows of a group
)

// DefaultWindowAspectRatio is the height-to-width ratio of a window when
// none is configured.
const DefaultWindowAspectRatio = 1.333

// WindowParams sets the window area of each sided facade, either as a
// fraction of the facade's gross wall area or as an absolute area in ft².
// A facade may use one or the other, not both.
type WindowParams struct {
	WWR         map[geom.Facade]float64 `json:"wwr,omitempty"`
	Area        map[geom.Facade]float64 `json:"area,omitempty"`
	AspectRatio float64                 `json:"aspect_ratio"`
}

// Validate checks each facade in allocation order, then the aspect ratio.
func (p WindowParams) Validate() error {
	for _, f := range geom.Facades {
		wwr, area := p.WWR[f], p.Area[f]
		if wwr > 0 && area > 0 {
			return errors.New(errors.ErrCodeInvalidInput,
				"Both %s window-to-wall ratio and %s window area are specified.", f, f)
		}
		if err := errors.ValidateFraction(title(f)+" window-to-wall ratio", wwr); err != nil {
			return err
		}
		if err := errors.ValidateNonNegative(title(f)+" window area", area); err != nil {
			return err
		}
	}
	return errors.ValidatePositive("Window Aspect Ratio", p.AspectRatio)
}

// AddWindows replaces the envelope's windows with ones sized by p.
// Walls holding a door are split so their door-free strips stay eligible.
func AddWindows(env *model.Envelope, p WindowParams, sink diag.Sink) error {
	for _, host := range env.RemoveSubSurfaces(model.Window) {
		diag.Infof(sink, "Removed fixed window(s) from %s.", host)
	}
	if err := p.Validate(); err != nil {
		return diag.Fail(sink, err)
	}

	a := newAllocation(env, p.AspectRatio)
	if err := a.splitDoored(); err != nil {
		return diag.Fail(sink, err)
	}
	a.measure()
	a.setTargets(p)
	for _, f := range geom.Facades {
		a.spread(f)
	}
	a.sumUnits()
	a.moveSmallFacades(sink)
	a.renormalize()

	var total float64
	for _, f := range geom.Facades {
		var placed float64
		for _, s := range a.walls[f] {
			area := a.area[s.ID]
			if area == 0 {
				continue
			}
			if err := placeWindows(env, s, area, p.AspectRatio, a.isGable(s)); err != nil {
				return diag.Fail(sink, err)
			}
			placed += area
		}
		if math.Abs(placed-a.target[f]) > 0.1 {
			diag.Warnf(sink, "Unable to assign appropriate window area for %s facade.", f)
		}
		total += placed
	}
	if total == 0 {
		sink.Info("No windows added.")
	}
	return nil
}

// allocation holds the per-wall bookkeeping of one AddWindows call.
type allocation struct {
	env    *model.Envelope
	aspect float64

	walls  map[geom.Facade][]*model.Surface
	avail  map[string]float64 // usable area by surface id
	area   map[string]float64 // allocated window area by surface id
	target map[geom.Facade]float64
	unitOf map[string]*model.Unit // by space id
	totals map[*model.Unit]map[geom.Facade]float64
}

func newAllocation(env *model.Envelope, aspect float64) *allocation {
	a := &allocation{
		env:    env,
		aspect: aspect,
		walls:  map[geom.Facade][]*model.Surface{},
		avail:  map[string]float64{},
		area:   map[string]float64{},
		target: map[geom.Facade]float64{},
		unitOf: map[string]*model.Unit{},
		totals: map[*model.Unit]map[geom.Facade]float64{},
	}
	for _, u := range env.Units() {
		for _, id := range u.SpaceIDs {
			a.unitOf[id] = u
		}
	}
	for _, sp := range env.ConditionedSpaces() {
		for _, s := range env.SurfacesOf(sp.ID) {
			if s.Kind != model.KindWall || s.Boundary != model.Outdoors || !vertical(s) {
				continue
			}
			if f := s.Facade(); f != geom.FacadeNone {
				a.walls[f] = append(a.walls[f], s)
			}
		}
	}
	return a
}

func (a *allocation) in(u *model.Unit, s *model.Surface) bool {
	return a.unitOf[s.SpaceID] == u
}

func (a *allocation) isGable(s *model.Surface) bool {
	return len(s.Polygon) == 3 && a.env.HasRoof(a.env.SpaceOf(s))
}

// splitDoored splits every rectangular wall carrying an opening. The strip
// holding the opening takes the wall's place in the facade list; the other
// strips are appended after the facade's walls.
func (a *allocation) splitDoored() error {
	for _, f := range geom.Facades {
		ws := a.walls[f]
		n := len(ws)
		for i := 0; i < n; i++ {
			s := ws[i]
			openings := a.env.SubSurfacesOf(s.ID)
			if len(openings) == 0 || !s.Polygon.IsRectangularWall() {
				continue
			}
			strips := doorStrips(s, openings)
			if len(strips) < 2 {
				continue
			}
			frags, err := a.env.SplitWall(s, strips)
			if err != nil {
				return err
			}
			replaced := false
			for _, fr := range frags {
				if !replaced && len(a.env.SubSurfacesOf(fr.ID)) > 0 {
					ws[i], replaced = fr, true
					continue
				}
				ws = append(ws, fr)
			}
		}
		a.walls[f] = ws
	}
	return nil
}

// usable is the area of s that may take windows: zero for walls with an
// opening, walls of other shapes, and walls too narrow or too short for the
// smallest window.
func (a *allocation) usable(s *model.Surface) float64 {
	minHeight := math.Sqrt(maxWindowArea*a.aspect) + windowGapY*1.05
	minWidth := math.Sqrt(minWindowArea/a.aspect) * 1.05

	if len(a.env.SubSurfacesOf(s.ID)) > 0 {
		return 0
	}
	gable := a.isGable(s)
	if !s.Polygon.IsRectangularWall() && !gable {
		return 0
	}
	if s.Polygon.Length() < minWidth {
		return 0
	}
	if minHeight > s.Polygon.Height() {
		return 0
	}
	if gable && minHeight > s.Polygon.Height()/1.5 {
		return 0
	}
	return s.Area()
}

func (a *allocation) measure() {
	for _, f := range geom.Facades {
		for _, s := range a.walls[f] {
			a.avail[s.ID] = a.usable(s)
		}
	}
}

func (a *allocation) setTargets(p WindowParams) {
	for _, f := range geom.Facades {
		if wwr := p.WWR[f]; wwr > 0 {
			var gross float64
			for _, s := range a.walls[f] {
				gross += s.Area()
			}
			a.target[f] = gross * wwr
			continue
		}
		a.target[f] = p.Area[f]
	}
}

// spread splits the facade target across its walls by usable area, then
// hands shares below the minimum window to the unit's walls further down
// the list.
func (a *allocation) spread(f geom.Facade) {
	ws := a.walls[f]
	var facadeAvail float64
	for _, s := range ws {
		facadeAvail += a.avail[s.ID]
	}
	if facadeAvail == 0 {
		return
	}
	for _, s := range ws {
		a.area[s.ID] += a.avail[s.ID] / facadeAvail * a.target[f]
	}

	for _, u := range a.env.Units() {
		for i, s := range ws {
			if a.area[s.ID] == 0 || !a.in(u, s) || a.area[s.ID] >= minWindowArea {
				continue
			}
			var future float64
			for _, o := range ws[i+1:] {
				if a.in(u, o) {
					future += a.avail[o.ID]
				}
			}
			if future == 0 {
				continue
			}
			moved := a.area[s.ID]
			a.area[s.ID] = 0
			for _, o := range ws[i+1:] {
				if a.in(u, o) {
					a.area[o.ID] += moved * a.avail[o.ID] / future
				}
			}
		}
	}
}

func (a *allocation) sumUnits() {
	for _, u := range a.env.Units() {
		t := map[geom.Facade]float64{}
		for _, f := range geom.Facades {
			for _, s := range a.walls[f] {
				if a.in(u, s) {
					t[f] += a.area[s.ID]
				}
			}
		}
		a.totals[u] = t
	}
}

// largest is the first facade, in allocation order, holding the most
// window area of the unit.
func largest(t map[geom.Facade]float64) geom.Facade {
	best := geom.Facades[0]
	for _, f := range geom.Facades[1:] {
		if t[f] > t[best] {
			best = f
		}
	}
	return best
}

// moveSmallFacades moves a unit's facade total that is too small for one
// window onto the unit's facade with the most window area, split across
// that facade's usable walls by gross area.
func (a *allocation) moveSmallFacades(sink diag.Sink) {
	for _, f := range geom.Facades {
		for _, u := range a.env.Units() {
			t := a.totals[u]
			moved := t[f]
			if moved == 0 || moved >= minWindowArea {
				continue
			}
			dst := largest(t)
			if dst == f || t[dst] <= moved {
				continue
			}
			var gross float64
			for _, s := range a.walls[dst] {
				if a.in(u, s) && a.avail[s.ID] > 0 {
					gross += s.Area()
				}
			}
			if gross == 0 {
				continue
			}

			t[f] = 0
			for _, s := range a.walls[f] {
				if a.in(u, s) {
					a.area[s.ID] = 0
				}
			}
			t[dst] += moved
			for _, s := range a.walls[dst] {
				if a.in(u, s) && a.avail[s.ID] > 0 {
					a.area[s.ID] += moved * s.Area() / gross
				}
			}
			diag.Warnf(sink, "The %s facade window area (%s ft2) is less than the minimum window area allowed (%s ft2), and has been added to the %s facade.",
				f, units.Format(moved, 2), units.Format(minWindowArea, 2), dst)
		}
	}
}

// renormalize scales a unit's walls up where they hold less than the unit
// owes the facade.
func (a *allocation) renormalize() {
	for _, f := range geom.Facades {
		for _, u := range a.env.Units() {
			var sum float64
			for _, s := range a.walls[f] {
				if a.in(u, s) {
					sum += a.area[s.ID]
				}
			}
			owed := a.totals[u][f]
			if sum == 0 || owed < sum {
				continue
			}
			for _, s := range a.walls[f] {
				if a.in(u, s) {
					a.area[s.ID] += a.area[s.ID] / sum * (owed - sum)
				}
			}
		}
	}
}
