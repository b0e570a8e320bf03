package fenestration

import (
	"math"

	"github.com/matzehuels/massform/pkg/diag"
	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/model"
)

const (
	doorHeight = 7.0 // ft
	doorOffset = 0.5 // ft from the wall's left edge
)

const noDoorWall = "Could not find appropriate surface for the door. No door was added."

// AddDoor replaces the envelope's doors with one door of area ft².
// Finding no wall for it is a warning, not an error.
func AddDoor(env *model.Envelope, area float64, sink diag.Sink) error {
	for _, host := range env.RemoveSubSurfaces(model.Door) {
		diag.Infof(sink, "Removed door(s) from %s.", host)
	}
	if area < 0 {
		return diag.Fail(sink, errors.New(errors.ErrCodeInvalidInput, "Invalid door area."))
	}
	if area == 0 {
		sink.Info("No doors added because door area was set to 0.")
		return nil
	}

	walls := lowestStory(exteriorDoorWalls(env))
	if corridor := lowestStory(corridorWalls(env)); len(corridor) > 0 {
		walls = corridor
	}
	if len(walls) == 0 {
		sink.Warning(noDoorWall)
		return nil
	}

	width := area / doorHeight
	for _, w := range walls {
		gross := w.Area()
		if area >= gross {
			continue
		}
		f, ok := frameOf(w)
		if !ok {
			continue
		}
		offset := doorOffset
		if (offset+width)*doorHeight > gross {
			offset = 0
		}
		var existing int
		for _, ss := range env.SubSurfacesOf(w.ID) {
			if ss.Kind == model.Door {
				existing++
			}
		}
		u := offset + (offset+width)*float64(existing)

		ss, err := env.AddSubSurface(w, model.Door, f.rect(u, u+width, 0, doorHeight))
		if err != nil {
			return diag.Fail(sink, errors.New(errors.ErrCodeGeometryInfeasible, "Could not fit door on %s.", w.Name))
		}
		ss.Name = w.Name + " - Door"
		return nil
	}
	sink.Warning(noDoorWall)
	return nil
}

// exteriorDoorWalls returns the outdoor walls of conditioned, above-grade
// spaces facing front, or facing back when no wall faces front.
func exteriorDoorWalls(env *model.Envelope) []*model.Surface {
	for _, f := range []geom.Facade{geom.FacadeFront, geom.FacadeBack} {
		var out []*model.Surface
		for _, sp := range env.ConditionedSpaces() {
			if env.BelowGrade(sp) {
				continue
			}
			for _, s := range env.SurfacesOf(sp.ID) {
				if s.Facade() == f && s.Boundary == model.Outdoors && vertical(s) {
					out = append(out, s)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// corridorWalls returns the corridor side of adiabatic walls that
// conditioned spaces share with an interior corridor.
func corridorWalls(env *model.Envelope) []*model.Surface {
	corridors := env.SpacesWithRole(model.RoleCorridor)
	if len(corridors) == 0 {
		return nil
	}
	var out []*model.Surface
	for _, sp := range env.ConditionedSpaces() {
		for _, s := range env.SurfacesOf(sp.ID) {
			if s.Kind != model.KindWall || s.Boundary != model.Adiabatic {
				continue
			}
			for _, c := range corridors {
				for _, cs := range env.SurfacesOf(c.ID) {
					if s.Polygon.ReverseEqual(cs.Polygon, geom.Tol) {
						out = append(out, cs)
					}
				}
			}
		}
	}
	return out
}

// lowestStory keeps the walls whose base is lowest.
func lowestStory(walls []*model.Surface) []*model.Surface {
	var out []*model.Surface
	low := math.Inf(1)
	for _, w := range walls {
		z := w.Polygon.MinZ()
		switch {
		case z < low-0.001:
			out = append(out[:0], w)
			low = z
		case math.Abs(z-low) < 0.001:
			out = append(out, w)
		}
	}
	return out
}
