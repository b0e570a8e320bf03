package fenestration

import (
	"math"

	"github.com/matzehuels/massform/pkg/diag"
	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/model"
	"github.com/matzehuels/massform/pkg/units"
)

// SkylightParams sets the skylight area, in ft², placed on each roof
// surface of a sided facade.
type SkylightParams struct {
	Area map[geom.Facade]float64 `json:"area,omitempty"`
}

// Validate rejects negative areas.
func (p SkylightParams) Validate() error {
	for _, f := range geom.Facades {
		if err := errors.ValidateNonNegative(title(f)+" skylight area", p.Area[f]); err != nil {
			return err
		}
	}
	return nil
}

// skylightOrder is the facade order skylights are placed in; flat roofs last.
var skylightOrder = []geom.Facade{geom.FacadeFront, geom.FacadeBack, geom.FacadeLeft, geom.FacadeRight, geom.FacadeNone}

// AddSkylights replaces the envelope's skylights with ones sized by p.
// When the conditioned spaces have flat roofs, the sided areas are divided
// evenly among the flat roofs instead.
func AddSkylights(env *model.Envelope, p SkylightParams, sink diag.Sink) error {
	for _, host := range env.RemoveSubSurfaces(model.Skylight) {
		diag.Infof(sink, "Removed fixed skylight(s) from %s.", host)
	}
	if err := p.Validate(); err != nil {
		return diag.Fail(sink, err)
	}

	roofs := map[geom.Facade][]*model.Surface{}
	for _, sp := range env.ConditionedSpaces() {
		for _, s := range env.SurfacesOf(sp.ID) {
			if s.Kind != model.KindRoofCeiling || s.Boundary != model.Outdoors {
				continue
			}
			f := s.Facade()
			if f == geom.FacadeNone && !geom.Approx(s.Tilt(), 0, 0.01) {
				continue
			}
			roofs[f] = append(roofs[f], s)
		}
	}

	areas := map[geom.Facade]float64{}
	for _, f := range geom.Facades {
		areas[f] = p.Area[f]
	}
	if flat := len(roofs[geom.FacadeNone]); flat > 0 {
		for _, f := range geom.Facades {
			areas[geom.FacadeNone] += areas[f] / float64(flat)
			areas[f] = 0
		}
	}

	var total float64
	for _, f := range skylightOrder {
		area := areas[f]
		if area == 0 {
			continue
		}
		if len(roofs[f]) == 0 {
			return diag.Fail(sink, errors.New(errors.ErrCodeGeometryInfeasible,
				"There are no %s roof surfaces, but %s ft^2 of skylights were specified.", f, units.Format(area, 3)))
		}
		for _, s := range roofs[f] {
			ss, err := env.AddSubSurface(s, model.Skylight, skylight(s, f, area))
			if err != nil {
				return diag.Fail(sink, errors.New(errors.ErrCodeGeometryInfeasible, "Could not fit skylight on %s.", s.Name))
			}
			ss.Name = s.Name + " - Skylight"
			total += area
		}
	}
	if total == 0 {
		sink.Info("No skylights added.")
	}
	return nil
}

// skylight is a rectangle of the given area proportioned like roof,
// anchored at its centroid and running up the slope for facade f.
func skylight(roof *model.Surface, f geom.Facade, area float64) geom.Polygon {
	length := roof.Polygon.Length()
	depth := roof.Area() / length
	aspect := depth / length
	if depth > length {
		aspect = length / depth
	}
	w := math.Sqrt(area / aspect)
	l := area / w

	tilt := roof.Tilt() * math.Pi / 180
	run, rise := l*math.Cos(tilt), l*math.Sin(tilt)
	bl := roof.Polygon.Centroid()
	var br, tr, tl geom.Point3
	switch f {
	case geom.FacadeBack:
		tl, tr, br = bl.Add(0, -run, rise), bl.Add(-w, -run, rise), bl.Add(-w, 0, 0)
	case geom.FacadeLeft:
		tl, tr, br = bl.Add(run, 0, rise), bl.Add(run, -w, rise), bl.Add(0, -w, 0)
	case geom.FacadeRight:
		tl, tr, br = bl.Add(-run, 0, rise), bl.Add(-run, w, rise), bl.Add(0, w, 0)
	default:
		tl, tr, br = bl.Add(0, run, rise), bl.Add(w, run, rise), bl.Add(w, 0, 0)
	}
	return geom.Polygon{bl, br, tr, tl}
}
