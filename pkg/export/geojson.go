package export

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/model"
	"github.com/matzehuels/massform/pkg/units"
)

// PlanOptions configures [Plan].
type PlanOptions struct {
	// Elevation keeps only features whose floor sits at this z, in ft.
	// Nil keeps every story.
	Elevation *float64

	// Metric writes coordinates and areas in m and m² instead of ft.
	Metric bool
}

// Plan returns the plan view of e: a Polygon feature per floor and per
// horizontal shading plane, and a LineString per opening in a vertical
// wall. Coordinates are the model's x and y.
func Plan(e *model.Envelope, opts PlanOptions) *geojson.FeatureCollection {
	scale, areaScale := 1.0, 1.0
	if opts.Metric {
		scale = units.MustConvert(1, "ft", "m")
		areaScale = units.MustConvert(1, "ft^2", "m^2")
	}
	at := func(z float64) bool {
		return opts.Elevation == nil || math.Abs(z-*opts.Elevation) < 0.01
	}

	fc := geojson.NewFeatureCollection()
	for _, s := range e.Surfaces() {
		if s.Kind != model.KindFloor || !at(s.Polygon.MinZ()) {
			continue
		}
		sp := e.SpaceOf(s)
		f := geojson.NewFeature(orb.Polygon{ring(s.Polygon, scale)})
		f.ID = s.ID
		f.Properties["kind"] = "floor"
		f.Properties["name"] = s.Name
		f.Properties["space"] = sp.Name
		f.Properties["role"] = sp.Role.String()
		f.Properties["conditioned"] = e.IsConditioned(sp)
		f.Properties["boundary"] = s.Boundary.String()
		f.Properties["z"] = s.Polygon.MinZ() * scale
		f.Properties["area"] = s.Area() * areaScale
		fc.Append(f)
	}

	for _, sh := range e.Shading() {
		if !geom.Approx(sh.Polygon.Tilt(), 0, 0.01) && !geom.Approx(sh.Polygon.Tilt(), 180, 0.01) {
			continue
		}
		if !at(sh.Polygon.MinZ()) {
			continue
		}
		f := geojson.NewFeature(orb.Polygon{ring(sh.Polygon, scale)})
		f.ID = sh.ID
		f.Properties["kind"] = "shading"
		f.Properties["name"] = sh.Name
		f.Properties["z"] = sh.Polygon.MinZ() * scale
		fc.Append(f)
	}

	for _, ss := range e.SubSurfaces() {
		host := e.Surface(ss.HostID)
		if host == nil || host.Kind != model.KindWall || !at(host.Polygon.MinZ()) {
			continue
		}
		b := ss.Polygon.Bounds()
		line := orb.LineString{
			{b.Min.X * scale, b.Min.Y * scale},
			{b.Max.X * scale, b.Max.Y * scale},
		}
		f := geojson.NewFeature(line)
		f.ID = ss.ID
		f.Properties["kind"] = ss.Kind.String()
		f.Properties["name"] = ss.Name
		f.Properties["host"] = host.Name
		f.Properties["facade"] = host.Facade().String()
		f.Properties["area"] = ss.Polygon.Area() * areaScale
		fc.Append(f)
	}
	return fc
}

// PlanJSON encodes [Plan] as GeoJSON.
func PlanJSON(e *model.Envelope, opts PlanOptions) ([]byte, error) {
	return Plan(e, opts).MarshalJSON()
}

// ring projects p onto the xy plane as a closed counter-clockwise ring.
func ring(p geom.Polygon, scale float64) orb.Ring {
	r := make(orb.Ring, 0, len(p)+1)
	for _, v := range p {
		r = append(r, orb.Point{v.X * scale, v.Y * scale})
	}
	r = append(r, r[0])
	if r.Orientation() == orb.CW {
		r.Reverse()
	}
	return r
}
