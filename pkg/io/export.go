package io

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/model"
)

type document struct {
	Name        string          `json:"name"`
	Orientation float64         `json:"orientation"`
	Seq         int             `json:"seq"`
	Zones       []model.Zone    `json:"zones"`
	Spaces      []model.Space   `json:"spaces"`
	Surfaces    []surface       `json:"surfaces"`
	SubSurfaces []subSurface    `json:"sub_surfaces"`
	Shading     []model.Shading `json:"shading"`
	Units       []model.Unit    `json:"units"`
}

type surface struct {
	model.Surface
	Area    float64     `json:"area"`
	Tilt    float64     `json:"tilt"`
	Facade  geom.Facade `json:"facade"`
	Azimuth float64     `json:"azimuth"`
}

type subSurface struct {
	model.SubSurface
	Area    float64 `json:"area"`
	Azimuth float64 `json:"azimuth"`
}

// WriteJSON encodes an envelope as JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(e *model.Envelope, w io.Writer) error {
	snap := e.Snapshot()
	out := document{
		Name:        snap.Name,
		Orientation: snap.Orientation,
		Seq:         snap.Seq,
		Zones:       nonNil(snap.Zones),
		Spaces:      nonNil(snap.Spaces),
		Surfaces:    make([]surface, len(snap.Surfaces)),
		SubSurfaces: make([]subSurface, len(snap.SubSurfaces)),
		Shading:     nonNil(snap.Shading),
		Units:       nonNil(snap.Units),
	}

	for i, s := range snap.Surfaces {
		out.Surfaces[i] = surface{
			Surface: s,
			Area:    round(s.Polygon.Area()),
			Tilt:    round(s.Polygon.Tilt()),
			Facade:  s.Polygon.Facade(),
			Azimuth: azimuth(s.Polygon, snap.Orientation),
		}
	}
	for i, s := range snap.SubSurfaces {
		out.SubSurfaces[i] = subSurface{
			SubSurface: s,
			Area:       round(s.Polygon.Area()),
			Azimuth:    azimuth(s.Polygon, snap.Orientation),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes an envelope to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(e *model.Envelope, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(e, f)
}

func azimuth(p geom.Polygon, orientation float64) float64 {
	n := p.Normal()
	if geom.Approx(n.X, 0, 1e-9) && geom.Approx(n.Y, 0, 1e-9) {
		return 0
	}
	return round(geom.AbsAzimuth(geom.CoordRelative, geom.NormalAzimuth(n), orientation, geom.DefaultAzimuthOffset))
}

// round trims derived values to 1e-6 so dumps are stable across platforms.
func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
