package model

import (
	"math"

	"github.com/matzehuels/massform/pkg/geom"
)

// Edge is a bottom or top edge of a surface, tagged with its facade.
type Edge struct {
	geom.Segment
	Facade geom.Facade
}

// EdgesOf returns, for each surface, the edges joining its vertices at its
// lowest (or, with top, highest) elevation.
func EdgesOf(surfaces []*Surface, top bool) []Edge {
	var out []Edge
	for _, s := range surfaces {
		match := s.Polygon.MinZ()
		if top {
			match = s.Polygon.MaxZ()
		}
		var pts []geom.Point3
		for _, v := range s.Polygon {
			if math.Abs(v.Z-match) <= 0.0001 {
				pts = append(pts, v)
			}
		}
		f := s.Facade()
		for i := range pts {
			switch {
			case i+1 < len(pts):
				out = append(out, Edge{geom.Segment{A: pts[i], B: pts[i+1]}, f})
			case len(pts) > 2:
				out = append(out, Edge{geom.Segment{A: pts[i], B: pts[0]}, f})
			}
		}
	}
	return out
}

// ExposedPerimeter is the length of the ground floors' perimeter that lies
// under an exterior wall. With foundationWalls, the top edges of the
// floors' unlinked foundation walls stand in for the floor edges.
func (g *graph) ExposedPerimeter(floors []*Surface, foundationWalls bool) float64 {
	var ground []Edge
	if !foundationWalls {
		ground = EdgesOf(floors, false)
	} else {
		var walls []*Surface
		seen := map[string]bool{}
		for _, f := range floors {
			var candidates []*Surface
			for _, s := range g.SurfacesOf(f.SpaceID) {
				if s.Kind == KindWall && s.Boundary != InteriorAdjacent {
					candidates = append(candidates, s)
				}
			}
			for _, w := range WallsConnectedToFloor(candidates, f, true) {
				if !seen[w.ID] {
					seen[w.ID] = true
					walls = append(walls, w)
				}
			}
		}
		ground = EdgesOf(walls, true)
	}

	var exterior []*Surface
	for _, s := range g.surfaces {
		if s.Kind == KindWall && s.Boundary == Outdoors {
			exterior = append(exterior, s)
		}
	}

	model := EdgesOf(exterior, false)
	var perimeter float64
	for _, ge := range ground {
		for _, me := range model {
			if ge.Covers(me.Segment, geom.Tol) {
				perimeter += me.Length()
			}
		}
	}
	return perimeter
}
