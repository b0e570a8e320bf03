package geom

// Prism is the closed set of faces produced by extruding a floor print.
type Prism struct {
	Floor   Polygon
	Ceiling Polygon
	Walls   []Polygon
}

// Extrude sweeps a horizontal floor print upward by height. The print may be
// wound either way; the floor faces down, the ceiling up and each wall
// outward. Walls follow the print's edge order, counterclockwise seen from
// above, each listed bottom-left, bottom-right, top-right, top-left as seen
// from outside.
func Extrude(print Polygon, height float64) Prism {
	ccw := print.Dedup(Tol)
	if ccw.Normal().Z < 0 {
		ccw = ccw.Reverse()
	}
	z := ccw[0].Z
	top := ccw.AtZ(z + height)

	pr := Prism{
		Floor:   ccw.Reverse(),
		Ceiling: top,
	}
	for i := range ccw {
		a, b := ccw[i], ccw[(i+1)%len(ccw)]
		pr.Walls = append(pr.Walls, Polygon{a, b, b.Add(0, 0, height), a.Add(0, 0, height)})
	}
	return pr
}

// Rect returns the rectangle [x0,x1]x[y0,y1] at elevation z wound
// sw, nw, ne, se (normal facing down, as a floor).
func Rect(x0, y0, x1, y1, z float64) Polygon {
	return Polygon{P(x0, y0, z), P(x0, y1, z), P(x1, y1, z), P(x1, y0, z)}
}
