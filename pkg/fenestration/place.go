package fenestration

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/model"
)

// frame maps wall coordinates onto a vertical wall: u runs along the wall
// from its left edge as seen from outside, v up from its base.
type frame struct {
	origin geom.Point3
	ux, uy float64
}

func frameOf(wall *model.Surface) (frame, bool) {
	b := wall.Polygon.Bounds()
	switch wall.Facade() {
	case geom.FacadeFront:
		return frame{origin: geom.P(b.Min.X, b.Min.Y, b.Min.Z), ux: 1}, true
	case geom.FacadeBack:
		return frame{origin: geom.P(b.Max.X, b.Max.Y, b.Min.Z), ux: -1}, true
	case geom.FacadeLeft:
		return frame{origin: geom.P(b.Max.X, b.Max.Y, b.Min.Z), uy: -1}, true
	case geom.FacadeRight:
		return frame{origin: geom.P(b.Min.X, b.Min.Y, b.Min.Z), uy: 1}, true
	}
	return frame{}, false
}

func (f frame) at(u, v float64) geom.Point3 {
	return geom.P(f.origin.X+f.ux*u, f.origin.Y+f.uy*u, f.origin.Z+v)
}

// u is the wall coordinate of p.
func (f frame) u(p geom.Point3) float64 {
	return (p.X-f.origin.X)*f.ux + (p.Y-f.origin.Y)*f.uy
}

// rect is [u0,u1]×[v0,v1], wound to face out of the wall.
func (f frame) rect(u0, u1, v0, v1 float64) geom.Polygon {
	return geom.Polygon{f.at(u0, v1), f.at(u0, v0), f.at(u1, v0), f.at(u1, v1)}
}

// placeWindows fills wall with area ft² of windows in groups of two, the
// last group holding one window when the count is odd.
func placeWindows(env *model.Envelope, wall *model.Surface, area, aspect float64, gable bool) error {
	f, ok := frameOf(wall)
	if !ok {
		return errors.New(errors.ErrCodeGeometryInfeasible, "Could not fit windows on %s.", wall.Name)
	}
	width, height := wall.Polygon.Length(), wall.Polygon.Height()

	n := int(math.Ceil(area / maxWindowArea))
	groups := (n + 1) / 2
	gaps := groups
	if n%2 == 1 {
		gaps--
	}
	each := area / float64(n)
	w := math.Sqrt(each / aspect)
	h := each / w
	if w*float64(n)+windowGapX*float64(gaps) > width {
		return errors.New(errors.ErrCodeGeometryInfeasible, "Could not fit windows on %s.", wall.Name)
	}

	top := height - windowGapY
	if gable {
		top = h + windowGapY
	}
	cy := top - h/2

	for i, u0 := range windowLefts(width, w, n) {
		poly := f.rect(u0, u0+w, cy-h/2, cy+h/2)
		ss, err := env.AddSubSurface(wall, model.Window, poly)
		if err != nil {
			return errors.New(errors.ErrCodeGeometryInfeasible, "Could not fit windows on %s.", wall.Name)
		}
		ss.Name = windowName(wall, i+1)
	}
	return nil
}

// windowLefts returns the left edge of each of n windows of width w on a
// wall of the given width. Groups are centered on evenly spaced points
// along the wall. When that leaves less than windowGapX between two
// groups, the leftover width is shared evenly between the groups and the
// wall ends instead.
func windowLefts(width, w float64, n int) []float64 {
	groups := (n + 1) / 2
	size := func(g int) int {
		if g == groups && n%2 == 1 {
			return 1
		}
		return 2
	}
	span := func(k int) float64 {
		return float64(k)*w + float64(k-1)*windowGapX
	}

	var lefts []float64
	for g := 1; g <= groups; g++ {
		cx := width * float64(g) / float64(groups+1)
		lefts = appendGroup(lefts, cx-span(size(g))/2, w, size(g))
	}
	if spaced(lefts, w, width) {
		return lefts
	}

	used := 0.0
	for g := 1; g <= groups; g++ {
		used += span(size(g))
	}
	gap := (width - used) / float64(groups+1)
	lefts = lefts[:0]
	x := gap
	for g := 1; g <= groups; g++ {
		lefts = appendGroup(lefts, x, w, size(g))
		x += span(size(g)) + gap
	}
	return lefts
}

func appendGroup(lefts []float64, x, w float64, k int) []float64 {
	for j := 0; j < k; j++ {
		lefts = append(lefts, x+float64(j)*(w+windowGapX))
	}
	return lefts
}

// spaced reports whether the windows lie on [0,width] with at least
// windowGapX between neighbours.
func spaced(lefts []float64, w, width float64) bool {
	if len(lefts) == 0 {
		return true
	}
	if lefts[0] < -geom.Tol || lefts[len(lefts)-1]+w > width+geom.Tol {
		return false
	}
	for i := 1; i < len(lefts); i++ {
		if lefts[i]-(lefts[i-1]+w) < windowGapX-geom.Tol {
			return false
		}
	}
	return true
}

// doorStrips cuts a rectangular wall into full-height strips at the left
// and right edges of its openings.
func doorStrips(wall *model.Surface, openings []*model.SubSurface) []geom.Polygon {
	f, ok := frameOf(wall)
	if !ok {
		return nil
	}
	width, height := wall.Polygon.Length(), wall.Polygon.Height()
	cuts := []float64{0, width}
	for _, o := range openings {
		for _, p := range o.Polygon {
			if u := f.u(p); u > geom.Tol && u < width-geom.Tol {
				cuts = append(cuts, u)
			}
		}
	}
	sort.Float64s(cuts)

	var out []geom.Polygon
	for i := 1; i < len(cuts); i++ {
		if cuts[i]-cuts[i-1] <= geom.Tol {
			continue
		}
		out = append(out, f.rect(cuts[i-1], cuts[i], 0, height))
	}
	return out
}

func windowName(wall *model.Surface, n int) string {
	return fmt.Sprintf("%s - Window %d", wall.Name, n)
}

// title capitalizes a facade name for the start of a message.
func title(f geom.Facade) string {
	s := f.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// vertical reports whether s stands within 0.01° of plumb.
func vertical(s *model.Surface) bool {
	return math.Abs(90-s.Tilt()) <= 0.01
}
