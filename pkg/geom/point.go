package geom

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Tol is the default comparison tolerance in feet.
const Tol = 0.001

// Point3 is a vertex in building coordinates, in feet.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// P is shorthand for Point3{x, y, z}.
func P(x, y, z float64) Point3 { return Point3{X: x, Y: y, Z: z} }

// Vec returns p as an r3 vector.
func (p Point3) Vec() r3.Vector { return r3.Vector{X: p.X, Y: p.Y, Z: p.Z} }

// FromVec converts an r3 vector back to a point.
func FromVec(v r3.Vector) Point3 { return Point3{X: v.X, Y: v.Y, Z: v.Z} }

// Add returns p translated by (dx, dy, dz).
func (p Point3) Add(dx, dy, dz float64) Point3 {
	return Point3{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

// Sub returns the vector from q to p.
func (p Point3) Sub(q Point3) r3.Vector { return p.Vec().Sub(q.Vec()) }

// Eq reports whether p and q coincide within tol on every axis.
func (p Point3) Eq(q Point3, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol && math.Abs(p.Z-q.Z) <= tol
}

// Dist is the Euclidean distance between p and q.
func (p Point3) Dist(q Point3) float64 { return p.Sub(q).Norm() }

func (p Point3) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p.X, p.Y, p.Z)
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Point3
}

// Size returns the box extents along x, y and z.
func (b Box) Size() (dx, dy, dz float64) {
	return b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z
}

// Overlaps reports whether b and o intersect once each is grown by tol.
func (b Box) Overlaps(o Box, tol float64) bool {
	return b.Min.X <= o.Max.X+tol && o.Min.X <= b.Max.X+tol &&
		b.Min.Y <= o.Max.Y+tol && o.Min.Y <= b.Max.Y+tol &&
		b.Min.Z <= o.Max.Z+tol && o.Min.Z <= b.Max.Z+tol
}

// Approx reports whether a and b are equal within tol.
func Approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }
