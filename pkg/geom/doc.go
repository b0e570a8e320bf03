// Package geom is the geometry kernel of massform.
//
// Building surfaces are planar polygons in feet, in building coordinates
// (x east, y north, z up, front facade facing -y). A [Polygon] is an ordered,
// implicitly closed vertex list whose outward normal follows the right-hand
// rule; everything else in massform relies on that winding.
//
// Vector arithmetic is delegated to github.com/golang/geo/r3. Plan-view work
// (areas, containment, rectilinear overlap) projects polygons onto an axis
// plane and uses github.com/paulmach/orb.
//
// # Rectilinear booleans
//
// [Intersect] and [Subtract] operate on axis-aligned rectilinear rings only.
// They decompose both inputs on the grid spanned by their vertex
// coordinates, classify each cell, and trace the boundary of the resulting
// cell sets back into rings. This is exact for the notch shapes massing
// produces (garage, inset, balcony) and is the only clipping massform does.
//
// # Tolerances
//
// [Tol] (0.001 ft) is the comparison tolerance used for vertex equality,
// facade classification and point-on-segment tests.
package geom
