package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// Coord selects how an azimuth is interpreted.
type Coord int

const (
	// CoordRelative azimuths are measured against the building's front.
	CoordRelative Coord = iota
	// CoordAbsolute azimuths are already measured from true north.
	CoordAbsolute
)

// DefaultAzimuthOffset converts a model-space normal azimuth (front faces
// -y, i.e. 180) into a compass azimuth relative to the orientation.
const DefaultAzimuthOffset = 180.0

// AbsAzimuth converts an azimuth to degrees clockwise from north in [0, 360).
func AbsAzimuth(kind Coord, azimuth, orientation, offset float64) float64 {
	a := azimuth + offset
	if kind == CoordRelative {
		a += orientation
	}
	return normalizeDegrees(a)
}

// NormalAzimuth is the compass azimuth of n's horizontal component in the
// model frame, where +y is north. It is 0 for horizontal surfaces.
func NormalAzimuth(n r3.Vector) float64 {
	if math.Abs(n.X) < 1e-9 && math.Abs(n.Y) < 1e-9 {
		return 0
	}
	return normalizeDegrees(math.Atan2(n.X, n.Y) * 180 / math.Pi)
}

// FacadeAzimuth is the compass azimuth a facade faces for a building whose
// front faces orientation.
func FacadeAzimuth(f Facade, orientation float64) float64 {
	switch f {
	case FacadeBack:
		return normalizeDegrees(orientation + 180)
	case FacadeLeft:
		return normalizeDegrees(orientation + 90)
	case FacadeRight:
		return normalizeDegrees(orientation + 270)
	default:
		return normalizeDegrees(orientation)
	}
}

func normalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a -= 360
	}
	return a
}
