package geom

import (
	"math"
	"strings"

	"github.com/golang/geo/r3"

	"github.com/matzehuels/massform/pkg/errors"
)

// Facade names a side of the building by the direction its surfaces face.
type Facade int

const (
	FacadeNone Facade = iota
	FacadeFront
	FacadeBack
	FacadeLeft
	FacadeRight
)

// Facades lists the four sided facades in allocation order.
var Facades = []Facade{FacadeFront, FacadeBack, FacadeLeft, FacadeRight}

func (f Facade) String() string {
	switch f {
	case FacadeFront:
		return "front"
	case FacadeBack:
		return "back"
	case FacadeLeft:
		return "left"
	case FacadeRight:
		return "right"
	default:
		return "none"
	}
}

// MarshalText encodes the facade by name.
func (f Facade) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText decodes a facade name.
func (f *Facade) UnmarshalText(b []byte) error {
	v, err := ParseFacade(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ParseFacade converts a facade name.
func ParseFacade(s string) (Facade, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front":
		return FacadeFront, nil
	case "back":
		return FacadeBack, nil
	case "left":
		return FacadeLeft, nil
	case "right":
		return FacadeRight, nil
	case "none", "":
		return FacadeNone, nil
	}
	return FacadeNone, errors.New(errors.ErrCodeInvalidInput, "unknown facade %q", s)
}

// FacadeOf classifies an outward normal. Vertical surfaces must face an
// axis exactly; sloped surfaces are classified by the sign of their
// horizontal component; horizontal surfaces have no facade.
func FacadeOf(n r3.Vector) Facade {
	const tol = Tol
	if math.Abs(n.Z) < tol {
		switch {
		case math.Abs(n.X) < tol && math.Abs(n.Y+1) < tol:
			return FacadeFront
		case math.Abs(n.X) < tol && math.Abs(n.Y-1) < tol:
			return FacadeBack
		case math.Abs(n.Y) < tol && math.Abs(n.X+1) < tol:
			return FacadeLeft
		case math.Abs(n.Y) < tol && math.Abs(n.X-1) < tol:
			return FacadeRight
		}
		return FacadeNone
	}
	switch {
	case math.Abs(n.X) < tol && n.Y < -tol:
		return FacadeFront
	case math.Abs(n.X) < tol && n.Y > tol:
		return FacadeBack
	case math.Abs(n.Y) < tol && n.X < -tol:
		return FacadeLeft
	case math.Abs(n.Y) < tol && n.X > tol:
		return FacadeRight
	}
	return FacadeNone
}

// Facade classifies p by its outward normal.
func (p Polygon) Facade() Facade { return FacadeOf(p.Normal()) }
