package massing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/model"
)

// FoundationType selects what sits below the first living floor.
type FoundationType int

const (
	FoundationSlab FoundationType = iota
	FoundationCrawlspaceVented
	FoundationCrawlspaceUnvented
	FoundationBasementUnconditioned
	FoundationBasementConditioned
	FoundationAmbient
	// FoundationOtherHousingUnit is a multifamily unit resting on the unit below.
	FoundationOtherHousingUnit
)

var foundationNames = [...]string{
	"slab",
	"crawlspace-vented",
	"crawlspace-unvented",
	"basement-unconditioned",
	"basement-conditioned",
	"ambient",
	"other-housing-unit",
}

func (f FoundationType) String() string { return enumName(foundationNames[:], int(f)) }

func (f FoundationType) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *FoundationType) UnmarshalText(b []byte) error {
	i, err := parseEnum("foundation type", foundationNames[:], string(b))
	*f = FoundationType(i)
	return err
}

// IsCrawlspace reports whether f is a vented or unvented crawlspace.
func (f FoundationType) IsCrawlspace() bool {
	return f == FoundationCrawlspaceVented || f == FoundationCrawlspaceUnvented
}

// Location is the zone and space name used for the foundation volume.
func (f FoundationType) Location() string {
	switch f {
	case FoundationCrawlspaceVented:
		return model.LocationCrawlspaceVented
	case FoundationCrawlspaceUnvented:
		return model.LocationCrawlspaceUnvented
	case FoundationBasementUnconditioned:
		return model.LocationBasementUnconditioned
	case FoundationBasementConditioned:
		return model.LocationBasementConditioned
	case FoundationAmbient:
		return model.LocationOutside
	case FoundationOtherHousingUnit:
		return model.LocationOtherHousingUnit
	default:
		return ""
	}
}

// AtticType selects how the volume under a pitched roof is treated.
type AtticType int

const (
	AtticVented AtticType = iota
	AtticUnvented
	AtticConditioned
)

var atticNames = [...]string{"vented", "unvented", "conditioned"}

func (a AtticType) String() string { return enumName(atticNames[:], int(a)) }

func (a AtticType) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *AtticType) UnmarshalText(b []byte) error {
	i, err := parseEnum("attic type", atticNames[:], string(b))
	*a = AtticType(i)
	return err
}

func (a AtticType) location() string {
	switch a {
	case AtticUnvented:
		return model.LocationAtticUnvented
	case AtticConditioned:
		return model.LocationLivingSpace
	default:
		return model.LocationAtticVented
	}
}

// RoofType is the roof shape.
type RoofType int

const (
	RoofGable RoofType = iota
	RoofHip
	RoofFlat
)

var roofNames = [...]string{"gable", "hip", "flat"}

func (r RoofType) String() string { return enumName(roofNames[:], int(r)) }

func (r RoofType) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *RoofType) UnmarshalText(b []byte) error {
	i, err := parseEnum("roof type", roofNames[:], string(b))
	*r = RoofType(i)
	return err
}

// Side is the left or right end of a footprint, seen from the front.
type Side int

const (
	SideRight Side = iota
	SideLeft
)

var sideNames = [...]string{"right", "left"}

func (s Side) String() string { return enumName(sideNames[:], int(s)) }

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(b []byte) error {
	i, err := parseEnum("side", sideNames[:], string(b))
	*s = Side(i)
	return err
}

// HorizontalLocation is where a unit sits in its row of units.
type HorizontalLocation int

const (
	HorizontalNone HorizontalLocation = iota
	HorizontalLeft
	HorizontalMiddle
	HorizontalRight
)

var horizontalNames = [...]string{"none", "left", "middle", "right"}

func (h HorizontalLocation) String() string { return enumName(horizontalNames[:], int(h)) }

func (h HorizontalLocation) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *HorizontalLocation) UnmarshalText(b []byte) error {
	i, err := parseEnum("horizontal location", horizontalNames[:], string(b))
	*h = HorizontalLocation(i)
	return err
}

// title is the capitalized name used in diagnostics.
func (h HorizontalLocation) title() string {
	s := h.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// Level is the story a multifamily unit sits on.
type Level int

const (
	LevelBottom Level = iota
	LevelMiddle
	LevelTop
)

var levelNames = [...]string{"bottom", "middle", "top"}

func (l Level) String() string { return enumName(levelNames[:], int(l)) }

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Level) UnmarshalText(b []byte) error {
	i, err := parseEnum("level", levelNames[:], string(b))
	*l = Level(i)
	return err
}

// CorridorPosition selects how units are accessed.
type CorridorPosition int

const (
	CorridorNone CorridorPosition = iota
	CorridorDoubleLoadedInterior
	CorridorDoubleExterior
	CorridorSingleExteriorFront
)

var corridorNames = [...]string{"none", "double-loaded-interior", "double-exterior", "single-exterior-front"}

func (c CorridorPosition) String() string { return enumName(corridorNames[:], int(c)) }

func (c CorridorPosition) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *CorridorPosition) UnmarshalText(b []byte) error {
	i, err := parseEnum("corridor position", corridorNames[:], string(b))
	*c = CorridorPosition(i)
	return err
}

// Foundation describes the volume below the first living floor. Heights
// are in feet.
type Foundation struct {
	Type   FoundationType `json:"type"`
	Height float64        `json:"height"`

	// RimJoistHeight defaults to 0.
	RimJoistHeight *float64 `json:"rim_joist_height,omitempty"`
}

func (f Foundation) rim() float64 {
	if f.RimJoistHeight == nil {
		return 0
	}
	return *f.RimJoistHeight
}

// Roof describes the roof shape. Pitch is rise over run.
type Roof struct {
	Type  RoofType `json:"type"`
	Pitch float64  `json:"pitch"`
}

// Garage is an attached garage on the front of a detached house.
// Protrusion is the fraction of Depth that sticks out past the front of
// the living space.
type Garage struct {
	Width      float64 `json:"width"`
	Depth      float64 `json:"depth"`
	Protrusion float64 `json:"protrusion"`
	Position   Side    `json:"position"`
}

// Corridor describes multifamily unit access.
type Corridor struct {
	Position CorridorPosition `json:"position"`
	Width    float64          `json:"width"`
}

// Inset is a notch at the front corner of a multifamily unit, optionally
// with a balcony over it.
type Inset struct {
	Width        float64 `json:"width"`
	Depth        float64 `json:"depth"`
	Position     Side    `json:"position"`
	BalconyDepth float64 `json:"balcony_depth"`
}

// ParsePitch converts a roof pitch written as "N:12" to rise over run. A
// bare number is accepted as rise over run already.
func ParsePitch(s string) (float64, error) {
	s = strings.TrimSpace(s)
	rise, run, ok := strings.Cut(s, ":")
	if !ok {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid roof pitch %q", s)
		}
		return v, nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(rise), 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid roof pitch %q", s)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(run), 64)
	if err != nil || d == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid roof pitch %q", s)
	}
	return n / d, nil
}

func enumName(names []string, i int) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("unknown(%d)", i)
}

// parseEnum matches case-insensitively, treating spaces, underscores and
// dashes alike, so "Double-Loaded Interior" and "double_loaded_interior"
// both parse.
func parseEnum(kind string, names []string, s string) (int, error) {
	norm := strings.NewReplacer(" ", "-", "_", "-", "(", "", ")", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for i, n := range names {
		if n == norm {
			return i, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown %s %q", kind, s)
}
