// Package massing builds the envelope geometry of residential buildings.
//
// Each building type has a config struct and a builder that populates an
// empty [model.Building]: living floors, garage, attic, foundation and rim
// joist, followed by a boundary pass that matches shared surfaces and
// assigns adiabatic, ground and foundation boundaries.
//
// # Coordinates
//
// x runs east along the front of the building, y runs north and z up. The
// front facade faces -y. A detached house occupies [0,L]x[0,W] with its
// garage protruding toward -y. Attached and multifamily units occupy
// [0,x]x[-y,0], so the front wall sits at y=-y and the unit behind (if
// any) starts at y=0.
//
// # Diagnostics
//
// Builders report validation failures on the sink's error channel and
// return them. Inputs the builder corrects on its own (an impossible
// horizontal location, a corridor that cannot exist) are reported as
// warnings.
package massing

import (
	"github.com/matzehuels/massform/pkg/diag"
	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/model"
)

// Variant names a building type.
type Variant string

const (
	VariantDetached    Variant = "single-family-detached"
	VariantAttached    Variant = "single-family-attached"
	VariantMultifamily Variant = "apartment-unit"
)

// Config is a building configuration that knows how to mass itself.
type Config interface {
	Variant() Variant
	Build(b *model.Building, sink diag.Sink) error
}

// maxFloors is the tallest detached house supported.
const maxFloors = 6

// DetachedConfig describes a single-family detached house.
type DetachedConfig struct {
	CFA         float64    `json:"cfa"`         // ft2, including a conditioned basement or attic
	WallHeight  float64    `json:"wall_height"` // ft per story
	NumFloors   int        `json:"num_floors"`  // above grade, counting a conditioned attic
	AspectRatio float64    `json:"aspect_ratio"`
	Foundation  Foundation `json:"foundation"`
	Attic       AtticType  `json:"attic"`
	Roof        Roof       `json:"roof"`
	Garage      *Garage    `json:"garage,omitempty"`
}

func (DetachedConfig) Variant() Variant { return VariantDetached }

func (c DetachedConfig) Build(b *model.Building, sink diag.Sink) error { return Detached(b, c, sink) }

// AttachedConfig describes one unit of a row of single-family attached
// houses (townhouses).
type AttachedConfig struct {
	CFA         float64    `json:"cfa"` // ft2 of the unit
	WallHeight  float64    `json:"wall_height"`
	NumFloors   int        `json:"num_floors"`
	NumUnits    int        `json:"num_units"`
	AspectRatio float64    `json:"aspect_ratio"`
	Foundation  Foundation `json:"foundation"`
	Attic       AtticType  `json:"attic"`
	Roof        Roof       `json:"roof"`

	// HorizontalLocation defaults to none, valid only for a single unit.
	HorizontalLocation *HorizontalLocation `json:"horizontal_location,omitempty"`

	// Corridor is only consulted for its position: a double exterior
	// corridor means the row is backed by a second row of units.
	Corridor *Corridor `json:"corridor,omitempty"`
}

func (AttachedConfig) Variant() Variant { return VariantAttached }

func (c AttachedConfig) Build(b *model.Building, sink diag.Sink) error { return Attached(b, c, sink) }

// MultifamilyConfig describes one apartment unit in a multifamily building.
// The unit is a single story; NumFloors and NumUnits describe the building
// it sits in.
type MultifamilyConfig struct {
	CFA         float64    `json:"cfa"`
	WallHeight  float64    `json:"wall_height"`
	NumFloors   int        `json:"num_floors"`
	NumUnits    int        `json:"num_units"`
	AspectRatio float64    `json:"aspect_ratio"`
	Foundation  Foundation `json:"foundation"`

	Level              *Level              `json:"level,omitempty"` // defaults to bottom
	HorizontalLocation *HorizontalLocation `json:"horizontal_location,omitempty"`
	Corridor           *Corridor           `json:"corridor,omitempty"`
	Inset              *Inset              `json:"inset,omitempty"`
}

func (MultifamilyConfig) Variant() Variant { return VariantMultifamily }

func (c MultifamilyConfig) Build(b *model.Building, sink diag.Sink) error {
	return Multifamily(b, c, sink)
}

// checkEmpty rejects a building that already holds geometry.
func checkEmpty(b *model.Building) error {
	if !b.IsEmpty() {
		return errors.New(errors.ErrCodeInvalidState, "Starting model is not empty.")
	}
	return nil
}

// checkCommon validates the dimensions every builder needs.
func checkCommon(cfa, wallHeight float64, floors int, f Foundation) error {
	if err := errors.ValidatePositive("Conditioned floor area", cfa); err != nil {
		return err
	}
	if err := errors.ValidatePositive("Wall height", wallHeight); err != nil {
		return err
	}
	if err := errors.ValidateCount("Number of floors", floors, 1); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("Foundation height", f.Height); err != nil {
		return err
	}
	return errors.ValidateNonNegative("Rim joist height", f.rim())
}

func checkRoof(r Roof) error {
	if r.Type == RoofFlat {
		return nil
	}
	return errors.ValidatePositive("Roof pitch", r.Pitch)
}

func checkCrawlspace(f Foundation) error {
	if f.Type.IsCrawlspace() && (f.Height < 1.5 || f.Height > 5) {
		return errors.New(errors.ErrCodeInvalidInput, "The crawlspace height can be set between 1.5 and 5 ft.")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidInput, format, args...)
}
