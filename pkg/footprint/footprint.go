// Package footprint sizes the rectangular footprint of a building from its
// conditioned floor area.
package footprint

import (
	"math"

	"github.com/matzehuels/massform/pkg/errors"
)

// Params are the inputs of Solve. Lengths are in feet, areas in square feet.
type Params struct {
	CFA         float64 // conditioned floor area
	AspectRatio float64 // length / width
	NumFloors   int     // floors above grade, counting a conditioned attic

	GarageWidth      float64
	GarageDepth      float64
	GarageProtrusion float64 // fraction of the garage depth outside the footprint

	ConditionedBasement bool
	ConditionedAttic    bool
}

// Result is a solved footprint.
type Result struct {
	Area   float64 `json:"area"`
	Width  float64 `json:"width"`  // extent along y
	Length float64 `json:"length"` // extent along x

	// Floors is NumFloors less one when the attic is conditioned.
	Floors int `json:"floors"`
}

// HasGarage reports whether the params describe a garage.
func (p Params) HasGarage() bool {
	return p.GarageWidth*p.GarageDepth > 0
}

// Solve computes the footprint that yields the requested conditioned floor
// area once the garage is carved out and floors over a protruding garage
// are credited.
func Solve(p Params) (Result, error) {
	if err := checkAspect(p.AspectRatio); err != nil {
		return Result{}, err
	}
	n := p.NumFloors
	if p.ConditionedAttic {
		n--
	}
	if n < 1 {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "Number of floors above grade must be at least 1.")
	}

	garageArea := p.GarageWidth * p.GarageDepth
	var inside float64
	if p.HasGarage() {
		inside = garageArea * (1 - p.GarageProtrusion)
	}
	bonus := garageArea * p.GarageProtrusion
	nf := float64(n)

	var area float64
	switch {
	case p.ConditionedBasement && p.ConditionedAttic:
		area = (p.CFA + 2*inside - nf*bonus) / (nf + 2)
	case p.ConditionedBasement:
		area = (p.CFA + 2*inside - (nf-1)*bonus) / (nf + 1)
	case p.ConditionedAttic:
		area = (p.CFA + inside - nf*bonus) / (nf + 1)
	default:
		area = (p.CFA + inside - (nf-1)*bonus) / nf
	}

	r, err := dimensions(area, p.AspectRatio)
	if err != nil {
		return Result{}, err
	}
	r.Floors = n

	effDepth := (1 - p.GarageProtrusion) * p.GarageDepth
	if (p.GarageWidth > r.Length && p.GarageDepth > 0) ||
		(effDepth > r.Width && p.GarageWidth > 0) ||
		(effDepth == r.Width && p.GarageWidth == r.Length) {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "Invalid living space and garage dimensions.")
	}
	return r, nil
}

// SolveUnit sizes one attached dwelling unit: the conditioned area is spread
// over the above-grade floors plus a conditioned basement and attic.
func SolveUnit(cfa, aspectRatio float64, numFloors int, conditionedBasement, conditionedAttic bool) (Result, error) {
	if err := checkAspect(aspectRatio); err != nil {
		return Result{}, err
	}
	divisor := float64(numFloors)
	if conditionedBasement {
		divisor++
	}
	if conditionedAttic {
		divisor++
	}
	if divisor <= 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "Number of floors above grade must be at least 1.")
	}
	r, err := dimensions(cfa/divisor, aspectRatio)
	r.Floors = numFloors
	return r, err
}

// SolveInset sizes a single-story apartment whose rectangle includes an
// inset notch of insetWidth x insetDepth that is not conditioned.
func SolveInset(cfa, aspectRatio, insetWidth, insetDepth float64) (Result, error) {
	if err := checkAspect(aspectRatio); err != nil {
		return Result{}, err
	}
	r, err := dimensions(cfa+insetWidth*insetDepth, aspectRatio)
	r.Floors = 1
	return r, err
}

func checkAspect(r float64) error {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "Invalid aspect ratio entered.")
	}
	return nil
}

func dimensions(area, aspect float64) (Result, error) {
	if !(area > 0) || math.IsInf(area, 0) {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "Footprint area must be greater than 0 ft2; check the floor area and garage size.")
	}
	w := math.Sqrt(area / aspect)
	return Result{Area: area, Width: w, Length: area / w}, nil
}
