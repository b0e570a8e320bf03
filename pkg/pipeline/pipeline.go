// Package pipeline runs a complete envelope build for the CLI and the API.
//
// A build has four stages:
//
//  1. Massing: mass the configured building and finalize its boundaries
//  2. Door: place the entry door
//  3. Windows: allocate and place windows on each facade
//  4. Skylights: place skylights on the roof
//
// Stages 2-4 run only when their options are set. The door goes first so
// windows avoid the wall strip it occupies.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Name: "ranch",
//	    Building: pipeline.Building{Detached: &massing.DetachedConfig{
//	        CFA: 1800, WallHeight: 8, NumFloors: 1, AspectRatio: 1.5,
//	        Roof: massing.Roof{Type: massing.RoofGable, Pitch: 6.0 / 12},
//	    }},
//	    Windows: &fenestration.WindowParams{
//	        WWR: map[geom.Facade]float64{geom.FacadeFront: 0.18},
//	    },
//	}
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/massform/pkg/cache"
	"github.com/matzehuels/massform/pkg/diag"
	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/fenestration"
	"github.com/matzehuels/massform/pkg/massing"
	"github.com/matzehuels/massform/pkg/model"
)

// DefaultOrientation faces the front facade south.
const DefaultOrientation = 180.0

// DefaultName names a building whose options leave Name empty.
const DefaultName = "building"

// Building holds exactly one building configuration.
type Building struct {
	Detached    *massing.DetachedConfig    `json:"detached,omitempty"`
	Attached    *massing.AttachedConfig    `json:"attached,omitempty"`
	Multifamily *massing.MultifamilyConfig `json:"multifamily,omitempty"`
}

// Config returns the single configured building.
func (b Building) Config() (massing.Config, error) {
	var out []massing.Config
	if b.Detached != nil {
		out = append(out, *b.Detached)
	}
	if b.Attached != nil {
		out = append(out, *b.Attached)
	}
	if b.Multifamily != nil {
		out = append(out, *b.Multifamily)
	}
	switch len(out) {
	case 1:
		return out[0], nil
	case 0:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no building configured")
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "more than one building configured")
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one envelope build. It doubles as the API request body.
type Options struct {
	Name        string                       `json:"name,omitempty"`
	Building    Building                     `json:"building"`
	Door        *float64                     `json:"door_area,omitempty"` // ft²
	Windows     *fenestration.WindowParams   `json:"windows,omitempty"`
	Skylights   *fenestration.SkylightParams `json:"skylights,omitempty"`
	Orientation *float64                     `json:"orientation,omitempty"` // degrees the front faces
	Refresh     bool                         `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Sink   diag.Sink   `json:"-"` // receives diagnostics alongside the result

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent. Building parameters are validated by the builders themselves.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if _, err := o.Building.Config(); err != nil {
		return err
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
	if err := errors.ValidateBuildingName(o.Name); err != nil {
		return err
	}
	if o.Orientation == nil {
		v := DefaultOrientation
		o.Orientation = &v
	}
	if err := ValidateOrientation(*o.Orientation); err != nil {
		return err
	}
	if o.Windows != nil && o.Windows.AspectRatio == 0 {
		w := *o.Windows
		w.AspectRatio = fenestration.DefaultWindowAspectRatio
		o.Windows = &w
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateOrientation checks an azimuth in degrees.
func ValidateOrientation(deg float64) error {
	return errors.ValidateRange("Orientation", deg, 0, 360)
}

// Variant is the configured building type.
func (o *Options) Variant() massing.Variant {
	c, err := o.Building.Config()
	if err != nil {
		return ""
	}
	return c.Variant()
}

// configHash hashes everything that shapes the envelope.
func (o *Options) configHash() (string, error) {
	return cache.HashJSON(struct {
		Name      string                       `json:"name"`
		Building  Building                     `json:"building"`
		Door      *float64                     `json:"door_area"`
		Windows   *fenestration.WindowParams   `json:"windows"`
		Skylights *fenestration.SkylightParams `json:"skylights"`
	}{o.Name, o.Building, o.Door, o.Windows, o.Skylights})
}

// EnvelopeKeyOpts returns the cache key options for the build.
func (o *Options) EnvelopeKeyOpts() cache.EnvelopeKeyOpts {
	opts := cache.EnvelopeKeyOpts{
		Variant:   string(o.Variant()),
		Windows:   o.Windows != nil,
		Skylights: o.Skylights != nil,
		Door:      o.Door != nil,
	}
	if o.Orientation != nil {
		opts.Orientation = *o.Orientation
	}
	return opts
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	Envelope    *model.Envelope
	Diagnostics []diag.Message

	// Hash is the content hash of the build options, shared by every
	// build that would produce the same envelope.
	Hash string

	Stats    Stats
	CacheHit bool
}

// Stats contains counts and timings of a run. Timings are zero on a
// cache hit.
type Stats struct {
	Surfaces    int
	SubSurfaces int
	Windows     int
	Skylights   int
	Doors       int
	WindowArea  float64 // ft²

	MassingTime   time.Duration
	PlacementTime time.Duration
}

func countStats(e *model.Envelope) Stats {
	s := Stats{Surfaces: len(e.Surfaces()), SubSurfaces: len(e.SubSurfaces())}
	for _, ss := range e.SubSurfaces() {
		switch ss.Kind {
		case model.Window:
			s.Windows++
			s.WindowArea += ss.Polygon.Area()
		case model.Skylight:
			s.Skylights++
		case model.Door:
			s.Doors++
		}
	}
	return s
}
