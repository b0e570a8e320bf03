package cli

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/fenestration"
	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/massing"
	"github.com/matzehuels/massform/pkg/pipeline"
	"github.com/matzehuels/massform/pkg/units"
)

// buildingFile is the TOML layout of a building config:
//
//	name = "ranch"
//	units = "IP"          # or "SI": m, m², lengths converted to ft
//	orientation = 180
//	door_area = 20
//
//	[detached]
//	cfa = 1800
//	wall_height = 8
//	num_floors = 1
//	aspect_ratio = 1.5
//	attic = "vented"
//	foundation = { type = "crawlspace-vented", height = 3 }
//	roof = { type = "gable", pitch = "6:12" }
//
//	[windows]
//	wwr = { front = 0.18, back = 0.18 }
//	area = { left = 20 }
//
//	[skylights]
//	area = { front = 10 }
type buildingFile struct {
	Name        string   `toml:"name"`
	Units       string   `toml:"units"`
	Orientation *float64 `toml:"orientation"`
	DoorArea    *float64 `toml:"door_area"`

	Detached    *buildingSection `toml:"detached"`
	Attached    *buildingSection `toml:"attached"`
	Multifamily *buildingSection `toml:"multifamily"`

	Windows   *windowsSection   `toml:"windows"`
	Skylights *skylightsSection `toml:"skylights"`
}

// buildingSection holds the parameters of every building type; each
// builder reads the ones it needs.
type buildingSection struct {
	CFA         float64 `toml:"cfa"`
	WallHeight  float64 `toml:"wall_height"`
	NumFloors   int     `toml:"num_floors"`
	NumUnits    int     `toml:"num_units"`
	AspectRatio float64 `toml:"aspect_ratio"`

	Foundation struct {
		Type           massing.FoundationType `toml:"type"`
		Height         float64                `toml:"height"`
		RimJoistHeight *float64               `toml:"rim_joist_height"`
	} `toml:"foundation"`
	Attic massing.AtticType `toml:"attic"`
	Roof  struct {
		Type  massing.RoofType `toml:"type"`
		Pitch string           `toml:"pitch"`
	} `toml:"roof"`

	Garage *struct {
		Width      float64      `toml:"width"`
		Depth      float64      `toml:"depth"`
		Protrusion float64      `toml:"protrusion"`
		Position   massing.Side `toml:"position"`
	} `toml:"garage"`

	Level              *massing.Level              `toml:"level"`
	HorizontalLocation *massing.HorizontalLocation `toml:"horizontal_location"`
	Corridor           *struct {
		Position massing.CorridorPosition `toml:"position"`
		Width    float64                  `toml:"width"`
	} `toml:"corridor"`
	Inset *struct {
		Width        float64      `toml:"width"`
		Depth        float64      `toml:"depth"`
		Position     massing.Side `toml:"position"`
		BalconyDepth float64      `toml:"balcony_depth"`
	} `toml:"inset"`
}

type windowsSection struct {
	WWR         map[string]float64 `toml:"wwr"`
	Area        map[string]float64 `toml:"area"`
	AspectRatio float64            `toml:"aspect_ratio"`
}

type skylightsSection struct {
	Area map[string]float64 `toml:"area"`
}

// loadConfig reads a building config file into pipeline options. The
// building name defaults to the file name without extension.
func loadConfig(path string) (pipeline.Options, error) {
	if err := errors.ValidatePath(path); err != nil {
		return pipeline.Options{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pipeline.Options{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config not found: %s", path)
		}
		return pipeline.Options{}, err
	}
	opts, err := parseConfig(data)
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: %v", path, err)
	}
	if opts.Name == "" {
		opts.Name = baseName(path)
	}
	return opts, nil
}

// parseConfig decodes a TOML building config.
func parseConfig(data []byte) (pipeline.Options, error) {
	var f buildingFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return pipeline.Options{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}

	conv := func(v float64, unit string) float64 { return v }
	switch strings.ToUpper(f.Units) {
	case "", "IP":
	case "SI":
		conv = func(v float64, unit string) float64 {
			si := map[string]string{"ft": "m", "ft^2": "m^2"}[unit]
			return units.MustConvert(v, si, unit)
		}
	default:
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidUnit, "unknown unit system %q (must be IP or SI)", f.Units)
	}

	opts := pipeline.Options{Name: f.Name, Orientation: f.Orientation}
	if f.DoorArea != nil {
		a := conv(*f.DoorArea, "ft^2")
		opts.Door = &a
	}

	if s := f.Detached; s != nil {
		c, err := s.detached(conv)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Building.Detached = &c
	}
	if s := f.Attached; s != nil {
		c, err := s.attached(conv)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Building.Attached = &c
	}
	if s := f.Multifamily; s != nil {
		c := s.multifamily(conv)
		opts.Building.Multifamily = &c
	}

	if w := f.Windows; w != nil {
		p := fenestration.WindowParams{AspectRatio: w.AspectRatio}
		if p.WWR, err = facadeMap(w.WWR, func(v float64) float64 { return v }); err != nil {
			return pipeline.Options{}, err
		}
		if p.Area, err = facadeMap(w.Area, func(v float64) float64 { return conv(v, "ft^2") }); err != nil {
			return pipeline.Options{}, err
		}
		opts.Windows = &p
	}
	if sk := f.Skylights; sk != nil {
		area, err := facadeMap(sk.Area, func(v float64) float64 { return conv(v, "ft^2") })
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Skylights = &fenestration.SkylightParams{Area: area}
	}
	return opts, nil
}

func facadeMap(in map[string]float64, conv func(float64) float64) (map[geom.Facade]float64, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[geom.Facade]float64, len(in))
	for k, v := range in {
		f, err := geom.ParseFacade(k)
		if err != nil {
			return nil, err
		}
		if f == geom.FacadeNone {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "facade %q cannot take openings", k)
		}
		out[f] = conv(v)
	}
	return out, nil
}

type converter func(v float64, unit string) float64

func (s *buildingSection) foundation(conv converter) massing.Foundation {
	f := massing.Foundation{Type: s.Foundation.Type, Height: conv(s.Foundation.Height, "ft")}
	if r := s.Foundation.RimJoistHeight; r != nil {
		v := conv(*r, "ft")
		f.RimJoistHeight = &v
	}
	return f
}

func (s *buildingSection) roof() (massing.Roof, error) {
	r := massing.Roof{Type: s.Roof.Type}
	if s.Roof.Pitch == "" {
		return r, nil
	}
	p, err := massing.ParsePitch(s.Roof.Pitch)
	if err != nil {
		return r, err
	}
	r.Pitch = p
	return r, nil
}

func (s *buildingSection) corridor(conv converter) *massing.Corridor {
	if s.Corridor == nil {
		return nil
	}
	return &massing.Corridor{Position: s.Corridor.Position, Width: conv(s.Corridor.Width, "ft")}
}

func (s *buildingSection) detached(conv converter) (massing.DetachedConfig, error) {
	roof, err := s.roof()
	if err != nil {
		return massing.DetachedConfig{}, err
	}
	c := massing.DetachedConfig{
		CFA:         conv(s.CFA, "ft^2"),
		WallHeight:  conv(s.WallHeight, "ft"),
		NumFloors:   s.NumFloors,
		AspectRatio: s.AspectRatio,
		Foundation:  s.foundation(conv),
		Attic:       s.Attic,
		Roof:        roof,
	}
	if g := s.Garage; g != nil {
		c.Garage = &massing.Garage{
			Width:      conv(g.Width, "ft"),
			Depth:      conv(g.Depth, "ft"),
			Protrusion: g.Protrusion,
			Position:   g.Position,
		}
	}
	return c, nil
}

func (s *buildingSection) attached(conv converter) (massing.AttachedConfig, error) {
	roof, err := s.roof()
	if err != nil {
		return massing.AttachedConfig{}, err
	}
	return massing.AttachedConfig{
		CFA:                conv(s.CFA, "ft^2"),
		WallHeight:         conv(s.WallHeight, "ft"),
		NumFloors:          s.NumFloors,
		NumUnits:           s.NumUnits,
		AspectRatio:        s.AspectRatio,
		Foundation:         s.foundation(conv),
		Attic:              s.Attic,
		Roof:               roof,
		HorizontalLocation: s.HorizontalLocation,
		Corridor:           s.corridor(conv),
	}, nil
}

func (s *buildingSection) multifamily(conv converter) massing.MultifamilyConfig {
	c := massing.MultifamilyConfig{
		CFA:                conv(s.CFA, "ft^2"),
		WallHeight:         conv(s.WallHeight, "ft"),
		NumFloors:          s.NumFloors,
		NumUnits:           s.NumUnits,
		AspectRatio:        s.AspectRatio,
		Foundation:         s.foundation(conv),
		Level:              s.Level,
		HorizontalLocation: s.HorizontalLocation,
		Corridor:           s.corridor(conv),
	}
	if in := s.Inset; in != nil {
		c.Inset = &massing.Inset{
			Width:        conv(in.Width, "ft"),
			Depth:        conv(in.Depth, "ft"),
			Position:     in.Position,
			BalconyDepth: conv(in.BalconyDepth, "ft"),
		}
	}
	return c
}
