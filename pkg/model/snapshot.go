package model

import "github.com/google/uuid"

// Snapshot is a plain-data copy of an envelope used for serialization.
type Snapshot struct {
	Name        string
	Orientation float64
	Seq         int
	Zones       []Zone
	Spaces      []Space
	Surfaces    []Surface
	SubSurfaces []SubSurface
	Shading     []Shading
	Units       []Unit
}

// Snapshot copies the envelope into plain data.
func (e *Envelope) Snapshot() Snapshot {
	g := e.graph.clone()
	s := Snapshot{Name: g.Name, Orientation: e.Orientation, Seq: e.seq}
	for _, z := range g.zones {
		s.Zones = append(s.Zones, *z)
	}
	for _, sp := range g.spaces {
		s.Spaces = append(s.Spaces, *sp)
	}
	for _, sf := range g.surfaces {
		s.Surfaces = append(s.Surfaces, *sf)
	}
	for _, ss := range g.subSurfaces {
		s.SubSurfaces = append(s.SubSurfaces, *ss)
	}
	for _, sh := range g.shading {
		s.Shading = append(s.Shading, *sh)
	}
	for _, u := range g.units {
		s.Units = append(s.Units, *u)
	}
	return s
}

// FromSnapshot rebuilds and validates an envelope.
func FromSnapshot(s Snapshot) (*Envelope, error) {
	g := graph{Name: s.Name}
	for i := range s.Zones {
		z := s.Zones[i]
		g.zones = append(g.zones, &z)
	}
	for i := range s.Spaces {
		sp := s.Spaces[i]
		g.spaces = append(g.spaces, &sp)
	}
	for i := range s.Surfaces {
		sf := s.Surfaces[i]
		g.surfaces = append(g.surfaces, &sf)
	}
	for i := range s.SubSurfaces {
		ss := s.SubSurfaces[i]
		g.subSurfaces = append(g.subSurfaces, &ss)
	}
	for i := range s.Shading {
		sh := s.Shading[i]
		g.shading = append(g.shading, &sh)
	}
	for i := range s.Units {
		u := s.Units[i]
		g.units = append(g.units, &u)
	}
	g = g.clone()
	e := &Envelope{
		graph:       g,
		ns:          uuid.NewSHA1(namespace, []byte(s.Name)),
		seq:         s.Seq,
		Orientation: s.Orientation,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}
