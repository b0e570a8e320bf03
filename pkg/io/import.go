package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/massform/pkg/model"
)

// ReadJSON decodes a JSON envelope from r.
//
// Derived fields (area, tilt, facade, azimuth) are ignored; they are
// recomputed from the vertices whenever they are needed. ReadJSON returns an
// error if the JSON is malformed or if the decoded envelope fails
// [model.Envelope.Validate]. It does not close r.
func ReadJSON(r io.Reader) (*model.Envelope, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	snap := model.Snapshot{
		Name:        data.Name,
		Orientation: data.Orientation,
		Seq:         data.Seq,
		Zones:       data.Zones,
		Spaces:      data.Spaces,
		Shading:     data.Shading,
		Units:       data.Units,
	}
	for _, s := range data.Surfaces {
		snap.Surfaces = append(snap.Surfaces, s.Surface)
	}
	for _, s := range data.SubSurfaces {
		snap.SubSurfaces = append(snap.SubSurfaces, s.SubSurface)
	}

	e, err := model.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("envelope %s: %w", data.Name, err)
	}
	return e, nil
}

// ImportJSON reads a JSON file at path and returns the decoded envelope.
// The error wraps the underlying cause with the file path for context.
func ImportJSON(path string) (*model.Envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
