// Package io provides JSON import and export for finalized envelopes.
//
// # Overview
//
// The JSON document is massform's own model dump. It is what `massform build`
// writes, what the HTTP API returns, what the cache stores, and what
// `massform inspect`, `graph` and `plan` read back. It is not a simulation
// input format.
//
// # JSON Format
//
//	{
//	  "name": "ranch",
//	  "orientation": 180,
//	  "seq": 57,
//	  "zones": [{"id": "…", "name": "living space", "conditioned": true}],
//	  "spaces": [{"id": "…", "name": "living space", "zone_id": "…", "role": "living", "z_origin": 1}],
//	  "surfaces": [
//	    {
//	      "id": "…", "name": "Surface 3", "space_id": "…",
//	      "kind": "Wall", "boundary": "Outdoors",
//	      "vertices": [{"x": 0, "y": 0, "z": 1}, …],
//	      "area": 320, "tilt": 90, "facade": "front", "azimuth": 180
//	    }
//	  ],
//	  "sub_surfaces": [{"id": "…", "name": "Window 61", "host_id": "…", "kind": "Window", "vertices": […]}],
//	  "shading": [],
//	  "units": [{"id": "…", "name": "unit 1", "space_ids": ["…"]}]
//	}
//
// area, tilt, facade and azimuth are derived from the vertices on export and
// ignored on import. azimuth is the compass direction the surface faces for
// the envelope's orientation; it is 0 for horizontal surfaces.
//
// # Import
//
// Use [ImportJSON] to read an envelope from a file path, or [ReadJSON] to
// read from any io.Reader. Both validate adjacency symmetry and opening
// placement, so a hand-edited document that breaks either is rejected.
//
// # Export
//
// Use [ExportJSON] to write to a file, or [WriteJSON] to write to any
// io.Writer. Export followed by import reproduces the envelope, including
// the id sequence, so openings added afterwards get the same ids.
package io
