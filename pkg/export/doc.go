// Package export writes diagnostic views of an envelope.
//
// [Plan] flattens floors, shading and openings into a GeoJSON
// FeatureCollection in the building's local plan coordinates, which any
// GeoJSON viewer can draw. [AdjacencyDOT] describes which spaces touch
// which, and through what boundary condition, as a Graphviz graph that
// [RenderSVG] lays out.
//
// Neither is a rendering of the building; the JSON model written by
// package io remains the canonical output.
package export
