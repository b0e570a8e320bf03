// Package pkg provides the core libraries for Massform residential envelope
// generation.
//
// # Overview
//
// Massform turns a handful of dimensional parameters (conditioned floor
// area, wall height, story count, foundation, attic and roof) into the
// surfaces of a residential building, then places its door, windows and
// skylights. The pkg directory is organized into three areas:
//
//  1. Geometry and model - [geom], [units], [model]
//  2. Domain logic - [footprint], [massing], [fenestration]
//  3. Orchestration and output - [pipeline], [cache], [io], [export]
//
// # Architecture
//
// The typical data flow through Massform:
//
//	Building config (TOML, JSON request)
//	         ↓
//	    [massing] package (footprint, stories, foundation, attic, roof)
//	         ↓
//	    [model] package (match interzone surfaces, finalize envelope)
//	         ↓
//	    [fenestration] package (door, windows, skylights)
//	         ↓
//	    model JSON, GeoJSON plan, adjacency DOT/SVG
//
// # Quick Start
//
// Build a one-story ranch with a door and windows:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/massform/pkg/diag"
//	    "github.com/matzehuels/massform/pkg/fenestration"
//	    "github.com/matzehuels/massform/pkg/geom"
//	    "github.com/matzehuels/massform/pkg/massing"
//	    "github.com/matzehuels/massform/pkg/pipeline"
//	)
//
//	door := 20.0
//	env, err := pipeline.Build(context.Background(), pipeline.Options{
//	    Name: "ranch",
//	    Building: pipeline.Building{Detached: &massing.DetachedConfig{
//	        CFA: 1800, WallHeight: 8, NumFloors: 1, AspectRatio: 1.5,
//	        Roof: massing.Roof{Type: massing.RoofGable, Pitch: 0.5},
//	    }},
//	    Door: &door,
//	    Windows: &fenestration.WindowParams{
//	        WWR: map[geom.Facade]float64{geom.FacadeFront: 0.18},
//	    },
//	}, diag.Nop{})
//
// # Main Packages
//
// ## Geometry and Model
//
// [geom] - Planar polygons in three dimensions: area, tilt, facade
// classification, prisms and rectangle splitting.
//
// [units] - Unit conversion and number formatting for ft, m and their
// squares and cubes.
//
// [model] - The building graph of zones, spaces, surfaces, sub-surfaces,
// shading and units. A [model.Building] is mutable while massing runs;
// [model.Finalize] matches shared surfaces and freezes it into a
// [model.Envelope].
//
// ## Domain Logic
//
// [footprint] - Footprint rectangles from floor area and aspect ratio.
//
// [massing] - The three building variants: detached single-family,
// single-family attached, and apartment units.
//
// [fenestration] - Door, window and skylight placement on a finalized
// envelope.
//
// ## Orchestration and Output
//
// [pipeline] - Validation, massing, placement and caching in one call.
// [pipeline.Runner] fans builds out over a worker pool.
//
// [cache] - Envelope and artifact caching on the file system, Redis or
// MongoDB.
//
// [io] - The model JSON document.
//
// [export] - GeoJSON floor plans and Graphviz adjacency graphs.
//
// ## Supporting Packages
//
// [diag] - Error, warning and info messages reported while building.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hooks for metrics around stages, cache and HTTP.
//
// [buildinfo] - Version information set at link time.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/geom
// [units]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/units
// [model]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/model
// [model.Building]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/model#Building
// [model.Finalize]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/model#Finalize
// [model.Envelope]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/model#Envelope
// [footprint]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/footprint
// [massing]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/massing
// [fenestration]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/fenestration
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/io
// [export]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/export
// [diag]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/diag
// [errors]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/massform/pkg/buildinfo
package pkg
