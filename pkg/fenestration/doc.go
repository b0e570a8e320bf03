// Package fenestration places windows, skylights and doors on a finalized
// [model.Envelope].
//
// Placement never changes massing. The only geometric edit it makes is
// splitting a rectangular wall that carries a door into vertical strips, so
// that the door-free strips can still take windows.
//
// # Window allocation
//
// [AddWindows] turns per-facade window-to-wall ratios or explicit areas into
// per-wall window areas and then into rectangles:
//
//  1. Collect the exterior vertical walls of conditioned spaces by facade
//     and measure the area of each that can take a window at all.
//  2. Split the facade target across its walls by usable area.
//  3. Within each dwelling unit, walk the walls in order; a wall whose share
//     is below the minimum single window area hands it to the walls of the
//     unit not yet visited. The pass is single and order dependent.
//  4. A unit's facade total still below the minimum moves to the unit's
//     facade holding the most window area.
//  5. Shares are scaled up where the walls of a facade hold less than the
//     unit owes it, then each wall is filled with pairs of windows.
//
// Facades whose placed area misses the target by more than 0.1 ft² are
// reported as warnings; a wall that cannot hold its windows is an error.
//
// # Skylights and doors
//
// [AddSkylights] anchors one rectangle per roof surface at the surface
// centroid, proportioned like the roof. Skylight area requested for sloped
// facades is moved onto flat roofs when the building has any.
//
// [AddDoor] puts a single 7 ft door on the lowest-story front wall, the
// back wall when there is no front wall, or the corridor wall of an
// apartment served by an interior corridor.
package fenestration
