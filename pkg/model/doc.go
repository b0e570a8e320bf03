// Package model holds the building graph massform builds: zones, spaces,
// planar surfaces, openings, shading planes and dwelling units.
//
// A build has two phases. Massing builders populate a mutable [Building],
// call [Building.Match] to split and link shared surfaces, settle boundary
// conditions, and then call [Finalize]. Finalize validates adjacency and
// returns an [Envelope], an independent copy on which placement may only add
// or remove openings and split doored walls.
//
// Vertices are stored in building coordinates; [Space.Origin] records the
// elevation of a space's floor. Ids are name-based UUIDs derived from the
// building name and creation order, so a build is reproducible byte for byte.
package model
