// Package export encodes cadastral feature geometry as CSV, GeoJSON and KML
// documents and writes them below an output root.
//
// Encoders are side-effect free: they build the whole document in memory and
// never touch the caller's feature data. Writing goes through ResolvePath and
// WriteFile, which create the per-format directory and replace the target file
// atomically.
//
// Every format uses one axis convention: coordinates are stored and written as
// (longitude, latitude). Options.SwapAxes flips each point, on a copy, for all
// formats and for single and batch exports alike.
package export
