// Package instance models per-visit location state (spec §4.C7):
// LocationInstanceState plus a pure Apply transition that turns an
// ActionResult into a new snapshot, never mutating the one it started from.
package instance
