// Package export provides the persistent JSON format for
// instance.LocationInstanceState (spec §6) and an SVG debug diagram of a
// blueprint's sublocation graph, for inspecting what a generator produced.
package export
