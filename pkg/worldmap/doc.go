// Package worldmap defines the world-map collaborator boundary (spec §6) and
// the Turn Controller (C9): a mode machine over WorldView, Traveling, and
// LocationInteraction that wires external map events into an interaction
// Loop, synthesizing a biome-as-location id when a vertex has no concrete
// location and reusing cached instance state (and its blueprint) on re-entry.
package worldmap
