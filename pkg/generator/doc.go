// Package generator implements the Feature Generator (C2): one deterministic
// generator per location_type, each producing a sensory context string and a
// validated Blueprint from a location id and nothing else.
package generator
