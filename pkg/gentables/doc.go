// Package gentables loads the per-biome data tables a Feature Generator (C2)
// draws from: skill vocabularies, embellishment names, and failure-consequence
// flavors. Tables are authored as YAML and loaded once at startup, the same way
// the reference generator's theme packs are.
package gentables
