// Package rng provides deterministic random number generation for the narrative
// engine's pipeline stages and per-turn rolls.
package rng
