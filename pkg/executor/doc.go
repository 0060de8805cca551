// Package executor implements the two LM roles of spec §4.C6: the Director,
// which proposes candidate ActionChoices, and the Narrator, which produces
// outcome prose for whichever one the player picked. Both submit through a
// transport.Pool slot with a grammar attached and treat a validation failure
// or timeout as a hard failure — this package never substitutes mock content.
package executor
