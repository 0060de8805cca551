// Package validation implements the Blueprint Validator (C3): a pure, I/O-free
// check of a blueprint's structural invariants. A generator calls it after
// assembly; a blueprint that fails validation is a generator bug and aborts
// the location.
package validation
