// Package engineerr defines the error-kind taxonomy the engine surfaces to
// its callers (spec §7). Every failure the core returns carries one of a
// fixed set of Kinds so a caller (the turn controller, a UI, a test) can
// switch on what went wrong without parsing message text.
package engineerr
